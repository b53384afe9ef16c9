package persistence

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerScope restricts a query to rows owned by ownerID. A nil owner
// matches nothing.
func OwnerScope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("owner_id = ?", ownerID)
	}
}

// isDuplicateKey reports whether err is a unique constraint violation.
// Requires gorm.Config.TranslateError.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
