package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	farmapp "github.com/smartfarm/backend/internal/application/farm"
)

const fieldNotFoundMessage = "Field not found"

// FieldHandler handles owner-scoped field CRUD
type FieldHandler struct {
	BaseHandler
	fieldService *farmapp.FieldService
}

// NewFieldHandler creates a new field handler
func NewFieldHandler(fieldService *farmapp.FieldService) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
	}
}

// List returns the caller's fields, newest first.
// GET /fields
func (h *FieldHandler) List(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fields, err := h.fieldService.List(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFieldResponses(fields))
}

// Create adds a field owned by the caller.
// POST /fields
func (h *FieldHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	field, err := h.fieldService.Create(c.Request.Context(), ownerID, farmapp.CreateFieldInput{
		Name:     req.Name,
		CropType: req.CropType,
		Location: req.Location,
		Size:     req.Size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toFieldResponse(field))
}

// Get returns one of the caller's fields.
// GET /fields/:id
func (h *FieldHandler) Get(c *gin.Context) {
	ownerID, fieldID, ok := h.fieldParams(c)
	if !ok {
		return
	}

	field, err := h.fieldService.Get(c.Request.Context(), ownerID, fieldID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFieldResponse(field))
}

// Update overwrites the supplied attributes of one of the caller's fields.
// PUT /fields/:id
func (h *FieldHandler) Update(c *gin.Context) {
	ownerID, fieldID, ok := h.fieldParams(c)
	if !ok {
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	field, err := h.fieldService.Update(c.Request.Context(), ownerID, fieldID, farmapp.UpdateFieldInput{
		Name:     req.Name,
		CropType: req.CropType,
		Location: req.Location,
		Size:     req.Size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFieldResponse(field))
}

// Delete removes one of the caller's fields.
// DELETE /fields/:id
func (h *FieldHandler) Delete(c *gin.Context) {
	ownerID, fieldID, ok := h.fieldParams(c)
	if !ok {
		return
	}

	if err := h.fieldService.Delete(c.Request.Context(), ownerID, fieldID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DeleteFieldResponse{Message: "Field deleted successfully"})
}

// fieldParams resolves the caller and the :id path parameter. An id that
// is not a UUID cannot name an existing field, so it is reported as 404.
func (h *FieldHandler) fieldParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	fieldID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.NotFound(c, fieldNotFoundMessage)
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, fieldID, true
}
