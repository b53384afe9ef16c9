// Package models contains GORM persistence models for users, fields and
// sensor readings. Domain entities stay free of ORM tags; each model has a
// FromDomain constructor and a ToDomain method.
package models
