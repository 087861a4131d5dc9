package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Built-in role names.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role is a named group users can belong to.
type Role struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:256;not null;uniqueIndex"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
