package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered identity with its credentials and profile.
type User struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Username           string     `json:"username" gorm:"size:256;not null"`
	NormalizedUsername string     `json:"-" gorm:"size:256;not null;uniqueIndex"`
	Email              string     `json:"email" gorm:"size:256;not null;uniqueIndex"`
	PasswordHash       string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt          time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `json:"updated_at"`
	BannedUntil        *time.Time `json:"banned_until,omitempty"`
	ProfileImage       []byte     `json:"-"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasProfileImage reports whether a non-empty image is stored.
func (u *User) HasProfileImage() bool {
	return len(u.ProfileImage) > 0
}

// IsBanned reports whether a ban is in effect at now.
func (u *User) IsBanned(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

// RoleNames lists the names of the loaded roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
