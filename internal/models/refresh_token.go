package models

import (
	"time"
)

// RefreshToken represents a JWT refresh token in the database
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	// Define the relationship to User
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Active reports whether the token can still be exchanged at now.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}
