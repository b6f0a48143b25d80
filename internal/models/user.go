package models

import "time"

// User represents an authenticated account. Users are created once at
// registration and never deleted by application logic.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Email is normalized to lowercase before it is stored or looked up.
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	// PasswordHash holds salt + derived key, never the plaintext.
	PasswordHash string `gorm:"size:255;not null" json:"-"`
}
