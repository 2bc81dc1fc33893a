package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

// User is a registered account. The password exists only as a bcrypt hash
// and the hash never serializes into API responses.
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	ResetToken        string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SetPassword derives a fresh bcrypt hash from the plaintext and stores it.
// It is the only way a password reaches the entity.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// A malformed stored hash fails closed.
func (u *User) VerifyPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}
