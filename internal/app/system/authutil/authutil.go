// internal/app/system/authutil/authutil.go

// Package authutil holds password hashing and validation for dashboard
// logins.
package authutil

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Create/Change will accept.
const MinPasswordLength = 8

// bcrypt truncates input beyond 72 bytes; reject instead of silently
// truncating.
const maxPasswordLength = 72

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the password rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return errors.New("password is too long")
	}
	return nil
}

// PasswordRules describes the rules for display in error messages.
func PasswordRules() string {
	return fmt.Sprintf("Passwords must be %d-%d characters.", MinPasswordLength, maxPasswordLength)
}
