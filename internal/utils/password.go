package utils

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds in bytes.  bcrypt rejects input past 72 bytes.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

// ErrPasswordLength is returned by CheckPassword for a password outside the bounds.
var ErrPasswordLength = fmt.Errorf("password must be %d to %d bytes long", MinPasswordLen, MaxPasswordLen)

// CheckPassword validates a new password before it is hashed.
func CheckPassword(plain string) error {
	if len(plain) < MinPasswordLen || len(plain) > MaxPasswordLen {
		return ErrPasswordLength
	}
	if !utf8.ValidString(plain) {
		return errors.New("password must be valid UTF-8")
	}
	return nil
}

// HashPassword returns the bcrypt hash of plain at the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if err := CheckPassword(plain); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
