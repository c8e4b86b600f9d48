package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt ignores everything past 72 bytes.
	bcryptMaxPasswordBytes = 72
	minPasswordChars       = 8
)

var ErrPasswordValidation = errors.New("invalid password")

// IsPasswordValidationError reports errors safe to show to the user.
func IsPasswordValidationError(err error) bool {
	return errors.Is(err, ErrPasswordValidation)
}

// HashPassword validates and hashes a plaintext password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password required", ErrPasswordValidation)
	}
	if utf8.RuneCountInString(plain) < minPasswordChars {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrPasswordValidation, minPasswordChars)
	}
	if len(plain) > bcryptMaxPasswordBytes {
		return "", fmt.Errorf("%w: password too long, bcrypt only supports up to %d bytes", ErrPasswordValidation, bcryptMaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ComparePasswordHash(hash string, plain string) error {
	if plain == "" {
		return fmt.Errorf("%w: password required", ErrPasswordValidation)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
