package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	cost = bcrypt.DefaultCost

	minLength = 8
	// bcrypt ignores everything past 72 bytes
	maxLength = 72
	// attributes shorter than this are too common to reject on
	minAttributeLength = 3
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password cannot be longer than 72 bytes")

	ErrTooShort       = fmt.Errorf("This password is too short. It must contain at least %d characters.", minLength) // nolint:stylecheck
	ErrEntirelyNumber = errors.New("This password is entirely numeric.")                                              // nolint:stylecheck
	ErrTooSimilar     = errors.New("The password is too similar to your account details.")                            // nolint:stylecheck
)

// Strength rejects passwords that are short, all digits, or contain one of the account's
// own attributes (username, email local part, names). Comparison ignores case.
func Strength(password string, attributes ...string) error {
	if len(password) < minLength {
		return ErrTooShort
	}

	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return ErrEntirelyNumber
	}

	lowered := strings.ToLower(password)

	for _, attr := range attributes {
		attr, _, _ = strings.Cut(strings.ToLower(attr), "@")
		if len(attr) >= minAttributeLength && strings.Contains(lowered, attr) {
			return ErrTooSimilar
		}
	}

	return nil
}

func Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > maxLength:
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify returns ErrInvalidPassword on a mismatch and a wrapped error when hash is malformed.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	default:
		return fmt.Errorf("failed to verify password: %w", err)
	}
}
