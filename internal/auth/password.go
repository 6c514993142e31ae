package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor applied to every newly set password.
// Hashes written at an older cost remain verifiable; bcrypt embeds the
// cost in the hash itself.
const HashCost = 12

// MinPasswordLength is the floor enforced by ValidatePassword.
const MinPasswordLength = 8

var (
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrPasswordNeedsLetter is returned when a password has no letter.
	ErrPasswordNeedsLetter = errors.New("password must contain at least one letter")
	// ErrPasswordNeedsDigit is returned when a password has no digit.
	ErrPasswordNeedsDigit = errors.New("password must contain at least one digit")
)

// ValidatePassword checks password strength. Registration and
// admin-initiated resets both go through this single function so the two
// paths cannot diverge. The returned error message is user-displayable.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return ErrPasswordNeedsLetter
	}
	if !hasDigit {
		return ErrPasswordNeedsDigit
	}
	return nil
}

// IsPolicyViolation reports whether err is a password policy rejection,
// as opposed to an environment failure. Policy rejections map to 400 with
// the error text as the user-facing reason.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordNeedsLetter) ||
		errors.Is(err, ErrPasswordNeedsDigit)
}

// dummyHash is a valid bcrypt hash of an unguessable value, compared
// against when the user lookup misses so unknown-email and wrong-password
// paths take the same time.
const dummyHash = "$2a$12$K9oJ0sbfOAfmXuhCac0Yf.yYW0f4XSvNqZ1FhOeqvC5TW5rCq0u9W"

// HashPassword hashes a password at the fixed work factor.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyVerify burns one bcrypt comparison. Callers run it on the
// user-not-found path to keep login timing uniform.
func DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
