package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordSymbols is the punctuation set that satisfies the symbol rule.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks a plaintext password against the strength policy:
// at least 8 characters, one digit, one uppercase letter, one lowercase
// letter, and one symbol from PasswordSymbols.
func ValidatePassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}

	var hasDigit, hasUpper, hasLower, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if strings.ContainsRune(PasswordSymbols, r) {
			hasSymbol = true
		}
	}

	return hasDigit && hasUpper && hasLower && hasSymbol
}

// Credential pairs a validated password with its derived hash. The plaintext
// never leaves this value and is dropped with it; only Hash crosses the store
// boundary.
type Credential struct {
	Hash string
}

// NewCredential validates the plaintext against the strength policy and
// derives a salted bcrypt hash. Weak passwords return ErrWeakPassword.
func NewCredential(plaintext string) (*Credential, error) {
	if !ValidatePassword(plaintext) {
		return nil, ErrWeakPassword
	}

	hash, err := HashPassword(plaintext)
	if err != nil {
		return nil, err
	}

	return &Credential{Hash: hash}, nil
}

// VerifyCredential compares a plaintext candidate against a stored hash.
// Comparison cost does not depend on where the mismatch occurs.
func VerifyCredential(plaintext, hash string) error {
	return ComparePasswordAndHash(plaintext, hash)
}
