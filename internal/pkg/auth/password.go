/*
Package auth implements the credential service: password hashing and
verification. Token issue/validation lives in the jwt subpackage.
*/
package auth

import "golang.org/x/crypto/bcrypt"

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MaxPasswordLength is capped at bcrypt's 72-byte input limit.
	MaxPasswordLength = 72
)

// HashPassword derives a bcrypt digest from the plain-text password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
