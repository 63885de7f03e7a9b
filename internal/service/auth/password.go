package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// hashPassword turns a plaintext password into a bcrypt hash. Each call
// uses a fresh random salt, so the stored hash is never reversible.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 8)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// checkPassword verifies a plaintext password against a bcrypt hash.
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
