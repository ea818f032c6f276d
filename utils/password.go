package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsPasswordHash mendeteksi hash bcrypt.
func IsPasswordHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// CheckPassword memverifikasi password terhadap hash bcrypt. Akun lama yang
// masih menyimpan teks biasa dibandingkan persis (case-sensitive).
func CheckPassword(stored, password string) bool {
	if stored == "" {
		return false
	}
	if IsPasswordHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return SecureCompare(stored, password)
}

// SecureCompare membandingkan dua string dalam waktu konstan.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
