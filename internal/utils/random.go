package utils

import (
	"crypto/rand"
	"math/big"
	"path/filepath"

	"github.com/google/uuid"
)

const digits = "0123456789"

// GenerateRandomCode returns an n-digit numeric code for email verification.
func GenerateRandomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		b[i] = digits[idx.Int64()]
	}
	return string(b)
}

// StoredFilename builds a collision-free name for an uploaded file,
// keeping only the original extension.
func StoredFilename(original string) string {
	return uuid.New().String() + filepath.Ext(original)
}
