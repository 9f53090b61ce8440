package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID возвращает случайный ID из 16 hex-символов.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}
