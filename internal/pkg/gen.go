package pkg

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const (
	gameIDLength   = 8
	gameIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// GenerateGameID - generates a short alphanumeric identifier for a game session.
func GenerateGameID() string {
	b := make([]byte, gameIDLength)
	if _, err := rand.Read(b); err != nil {
		u := uuid.New()
		copy(b, u[:gameIDLength])
	}

	// 256 % 62 != 0, so the first symbols are slightly more likely.
	for i := range b {
		b[i] = gameIDAlphabet[int(b[i])%len(gameIDAlphabet)]
	}

	return string(b)
}

// GenerateConnectionID - generates the identity of a single client connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
