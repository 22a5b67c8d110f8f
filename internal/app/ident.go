package app

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

const (
	// LobbyCodeLength is the length of lobby codes
	LobbyCodeLength = 5

	// MaxCodeAttempts bounds the search for an unused lobby code
	MaxCodeAttempts = 50
)

// LobbyCodeChars are characters used for lobby codes (no I, O, 0 or 1).
// 32 symbols, so a random byte modulo the length is unbiased.
const LobbyCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewLobbyCode generates a random lobby code. Collisions are the caller's problem.
func NewLobbyCode() (string, error) {
	b := make([]byte, LobbyCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	code := make([]byte, LobbyCodeLength)
	for i := range code {
		code[i] = LobbyCodeChars[int(b[i])%len(LobbyCodeChars)]
	}

	return string(code), nil
}

// NewPlayerID generates an opaque random player ID
func NewPlayerID() string {
	return uuid.NewString()
}

// NewHostSecret generates the 4-digit host recovery code (1000-9999).
// It is a convenience reclaim code shared out loud at the table, not a
// credential: with 9000 values it is trivially guessable.
func NewHostSecret() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generating host secret: %w", err)
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}
