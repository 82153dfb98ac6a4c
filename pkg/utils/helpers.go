package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex generates a random hexadecimal string of length 2n
func RandomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewClientID returns an id for a client that did not send one.
func NewClientID() string {
	return RandomHex(8)
}

// CoinFlip returns a uniformly random bool.
func CoinFlip() bool {
	b := make([]byte, 1)
	_, _ = rand.Read(b)
	return b[0]&1 == 1
}
