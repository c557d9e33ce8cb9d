package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// tokenPrefix is the prefix used for generated access tokens.
const tokenPrefix = "sgvr_"

// tokenEntropyBytes is the number of random bytes per token (256 bits).
const tokenEntropyBytes = 32

// GenerateAccessToken creates a new random access token string. The token is
// derived solely from the operating system's CSPRNG; no identifier or clock
// component is mixed in.
func GenerateAccessToken() (token string, err error) {
	secret := make([]byte, tokenEntropyBytes)
	if _, err = io.ReadFull(rand.Reader, secret); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	token = tokenPrefix + hex.EncodeToString(secret)
	return token, nil
}

// HideToken obscures a token for logging purposes, showing only the first and last few characters.
func HideToken(token string) string {
	if len(token) > 8 {
		return token[:4] + "..." + token[len(token)-4:]
	} else if len(token) > 4 {
		return token[:2] + "..." + token[len(token)-2:]
	} else if len(token) > 2 {
		return token[:1] + "..." + token[len(token)-1:]
	}
	return token
}
