// Package auth provides password hashing and access tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PASETO v4.local uses a 256-bit symmetric key.
const keyLength = 32

const keyFileName = "auth.key"

// ParseKeyHex decodes a hex-encoded 32-byte key.
func ParseKeyHex(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != keyLength*2 {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyLength*2, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey reads <dataPath>/auth.key, creating it with a fresh
// random key on first start. The file holds the key hex-encoded.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- path is derived from the configured data directory
	if raw, err := os.ReadFile(keyPath); err == nil {
		return ParseKeyHex(string(raw))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}
	return key, nil
}
