// Package id generates identifiers for persisted aggregates and care events.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for aggregate identifiers.
const (
	PrefixPlant     = "plant"
	PrefixPlantList = "plist"
	PrefixUser      = "user"
	PrefixToken     = "token"
)

// Generate creates a prefixed NanoID, e.g. "plant-V1StGXR8_Z5jdHi6B-myT".
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewEventID returns a UUIDv7 string. Care events are embedded in their
// plant, so their ids only need to be unique and sortable by creation time.
func NewEventID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate event id: %w", err)
	}
	return u.String(), nil
}
