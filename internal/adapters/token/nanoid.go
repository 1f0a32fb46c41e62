// Package token generates opaque invitation tokens.
package token

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"enrolinvitation/internal/domain"
)

const (
	// DefaultLength gives roughly 190 bits of entropy over the alphabet below.
	DefaultLength = 32
	alphabet      = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type nanoidGenerator struct {
	length int
}

// NewGenerator returns a TokenGenerator producing alphanumeric NanoIDs of the given length.
// A non-positive length uses DefaultLength.
func NewGenerator(length int) domain.TokenGenerator {
	if length <= 0 {
		length = DefaultLength
	}
	return &nanoidGenerator{length: length}
}

func (g *nanoidGenerator) NewToken() (string, error) {
	tok, err := gonanoid.Generate(alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return tok, nil
}
