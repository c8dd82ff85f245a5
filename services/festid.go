// services/festid.go - Fest ID generation
package services

import (
	"context"
	"crypto/rand"
	"fmt"
)

const (
	festIDPrefix   = "TN"
	festIDSuffix   = 3
	festIDAttempts = 25
)

const festIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FestIDStore is the uniqueness check the generator needs.
type FestIDStore interface {
	FestIDExists(ctx context.Context, festID string) (bool, error)
}

type FestIDGenerator struct {
	store FestIDStore
}

func NewFestIDGenerator(store FestIDStore) *FestIDGenerator {
	return &FestIDGenerator{store: store}
}

// Generate produces a short unique fest ID: fixed prefix plus three random
// uppercase alphanumerics. Collisions retry against the store a bounded
// number of times; running out of attempts returns ErrExhaustedRetries.
func (g *FestIDGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < festIDAttempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("generating fest ID: %w", err)
		}

		exists, err := g.store.FestIDExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking fest ID uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrExhaustedRetries
}

func randomCode() (string, error) {
	buf := make([]byte, festIDSuffix)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, festIDSuffix)
	for i, b := range buf {
		code[i] = festIDCharset[int(b)%len(festIDCharset)]
	}
	return festIDPrefix + string(code), nil
}
