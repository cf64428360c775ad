// Package allocator picks unique short codes for long URLs.
//
// Generated codes are a salted fingerprint of the long URL, truncated to a
// fixed length over the url-safe base64 alphabet, which is exactly the
// alphabet the custom-alias validator accepts. Downstream consumers cannot
// tell generated and custom codes apart.
package allocator

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultLength is the length of generated short codes
	DefaultLength = 6
	// MaxLength is the widest a code grows while resolving collisions
	MaxLength = 10
	// AttemptsPerLength bounds the collision retry loop at each length
	AttemptsPerLength = 8
)

// aliasPattern validates caller-supplied aliases: alphanumeric, dash and
// underscore only, 5 to 20 characters.
var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{5,20}$`)

var (
	// ErrInvalidAlias is returned when a custom alias violates the syntax rule
	ErrInvalidAlias = errors.New("invalid custom alias")
	// ErrAliasTaken is returned when a custom alias is already in use
	ErrAliasTaken = errors.New("custom alias already taken")
	// ErrExhausted is returned when no candidate code could be generated
	ErrExhausted = errors.New("short code space exhausted")
)

// CodeStore is the slice of the persistence layer the allocator consults
// for code existence.
type CodeStore interface {
	CheckExistsByCode(ctx context.Context, shortCode string) (bool, error)
}

// BloomFilter pre-screens candidate codes before hitting the store. It may
// report false positives, never false negatives.
type BloomFilter interface {
	Exists(ctx context.Context, shortCode string) (bool, error)
}

// Allocator generates and validates short codes
type Allocator struct {
	store CodeStore
	bloom BloomFilter
}

// New creates a new Allocator
func New(store CodeStore, bloom BloomFilter) *Allocator {
	return &Allocator{store: store, bloom: bloom}
}

// ValidAlias reports whether s satisfies the custom-alias syntax rule
func ValidAlias(s string) bool {
	return aliasPattern.MatchString(s)
}

// Allocate returns a unique short code for longURL. When customAlias is
// non-empty it becomes the code after syntax and uniqueness validation.
// Otherwise a fresh salt is drawn per attempt, so resubmitting the same URL
// never collides deterministically; the retry loop is bounded and widens the
// code before giving up with ErrExhausted.
func (a *Allocator) Allocate(ctx context.Context, longURL, customAlias string) (string, error) {
	if customAlias != "" {
		if !ValidAlias(customAlias) {
			return "", ErrInvalidAlias
		}
		taken, err := a.store.CheckExistsByCode(ctx, customAlias)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrAliasTaken
		}
		return customAlias, nil
	}

	for length := DefaultLength; length <= MaxLength; length++ {
		for i := 0; i < AttemptsPerLength; i++ {
			code := Fingerprint(longURL, uuid.NewString(), length)

			// Check Bloom Filter first (fast check)
			maybe, err := a.bloom.Exists(ctx, code)
			if err == nil && maybe {
				// Probable collision, retry with a new salt
				continue
			}

			exists, err := a.store.CheckExistsByCode(ctx, code)
			if err != nil {
				return "", err
			}
			if !exists {
				return code, nil
			}

			log.Debug().Str("short_code", code).Msg("Short code collision, retrying")
		}
	}

	return "", ErrExhausted
}

// Fingerprint derives a code of the given length from a long URL and a salt
func Fingerprint(longURL, salt string, length int) string {
	sum := sha256.Sum256([]byte(longURL + ":" + salt))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:length]
}
