package service

import (
	"crypto/rand"
	"fmt"
	"strings"

	id "nammasev/pkg/domain"
)

// TrackingGenerator mints public tracking IDs: the configured prefix, a
// dash, and a random Crockford base32 suffix. Randomness comes from
// crypto/rand so IDs are not guessable or enumerable.
type TrackingGenerator struct {
	prefix string
}

func NewTrackingGenerator(prefix string) *TrackingGenerator {
	return &TrackingGenerator{prefix: strings.ToUpper(strings.TrimSpace(prefix))}
}

// New returns a fresh tracking ID. Uniqueness is enforced by the store;
// callers retry on collision.
func (g *TrackingGenerator) New() (id.TrackingID, error) {
	alphabet := id.TrackingAlphabet()
	buf := make([]byte, id.TrackingSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return id.TrackingID(g.prefix + "-" + string(buf)), nil
}
