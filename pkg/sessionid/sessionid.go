// Package sessionid mints the opaque tokens that correlate a kiosk registration
// with the enrollment device that later completes it.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	FormatUUID   = "uuid"
	FormatLegacy = "legacy"

	MaxLength = 64

	legacyPrefix       = "REG_"
	legacySuffixLength = 9
	base36Alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

type Generator interface {
	Generate() (string, error)
}

// New returns the generator for the given format. Unknown formats are rejected.
func New(format string) (Generator, error) {
	switch format {
	case FormatUUID, "":
		return UUIDGenerator{}, nil
	case FormatLegacy:
		return NewLegacyGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown session id format %q", format)
	}
}

// UUIDGenerator produces random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid failed: %w", err)
	}

	return id.String(), nil
}

// LegacyGenerator produces REG_<unix ms>_<9 base36 chars>, the format older
// enrollment devices expect. The suffix comes from crypto/rand.
type LegacyGenerator struct {
	now func() time.Time
}

func NewLegacyGenerator() *LegacyGenerator {
	return &LegacyGenerator{now: time.Now}
}

func (g *LegacyGenerator) Generate() (string, error) {
	suffix := make([]byte, legacySuffixLength)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random suffix failed: %w", err)
		}
		suffix[i] = base36Alphabet[n.Int64()]
	}

	return legacyPrefix + strconv.FormatInt(g.now().UnixMilli(), 10) + "_" + string(suffix), nil
}

// Valid reports whether id can be carried verbatim in a URL query parameter.
func Valid(id string) bool {
	if id == "" || len(id) > MaxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}

	return true
}
