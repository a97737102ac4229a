// Package meetinggen produces the join details of a virtual meeting.
// The values are convenience identifiers, not secrets.
package meetinggen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	alphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
	meetingIDLen   = 10
	passwordLen    = 6
	DefaultURLBase = "https://meet.google.com"
)

// Access holds the generated join details
type Access struct {
	URL       string
	MeetingID string
	Password  string
}

// Generator creates Access values under a URL base
type Generator struct {
	base   string
	random io.Reader
}

// New returns a Generator for base, e.g. "https://meet.google.com"
func New(base string) *Generator {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultURLBase
	}
	return &Generator{base: base, random: rand.Reader}
}

// Generate returns a fresh meeting id (upper-case base36), password (lower-case base36) and join URL
func (g *Generator) Generate() (Access, error) {
	id, err := g.token(meetingIDLen)
	if err != nil {
		return Access{}, fmt.Errorf("failed to generate meeting id: %w", err)
	}
	pw, err := g.token(passwordLen)
	if err != nil {
		return Access{}, fmt.Errorf("failed to generate meeting password: %w", err)
	}

	return Access{
		URL:       g.base + "/" + id,
		MeetingID: strings.ToUpper(id),
		Password:  pw,
	}, nil
}

func (g *Generator) token(n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(g.random, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}
