package meetinggen

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	idPattern       = regexp.MustCompile(`^[0-9A-Z]{10}$`)
	passwordPattern = regexp.MustCompile(`^[0-9a-z]{6}$`)
)

func TestGenerate_Shape(t *testing.T) {
	g := New("https://meet.example.com/")

	access, err := g.Generate()
	require.NoError(t, err)

	assert.Regexp(t, idPattern, access.MeetingID)
	assert.Regexp(t, passwordPattern, access.Password)
	assert.Equal(t, "https://meet.example.com/"+strings.ToLower(access.MeetingID), access.URL)
}

func TestGenerate_DefaultBase(t *testing.T) {
	access, err := New("").Generate()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(access.URL, DefaultURLBase+"/"))
}

func TestGenerate_Distinct(t *testing.T) {
	g := New(DefaultURLBase)
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		access, err := g.Generate()
		require.NoError(t, err)
		seen[access.MeetingID] = struct{}{}
	}
	assert.Len(t, seen, 200)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerate_RandomFailure(t *testing.T) {
	g := New(DefaultURLBase)
	g.random = failingReader{}

	_, err := g.Generate()
	assert.ErrorContains(t, err, "entropy exhausted")
}
