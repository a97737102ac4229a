package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	Configure(Config{Level: InfoLevel, Output: &buf})
	jobs := Component("jobs")
	jobs.Info().Str("job_id", "abc").Msg("created")
	Debug().Msg("dropped below level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "jobs", entry["component"])
	assert.Equal(t, "abc", entry["job_id"])
	assert.Equal(t, "created", entry["message"])
}
