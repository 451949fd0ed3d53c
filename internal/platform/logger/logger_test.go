package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeValue(t *testing.T) {
	assert.Equal(t, "[REDACTED]", sanitizeValue("authorization", "Bearer abc"))
	assert.Equal(t, "[REDACTED]", sanitizeValue("submitted_answer", "B"))
	assert.Equal(t, 42, sanitizeValue("status", 42))

	hashed, ok := sanitizeValue("learner_id", "42").(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(hashed, "hash:"))
	assert.Len(t, hashed, len("hash:")+12)
	assert.Equal(t, hashed, sanitizeValue("learner_id", "42"), "hashing must be stable")
}

func TestLooksLikeJWT(t *testing.T) {
	assert.True(t, looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiI0MiJ9.sig"))
	assert.False(t, looksLikeJWT("lesson.slug"))
	assert.False(t, looksLikeJWT(""))
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", "ok", "dangling"})
	require.Len(t, out, 3)
	assert.Equal(t, "dangling", out[2])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", "test"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		l.With("component", "test").Debug("hello")
		l.Sync()
	}
}
