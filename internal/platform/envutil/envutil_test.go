package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 42 ")
	assert.Equal(t, 42, Int("ENVUTIL_INT", 1))
	t.Setenv("ENVUTIL_INT", "nope")
	assert.Equal(t, 1, Int("ENVUTIL_INT", 1))
	assert.Equal(t, 7, Int("ENVUTIL_INT_UNSET", 7))
}

func TestDurations(t *testing.T) {
	t.Setenv("ENVUTIL_MS", "250")
	assert.Equal(t, 250*time.Millisecond, Millis("ENVUTIL_MS", time.Second))
	t.Setenv("ENVUTIL_MS", "0")
	assert.Equal(t, time.Second, Millis("ENVUTIL_MS", time.Second))
	t.Setenv("ENVUTIL_S", "30")
	assert.Equal(t, 30*time.Second, Seconds("ENVUTIL_S", time.Minute))
}

func TestBoolAndCSV(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "Yes")
	assert.True(t, Bool("ENVUTIL_BOOL", false))
	t.Setenv("ENVUTIL_BOOL", "maybe")
	assert.False(t, Bool("ENVUTIL_BOOL", false))

	t.Setenv("ENVUTIL_CSV", "http://a, ,http://b")
	assert.Equal(t, []string{"http://a", "http://b"}, CSV("ENVUTIL_CSV", nil))
	t.Setenv("ENVUTIL_CSV", " , ")
	assert.Equal(t, []string{"x"}, CSV("ENVUTIL_CSV", []string{"x"}))
}
