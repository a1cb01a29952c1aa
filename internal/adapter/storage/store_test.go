package storage

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func TestNewNamer_Timestamp(t *testing.T) {
	name := NewNamer("timestamp", fixedClock)

	assert.Equal(t, "1700000000123.PNG", name("avatar.PNG"))
	assert.Equal(t, "1700000000123.png", name("avatar.png"))
	assert.Equal(t, "1700000000123", name("no-extension"))
	// Same millisecond and extension collide under this policy
	assert.Equal(t, name("a.jpg"), name("b.jpg"))
}

func TestNewNamer_Random(t *testing.T) {
	name := NewNamer("random", fixedClock)
	pattern := regexp.MustCompile(`^1700000000123-[0-9a-f-]{36}\.jpg$`)

	assert.Regexp(t, pattern, name("a.JPG"))

	first := name("a.jpg")
	second := name("a.jpg")

	assert.Regexp(t, pattern, first)
	assert.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second)
}

func TestNewNamer_DefaultClock(t *testing.T) {
	name := NewNamer("timestamp", nil)

	before := time.Now().UnixMilli()
	got, err := strconv.ParseInt(name("x"), 10, 64)
	after := time.Now().UnixMilli()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}
