package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LDEBUG, ParseLevel("debug"))
	assert.Equal(t, LINFO, ParseLevel(" INFO "))
	assert.Equal(t, LWARNING, ParseLevel("warn"))
	assert.Equal(t, LWARNING, ParseLevel("Warning"))
	assert.Equal(t, LERROR, ParseLevel("error"))
	assert.Equal(t, LCRITICAL, ParseLevel("critical"))
	assert.Equal(t, LUNKNOWN, ParseLevel("verbose"))
}

func TestLevels(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()
	var buf bytes.Buffer
	New(&buf, "", 0)
	require.NotNil(t, Logger())

	Debugf("hidden %d", 1)
	Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	require.NoError(t, SetLevel(LDEBUG))
	assert.Equal(t, LDEBUG, Level())
	Debugf("hidden %d", 3)
	assert.Contains(t, buf.String(), "hidden 3")

	require.NoError(t, SetLevel(LERROR))
	Warningf("dropped")
	Errorf("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")

	assert.Error(t, SetLevel(LUNKNOWN))
}

func TestNilLogger(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		Debugf("x")
		Infof("x")
		Warningf("x")
		Errorf("x")
	})
	assert.NoError(t, SetLevel(LINFO))
}
