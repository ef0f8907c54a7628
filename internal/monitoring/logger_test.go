package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = format
	})
	Logf("frame %d", 3)
	assert.Equal(t, "frame %d", got)

	got = ""
	SetLogger(nil)
	Logf("muted")
	assert.Empty(t, got)
}

func TestCapture(t *testing.T) {
	lines, restore := Capture()
	Logf("warning: no prediction for frame %d", 7)
	Logf("second")
	restore()

	require.Len(t, *lines, 2)
	assert.Equal(t, "warning: no prediction for frame 7", (*lines)[0])
	assert.NotNil(t, Logf)
}
