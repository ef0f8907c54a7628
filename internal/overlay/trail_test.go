package overlay

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrailRing(t *testing.T) {
	trail := NewTrail(3)
	assert.Equal(t, 0, trail.Len())
	assert.Empty(t, trail.Recent())

	trail.Push(image.Pt(1, 1))
	trail.Push(image.Pt(2, 2))
	assert.Equal(t, []image.Point{{2, 2}, {1, 1}}, trail.Recent())

	trail.Push(image.Pt(3, 3))
	trail.Push(image.Pt(4, 4))
	assert.Equal(t, 3, trail.Len())
	assert.Equal(t, 3, trail.Cap())
	assert.Equal(t, []image.Point{{4, 4}, {3, 3}, {2, 2}}, trail.Recent())
}

func TestNewTrailMinimumCapacity(t *testing.T) {
	trail := NewTrail(0)
	trail.Push(image.Pt(5, 5))
	trail.Push(image.Pt(6, 6))
	assert.Equal(t, []image.Point{{6, 6}}, trail.Recent())
}

func TestFadeIntensity(t *testing.T) {
	assert.Equal(t, uint8(255), FadeIntensity(0, 8))
	assert.Equal(t, uint8(247), FadeIntensity(1, 8))
	assert.Equal(t, uint8(23), FadeIntensity(29, 8))

	for i := 0; i < 29; i++ {
		assert.Greater(t, FadeIntensity(i, 8), FadeIntensity(i+1, 8), "i=%d", i)
	}

	t.Run("clamps past the default window", func(t *testing.T) {
		assert.Equal(t, uint8(7), FadeIntensity(31, 8))
		assert.Equal(t, uint8(0), FadeIntensity(32, 8))
		assert.Equal(t, uint8(0), FadeIntensity(500, 8))
	})

	t.Run("zero step keeps full intensity", func(t *testing.T) {
		assert.Equal(t, uint8(255), FadeIntensity(40, 0))
	})
}
