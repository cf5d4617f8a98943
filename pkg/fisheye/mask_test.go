package fisheye

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleGeometry(t *testing.T) {
	c := Circle{Diameter: 10, XLeft: 5, YDown: 2}

	xc, yc := c.Center()
	assert.Equal(t, 5.0, c.Radius())
	assert.Equal(t, 10.0, xc)
	assert.Equal(t, 7.0, yc)
	assert.Equal(t, image.Rect(5, 2, 15, 12), c.Bounds())

	assert.True(t, c.Contains(10, 7))
	assert.True(t, c.Contains(15, 7), "edge of circle is inside")
	assert.False(t, c.Contains(16, 7))
	assert.False(t, c.Contains(5, 2), "corner of bounding square is outside")
}

func TestNewMaskSmall(t *testing.T) {
	// A diameter 2 circle at the origin is centered on (1,1) with r=1, so it
	// covers the center pixel and its four neighbours.
	m := NewMask(Circle{Diameter: 2}, 3, 3)

	want := []bool{
		false, true, false,
		true, true, true,
		false, true, false,
	}
	if diff := cmp.Diff(want, m.Bits()); diff != "" {
		t.Errorf("mask mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, m.Count())
}

func TestNewMaskDeterministic(t *testing.T) {
	c := Circle{Diameter: 37, XLeft: 3, YDown: 6}

	first := NewMask(c, 50, 48)
	for i := 0; i < 5; i++ {
		again := NewMask(c, 50, 48)
		require.Equal(t, first.Count(), again.Count())
		if diff := cmp.Diff(first.Bits(), again.Bits()); diff != "" {
			t.Fatalf("mask changed on call %d:\n%s", i, diff)
		}
	}
}

func TestMaskOutsideFrame(t *testing.T) {
	m := NewMask(Circle{Diameter: 4, XLeft: 3, YDown: 3}, 10, 10)

	assert.Equal(t, 13, m.Count())
	assert.True(t, m.At(5, 5))
	assert.True(t, m.At(7, 5))
	assert.False(t, m.At(7, 7))
	assert.False(t, m.At(-1, 5))
	assert.False(t, m.At(10, 5))
	assert.False(t, m.At(5, 10))
}

func TestNewMaskEmptyFrame(t *testing.T) {
	m := NewMask(Circle{Diameter: 10}, 0, 0)
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.Bits())
}
