package fisheye

// A Mask flags which pixels of a width x height frame are inside the
// fisheye circle. It is computed once and then only read, so it can be
// shared between goroutines.
type Mask struct {
	Width  int
	Height int
	bits   []bool
	n      int
}

// NewMask computes the mask for a frame of the given dimensions.
func NewMask(c Circle, width, height int) Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	m := Mask{Width: width, Height: height, bits: make([]bool, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if c.Contains(x, y) {
				m.bits[y*width+x] = true
				m.n++
			}
		}
	}
	return m
}

// At reports whether (x,y) is inside the circle. Anything outside the frame
// the mask was computed for is outside.
func (m Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Count is the number of pixels inside the circle.
func (m Mask) Count() int { return m.n }

// Bits returns a copy of the raw mask, row-major.
func (m Mask) Bits() []bool {
	b := make([]bool, len(m.bits))
	copy(b, m.bits)
	return b
}
