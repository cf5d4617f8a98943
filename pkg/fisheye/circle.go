package fisheye

import (
	"fmt"
	"image"
)

// A Circle describes where the fisheye view sits in the camera frame. It is
// given as the diameter of the circle, and the offset of the square that
// circumscribes it (xleft pixels in from the left, ydown pixels in from the
// edge the crop tool measures from). The same Circle is used to crop the HDR
// image and to mask the LDR exposures, so it must never be adjusted between
// the two.
type Circle struct {
	Diameter uint64
	XLeft    uint64
	YDown    uint64
}

func (c Circle) String() string {
	return fmt.Sprintf("circle[d=%d, xleft=%d, ydown=%d]", c.Diameter, c.XLeft, c.YDown)
}

func (c Circle) Radius() float64 { return float64(c.Diameter) / 2.0 }

// Center returns the center of the circle, in (fractional) pixel coords.
func (c Circle) Center() (float64, float64) {
	r := c.Radius()
	return float64(c.XLeft) + r, float64(c.YDown) + r
}

// Bounds is the square that circumscribes the circle.
func (c Circle) Bounds() image.Rectangle {
	x, y, d := int(c.XLeft), int(c.YDown), int(c.Diameter)
	return image.Rect(x, y, x+d, y+d)
}

// Contains reports whether the pixel at integer coords (x,y) lies in the circle.
func (c Circle) Contains(x, y int) bool {
	xc, yc := c.Center()
	r := c.Radius()
	dx := float64(x) - xc
	dy := float64(y) - yc
	return dx*dx+dy*dy <= r*r
}
