package exposure

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
)

var (
	outsideColor = colorful.Color{R: 0.08, G: 0.08, B: 0.08}
	crushedColor = colorful.Hsv(220, 0.9, 1.0)
	blownColor   = colorful.Hsv(0, 0.9, 1.0)
)

// ClassColor is the color a pixel is painted in a classification image.
// Usable pixels keep their luma, as a gray.
func ClassColor(c color.Color, inside bool) color.Color {
	if !inside {
		return outsideColor
	}

	r, g, b := rgb8(c)
	switch class(r, g, b) {
	case -1:
		return crushedColor
	case 1:
		return blownColor
	}
	v := luma(r, g, b) / 255.0
	return colorful.Color{R: v, G: v, B: v}
}

// WriteClassification saves a PNG showing which pixels of img were counted
// as crushed (blue) and blown (red), with the fisheye circle outlined.
func WriteClassification(img image.Image, mask fisheye.Mask, c fisheye.Circle, title, filename string) error {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rectangle{Max: image.Point{bounds.Dx(), bounds.Dy()}})

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Set(x, y, ClassColor(img.At(x+bounds.Min.X, y+bounds.Min.Y), mask.At(x, y)))
		}
	}

	xc, yc := c.Center()
	dc := gg.NewContextForImage(out)
	dc.SetRGB(1, 1, 0)
	dc.SetLineWidth(2)
	dc.DrawCircle(xc, yc, c.Radius())
	dc.Stroke()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 20, 20)
	return dc.SavePNG(filename)
}
