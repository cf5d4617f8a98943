package exposure

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/codahale/hdrhistogram"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
)

// rgb8 returns the 8-bit channels of a color.
func rgb8(c color.Color) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func luma(r, g, b uint8) float64 {
	return LumaR*float64(r) + LumaG*float64(g) + LumaB*float64(b)
}

// class buckets a pixel: -1 crushed, +1 blown, 0 usable.
func class(r, g, b uint8) int {
	if r < BlackLevel && g < BlackLevel && b < BlackLevel {
		return -1
	} else if r > WhiteLevel && g > WhiteLevel && b > WhiteLevel {
		return 1
	}
	return 0
}

// Analyze scans the pixels of img that fall inside the mask. Mask coords
// are relative to the image's top-left corner.
func Analyze(img image.Image, mask fisheye.Mask) Stats {
	s := Stats{}
	bounds := img.Bounds()

	// Luma is recorded in hundredths, offset by one; the histogram can't
	// hold a zero.
	hist := hdrhistogram.New(1, 255*100+1, 3)
	total := 0.0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !mask.At(x-bounds.Min.X, y-bounds.Min.Y) {
				continue
			}

			r, g, b := rgb8(img.At(x, y))
			l := luma(r, g, b)

			s.MaskedPixels++
			total += l
			hist.RecordValue(int64(math.Round(l*100)) + 1)

			switch class(r, g, b) {
			case -1:
				s.PixelsBelow++
			case 1:
				s.PixelsAbove++
			}
		}
	}

	if s.MaskedPixels > 0 {
		s.MeanBrightness = total / float64(s.MaskedPixels)
		s.P05 = float64(hist.ValueAtQuantile(5)-1) / 100.0
		s.P95 = float64(hist.ValueAtQuantile(95)-1) / 100.0
	}

	return s
}

// checkSize makes sure an image matches the frame the mask was built for.
func checkSize(img image.Image, mask fisheye.Mask) error {
	b := img.Bounds()
	if b.Dx() != mask.Width || b.Dy() != mask.Height {
		return fmt.Errorf("image is %dx%d, but the first exposure was %dx%d", b.Dx(), b.Dy(), mask.Width, mask.Height)
	}
	return nil
}
