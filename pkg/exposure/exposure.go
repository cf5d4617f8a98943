// Package exposure decides which of a bracketed set of LDR exposures are
// worth merging into the HDR.
//
// Every candidate is scanned over the pixels inside the fisheye circle. The
// candidates are ranked brightest first; the merge then starts at the
// brightest exposure with no crushed blacks, and stops before the last
// exposure that has no blown highlights. Exposures outside that range add no
// dynamic range to the merge.
package exposure

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// A masked pixel is crushed if all three channels are below BlackLevel,
	// and blown if all three are above WhiteLevel (8-bit values).
	BlackLevel = 27
	WhiteLevel = 228

	// Perceived brightness weights (ITU-R BT.601 luma).
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Stats are computed over the masked pixels of one image.
type Stats struct {
	MaskedPixels   int
	PixelsBelow    int     // crushed blacks
	PixelsAbove    int     // blown highlights
	MeanBrightness float64 // mean luma, [0,255]

	P05, P95 float64 // luma quantiles
}

func (s Stats) String() string {
	return fmt.Sprintf("mean %6.2f [p05 %6.2f, p95 %6.2f], below %d, above %d (of %d)",
		s.MeanBrightness, s.P05, s.P95, s.PixelsBelow, s.PixelsAbove, s.MaskedPixels)
}

// A Candidate is one input exposure, plus what we learned scanning it.
type Candidate struct {
	Filename string
	Index    int // position in the list we were given
	Stats

	Exposure *ExposureValue // from EXIF, if it was asked for and available
}

func (c Candidate) String() string {
	s := fmt.Sprintf("%s: %s", filepath.Base(c.Filename), c.Stats)
	if c.Exposure != nil {
		s += ", " + c.Exposure.String()
	}
	return s
}

// IsJPEG reports whether the filename has a jpg/jpeg extension, in any case.
func IsJPEG(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// DecodeError is returned when a candidate image can't be opened or decoded.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode '%s': %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
