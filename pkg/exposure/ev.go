package exposure

import (
	"fmt"
	"math"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

type rat64 [2]int64

// An ExposureValue records how the camera exposed a photo, as read from
// its EXIF data. It isn't used to pick exposures (the pixels decide that),
// but it makes the selection logs much easier to follow.
type ExposureValue struct {
	ISO          int   // 100, 800, etc.
	ApertureX10  int64 // f/5.6 is the integer 56.
	ShutterSpeed rat64 // 1/500, 1/1000, etc.

	// EV at ISO 100: log2(N^2/t), less one stop per doubling of ISO.
	// https://en.wikipedia.org/wiki/Exposure_value
	EV float64
}

func (ev ExposureValue) String() string {
	s := fmt.Sprintf("f/%.1f", float64(ev.ApertureX10)/10.0)
	if ev.ShutterSpeed[1] != 1 {
		s += fmt.Sprintf(", %d/%d", ev.ShutterSpeed[0], ev.ShutterSpeed[1])
	} else {
		s += fmt.Sprintf(", %ds", ev.ShutterSpeed[0])
	}
	return s + fmt.Sprintf(", ISO%d, EV %.1f", ev.ISO, ev.EV)
}

// Validate checks the values look like a real exposure, and computes EV.
func (ev *ExposureValue) Validate() error {
	if ev.ISO <= 0 || ev.ApertureX10 <= 0 || ev.ShutterSpeed[0] <= 0 || ev.ShutterSpeed[1] <= 0 {
		return fmt.Errorf("exposure info looks suspicious: %+v", *ev)
	}

	n := float64(ev.ApertureX10) / 10.0
	t := float64(ev.ShutterSpeed[0]) / float64(ev.ShutterSpeed[1])
	ev.EV = math.Log2(n*n/t) - math.Log2(float64(ev.ISO)/100.0)
	return nil
}

// ReadExposure pulls the ISO, f-number and exposure time out of a file's EXIF.
func ReadExposure(filename string) (ExposureValue, error) {
	ev := ExposureValue{}

	reader, err := os.Open(filename)
	if err != nil {
		return ev, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ev, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	if tag, err := ex.Get(exif.ISOSpeedRatings); err != nil {
		return ev, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else if val, err := tag.Int(0); err != nil {
		return ev, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else {
		ev.ISO = val
	}

	if tag, err := ex.Get(exif.FNumber); err != nil {
		return ev, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	} else if num, denom, err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	} else if denom == 0 {
		return ev, fmt.Errorf("exif FNumber '%s': zero denominator", filename)
	} else {
		ev.ApertureX10 = int64(math.Round(float64(num) * 10.0 / float64(denom)))
	}

	if tag, err := ex.Get(exif.ExposureTime); err != nil {
		return ev, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	} else if num, denom, err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	} else {
		ev.ShutterSpeed = rat64{num, denom}
	}

	if err := ev.Validate(); err != nil {
		return ev, fmt.Errorf("image '%s' EV: %v", filename, err)
	}
	return ev, nil
}
