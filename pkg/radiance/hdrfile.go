package radiance

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/tmo"
)

var Tonemappers = []string{"linear", "reinhard05", "drago03"}

// Inspect reads just enough of an HDR file to say how big it is.
func Inspect(filename string) (image.Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return image.Config{}, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	cfg, err := rgbe.DecodeConfig(f)
	if err != nil {
		return cfg, fmt.Errorf("rgbe header '%s': %v", filename, err)
	}
	return cfg, nil
}

// WritePreview tonemaps an HDR file down to an 8-bit PNG, so it can be
// looked at without HDR tools.
func WritePreview(hdrFilename, pngFilename, tonemapper string) error {
	f, err := os.Open(hdrFilename)
	if err != nil {
		return fmt.Errorf("open+r '%s': %v", hdrFilename, err)
	}
	defer f.Close()

	img, err := rgbe.Decode(f)
	if err != nil {
		return fmt.Errorf("rgbe decode '%s': %v", hdrFilename, err)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return fmt.Errorf("'%s' did not decode to an HDR image", hdrFilename)
	}

	op, err := newTonemapper(tonemapper, hdrImg)
	if err != nil {
		return err
	}
	ldr := op.Perform()

	w, err := os.Create(pngFilename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", pngFilename, err)
	}
	defer w.Close()
	return png.Encode(w, ldr)
}

func newTonemapper(name string, img hdr.Image) (tmo.ToneMappingOperator, error) {
	switch name {
	case "linear":
		return tmo.NewLinear(img), nil
	case "", "reinhard05":
		return tmo.NewDefaultReinhard05(img), nil
	case "drago03":
		op := tmo.NewDefaultDrago03(img)
		op.Bias = 1.0 // sky shots have a small, very bright sun; keep it from blowing out
		return op, nil
	}
	return nil, fmt.Errorf("tonemapper %q not recognized, wanted one of %v", name, Tonemappers)
}
