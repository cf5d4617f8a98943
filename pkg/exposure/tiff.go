package exposure

import (
	"fmt"
	"os"

	"golang.org/x/image/tiff"
)

// VerifyTIFF checks that a raw converter really did leave a readable TIFF
// behind, so the merge doesn't fail later with a vaguer message.
func VerifyTIFF(filename string) error {
	reader, err := os.Open(filename)
	if err != nil {
		return &DecodeError{filename, err}
	}
	defer reader.Close()

	cfg, err := tiff.DecodeConfig(reader)
	if err != nil {
		return &DecodeError{filename, err}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return &DecodeError{filename, fmt.Errorf("empty %dx%d image", cfg.Width, cfg.Height)}
	}
	return nil
}
