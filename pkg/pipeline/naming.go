package pipeline

import (
	"path/filepath"
	"strings"
	"time"
)

// TimestampFormat is local time, to the second.
const TimestampFormat = "20060102_150405"

// outputNames returns the HDR and falsecolor filenames for a scene that
// finished at t. Batch scenes are prefixed with their directory name.
func outputNames(scene Scene, t time.Time) (string, string) {
	stem := t.Local().Format(TimestampFormat)
	if scene.Name != "" {
		stem = scene.Name + "_" + stem
	}
	return stem + ".hdr", stem + "_fc.hdr"
}

// previewName swaps the .hdr extension for .png.
func previewName(hdrFilename string) string {
	return strings.TrimSuffix(hdrFilename, filepath.Ext(hdrFilename)) + ".png"
}
