package pipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// Raw and intermediate formats that hdrgen (via dcraw_emu, or directly for
// TIFF) can take, alongside JPEG.
var otherFormats = []string{
	"3fr", "ari", "arw", "bay", "braw", "crw", "cr2", "cr3", "cap", "data", "dcs", "dcr", "dng",
	"drf", "eip", "erf", "fff", "gpr", "iiq", "k25", "kdc", "mdc", "mef", "mos", "mrw", "nef",
	"nrw", "obm", "orf", "pef", "ptx", "pxn", "r3d", "raf", "raw", "rwl", "rw2", "rwz", "sr2",
	"srf", "srw", "tif", "tiff", "x3f",
}

var supported = map[string]bool{"jpg": true, "jpeg": true}

func init() {
	for _, ext := range otherFormats {
		supported[ext] = true
	}
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsSupported reports whether the file's extension, in any case, is one
// the pipeline can take as input.
func IsSupported(filename string) bool { return supported[extension(filename)] }

// IsRaw reports whether the file needs converting to TIFF before the merge.
func IsRaw(filename string) bool {
	switch ext := extension(filename); ext {
	case "jpg", "jpeg", "tif", "tiff":
		return false
	default:
		return supported[ext]
	}
}

// SupportedExtensions lists every accepted extension, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supported))
	for ext := range supported {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
