package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/abworrall/fisheye-hdr/pkg/exposure"
	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
)

var (
	fVerbosity int
	fDiameter  uint64
	fXLeft     uint64
	fYDown     uint64
	fWorkers   int
	fDebugDir  string
	fEXIF      bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.Uint64Var(&fDiameter, "diameter", 0, "diameter of the fisheye circle, in pixels")
	flag.Uint64Var(&fXLeft, "xleft", 0, "offset of the fisheye circle from the left edge")
	flag.Uint64Var(&fYDown, "ydown", 0, "offset of the fisheye circle from the bottom edge")
	flag.IntVar(&fWorkers, "j", 0, "how many images to scan at once (default: one per CPU)")
	flag.StringVar(&fDebugDir, "debug", "", "write a classification PNG per exposure into this dir")
	flag.BoolVar(&fEXIF, "exif", true, "show the camera exposure settings of each image")
	flag.Parse()
}

// Scans a bracketed set of JPEGs, and says which ones a merge would use.
func main() {
	filenames := flag.Args()
	if len(filenames) == 0 {
		log.Fatal("usage: exposure-select -diameter D [-xleft X -ydown Y] a.jpg b.jpg ...")
	}
	if fDebugDir != "" {
		if err := os.MkdirAll(fDebugDir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	s := exposure.Selector{
		Circle:    fisheye.Circle{Diameter: fDiameter, XLeft: fXLeft, YDown: fYDown},
		Workers:   fWorkers,
		Verbosity: fVerbosity,
		ReadEXIF:  fEXIF,
		DebugDir:  fDebugDir,
	}

	if !exposure.IsJPEG(filenames[0]) {
		fmt.Printf("%s is not a JPEG; the set would be merged as is\n", filenames[0])
		return
	}

	cands, _, err := s.Candidates(context.Background(), filenames)
	if err != nil {
		log.Fatal(err)
	}
	start, end := exposure.SelectRange(cands)

	for i, c := range cands {
		mark := " "
		if i >= start && i < end {
			mark = "*"
		}
		fmt.Printf("%s [%2d] %s\n", mark, i, c)
	}
	fmt.Printf("%s\n", exposure.Summarize(cands))
	fmt.Printf("merging %d of %d exposures\n", end-start, len(cands))
	for _, c := range cands[start:end] {
		fmt.Printf("  %s\n", filepath.Base(c.Filename))
	}
}
