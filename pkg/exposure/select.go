package exposure

import (
	"context"
	"image"
	"log"
	"sort"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
)

// A Selector filters a bracketed exposure set down to the useful subset.
type Selector struct {
	Circle    fisheye.Circle
	Workers   int // size of the scanning pool; 0 means one per CPU
	Verbosity int

	ReadEXIF bool   // look up the camera exposure of each candidate
	DebugDir string // if set, a classification PNG per candidate goes here

	// Open decodes a candidate image; nil means decode the file from disk.
	Open func(filename string) (image.Image, error)
}

// Rank sorts candidates brightest first. The sort is stable, so exposures
// with identical mean brightness stay in their input order.
func Rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].MeanBrightness > cands[j].MeanBrightness
	})
}

// SelectRange returns the [start,end) slice of ranked candidates to merge.
// start is the brightest candidate with no crushed blacks (or 0, if they
// all have some); end is the last candidate after start with no blown
// highlights (or len, if there is none).
func SelectRange(ranked []Candidate) (int, int) {
	start := 0
	for i, c := range ranked {
		if c.PixelsBelow == 0 {
			start = i
			break
		}
	}

	end := len(ranked)
	for i := start + 1; i < len(ranked); i++ {
		if ranked[i].PixelsAbove == 0 {
			end = i
		}
	}

	return start, end
}

// Candidates scans every file, and returns them ranked brightest first.
// The mask is built to fit the first file.
func (s Selector) Candidates(ctx context.Context, filenames []string) ([]Candidate, fisheye.Mask, error) {
	if len(filenames) == 0 {
		return nil, fisheye.Mask{}, nil
	}

	w, h, err := s.frameSize(filenames[0])
	if err != nil {
		return nil, fisheye.Mask{}, &DecodeError{filenames[0], err}
	}
	mask := fisheye.NewMask(s.Circle, w, h)

	cands, err := s.Scan(ctx, filenames, mask)
	if err != nil {
		return nil, mask, err
	}
	Rank(cands)
	return cands, mask, nil
}

// Filter returns the exposures worth merging, brightest first. Sets that
// don't start with a JPEG (raw files, TIFFs) are returned untouched.
func (s Selector) Filter(ctx context.Context, filenames []string) ([]string, error) {
	if len(filenames) == 0 || !IsJPEG(filenames[0]) {
		return filenames, nil
	}

	cands, mask, err := s.Candidates(ctx, filenames)
	if err != nil {
		return nil, err
	}
	start, end := SelectRange(cands)

	if s.Verbosity > 1 {
		for i, c := range cands {
			log.Printf(" -- [%d] %s\n", i, c)
		}
		log.Printf(" -- %s\n", Summarize(cands))
	}
	if s.Verbosity > 0 {
		log.Printf("Exposure selection: keeping [%d:%d] of %d, %s, mask %d pixels\n", start, end, len(cands), s.Circle, mask.Count())
	}

	selected := make([]string, 0, end-start)
	for _, c := range cands[start:end] {
		selected = append(selected, c.Filename)
	}
	return selected, nil
}
