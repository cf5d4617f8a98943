package exposure

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
)

type scanJob struct {
	Index    int
	Filename string
}

type scanResult struct {
	Candidate
	Err error
}

// Scan analyzes every file against the (read-only, shared) mask, using a
// pool of goroutines. The candidates come back in the order of filenames.
// If any file fails to decode, the whole scan fails; of the failures, the
// one earliest in the list is returned.
func (s Selector) Scan(ctx context.Context, filenames []string, mask fisheye.Mask) ([]Candidate, error) {
	nWorkers := s.Workers
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	if nWorkers > len(filenames) {
		nWorkers = len(filenames)
	}

	var wg sync.WaitGroup
	jobsChan := make(chan scanJob, len(filenames))
	resultsChan := make(chan scanResult, len(filenames))

	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				resultsChan <- s.scanOne(ctx, job, mask)
			}
		}()
	}

	for i, filename := range filenames {
		jobsChan <- scanJob{Index: i, Filename: filename}
	}
	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	cands := make([]Candidate, len(filenames))
	errs := make([]error, len(filenames))
	for result := range resultsChan {
		cands[result.Index] = result.Candidate
		errs[result.Index] = result.Err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return cands, nil
}

func (s Selector) scanOne(ctx context.Context, job scanJob, mask fisheye.Mask) scanResult {
	res := scanResult{Candidate: Candidate{Filename: job.Filename, Index: job.Index}}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if !IsJPEG(job.Filename) {
		res.Err = &DecodeError{job.Filename, fmt.Errorf("not a JPEG, but the first exposure was")}
		return res
	}

	img, err := s.open(job.Filename)
	if err != nil {
		res.Err = &DecodeError{job.Filename, err}
		return res
	}
	if err := checkSize(img, mask); err != nil {
		res.Err = &DecodeError{job.Filename, err}
		return res
	}

	res.Stats = Analyze(img, mask)

	if s.ReadEXIF || s.Verbosity > 1 {
		if ev, err := ReadExposure(job.Filename); err != nil {
			if s.Verbosity > 1 {
				log.Printf(" -- %s: no exposure info: %v\n", filepath.Base(job.Filename), err)
			}
		} else {
			res.Exposure = &ev
		}
	}

	if s.DebugDir != "" {
		base := strings.TrimSuffix(filepath.Base(job.Filename), filepath.Ext(job.Filename))
		out := filepath.Join(s.DebugDir, fmt.Sprintf("classes-%02d-%s.png", job.Index, base))
		if err := WriteClassification(img, mask, s.Circle, res.Candidate.String(), out); err != nil {
			log.Printf(" -- %s: classification image: %v\n", filepath.Base(job.Filename), err)
		}
	}

	return res
}

func (s Selector) open(filename string) (image.Image, error) {
	if s.Open != nil {
		return s.Open(filename)
	}

	reader, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	return img, err
}

// frameSize returns width & height of the named image, without decoding
// all of it when it can.
func (s Selector) frameSize(filename string) (int, int, error) {
	if s.Open != nil {
		img, err := s.Open(filename)
		if err != nil {
			return 0, 0, err
		}
		return img.Bounds().Dx(), img.Bounds().Dy(), nil
	}

	reader, err := os.Open(filename)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
