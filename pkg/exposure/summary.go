package exposure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A Summary describes the spread of brightness across a set of candidates.
type Summary struct {
	Count     int
	Brightest float64
	Darkest   float64
	Mean      float64
	StdDev    float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%d exposures, brightness %.2f..%.2f (mean %.2f, sd %.2f), %.1f stops",
		s.Count, s.Darkest, s.Brightest, s.Mean, s.StdDev, s.Stops())
}

// Stops is roughly how many stops apart the darkest and brightest
// exposures are, judged by their mean brightness.
func (s Summary) Stops() float64 {
	if s.Darkest <= 0 || s.Brightest <= 0 {
		return 0
	}
	return math.Log2(s.Brightest / s.Darkest)
}

func Summarize(cands []Candidate) Summary {
	s := Summary{Count: len(cands)}
	if len(cands) == 0 {
		return s
	}

	means := make([]float64, len(cands))
	for i, c := range cands {
		means[i] = c.MeanBrightness
	}

	s.Brightest = floats.Max(means)
	s.Darkest = floats.Min(means)
	if len(means) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(means, nil)
	} else {
		s.Mean = means[0]
	}
	return s
}
