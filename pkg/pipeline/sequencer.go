package pipeline

import (
	"context"
	"log"

	"github.com/abworrall/fisheye-hdr/pkg/exposure"
	"github.com/abworrall/fisheye-hdr/pkg/radiance"
)

// An ExposureFilter picks which exposures of a scene go into the merge.
// exposure.Selector is the real one.
type ExposureFilter interface {
	Filter(ctx context.Context, filenames []string) ([]string, error)
}

var _ ExposureFilter = exposure.Selector{}

// NumSteps is how many progress steps each scene has, however many of
// its stages are skipped.
const NumSteps = 5

type stageFunc func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error)

type stage struct {
	Name    StageName
	Step    int                 // which progress step this stage is part of
	Enabled func(Settings) bool // nil means always
	Value   bool                // the stage's output is a value, not a file
	Run     stageFunc
}

// The full chain, in order. Each stage reads the previous artifact.
var stages = []stage{
	{Name: StageMerge, Step: 1, Run: runMerge},
	{Name: StageNullify, Step: 2, Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
		return sq.Suite.NullifyExposure(ctx, in, out)
	}},
	{Name: StageCrop, Step: 2, Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
		return sq.Suite.Crop(ctx, in, out, sq.Settings.Circle)
	}},
	{
		Name:    StageResize,
		Step:    2,
		Enabled: func(s Settings) bool { return s.Circle.Diameter > 1000 },
		Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
			return sq.Suite.Resize(ctx, in, out, sq.Settings.XDim, sq.Settings.YDim)
		},
	},
	{
		Name:    StageProjection,
		Step:    3,
		Enabled: func(s Settings) bool { return s.Calibration.Projection != "" },
		Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
			return sq.Suite.ProjectionAdjustment(ctx, in, out, sq.Settings.Calibration.Projection)
		},
	},
	{
		Name:    StageVignetting,
		Step:    3,
		Enabled: func(s Settings) bool { return s.Calibration.Vignetting != "" },
		Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
			return sq.Suite.VignettingCorrection(ctx, in, out, sq.Settings.Calibration.Vignetting)
		},
	},
	{
		Name:    StageNeutralDensity,
		Step:    3,
		Enabled: func(s Settings) bool { return s.Calibration.NeutralDensity != "" },
		Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
			return sq.Suite.NeutralDensity(ctx, in, out, sq.Settings.Calibration.NeutralDensity)
		},
	},
	{
		Name:    StagePhotometric,
		Step:    3,
		Enabled: func(s Settings) bool { return s.Calibration.Photometric != "" },
		Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
			return sq.Suite.PhotometricAdjustment(ctx, in, out, sq.Settings.Calibration.Photometric)
		},
	},
	{Name: StageEvalglare, Step: 4, Value: true, Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
		return sq.Suite.Evalglare(ctx, in, sq.Settings.View)
	}},
	{Name: StageHeaderEdit, Step: 4, Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
		return sq.Suite.EditHeader(ctx, in, out, sq.Settings.View, a.Glare)
	}},
	{Name: StageFalsecolor, Step: 5, Run: func(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
		return sq.Suite.Falsecolor(ctx, in, out, sq.Settings.Legend)
	}},
}

// runMerge picks the exposures, converts any raws to TIFF, and runs hdrgen.
func runMerge(ctx context.Context, sq *Sequencer, a *Artifacts, in, out string) (string, error) {
	inputs := a.Inputs

	if sq.Filter != nil {
		filtered, err := sq.Filter.Filter(ctx, inputs)
		if err != nil {
			return "", wrap("exposure selection", err)
		}
		inputs = filtered
	}

	if len(inputs) > 0 && IsRaw(inputs[0]) {
		tiffs, err := sq.Suite.ConvertRaw(ctx, inputs, a.Dir)
		if err != nil {
			return "", wrap(string(StageRawConvert), err)
		}
		for _, t := range tiffs {
			if err := exposure.VerifyTIFF(t); err != nil {
				return "", wrap(string(StageRawConvert), err)
			}
		}
		inputs = tiffs
	}

	a.Selected = inputs
	return sq.Suite.MergeExposures(ctx, inputs, sq.Settings.ResponseFunction, out)
}

// A Sequencer runs the chain of stages for one scene at a time. It runs
// each stage to completion before starting the next, and stops at the
// first one that fails.
type Sequencer struct {
	Suite    radiance.Suite
	Settings Settings
	Filter   ExposureFilter // nil merges every exposure

	// Step, if set, is called as each of the NumSteps progress steps
	// completes (1..NumSteps).
	Step func(step int)
}

// ProcessImageSet runs the whole chain over one scene, in its temp dir.
func (sq *Sequencer) ProcessImageSet(ctx context.Context, scene Scene) (*Artifacts, error) {
	a := newArtifacts(scene.TempDir, scene.Inputs)

	for i, st := range stages {
		if st.Enabled == nil || st.Enabled(sq.Settings) {
			in := a.Latest()
			out := a.PathFor(st.Name)

			result, err := st.Run(ctx, sq, a, in, out)
			if err != nil {
				return a, wrap(string(st.Name), err)
			}

			if st.Value {
				a.Glare = result
				if sq.Settings.Verbosity > 0 {
					log.Printf(" -- %s: %s\n", st.Name, result)
				}
			} else {
				a.record(st.Name, result)
			}

		} else if sq.Settings.Verbosity > 0 {
			log.Printf(" -- %s: skipped\n", st.Name)
		}

		if sq.Step != nil && (i == len(stages)-1 || stages[i+1].Step != st.Step) {
			sq.Step(st.Step)
		}
	}

	return a, nil
}
