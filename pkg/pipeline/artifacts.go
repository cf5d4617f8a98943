package pipeline

import (
	"path/filepath"
)

// StageName identifies a stage, and the artifact it produces.
type StageName string

const (
	StageRawConvert     StageName = "raw_convert"
	StageMerge          StageName = "merge"
	StageNullify        StageName = "nullify_exposure"
	StageCrop           StageName = "crop"
	StageResize         StageName = "resize"
	StageProjection     StageName = "projection"
	StageVignetting     StageName = "vignetting"
	StageNeutralDensity StageName = "neutral_density"
	StagePhotometric    StageName = "photometric"
	StageEvalglare      StageName = "evalglare"
	StageHeaderEdit     StageName = "header_edit"
	StageFalsecolor     StageName = "falsecolor"
)

// Artifacts is the table of what each stage of a scene produced. The input
// to a stage is always the most recent artifact, so a skipped stage just
// leaves the chain where it was.
type Artifacts struct {
	Dir   string
	Glare string // the value evalglare printed

	Inputs   []string // what we were given
	Selected []string // what went into the merge, after selection and conversion

	paths map[StageName]string
	order []StageName
}

func newArtifacts(dir string, inputs []string) *Artifacts {
	return &Artifacts{Dir: dir, Inputs: inputs, paths: map[StageName]string{}}
}

// PathFor is where the given stage writes its output.
func (a *Artifacts) PathFor(stage StageName) string {
	return filepath.Join(a.Dir, string(stage)+".hdr")
}

func (a *Artifacts) record(stage StageName, path string) {
	if _, exists := a.paths[stage]; !exists {
		a.order = append(a.order, stage)
	}
	a.paths[stage] = path
}

// Get returns the artifact a stage produced, if it ran.
func (a *Artifacts) Get(stage StageName) (string, bool) {
	p, ok := a.paths[stage]
	return p, ok
}

// Latest is the most recently produced artifact; empty before the merge.
func (a *Artifacts) Latest() string {
	if len(a.order) == 0 {
		return ""
	}
	return a.paths[a.order[len(a.order)-1]]
}

// Stages lists the stages that produced an artifact, in the order they ran.
func (a *Artifacts) Stages() []StageName {
	return append([]StageName(nil), a.order...)
}

// HDR is the calibrated HDR output of the scene.
func (a *Artifacts) HDR() string { return a.paths[StageHeaderEdit] }

// Falsecolor is the luminance map output of the scene.
func (a *Artifacts) Falsecolor() string { return a.paths[StageFalsecolor] }
