package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
	"github.com/abworrall/fisheye-hdr/pkg/tool"
)

func testSequencer(t *testing.T, runner tool.Runner) (*Sequencer, Scene) {
	s := Settings{
		Circle: fisheye.Circle{Diameter: 900},
		XDim:   1000,
		YDim:   1000,
	}
	sq := &Sequencer{Suite: s.Suite(runner), Settings: s}
	return sq, Scene{Inputs: []string{"a.jpg", "b.jpg"}, TempDir: t.TempDir()}
}

func TestProcessImageSetSteps(t *testing.T) {
	runner := newRunner()
	sq, scene := testSequencer(t, runner)

	steps := []int{}
	sq.Step = func(step int) { steps = append(steps, step) }

	a, err := sq.ProcessImageSet(context.Background(), scene)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, steps, "skipped calibration still counts as a step")

	assert.Equal(t, []StageName{StageMerge, StageNullify, StageCrop, StageHeaderEdit, StageFalsecolor}, a.Stages())
	assert.Equal(t, a.PathFor(StageHeaderEdit), a.HDR())
	assert.Equal(t, a.PathFor(StageFalsecolor), a.Falsecolor())
	assert.Equal(t, "0.27", a.Glare)

	_, ok := a.Get(StageResize)
	assert.False(t, ok)
}

func TestProcessImageSetEvalglare(t *testing.T) {
	for _, tc := range []struct {
		name   string
		output string
		fail   bool
		glare  string
		ok     bool
	}{
		{"clean exit", "0.31\n", false, "0.31", true},
		{"non-zero exit with a value", "0.44", true, "0.44", true},
		{"non-zero exit with nothing", "", true, "", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			inner := newRunner()
			runner := tool.RunnerFunc(func(ctx context.Context, inv tool.Invocation) (string, error) {
				if inv.Label != "evalglare" {
					return inner.Run(ctx, inv)
				}
				var err error
				if tc.fail {
					err = &tool.Error{Reason: tool.ReasonExitStatus, Label: inv.Label, Program: inv.Program, ExitCode: 2}
				}
				return tc.output, err
			})

			sq, scene := testSequencer(t, runner)
			a, err := sq.ProcessImageSet(context.Background(), scene)
			if !tc.ok {
				assert.Equal(t, KindToolInvocation, KindOf(err))
				assert.NotContains(t, inner.Labels(), "header_edit")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.glare, a.Glare)
		})
	}
}

func TestProcessImageSetStopsAtFirstFailure(t *testing.T) {
	for _, label := range []string{"merge", "nullify_exposure", "crop", "header_edit", "falsecolor"} {
		t.Run(label, func(t *testing.T) {
			runner := newRunner()
			runner.FailLabel = label
			sq, scene := testSequencer(t, runner)

			steps := []int{}
			sq.Step = func(step int) { steps = append(steps, step) }

			_, err := sq.ProcessImageSet(context.Background(), scene)
			var pe *Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, label, pe.Op)
			assert.Equal(t, KindToolInvocation, pe.Kind)

			labels := runner.Labels()
			assert.Equal(t, label, labels[len(labels)-1])
			assert.Less(t, len(steps), NumSteps)
		})
	}
}

func TestArtifacts(t *testing.T) {
	a := newArtifacts("/tmp/scene", nil)
	assert.Equal(t, "", a.Latest())

	a.record(StageMerge, "/tmp/scene/merge.hdr")
	a.record(StageCrop, "/tmp/scene/crop.hdr")
	assert.Equal(t, "/tmp/scene/crop.hdr", a.Latest())
	assert.Equal(t, "/tmp/scene/resize.hdr", a.PathFor(StageResize))

	a.record(StageMerge, "/tmp/scene/merge2.hdr")
	assert.Equal(t, []StageName{StageMerge, StageCrop}, a.Stages())
	p, ok := a.Get(StageMerge)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/scene/merge2.hdr", p)
}

func TestErrorKinds(t *testing.T) {
	te := &tool.Error{Reason: tool.ReasonSpawn, Program: "pcomb", Err: errors.New("no such file")}
	assert.Equal(t, KindToolInvocation, KindOf(te))
	assert.Equal(t, KindToolInvocation, KindOf(fmt.Errorf("outer: %w", wrap("vignetting", te))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Nil(t, wrap("x", nil))

	err := validationf("request", "diameter: %q is not an unsigned integer", "big")
	assert.Equal(t, `request: validation error: diameter: "big" is not an unsigned integer`, err.Error())
	assert.Same(t, err, wrap("other", err))
}

func TestProgressRounding(t *testing.T) {
	got := []int{}
	p := newProgress(func(pct int) { got = append(got, pct) }, 3)
	p.emit()
	p.step()
	p.step()
	p.step()
	p.step() // past the end, ignored
	p.close()

	assert.Equal(t, []int{0, 33, 67, 100}, got)

	quiet := newProgress(nil, 5)
	quiet.step()
	quiet.close()
	assert.Equal(t, 20, quiet.percent())
}
