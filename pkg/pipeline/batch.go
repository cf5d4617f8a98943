package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/abworrall/fisheye-hdr/pkg/exposure"
	"github.com/abworrall/fisheye-hdr/pkg/radiance"
	"github.com/abworrall/fisheye-hdr/pkg/tool"
)

// A Pipeline turns requests into HDR images. The zero value runs the real
// tools, with the real exposure selector.
type Pipeline struct {
	Runner    tool.Runner                   // nil means tool.ExecRunner
	NewFilter func(Settings) ExposureFilter // nil means an exposure.Selector
	Progress  ProgressFunc                  // optional
	Now       func() time.Time              // for output names; nil means time.Now
}

// SceneResult says what one scene produced.
type SceneResult struct {
	Name       string
	Inputs     []string
	Selected   []string // what went into the merge
	TempDir    string
	HDR        string // in the output dir
	Falsecolor string
	Preview    string // if one was asked for
	Glare      string
	Width      int // of the HDR, when it could be read
	Height     int
}

// Result is what a successful run produced.
type Result struct {
	RunID string
	Batch bool

	// Path is the output dir for a batch, or the HDR output of a single
	// scene.
	Path   string
	Scenes []SceneResult
}

func (p Pipeline) runner(s Settings) tool.Runner {
	if p.Runner != nil {
		return p.Runner
	}
	return tool.ExecRunner{Verbosity: s.Verbosity}
}

func (p Pipeline) filter(s Settings, tempDir string) ExposureFilter {
	if !s.Filter {
		return nil
	}
	if p.NewFilter != nil {
		return p.NewFilter(s)
	}
	sel := exposure.Selector{Circle: s.Circle, Verbosity: s.Verbosity}
	if s.Verbosity > 2 {
		sel.DebugDir = tempDir
	}
	return sel
}

func (p Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run processes every scene in the request, one after the other. The first
// error stops the run; scenes after it are not processed, and whatever
// intermediate files were written stay in the temp dir.
func (p Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	s, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	scenes, batch, err := planScenes(s)
	if err != nil {
		return nil, err
	}

	log.Printf("fisheye-hdr run %s: %d scene(s), temp dir %s\n", s.RunID, len(scenes), s.TempDir)
	if s.Verbosity > 0 {
		log.Printf("Final settings: %+v\n", s)
	}

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return nil, filesystemErr("output dir", err)
	}

	prog := newProgress(p.Progress, NumSteps*len(scenes))
	defer prog.close()
	prog.emit()

	res := &Result{RunID: s.RunID, Batch: batch, Path: s.OutputDir}
	sq := &Sequencer{
		Suite:    s.Suite(p.runner(s)),
		Settings: s,
		Step:     func(int) { prog.step() },
	}

	for _, scene := range scenes {
		op := "scene"
		if scene.Name != "" {
			op = fmt.Sprintf("scene '%s'", scene.Name)
		}
		log.Printf("Processing %s: %d images\n", op, len(scene.Inputs))

		if err := os.MkdirAll(scene.TempDir, 0o755); err != nil {
			return nil, filesystemErr(op, err)
		}

		sq.Filter = p.filter(s, scene.TempDir)
		a, err := sq.ProcessImageSet(ctx, scene)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		sr, err := p.finishScene(s, scene, a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res.Scenes = append(res.Scenes, sr)

		log.Printf("Wrote %s, %s (glare %s)\n", sr.HDR, sr.Falsecolor, sr.Glare)
	}

	if !batch {
		res.Path = res.Scenes[0].HDR
	}
	return res, nil
}

// finishScene copies the scene's two outputs into the output dir.
func (p Pipeline) finishScene(s Settings, scene Scene, a *Artifacts) (SceneResult, error) {
	sr := SceneResult{
		Name:     scene.Name,
		Inputs:   scene.Inputs,
		Selected: a.Selected,
		TempDir:  scene.TempDir,
		Glare:    a.Glare,
	}

	hdrName, fcName := outputNames(scene, p.now())
	sr.HDR = filepath.Join(s.OutputDir, hdrName)
	sr.Falsecolor = filepath.Join(s.OutputDir, fcName)

	if err := copyFile(a.HDR(), sr.HDR); err != nil {
		return sr, filesystemErr("copy output", err)
	}
	if err := copyFile(a.Falsecolor(), sr.Falsecolor); err != nil {
		return sr, filesystemErr("copy output", err)
	}

	if cfg, err := radiance.Inspect(sr.HDR); err == nil {
		sr.Width, sr.Height = cfg.Width, cfg.Height
	} else if s.Verbosity > 0 {
		log.Printf(" -- inspect %s: %v\n", sr.HDR, err)
	}

	if s.Verbosity > 1 {
		if g, err := radiance.ReadHeaderValue(sr.HDR, radiance.GlareKey); err == nil {
			log.Printf(" -- %s header has %s %s\n", filepath.Base(sr.HDR), radiance.GlareKey, g)
		}
	}

	if s.Preview {
		sr.Preview = previewName(sr.HDR)
		if err := radiance.WritePreview(sr.HDR, sr.Preview, s.Tonemapper); err != nil {
			return sr, &Error{Kind: KindDecode, Op: "preview", Err: err}
		}
	}

	return sr, nil
}

func copyFile(src, dst string) error {
	if src == "" {
		return fmt.Errorf("copy to %s: nothing was produced", dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
