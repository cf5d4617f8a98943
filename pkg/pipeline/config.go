package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
	"github.com/abworrall/fisheye-hdr/pkg/radiance"
	"github.com/abworrall/fisheye-hdr/pkg/tool"
)

// Calibration holds the paths of the optional .cal files. An empty path
// turns its stage off.
type Calibration struct {
	Projection     string
	Vignetting     string
	NeutralDensity string
	Photometric    string
}

// Legend configures the falsecolor scale. Values are strings, as they are
// handed straight to falsecolor; the numeric ones are checked by Resolve.
type Legend struct {
	ScaleLimit  string
	ScaleLabel  string
	ScaleLevels string
	Width       string
	Height      string
}

// A Request is everything needed for one run. It doesn't change during
// the run. Geometry values are strings, as they come from YAML or flags;
// Resolve parses them.
type Request struct {
	Verbosity int

	RadianceDir     string
	HdrgenDir       string
	RawConverterDir string
	OutputDir       string
	TempDir         string // runs get their own subdir in here; default is $TMPDIR/fisheye-hdr

	// Inputs is either a list of image files (one scene), or a list of
	// directories, one scene per directory.
	Inputs []string

	ResponseFunction string // camera response curve for hdrgen, optional
	Calibration      Calibration

	Diameter string // of the fisheye circle, in pixels
	XLeft    string // offset of the circle's bounding square from the left edge
	YDown    string // ... and from the bottom edge
	XDim     string // size of the output, if the crop is bigger than 1000px
	YDim     string

	VerticalAngle   string
	HorizontalAngle string

	Legend Legend

	DisableFilter bool   // merge every exposure, don't select
	Preview       bool   // write a tonemapped PNG next to each HDR output
	Tonemapper    string // for the preview
}

// NewRequest returns a Request with the defaults filled in.
func NewRequest() Request {
	return Request{
		XDim:            "1000",
		YDim:            "1000",
		VerticalAngle:   "180",
		HorizontalAngle: "180",
		Legend: Legend{
			ScaleLabel:  "cd/m2",
			ScaleLevels: "8",
			Width:       "100",
			Height:      "400",
		},
		Tonemapper: "reinhard05",
	}
}

func NewRequestFromYaml(b []byte) (Request, error) {
	r := NewRequest()
	err := yaml.Unmarshal(b, &r)
	return r, err
}

// LoadRequest reads a Request from a YAML file.
func LoadRequest(filename string) (Request, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Request{}, filesystemErr("config", fmt.Errorf("read %s: %v", filename, err))
	}
	r, err := NewRequestFromYaml(contents)
	if err != nil {
		return r, validationf("config", "parse %s: %v", filename, err)
	}
	return r, nil
}

func (r Request) AsYaml() string {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Sprintf("# can't marshal request yaml: %v\n", err)
	}
	return string(b)
}

// Settings is a Request after validation: parsed numbers, absolute paths.
type Settings struct {
	Verbosity int
	RunID     string

	RadianceDir     string
	HdrgenDir       string
	RawConverterDir string
	OutputDir       string
	TempDir         string // this run's own temp dir; each scene gets one inside, in batch mode

	Inputs           []string
	ResponseFunction string
	Calibration      Calibration

	Circle     fisheye.Circle
	XDim, YDim uint64
	View       radiance.View
	Legend     radiance.Legend

	Filter     bool
	Preview    bool
	Tonemapper string
}

// Suite returns the tool wrappers, configured with our binary locations.
func (s Settings) Suite(runner tool.Runner) radiance.Suite {
	return radiance.Suite{
		Runner:          runner,
		RadianceDir:     s.RadianceDir,
		HdrgenDir:       s.HdrgenDir,
		RawConverterDir: s.RawConverterDir,
	}
}

// Resolve validates the request. Nothing is run, and nothing touches the
// disk; every problem found here is a Validation error.
func (r Request) Resolve() (Settings, error) {
	s := Settings{
		Verbosity:  r.Verbosity,
		RunID:      uuid.New().String(),
		Inputs:     append([]string(nil), r.Inputs...),
		Filter:     !r.DisableFilter,
		Preview:    r.Preview,
		Tonemapper: r.Tonemapper,
	}

	if len(r.Inputs) == 0 {
		return s, validationf("request", "no inputs given")
	}

	var err error
	if s.Circle.Diameter, err = parseUint("diameter", r.Diameter, false); err != nil {
		return s, err
	}
	if s.Circle.XLeft, err = parseUint("xleft", r.XLeft, true); err != nil {
		return s, err
	}
	if s.Circle.YDown, err = parseUint("ydown", r.YDown, true); err != nil {
		return s, err
	}
	if s.XDim, err = parseUint("xdim", orDefault(r.XDim, "1000"), false); err != nil {
		return s, err
	}
	if s.YDim, err = parseUint("ydim", orDefault(r.YDim, "1000"), false); err != nil {
		return s, err
	}

	s.View = radiance.View{
		Vertical:   orDefault(r.VerticalAngle, "180"),
		Horizontal: orDefault(r.HorizontalAngle, "180"),
	}
	for name, val := range map[string]string{
		"verticalangle":      s.View.Vertical,
		"horizontalangle":    s.View.Horizontal,
		"legend.scalelimit":  r.Legend.ScaleLimit,
		"legend.scalelevels": r.Legend.ScaleLevels,
		"legend.width":       r.Legend.Width,
		"legend.height":      r.Legend.Height,
	} {
		if err := checkFloat(name, val); err != nil {
			return s, err
		}
	}
	s.Legend = radiance.Legend(r.Legend)

	if r.Preview && !knownTonemapper(s.Tonemapper) {
		return s, validationf("request", "tonemapper %q not recognized, wanted one of %v", s.Tonemapper, radiance.Tonemappers)
	}

	paths := []struct {
		dst *string
		src string
	}{
		{&s.RadianceDir, r.RadianceDir},
		{&s.HdrgenDir, r.HdrgenDir},
		{&s.RawConverterDir, r.RawConverterDir},
		{&s.OutputDir, orDefault(r.OutputDir, ".")},
		{&s.ResponseFunction, r.ResponseFunction},
		{&s.Calibration.Projection, r.Calibration.Projection},
		{&s.Calibration.Vignetting, r.Calibration.Vignetting},
		{&s.Calibration.NeutralDensity, r.Calibration.NeutralDensity},
		{&s.Calibration.Photometric, r.Calibration.Photometric},
	}
	for _, p := range paths {
		if *p.dst, err = absPath(p.src); err != nil {
			return s, err
		}
	}

	base := r.TempDir
	if base == "" {
		base = filepath.Join(os.TempDir(), "fisheye-hdr")
	}
	if s.TempDir, err = absPath(filepath.Join(base, s.RunID)); err != nil {
		return s, err
	}

	return s, nil
}

func knownTonemapper(name string) bool {
	if name == "" {
		return true
	}
	for _, t := range radiance.Tonemappers {
		if t == name {
			return true
		}
	}
	return false
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

func parseUint(name, val string, emptyIsZero bool) (uint64, error) {
	if val == "" && emptyIsZero {
		return 0, nil
	} else if val == "" {
		return 0, validationf("request", "%s: not set", name)
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, validationf("request", "%s: %q is not an unsigned integer", name, val)
	}
	return n, nil
}

// checkFloat insists that val is a number, if it is set.
func checkFloat(name, val string) error {
	if val == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(val, 64); err != nil {
		return validationf("request", "%s: %q is not a number", name, val)
	}
	return nil
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", validationf("request", "path %q: %v", p, err)
	}
	return abs, nil
}
