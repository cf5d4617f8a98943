// Package radiance wraps the command line tools used to build a calibrated
// HDR image: hdrgen for the merge, dcraw_emu for raw conversion, and the
// Radiance suite (ra_xyze, pcompos, pfilt, pcomb, evalglare, getinfo,
// falsecolor) for everything after. Each wrapper just builds an argument
// list and hands it to a tool.Runner.
package radiance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
	"github.com/abworrall/fisheye-hdr/pkg/tool"
)

// A Suite knows where the binaries live, and how to run them.
type Suite struct {
	Runner          tool.Runner
	RadianceDir     string // ra_xyze, pcompos, pfilt, pcomb, evalglare, getinfo, falsecolor
	HdrgenDir       string
	RawConverterDir string
}

// View holds the field of view of the fisheye lens, in degrees. Values are
// passed through to the tools as given.
type View struct {
	Vertical   string
	Horizontal string
}

func (v View) args() []string { return []string{"-vta", "-vv", v.Vertical, "-vh", v.Horizontal} }

// Legend configures the scale of a falsecolor map.
type Legend struct {
	ScaleLimit  string // max luminance on the scale; empty lets falsecolor pick
	ScaleLabel  string
	ScaleLevels string
	Width       string
	Height      string
}

func (s Suite) radiance(label, program string, args ...string) tool.Invocation {
	return tool.Invocation{Label: label, Dir: s.RadianceDir, Program: program, Args: args}
}

func (s Suite) run(ctx context.Context, inv tool.Invocation) (string, error) {
	return s.Runner.Run(ctx, inv)
}

// MergeExposures runs hdrgen over the LDR exposures, writing the HDR to out.
func (s Suite) MergeExposures(ctx context.Context, inputs []string, responseFunction, out string) (string, error) {
	args := append([]string{}, inputs...)
	args = append(args, "-o", out)
	if responseFunction != "" {
		args = append(args, "-r", responseFunction)
	}
	args = append(args, "-a", "-e", "-f", "-g", "-F")

	_, err := s.run(ctx, tool.Invocation{Label: "merge", Dir: s.HdrgenDir, Program: "hdrgen", Args: args})
	return out, err
}

// ConvertRaw runs dcraw_emu over each raw image, producing input<N>.tiff
// files in dir. The returned paths are in the same order as inputs.
func (s Suite) ConvertRaw(ctx context.Context, inputs []string, dir string) ([]string, error) {
	tiffs := make([]string, 0, len(inputs))
	for i, in := range inputs {
		out := filepath.Join(dir, fmt.Sprintf("input%d.tiff", i+1))
		args := []string{
			"-T", "-o", "1", "-W", "-j", "-q", "3", "-g", "2", "0", "-t", "0", "-b", "1.1",
			"-Z", out, in,
		}
		inv := tool.Invocation{Label: "raw_convert", Dir: s.RawConverterDir, Program: "dcraw_emu", Args: args}
		if _, err := s.run(ctx, inv); err != nil {
			return nil, err
		}
		tiffs = append(tiffs, out)
	}
	return tiffs, nil
}

// NullifyExposure resets the exposure value recorded in the HDR header.
func (s Suite) NullifyExposure(ctx context.Context, in, out string) (string, error) {
	_, err := s.run(ctx, s.radiance("nullify_exposure", "ra_xyze", "-r", "-o", in, out))
	return out, err
}

// Crop cuts the image down to the square that circumscribes the fisheye circle.
func (s Suite) Crop(ctx context.Context, in, out string, c fisheye.Circle) (string, error) {
	d := strconv.FormatUint(c.Diameter, 10)
	inv := s.radiance("crop", "pcompos",
		"-x", d, "-y", d, in,
		"-"+strconv.FormatUint(c.XLeft, 10), "-"+strconv.FormatUint(c.YDown, 10))
	inv.Stdout = out
	return s.run(ctx, inv)
}

// Resize resamples the image to xdim by ydim, keeping its exposure.
func (s Suite) Resize(ctx context.Context, in, out string, xdim, ydim uint64) (string, error) {
	inv := s.radiance("resize", "pfilt",
		"-1", "-x", strconv.FormatUint(xdim, 10), "-y", strconv.FormatUint(ydim, 10), in)
	inv.Stdout = out
	return s.run(ctx, inv)
}

// The four calibration steps are all pcomb, with a different .cal file.

func (s Suite) ProjectionAdjustment(ctx context.Context, in, out, cal string) (string, error) {
	return s.pcomb(ctx, "projection", in, out, cal, false)
}

func (s Suite) VignettingCorrection(ctx context.Context, in, out, cal string) (string, error) {
	return s.pcomb(ctx, "vignetting", in, out, cal, false)
}

func (s Suite) NeutralDensity(ctx context.Context, in, out, cal string) (string, error) {
	return s.pcomb(ctx, "neutral_density", in, out, cal, false)
}

// PhotometricAdjustment also passes -h, so pcomb leaves the header in place.
func (s Suite) PhotometricAdjustment(ctx context.Context, in, out, cal string) (string, error) {
	return s.pcomb(ctx, "photometric", in, out, cal, true)
}

func (s Suite) pcomb(ctx context.Context, label, in, out, cal string, keepHeader bool) (string, error) {
	args := []string{"-f", cal, in}
	if keepHeader {
		args = append([]string{"-h"}, args...)
	}
	inv := s.radiance(label, "pcomb", args...)
	inv.Stdout = out
	return s.run(ctx, inv)
}

// Evalglare runs the glare analysis and returns the value it prints. The
// tool can exit non-zero with a perfectly good answer, so any output at all
// counts as success.
func (s Suite) Evalglare(ctx context.Context, in string, v View) (string, error) {
	args := append(v.args(), "-V", in)
	out, err := s.run(ctx, s.radiance("evalglare", "evalglare", args...))
	glare := strings.TrimSpace(out)
	if err != nil && glare == "" {
		return "", err
	}
	return glare, nil
}

// EditHeader writes a copy of in to out with the view and the glare value
// added to the header.
func (s Suite) EditHeader(ctx context.Context, in, out string, v View, glare string) (string, error) {
	inv := s.radiance("header_edit", "getinfo",
		"-a",
		"VIEW= "+strings.Join(v.args(), " "),
		GlareKey+" "+glare)
	inv.Stdin = in
	inv.Stdout = out
	return s.run(ctx, inv)
}

// Falsecolor renders the luminance map. falsecolor shells out to other
// Radiance tools, so the Radiance dir goes on the front of its PATH.
func (s Suite) Falsecolor(ctx context.Context, in, out string, l Legend) (string, error) {
	args := []string{"-i", in}
	if l.ScaleLimit != "" {
		args = append(args, "-s", l.ScaleLimit)
	}
	if l.ScaleLabel != "" {
		args = append(args, "-l", l.ScaleLabel)
	}
	if l.ScaleLevels != "" {
		args = append(args, "-n", l.ScaleLevels)
	}
	if l.Width != "" {
		args = append(args, "-lw", l.Width)
	}
	if l.Height != "" {
		args = append(args, "-lh", l.Height)
	}

	inv := s.radiance("falsecolor", "falsecolor", args...)
	if s.RadianceDir != "" {
		inv.Env = []string{"PATH=" + s.RadianceDir + string(os.PathListSeparator) + os.Getenv("PATH")}
	}
	inv.Stdout = out
	return s.run(ctx, inv)
}
