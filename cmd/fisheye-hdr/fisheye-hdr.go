package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/abworrall/fisheye-hdr/pkg/pipeline"
)

var (
	fConfig string

	fVerbosity       int
	fRadianceDir     string
	fHdrgenDir       string
	fRawConverterDir string
	fOutputDir       string
	fTempDir         string
	fResponse        string

	fProjection     string
	fVignetting     string
	fNeutralDensity string
	fPhotometric    string

	fDiameter string
	fXLeft    string
	fYDown    string
	fXDim     string
	fYDim     string
	fVAngle   string
	fHAngle   string

	fScaleLimit  string
	fScaleLabel  string
	fScaleLevels string

	fNoFilter   bool
	fPreview    bool
	fTonemapper string
)

func init() {
	flag.StringVar(&fConfig, "config", "", "YAML file holding the request; flags override it")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")

	flag.StringVar(&fRadianceDir, "radiance", "", "dir holding the Radiance binaries (default: $PATH)")
	flag.StringVar(&fHdrgenDir, "hdrgen", "", "dir holding the hdrgen binary (default: $PATH)")
	flag.StringVar(&fRawConverterDir, "dcraw", "", "dir holding the dcraw_emu binary (default: $PATH)")
	flag.StringVar(&fOutputDir, "o", "", "where the HDR and falsecolor images go")
	flag.StringVar(&fTempDir, "tmp", "", "base dir for intermediate files")
	flag.StringVar(&fResponse, "rsp", "", "camera response function file, for hdrgen")

	flag.StringVar(&fProjection, "projection", "", "fisheye projection correction .cal file")
	flag.StringVar(&fVignetting, "vignetting", "", "vignetting correction .cal file")
	flag.StringVar(&fNeutralDensity, "nd", "", "neutral density filter correction .cal file")
	flag.StringVar(&fPhotometric, "photometric", "", "photometric adjustment .cal file")

	flag.StringVar(&fDiameter, "diameter", "", "diameter of the fisheye circle, in pixels")
	flag.StringVar(&fXLeft, "xleft", "", "offset of the fisheye circle from the left edge")
	flag.StringVar(&fYDown, "ydown", "", "offset of the fisheye circle from the bottom edge")
	flag.StringVar(&fXDim, "xdim", "", "output width, if the circle is bigger than 1000px")
	flag.StringVar(&fYDim, "ydim", "", "output height, if the circle is bigger than 1000px")
	flag.StringVar(&fVAngle, "vv", "", "vertical view angle of the lens, in degrees")
	flag.StringVar(&fHAngle, "vh", "", "horizontal view angle of the lens, in degrees")

	flag.StringVar(&fScaleLimit, "scale", "", "falsecolor: top of the luminance scale")
	flag.StringVar(&fScaleLabel, "label", "", "falsecolor: legend label")
	flag.StringVar(&fScaleLevels, "levels", "", "falsecolor: number of legend levels")

	flag.BoolVar(&fNoFilter, "nofilter", false, "merge every exposure, instead of picking the useful ones")
	flag.BoolVar(&fPreview, "preview", false, "also write a tonemapped PNG of each HDR")
	flag.StringVar(&fTonemapper, "tonemapper", "", "tonemapper for the preview")
	flag.Parse()

	log.Printf("fisheye-hdr starting\n")
}

func main() {
	req := pipeline.NewRequest()
	if fConfig != "" {
		r, err := pipeline.LoadRequest(fConfig)
		if err != nil {
			log.Fatal(err)
		}
		req = r
	}

	// Override the config file with command line args, if relevant
	override := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	override(&req.RadianceDir, fRadianceDir)
	override(&req.HdrgenDir, fHdrgenDir)
	override(&req.RawConverterDir, fRawConverterDir)
	override(&req.OutputDir, fOutputDir)
	override(&req.TempDir, fTempDir)
	override(&req.ResponseFunction, fResponse)
	override(&req.Calibration.Projection, fProjection)
	override(&req.Calibration.Vignetting, fVignetting)
	override(&req.Calibration.NeutralDensity, fNeutralDensity)
	override(&req.Calibration.Photometric, fPhotometric)
	override(&req.Diameter, fDiameter)
	override(&req.XLeft, fXLeft)
	override(&req.YDown, fYDown)
	override(&req.XDim, fXDim)
	override(&req.YDim, fYDim)
	override(&req.VerticalAngle, fVAngle)
	override(&req.HorizontalAngle, fHAngle)
	override(&req.Legend.ScaleLimit, fScaleLimit)
	override(&req.Legend.ScaleLabel, fScaleLabel)
	override(&req.Legend.ScaleLevels, fScaleLevels)
	override(&req.Tonemapper, fTonemapper)

	if len(flag.Args()) > 0 {
		req.Inputs = flag.Args()
	}
	if fVerbosity > 0 {
		req.Verbosity = fVerbosity
	}
	if fNoFilter {
		req.DisableFilter = true
	}
	if fPreview {
		req.Preview = true
	}

	if req.Verbosity > 0 {
		log.Printf("Final request:-\n\n%s\n", req.AsYaml())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.Pipeline{
		Progress: func(pct int) { log.Printf("... %3d%%\n", pct) },
	}

	res, err := p.Run(ctx, req)
	if err != nil {
		log.Fatalf("failed (%s): %v", pipeline.KindOf(err), err)
	}

	for _, sc := range res.Scenes {
		log.Printf("%s\n", sc.HDR)
		log.Printf("%s\n", sc.Falsecolor)
		if sc.Preview != "" {
			log.Printf("%s\n", sc.Preview)
		}
	}
	log.Printf("fisheye-hdr done, output in %s\n", res.Path)
}
