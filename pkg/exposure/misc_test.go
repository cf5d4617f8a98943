package exposure

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
)

func TestExposureValue(t *testing.T) {
	ev := ExposureValue{ISO: 100, ApertureX10: 80, ShutterSpeed: rat64{1, 125}}
	require.NoError(t, ev.Validate())
	assert.InDelta(t, 12.966, ev.EV, 0.001)
	assert.Equal(t, "f/8.0, 1/125, ISO100, EV 13.0", ev.String())

	ev.ISO = 200
	require.NoError(t, ev.Validate())
	assert.InDelta(t, 11.966, ev.EV, 0.001)

	bad := ExposureValue{ISO: 100, ApertureX10: 80}
	assert.Error(t, bad.Validate())
}

func TestReadExposureWithoutEXIF(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "plain.jpg")
	writeJPEG(t, filename, solid(4, 4, 100))

	_, err := ReadExposure(filename)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Candidate{
		{Stats: Stats{MeanBrightness: 200}},
		{Stats: Stats{MeanBrightness: 100}},
		{Stats: Stats{MeanBrightness: 50}},
	})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 200.0, s.Brightest)
	assert.Equal(t, 50.0, s.Darkest)
	assert.InDelta(t, 116.67, s.Mean, 0.01)
	assert.InDelta(t, 2.0, s.Stops(), 1e-9)

	one := Summarize([]Candidate{{Stats: Stats{MeanBrightness: 42}}})
	assert.Equal(t, 42.0, one.Mean)
	assert.Equal(t, 0.0, one.StdDev)

	assert.Equal(t, 0, Summarize(nil).Count)
	assert.Equal(t, 0.0, Summarize(nil).Stops())
}

func TestClassColor(t *testing.T) {
	assert.Equal(t, outsideColor, ClassColor(color.White, false))
	assert.Equal(t, crushedColor, ClassColor(color.Black, true))
	assert.Equal(t, blownColor, ClassColor(color.White, true))

	gray, ok := ClassColor(color.RGBA{128, 128, 128, 0xff}, true).(colorful.Color)
	require.True(t, ok)
	assert.InDelta(t, 128.0/255.0, gray.R, 1e-6)
}

func TestWriteClassification(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "classes.png")
	c := fisheye.Circle{Diameter: 30, XLeft: 5, YDown: 5}
	require.NoError(t, WriteClassification(solid(40, 40, 128), fisheye.NewMask(c, 40, 40), c, "test", filename))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 40, cfg.Width)
}

func TestVerifyTIFF(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tiff")
	f, err := os.Create(good)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, solid(5, 3, 90), nil))
	require.NoError(t, f.Close())
	assert.NoError(t, VerifyTIFF(good))

	bad := filepath.Join(dir, "bad.tiff")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a tiff"), 0o644))
	var de *DecodeError
	assert.ErrorAs(t, VerifyTIFF(bad), &de)
	assert.ErrorAs(t, VerifyTIFF(filepath.Join(dir, "missing.tiff")), &de)
}
