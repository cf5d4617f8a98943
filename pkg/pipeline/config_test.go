package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/fisheye-hdr/pkg/fisheye"
	"github.com/abworrall/fisheye-hdr/pkg/radiance"
)

func TestRequestYaml(t *testing.T) {
	r := NewRequest()
	r.RadianceDir = "/usr/local/radiance/bin"
	r.Inputs = []string{"a.jpg", "b.jpg"}
	r.Diameter = "3612"
	r.Calibration.NeutralDensity = "nd.cal"
	r.Legend.ScaleLimit = "5000"
	r.Verbosity = 2

	again, err := NewRequestFromYaml([]byte(r.AsYaml()))
	require.NoError(t, err)
	if diff := cmp.Diff(r, again); diff != "" {
		t.Errorf("yaml round trip (-want +got):\n%s", diff)
	}
}

func TestLoadRequest(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "sky.yaml")
	yml := strings.Join([]string{
		"radiancedir: /opt/radiance/bin",
		"inputs: [scene1, scene2]",
		"diameter: 3612",
		"xleft: 1443",
		"ydown: 0",
		"calibration:",
		"  vignetting: vig.cal",
		"legend:",
		"  scalelimit: 2000",
		"disablefilter: true",
	}, "\n")
	require.NoError(t, os.WriteFile(filename, []byte(yml), 0o644))

	r, err := LoadRequest(filename)
	require.NoError(t, err)
	assert.Equal(t, "/opt/radiance/bin", r.RadianceDir)
	assert.Equal(t, []string{"scene1", "scene2"}, r.Inputs)
	assert.Equal(t, "3612", r.Diameter)
	assert.Equal(t, "vig.cal", r.Calibration.Vignetting)
	assert.Equal(t, "2000", r.Legend.ScaleLimit)
	assert.True(t, r.DisableFilter)

	// Defaults survive for anything not in the file.
	assert.Equal(t, "1000", r.XDim)

	_, err = LoadRequest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, KindFilesystem, KindOf(err))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("inputs: {{{"), 0o644))
	_, err = LoadRequest(bad)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestResolve(t *testing.T) {
	r := Request{
		Inputs:   []string{"a.jpg"},
		Diameter: "1200",
		XLeft:    "5",
		TempDir:  "/var/tmp/hdr",
		Legend:   Legend{ScaleLabel: "cd/m2"},
	}

	s, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, fisheye.Circle{Diameter: 1200, XLeft: 5}, s.Circle)
	assert.Equal(t, uint64(1000), s.XDim)
	assert.Equal(t, uint64(1000), s.YDim)
	assert.Equal(t, radiance.View{Vertical: "180", Horizontal: "180"}, s.View)
	assert.Equal(t, radiance.Legend{ScaleLabel: "cd/m2"}, s.Legend)
	assert.True(t, s.Filter)
	assert.Equal(t, filepath.Join("/var/tmp/hdr", s.RunID), s.TempDir)
	assert.True(t, filepath.IsAbs(s.OutputDir))
	assert.Empty(t, s.Calibration.Projection)

	other, err := r.Resolve()
	require.NoError(t, err)
	assert.NotEqual(t, s.RunID, other.RunID, "each run gets its own temp dir")

	r.TempDir = ""
	s, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.TempDir(), "fisheye-hdr", s.RunID), s.TempDir)
}

func TestSupportedExtensions(t *testing.T) {
	assert.True(t, IsSupported("a.JPG"))
	assert.True(t, IsSupported("/x/y/DSC_0001.NEF"))
	assert.True(t, IsSupported("b.tiff"))
	assert.False(t, IsSupported("c.png"))
	assert.False(t, IsSupported("noext"))

	assert.True(t, IsRaw("a.cr3"))
	assert.True(t, IsRaw("a.3FR"))
	assert.False(t, IsRaw("a.jpeg"))
	assert.False(t, IsRaw("a.TIF"))
	assert.False(t, IsRaw("a.png"))

	exts := SupportedExtensions()
	assert.Len(t, exts, 46)
	assert.Contains(t, exts, "jpg")
	assert.True(t, sortedStrings(exts))
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
