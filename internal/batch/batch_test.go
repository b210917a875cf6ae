package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iges2bezier/internal/iges"
	"iges2bezier/internal/iges/igestest"
	"iges2bezier/internal/jobs"
	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/spline"
)

func sheet() spline.Surface {
	return spline.Surface{
		DegreeU: 1, DegreeV: 1,
		KnotsU: []float64{0, 0, 1, 1},
		KnotsV: []float64{0, 0, 1, 1},
		NU:     2, NV: 2,
		Points: []spline.HPoint{
			{X: 0, Y: 0, Z: 0, W: 1}, {X: 1, Y: 0, Z: 0, W: 1},
			{X: 0, Y: 1, Z: 0.5, W: 1}, {X: 1, Y: 1, Z: 0.5, W: 1},
		},
		Domain:     spline.Rect{U0: 0, V0: 0, U1: 1, V1: 1},
		Polynomial: true,
	}
}

// twoJobs builds one exportable job and one whose trim curve is rational.
func twoJobs(t *testing.T) []jobs.Job {
	t.Helper()
	b := igestest.New()
	surf := b.Surface(sheet())
	b.Trimmed(surf, 0)

	bad := spline.Curve{
		Degree:     1,
		Knots:      []float64{0, 0, 1, 1},
		Points:     []spline.HPoint{{X: 0, Y: 0, W: 1}, {X: 1, Y: 1, W: 2}},
		Domain:     [2]float64{0, 1},
		Polynomial: false,
	}
	b.Trimmed(surf, b.ParametricCurve(surf, b.Curve(bad), 0))

	g, err := iges.ParseReader(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	js, errs := jobs.Build(g)
	require.Empty(t, errs)
	require.Len(t, js, 2)
	return js
}

func TestRun(t *testing.T) {
	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	dir := filepath.Join(t.TempDir(), "out")
	cfg := Config{
		OutputDir:   dir,
		Preview:     true,
		UVPlot:      true,
		View:        mathutil.Isometric,
		RenderSize:  48,
		Supersample: 2,
		Resolution:  2,
		UVSize:      64,
		Workers:     2,
	}
	results := Run(cfg, twoJobs(t))
	require.Len(t, results, 2)

	ok, bad := results[0], results[1]
	assert.True(t, ok.Success, ok.Error)
	assert.Equal(t, 1, ok.Index)
	assert.Equal(t, []string{"trim_surface_1.txt", "trim_curve_1.txt", "preview_1.webp", "uv_1.webp"}, ok.Files)
	for _, f := range ok.Files {
		st, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err)
		assert.Positive(t, st.Size(), f)
	}

	curves, err := os.ReadFile(filepath.Join(dir, "trim_curve_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "M 0,0 L 1,0 L 1,1 L 0,1 L 0,0 z\n", string(curves))

	surface, err := os.ReadFile(filepath.Join(dir, "trim_surface_1.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(surface), "v 0 0 0 1\nvt 0 0\n"))

	assert.False(t, bad.Success)
	assert.Equal(t, 2, bad.Index)
	assert.Contains(t, bad.Error, "not polynomial")
	_, err = os.Stat(filepath.Join(dir, "trim_surface_2.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, 1, Failed(results))
	assert.Contains(t, logs.String(), "batch done")
	assert.Contains(t, logs.String(), "job failed")
}

func TestRunArtifactsOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{OutputDir: dir, Workers: 1, Opaque: true}
	results := Run(cfg, twoJobs(t)[:1])
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Len(t, results[0].Files, 2)

	_, err := os.Stat(filepath.Join(dir, "preview_1.webp"))
	assert.True(t, os.IsNotExist(err))
}

type countingResolver struct {
	calls atomic.Int32
	names sync.Map
}

func (r *countingResolver) Resolve(name string) *image.NRGBA {
	r.calls.Add(1)
	r.names.Store(name, true)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	return img
}

func TestRunTextured(t *testing.T) {
	dir := t.TempDir()
	res := &countingResolver{}
	cfg := Config{
		OutputDir:  dir,
		Preview:    true,
		Textures:   res,
		Texture:    "steel",
		Opaque:     true,
		RenderSize: 40,
		Workers:    1,
	}
	results := Run(cfg, twoJobs(t)[:1])
	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, int32(1), res.calls.Load())
	_, ok := res.names.Load("steel")
	assert.True(t, ok)
	_, err := os.Stat(filepath.Join(dir, "preview_1.webp"))
	assert.NoError(t, err)
}

func TestRunEmpty(t *testing.T) {
	assert.Empty(t, Run(Config{OutputDir: t.TempDir()}, nil))
}

func TestManifest(t *testing.T) {
	results := []Result{
		{Index: 1, Seq: 5, Files: []string{"trim_surface_1.txt"}, Success: true},
		{Index: 2, Seq: 9, Error: "boom"},
	}
	m := NewManifest("part.igs", results, []error{errors.New("jobs: DE 11: missing")})
	assert.NotEmpty(t, m.RunID)
	assert.NotEqual(t, m.RunID, NewManifest("part.igs", nil, nil).RunID)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m, got)
	assert.Equal(t, "part.igs", got.Input)
	assert.Equal(t, []string{"jobs: DE 11: missing"}, got.Errors)
	assert.Equal(t, "boom", got.Jobs[1].Error)
}

func TestDefaultLoggerSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

