// Package batch exports jobs in parallel and writes their artifacts.
package batch

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"iges2bezier/internal/artifact"
	"iges2bezier/internal/jobs"
	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/postprocess"
	"iges2bezier/internal/raster"
	"iges2bezier/internal/texture"
	"iges2bezier/internal/uvplot"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string

	// Previews
	Preview     bool
	UVPlot      bool
	View        mathutil.Mat3
	Textures    texture.Resolver
	Texture     string // resolved through Textures; empty renders flat shaded
	Opaque      bool   // flatten previews onto white
	RenderSize  int
	Supersample int
	Resolution  int
	UVSize      int

	Workers int
	// Progress is the progress log interval; zero means 2s.
	Progress time.Duration
}

// Result holds the outcome of processing one job.
type Result struct {
	Index   int
	Seq     int
	Files   []string // written file names, relative to OutputDir
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool. Results are in job order.
func Run(cfg Config, js []jobs.Job) []Result {
	total := len(js)
	results := make([]Result, total)
	var processed atomic.Int64
	log := Logger()

	workers := max(cfg.Workers, 1)
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}
	log.Info("batch start", "jobs", total, "workers", workers, "output", cfg.OutputDir)
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "rate", fmt.Sprintf("%.1f jobs/sec", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, js[idx])
				if !results[idx].Success {
					log.Warn("job failed", "index", js[idx].Index, "seq", js[idx].Seq, "error", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range js {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	log.Info("batch done", "jobs", total, "failed", Failed(results), "elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

// Failed counts unsuccessful results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}

func processJob(cfg Config, job jobs.Job) Result {
	res := Result{Index: job.Index, Seq: job.Seq}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	out, err := job.Export()
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fail(err)
	}

	name := fmt.Sprintf("trim_surface_%d.txt", job.Index)
	if err := writeFile(filepath.Join(cfg.OutputDir, name), func(f *os.File) error {
		return artifact.WriteSurface(f, out.Patches)
	}); err != nil {
		return fail(err)
	}
	res.Files = append(res.Files, name)

	name = fmt.Sprintf("trim_curve_%d.txt", job.Index)
	if err := writeFile(filepath.Join(cfg.OutputDir, name), func(f *os.File) error {
		return artifact.WriteCurves(f, out.Paths)
	}); err != nil {
		return fail(err)
	}
	res.Files = append(res.Files, name)

	if cfg.Preview {
		var tex *image.NRGBA
		if cfg.Textures != nil && cfg.Texture != "" {
			tex = cfg.Textures.Resolve(cfg.Texture)
		}
		img := raster.RenderPatches(out.Patches, raster.Options{
			Size:        cfg.RenderSize,
			Supersample: cfg.Supersample,
			Resolution:  cfg.Resolution,
			Placement:   job.Placement,
			View:        cfg.View,
			Texture:     tex,
		})
		// Post-processing: supersample downsample
		img = postprocess.Downsample(img, cfg.Supersample)
		if cfg.Opaque {
			img = postprocess.Flatten(img, image.NewUniform(color.White))
		}
		name = fmt.Sprintf("preview_%d.webp", job.Index)
		if err := writeWebP(filepath.Join(cfg.OutputDir, name), img); err != nil {
			return fail(err)
		}
		res.Files = append(res.Files, name)
	}

	if cfg.UVPlot {
		opts := uvplot.DefaultOptions()
		if cfg.UVSize > 0 {
			opts.Size = cfg.UVSize
		}
		img, err := uvplot.Plot(out.Paths, opts)
		if err != nil {
			return fail(err)
		}
		name = fmt.Sprintf("uv_%d.webp", job.Index)
		if err := writeWebP(filepath.Join(cfg.OutputDir, name), img); err != nil {
			return fail(err)
		}
		res.Files = append(res.Files, name)
	}

	Logger().Debug("job written", "index", job.Index, "seq", job.Seq, "files", res.Files)
	res.Success = true
	return res
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeWebP(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error {
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	})
}
