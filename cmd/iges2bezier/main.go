package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"iges2bezier/internal/batch"
	"iges2bezier/internal/config"
	"iges2bezier/internal/iges"
	"iges2bezier/internal/jobs"
	"iges2bezier/internal/mathutil"
	"iges2bezier/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.yaml (or .json) file")
	input := flag.String("in", "", "IGES file to convert")
	outputDir := flag.String("output", "", "Output directory (default: <input>-bezier next to the input)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	preview := flag.Bool("preview", false, "Render a shaded preview_N.webp per surface")
	uv := flag.Bool("uv", false, "Plot trim loops to uv_N.webp per surface")
	textureDir := flag.String("textures", "", "Directory searched for preview textures (default: input directory)")
	textureName := flag.String("texture", "", "Texture mapped onto previews by surface parameters")
	testN := flag.Int("test", 0, "Convert only the first N surfaces")
	verbose := flag.Bool("v", false, "Log progress and per-job details to stderr")
	debug := flag.Bool("debug", false, "With -v, also log every written file")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Positional input as a shorthand for -in
	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Input:      *input,
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Texture:    *textureName,
		Preview:    *preview,
		UVPlot:     *uv,
		Workers:    *workers,
	})

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file. Use -in or set input in the config file.")
		os.Exit(1)
	}
	view, ok := mathutil.Views[cfg.View]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown view %q (isometric, top, front)\n", cfg.View)
		os.Exit(1)
	}

	if *verbose {
		level := slog.LevelInfo
		if *debug {
			level = slog.LevelDebug
		}
		batch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	// Parse and build jobs
	g, err := iges.Parse(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, err := range g.Errors() {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	js, buildErrs := jobs.Build(g)
	for _, err := range buildErrs {
		fmt.Fprintf(os.Stderr, "Skipped: %v\n", err)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(js) {
		js = js[:*testN]
	}

	if len(js) == 0 {
		fmt.Println("No trimmed or bounded surfaces to convert.")
		os.Exit(0)
	}

	// Preview texture
	var textures texture.Resolver
	if cfg.Preview && cfg.Texture != "" {
		texIndex := texture.BuildIndex(cfg.TextureDir)
		texCache := texture.NewCache(texIndex)
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
		if texCache.Resolve(cfg.Texture) == nil {
			fmt.Fprintf(os.Stderr, "Warning: texture %q not found, rendering flat\n", cfg.Texture)
		}
		textures = texCache
	}

	// Print summary
	fmt.Printf("IGES → Bezier patches: %s\n", cfg.Input)
	if g.Global.SystemID != "" {
		fmt.Printf("Written by: %s\n", g.Global.SystemID)
	}
	fmt.Printf("Entities: %d, Surfaces: %d, Workers: %d\n", g.Len(), len(js), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Preview:     cfg.Preview,
		UVPlot:      cfg.UVPlot,
		View:        view,
		Textures:    textures,
		Texture:     cfg.Texture,
		Opaque:      cfg.Background == "white",
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Resolution:  cfg.Resolution,
		UVSize:      cfg.UVSize,
		Workers:     cfg.Workers,
	}

	results := batch.Run(batchCfg, js)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	failed := batch.Failed(results)
	fmt.Printf("Converted: %d/%d\n", len(results)-failed, len(results))

	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			if shown == 20 {
				break
			}
			fmt.Printf("  #%d (DE %d): %s\n", r.Index, r.Seq, r.Error)
			shown++
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(cfg.Input, results, buildErrs)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
