package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and export settings. The same keys
// work in YAML and JSON files.
type Config struct {
	// Paths
	Input      string `yaml:"input"`
	OutputDir  string `yaml:"output_dir"`
	TextureDir string `yaml:"texture_dir"`
	// Texture is the texture name mapped onto every preview; empty means
	// flat shading.
	Texture string `yaml:"texture"`

	// Outputs
	Preview    bool   `yaml:"preview"`
	UVPlot     bool   `yaml:"uv_plot"`
	View       string `yaml:"view"`
	Background string `yaml:"background"` // "transparent" or "white"

	// Render settings
	RenderSize  int `yaml:"render_size"`
	Supersample int `yaml:"supersample"`
	Resolution  int `yaml:"resolution"` // preview grid cells per patch edge
	UVSize      int `yaml:"uv_size"`
	Workers     int `yaml:"workers"`
}

// Load reads a YAML (or JSON) config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Preview {
		c.Preview = true
	}
	if flags.UVPlot {
		c.UVPlot = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Output next to the input unless given
	if c.OutputDir == "" && c.Input != "" {
		base := strings.TrimSuffix(filepath.Base(c.Input), filepath.Ext(c.Input))
		c.OutputDir = filepath.Join(filepath.Dir(c.Input), base+"-bezier")
	}
	if c.TextureDir == "" && c.Input != "" {
		c.TextureDir = filepath.Dir(c.Input)
	}

	// Defaults for render settings
	if c.View == "" {
		c.View = "isometric"
	}
	if c.Background == "" {
		c.Background = "transparent"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Resolution <= 0 {
		c.Resolution = 8
	}
	if c.UVSize <= 0 {
		c.UVSize = 512
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input      string
	OutputDir  string
	TextureDir string
	Texture    string
	Preview    bool
	UVPlot     bool
	Workers    int
}
