package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	Sketch     string `yaml:"sketch"`
	TextureDir string `yaml:"texture_dir"`
	OutputDir  string `yaml:"output_dir"`

	// Render settings
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Supersample int     `yaml:"supersample"`
	Workers     int     `yaml:"workers"`
	Vignette    float64 `yaml:"vignette"`
	Verbose     bool    `yaml:"verbose"`

	// dir is the directory of the loaded file; relative paths resolve against it.
	dir string
}

// Load reads a YAML config file and returns Config.
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
	cfg.dir = filepath.Dir(path)

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Sketch    string
	OutputDir string
	Workers   int
	Size      string // "WxH"
	Verbose   bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.Sketch != "" {
		c.Sketch = flags.Sketch
	} else {
		c.Sketch = c.rel(c.Sketch)
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	} else {
		c.OutputDir = c.rel(c.OutputDir)
	}
	c.TextureDir = c.rel(c.TextureDir)
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size != "" {
		w, h, err := ParseSize(flags.Size)
		if err != nil {
			return err
		}
		c.Width, c.Height = w, h
	}
	if flags.Verbose {
		c.Verbose = true
	}

	// Defaults for paths
	if c.OutputDir == "" {
		c.OutputDir = "frames"
	}
	if c.TextureDir == "" && c.Sketch != "" {
		c.TextureDir = filepath.Dir(c.Sketch)
	}

	// Defaults for render settings
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers()
	}
	if c.Vignette < 0 {
		c.Vignette = 0
	}
	return nil
}

// rel resolves p against the config file's directory.
func (c *Config) rel(p string) string {
	if p == "" || c.dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// DefaultWorkers returns the physical core count, or the logical CPU count
// when that cannot be read.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ParseSize parses "WxH" into positive dimensions.
func ParseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("config: size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("config: size %q: dimensions must be positive", s)
	}
	return w, h, nil
}
