package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/bvlc/internal/descriptor"
	"github.com/ivlev/bvlc/internal/export"
	"github.com/ivlev/bvlc/internal/gray"
)

// ErrInvalidConfig is returned by Validate and ParsePairs
var ErrInvalidConfig = errors.New("invalid config")

// Descriptor mirrors descriptor.Params in the config file. ChannelMerge and
// Octaves are accepted for compatibility and have no effect.
type Descriptor struct {
	ChannelMerge bool     `yaml:"channel_merge"`
	Stride       int      `yaml:"stride"`
	Octaves      int      `yaml:"n_octaves"`
	Epsilon      float64  `yaml:"epsilon"`
	BlockSize    int      `yaml:"block_size"`
	Pairs        [][2]int `yaml:"pairs"` // [dCol, dRow]
}

type Config struct {
	Descriptor    Descriptor `yaml:"descriptor"`
	Gray          string     `yaml:"gray"`
	InputPath     string     `yaml:"input"`
	OutputDir     string     `yaml:"output_dir"`
	Format        string     `yaml:"format"`
	Raw           bool       `yaml:"raw"`
	MaxSide       int        `yaml:"max_side"`
	DPI           int        `yaml:"dpi"`
	Workers       int        `yaml:"workers"`
	TrimOddColumn bool       `yaml:"trim_odd_column"`
	ReportPath    string     `yaml:"report"`
	ShowStats     bool       `yaml:"show_stats"`
	BuildVersion  string     `yaml:"-"`
}

// Default returns the reference configuration.
func Default() Config {
	p := descriptor.DefaultParams()
	return Config{
		Descriptor: Descriptor{
			Stride:    p.Stride,
			Octaves:   3,
			Epsilon:   p.Epsilon,
			BlockSize: p.BlockSize,
			Pairs:     pairsToYAML(p.Pairs),
		},
		Gray:      string(gray.ModeGrayscale),
		OutputDir: "output",
		Format:    string(export.FormatPNG),
		DPI:       150,
		Workers:   runtime.NumCPU(),
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the descriptor section
func (c Config) Params() descriptor.Params {
	pairs := make([]descriptor.Offset, len(c.Descriptor.Pairs))
	for i, p := range c.Descriptor.Pairs {
		pairs[i] = descriptor.Offset{DCol: p[0], DRow: p[1]}
	}
	return descriptor.Params{
		BlockSize: c.Descriptor.BlockSize,
		Stride:    c.Descriptor.Stride,
		Epsilon:   c.Descriptor.Epsilon,
		Pairs:     pairs,
	}
}

// Validate checks everything that can be checked before an image is seen.
// Size-dependent bounds are checked per image by descriptor.Plan.
func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := gray.NewConverter(c.Gray); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.MaxSide < 0 {
		return fmt.Errorf("%w: max_side %d", ErrInvalidConfig, c.MaxSide)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// ParsePairs parses "dCol,dRow;dCol,dRow;..." as used by the -pairs flag.
func ParsePairs(s string) ([][2]int, error) {
	var pairs [][2]int
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: pair %q is not dCol,dRow", ErrInvalidConfig, item)
		}
		var p [2]int
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("%w: pair %q: %v", ErrInvalidConfig, item, err)
			}
			p[i] = v
		}
		pairs = append(pairs, p)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs in %q", ErrInvalidConfig, s)
	}
	return pairs, nil
}

// FormatPairs is the inverse of ParsePairs
func FormatPairs(pairs [][2]int) string {
	items := make([]string, len(pairs))
	for i, p := range pairs {
		items[i] = fmt.Sprintf("%d,%d", p[0], p[1])
	}
	return strings.Join(items, ";")
}

func pairsToYAML(offsets []descriptor.Offset) [][2]int {
	pairs := make([][2]int, len(offsets))
	for i, o := range offsets {
		pairs[i] = [2]int{o.DCol, o.DRow}
	}
	return pairs
}
