package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ivlev/bvlc/internal/descriptor"
)

func TestDefaultMatchesDescriptorDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got, want := cfg.Params(), descriptor.DefaultParams(); !reflect.DeepEqual(got, want) {
		t.Errorf("Params() = %+v, want %+v", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bvlc.yaml")
	data := []byte(`descriptor:
  stride: 3
  pairs: [[0, 1], [1, 0]]
gray: avg
raw: true
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := cfg.Params()
	if p.Stride != 3 || len(p.Pairs) != 2 || p.Pairs[1] != (descriptor.Offset{DCol: 1, DRow: 0}) {
		t.Errorf("params %+v", p)
	}
	if p.BlockSize != 2 || p.Epsilon != descriptor.DefaultEpsilon {
		t.Errorf("defaults lost: %+v", p)
	}
	if cfg.Gray != "avg" || !cfg.Raw || cfg.OutputDir != "output" {
		t.Errorf("config %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Descriptor.Pairs = [][2]int{{2, -1}}
	cfg.TrimOddColumn = true
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Descriptor, cfg.Descriptor) || !got.TrimOddColumn {
		t.Errorf("got %+v, want %+v", got.Descriptor, cfg.Descriptor)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"gray mode", func(c *Config) { c.Gray = "hsv" }},
		{"format", func(c *Config) { c.Format = "gif" }},
		{"epsilon", func(c *Config) { c.Descriptor.Epsilon = 0 }},
		{"block size", func(c *Config) { c.Descriptor.BlockSize = 0 }},
		{"pairs", func(c *Config) { c.Descriptor.Pairs = nil }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"max side", func(c *Config) { c.MaxSide = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		in      string
		want    [][2]int
		wantErr bool
	}{
		{"0,1;1,0;1,1;1,-1", [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}, false},
		{" 2 , -1 ; ", [][2]int{{2, -1}}, false},
		{"", nil, true},
		{"1", nil, true},
		{"1,x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePairs(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if back, _ := ParsePairs(FormatPairs(got)); !reflect.DeepEqual(back, got) {
				t.Errorf("FormatPairs round trip: %v", back)
			}
		})
	}
}
