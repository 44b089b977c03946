package report

import (
	"time"

	"github.com/ivlev/bvlc/internal/export"
)

// Version of the report document layout
const Version = "1.0"

// Report summarizes one batch run
type Report struct {
	Version string    `yaml:"version"`
	Created time.Time `yaml:"created"`
	Build   string    `yaml:"build,omitempty"`
	Params  Params    `yaml:"params"`
	Entries []Entry   `yaml:"entries"`
}

// Params records the settings a map was computed with
type Params struct {
	Gray      string   `yaml:"gray"`
	BlockSize int      `yaml:"block_size"`
	Stride    int      `yaml:"stride"`
	Epsilon   float64  `yaml:"epsilon"`
	Pairs     [][2]int `yaml:"pairs"`
	MaxSide   int      `yaml:"max_side,omitempty"`
	TrimOdd   bool     `yaml:"trim_odd_column,omitempty"`
}

// Entry is the outcome for a single input image
type Entry struct {
	Index      int             `yaml:"index"`
	Input      string          `yaml:"input"`
	Rows       int             `yaml:"rows"` // after downscale and trimming
	Cols       int             `yaml:"cols"`
	PaddedRows int             `yaml:"padded_rows"`
	PaddedCols int             `yaml:"padded_cols"`
	MapRows    int             `yaml:"map_rows"`
	MapCols    int             `yaml:"map_cols"`
	Summary    *export.Summary `yaml:"summary,omitempty"`
	Image      string          `yaml:"image,omitempty"`
	Raw        string          `yaml:"raw,omitempty"`
	Seconds    float64         `yaml:"seconds"`
	Error      string          `yaml:"error,omitempty"`
}

// Failed counts entries with an error
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Error != "" {
			n++
		}
	}
	return n
}
