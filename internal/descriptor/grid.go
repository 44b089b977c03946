package descriptor

// Grid is a single-channel row-major plane of float64 intensities.
type Grid struct {
	Rows, Cols int
	Pix        []float64
}

// NewGrid allocates a zero-filled grid
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{Rows: rows, Cols: cols, Pix: make([]float64, rows*cols)}
}

// At returns the value at row r, column c. It panics outside the grid.
func (g *Grid) At(r, c int) float64 {
	return g.Pix[r*g.Cols+c]
}

// Set stores v at row r, column c
func (g *Grid) Set(r, c int, v float64) {
	g.Pix[r*g.Cols+c] = v
}

// Row returns the backing slice of row r
func (g *Grid) Row(r int) []float64 {
	return g.Pix[r*g.Cols : (r+1)*g.Cols]
}

// Clone returns a deep copy
func (g *Grid) Clone() *Grid {
	pix := make([]float64, len(g.Pix))
	copy(pix, g.Pix)
	return &Grid{Rows: g.Rows, Cols: g.Cols, Pix: pix}
}

// Equal reports whether both grids have the same shape and bit-identical values.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Rows != o.Rows || g.Cols != o.Cols || len(g.Pix) != len(o.Pix) {
		return false
	}
	for i := range g.Pix {
		if g.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// block copies the size x size patch with top-left corner (r, c) into dst.
func (g *Grid) block(dst []float64, r, c, size int) {
	k := 0
	for y := r; y < r+size; y++ {
		off := y*g.Cols + c
		k += copy(dst[k:k+size], g.Pix[off:off+size])
	}
}
