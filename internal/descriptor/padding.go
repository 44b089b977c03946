package descriptor

// Padding holds the zero border thickness added on each side of an image.
type Padding struct {
	Top, Bottom, Left, Right int
}

// PaddingFor returns the zero border that makes a rows x cols image fit the
// block grid.
//
// Rows: divisible -> one row on both sides, remainder 1 -> one row on top.
// Cols: divisible -> one column on both sides, otherwise nothing. Odd widths
// are deliberately left unpadded.
func PaddingFor(rows, cols, blockSize int) Padding {
	var p Padding
	switch rows % blockSize {
	case 0:
		p.Top, p.Bottom = 1, 1
	case 1:
		p.Top = 1
	}
	if cols%blockSize == 0 {
		p.Left, p.Right = 1, 1
	}
	return p
}

// Size returns the dimensions of a rows x cols image after padding.
func (p Padding) Size(rows, cols int) (int, int) {
	return rows + p.Top + p.Bottom, cols + p.Left + p.Right
}

// Pad returns a new grid with img placed inside a zero border of thickness p.
// The source grid is not modified.
func Pad(img *Grid, p Padding) *Grid {
	rows, cols := p.Size(img.Rows, img.Cols)
	out := NewGrid(rows, cols)
	for r := 0; r < img.Rows; r++ {
		copy(out.Row(r + p.Top)[p.Left:p.Left+img.Cols], img.Row(r))
	}
	return out
}

// OutputSize returns the descriptor map dimensions for a padded image.
func OutputSize(paddedRows, paddedCols, blockSize int) (int, int) {
	rows := (paddedRows - 1) / blockSize
	cols := (paddedCols - 1) / blockSize
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return rows, cols
}
