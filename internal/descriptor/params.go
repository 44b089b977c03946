package descriptor

import "fmt"

// DefaultBlockSize is the side of the square analysis block.
const DefaultBlockSize = 2

// Offset locates a neighbour block relative to the current block's top-left
// corner, in pixels.
type Offset struct {
	DCol int
	DRow int
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d)", o.DCol, o.DRow)
}

// DefaultPairs returns the vertical, horizontal and both diagonal neighbours.
func DefaultPairs() []Offset {
	return []Offset{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
}

// Params configures a descriptor traversal. A Params value is never mutated
// by the functions of this package.
type Params struct {
	BlockSize int
	// Stride is the first visited coordinate on both axes and the margin
	// left unvisited at the far edge. The step is always BlockSize.
	Stride  int
	Epsilon float64
	Pairs   []Offset
}

func DefaultParams() Params {
	return Params{
		BlockSize: DefaultBlockSize,
		Stride:    1,
		Epsilon:   DefaultEpsilon,
		Pairs:     DefaultPairs(),
	}
}

// Validate checks the parameters that do not depend on the image size.
func (p Params) Validate() error {
	if p.BlockSize < 1 {
		return fmt.Errorf("%w: block size %d", ErrInvalidParams, p.BlockSize)
	}
	if !(p.Epsilon > 0) {
		return fmt.Errorf("%w: epsilon %g must be positive", ErrInvalidParams, p.Epsilon)
	}
	if len(p.Pairs) == 0 {
		return fmt.Errorf("%w: no direction pairs", ErrInvalidParams)
	}
	return nil
}

// Layout is the precomputed geometry of one extraction.
type Layout struct {
	Rows, Cols             int
	Padding                Padding
	PaddedRows, PaddedCols int
	MapRows, MapCols       int
	// Visited top-left coordinates are RowStart, RowStart+BlockSize, ...
	// up to and excluding RowEnd; the same for columns.
	RowStart, RowEnd int
	ColStart, ColEnd int
	BlockSize        int
}

// Visits reports whether the traversal touches at least one block.
func (l Layout) Visits() bool {
	return l.RowStart < l.RowEnd && l.ColStart < l.ColEnd
}

// Plan computes the layout for a rows x cols image and checks that every
// visited block, every shifted neighbour block and every written output cell
// lies inside its grid.
func Plan(rows, cols int, p Params) (Layout, error) {
	if err := p.Validate(); err != nil {
		return Layout{}, err
	}
	if rows < 0 || cols < 0 {
		return Layout{}, fmt.Errorf("%w: negative size %dx%d", ErrInvalidParams, rows, cols)
	}

	pad := PaddingFor(rows, cols, p.BlockSize)
	pr, pc := pad.Size(rows, cols)
	mr, mc := OutputSize(pr, pc, p.BlockSize)

	l := Layout{
		Rows:       rows,
		Cols:       cols,
		Padding:    pad,
		PaddedRows: pr,
		PaddedCols: pc,
		MapRows:    mr,
		MapCols:    mc,
		RowStart:   p.Stride,
		RowEnd:     pr - p.Stride,
		ColStart:   p.Stride,
		ColEnd:     pc - p.Stride,
		BlockSize:  p.BlockSize,
	}
	if !l.Visits() {
		return l, nil
	}

	rowOffsets := make([]int, len(p.Pairs))
	colOffsets := make([]int, len(p.Pairs))
	for i, o := range p.Pairs {
		rowOffsets[i] = o.DRow
		colOffsets[i] = o.DCol
	}
	if err := checkAxis("row", l.RowStart, l.RowEnd, pr, mr, p.BlockSize, rowOffsets); err != nil {
		return l, err
	}
	if err := checkAxis("column", l.ColStart, l.ColEnd, pc, mc, p.BlockSize, colOffsets); err != nil {
		return l, err
	}
	return l, nil
}

// checkAxis validates one axis. All constraints are monotonic in the visited
// coordinate, so checking the first and the last visited one is enough.
func checkAxis(axis string, start, end, size, mapSize, bs int, offsets []int) error {
	last := start + bs*((end-1-start)/bs)
	for _, pos := range []int{start, last} {
		if pos < 0 || pos+bs > size {
			return fmt.Errorf("%w: %s block at %d exceeds padded size %d", ErrOutOfBounds, axis, pos, size)
		}
		if pos/bs >= mapSize {
			return fmt.Errorf("%w: %s block at %d maps to cell %d of %d", ErrOutOfBounds, axis, pos, pos/bs, mapSize)
		}
		for _, d := range offsets {
			if pos+d < 0 || pos+d+bs > size {
				return fmt.Errorf("%w: %s offset %+d from %d leaves padded size %d", ErrOutOfBounds, axis, d, pos, size)
			}
		}
	}
	return nil
}
