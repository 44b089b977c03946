package descriptor

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Extract computes the descriptor map of a single-channel image.
//
// The image is zero padded (see PaddingFor), then every block whose top-left
// corner lies in [Stride, paddedSize-Stride) with step BlockSize is compared
// against each configured neighbour. The map cell (i/BlockSize, j/BlockSize)
// receives max(coefficients) - min(coefficients). Cells the traversal never
// reaches stay 0.
func Extract(img *Grid, p Params) (*Grid, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	l, err := Plan(img.Rows, img.Cols, p)
	if err != nil {
		return nil, err
	}

	padded := Pad(img, l.Padding)
	out := NewGrid(l.MapRows, l.MapCols)
	w := newWalker(padded, p)
	for i := l.RowStart; i < l.RowEnd; i += l.BlockSize {
		w.row(out, l, i)
	}
	return out, nil
}

// ExtractParallel produces the same map as Extract, bit for bit, spreading the
// visited block rows over at most workers goroutines. workers <= 0 means
// runtime.NumCPU(). Cancelling ctx stops the remaining rows and returns the
// context error.
func ExtractParallel(ctx context.Context, img *Grid, p Params, workers int) (*Grid, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	l, err := Plan(img.Rows, img.Cols, p)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	padded := Pad(img, l.Padding)
	out := NewGrid(l.MapRows, l.MapCols)

	rows := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		for i := l.RowStart; i < l.RowEnd; i += l.BlockSize {
			select {
			case rows <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for n := 0; n < workers; n++ {
		g.Go(func() error {
			w := newWalker(padded, p)
			for i := range rows {
				if err := gctx.Err(); err != nil {
					return err
				}
				w.row(out, l, i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// walker owns the scratch buffers of one traversal goroutine.
type walker struct {
	img     *Grid
	params  Params
	current []float64
	shifted []float64
	coefs   []float64
}

func newWalker(padded *Grid, p Params) *walker {
	area := p.BlockSize * p.BlockSize
	return &walker{
		img:     padded,
		params:  p,
		current: make([]float64, area),
		shifted: make([]float64, area),
		coefs:   make([]float64, len(p.Pairs)),
	}
}

// row fills every visited cell of the block row starting at padded row i.
// Distinct i values write distinct map rows.
func (w *walker) row(out *Grid, l Layout, i int) {
	bs := l.BlockSize
	for j := l.ColStart; j < l.ColEnd; j += bs {
		w.img.block(w.current, i, j, bs)
		for k, o := range w.params.Pairs {
			w.img.block(w.shifted, i+o.DRow, j+o.DCol, bs)
			w.coefs[k] = Coefficient(w.current, w.shifted, w.params.Epsilon)
		}
		out.Set(i/bs, j/bs, floats.Max(w.coefs)-floats.Min(w.coefs))
	}
}
