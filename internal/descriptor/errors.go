package descriptor

import "errors"

var (
	// ErrOutOfBounds is returned when a block, a shifted neighbour block or an
	// output cell visited by the traversal would fall outside its grid.
	ErrOutOfBounds = errors.New("block out of bounds")

	// ErrInvalidParams is returned for a block size, epsilon or pair set that
	// cannot drive a traversal.
	ErrInvalidParams = errors.New("invalid descriptor parameters")

	// ErrEmptyImage is returned when no input grid is given
	ErrEmptyImage = errors.New("empty image")
)
