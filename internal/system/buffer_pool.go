package system

import (
	"fmt"
	"sync"

	"github.com/ivlev/bvlc/internal/descriptor"
)

// GridPool reuses descriptor.Grid buffers of equal size to reduce pressure
// on the garbage collector when a batch holds many same-sized inputs.
type GridPool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewGridPool()

// NewGridPool создает пустой пул; подпулы появляются по мере запроса размеров
func NewGridPool() *GridPool {
	return &GridPool{pools: make(map[string]*sync.Pool)}
}

// GetGrid returns a zeroed rows x cols grid from the shared pool.
func GetGrid(rows, cols int) *descriptor.Grid {
	return globalPool.Get(rows, cols)
}

// PutGrid hands g back to the shared pool. g must not be used afterwards.
func PutGrid(g *descriptor.Grid) {
	globalPool.Put(g)
}

func key(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

// Get returns a zeroed rows x cols grid, reusing a released one if possible.
func (p *GridPool) Get(rows, cols int) *descriptor.Grid {
	k := key(rows, cols)
	p.mu.RLock()
	pool, exists := p.pools[k]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[k]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return descriptor.NewGrid(rows, cols)
				},
			}
			p.pools[k] = pool
		}
		p.mu.Unlock()
	}

	g := pool.Get().(*descriptor.Grid)
	clear(g.Pix)
	return g
}

// Put releases g. Grids of a size never requested through Get are dropped.
func (p *GridPool) Put(g *descriptor.Grid) {
	if g == nil {
		return
	}
	k := key(g.Rows, g.Cols)
	p.mu.RLock()
	pool, exists := p.pools[k]
	p.mu.RUnlock()

	if exists {
		pool.Put(g)
	}
}
