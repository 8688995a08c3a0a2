package annotate

import (
	"image/color"
	"sync"

	"github.com/swdee/go-annotate/augment"
)

// Pool is a simple pool of MatWarpers so each worker goroutine warps images
// with its own scratch Mats
type Pool struct {
	// pool of warpers
	warpers chan *augment.MatWarper
	// size of pool
	size  int
	close sync.Once
}

// NewPool creates a new warper pool filling uncovered pixels with the border
// color
func NewPool(size int, border color.RGBA) *Pool {

	if size < 1 {
		size = 1
	}

	p := &Pool{
		warpers: make(chan *augment.MatWarper, size),
		size:    size,
	}

	for i := 0; i < size; i++ {
		// attach to pool
		p.Return(augment.NewMatWarper(border))
	}

	return p
}

// Size returns the number of warpers in the pool
func (p *Pool) Size() int {
	return p.size
}

// Get a warper from the pool, blocks until one is available
func (p *Pool) Get() *augment.MatWarper {
	return <-p.warpers
}

// Return a warper to the pool
func (p *Pool) Return(w *augment.MatWarper) {
	select {
	case p.warpers <- w:
	default:
		// pool is full or closed
	}
}

// Close the pool and all warpers in it
func (p *Pool) Close() {
	p.close.Do(func() {
		// close channel
		close(p.warpers)

		// close all warpers
		for next := range p.warpers {
			_ = next.Close()
		}
	})
}
