package sim

import (
	"fmt"

	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

// arena holds the word arrays of one estimation pass in a single backing
// slice, one fixed-width row per node identifier. It is dropped as a whole
// when the pass ends.
type arena struct {
	words []uint32
	width int
}

func newArena(nodes, width int, maxWords int64) (*arena, error) {
	if nodes <= 0 || width <= 0 {
		return nil, fmt.Errorf("arena of %d×%d words: %w", nodes, width, switching.ErrInvalidArgument)
	}
	total := int64(nodes) * int64(width)
	if total/int64(width) != int64(nodes) || total > maxWords || total > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("arena of %d nodes × %d words exceeds budget of %d words: %w",
			nodes, width, maxWords, switching.ErrOutOfMemory)
	}
	return &arena{words: make([]uint32, total), width: width}, nil
}

// row is the word array of node id.
func (a *arena) row(id int) []uint32 {
	off := id * a.width
	return a.words[off : off+a.width : off+a.width]
}

func (a *arena) release() {
	a.words = nil
}
