package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoTraces is returned by Select when the grid is empty but the
// selection is not.
var ErrNoTraces = errors.New("grid: no traces for a non-empty selection")

// IndexGrid maps positions on the non-sample axes to trace ordinals, laid
// out row-major with the last axis varying fastest.
type IndexGrid struct {
	names   []string
	shape   []int
	strides []int
	size    int
}

// NewIndexGrid builds the grid for the given axes.
func NewIndexGrid(names []string, shape []int) (*IndexGrid, error) {
	if len(names) != len(shape) {
		return nil, fmt.Errorf("grid: %d names for %d axes", len(names), len(shape))
	}
	g := &IndexGrid{
		names:   append([]string(nil), names...),
		shape:   append([]int(nil), shape...),
		strides: make([]int, len(shape)),
		size:    1,
	}
	empty := false
	for _, n := range shape {
		empty = empty || n == 0
	}
	seen := make(map[string]bool, len(names))
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] < 0 {
			return nil, fmt.Errorf("grid: axis %s has negative length %d", names[i], shape[i])
		}
		if seen[names[i]] {
			return nil, fmt.Errorf("grid: duplicate axis %q", names[i])
		}
		seen[names[i]] = true
		g.strides[i] = g.size
		size, ok := mulLen(g.size, shape[i])
		if !ok && !empty {
			return nil, fmt.Errorf("grid: %v holds more than %d traces", shape, math.MaxInt)
		}
		g.size = size
	}
	return g, nil
}

// Size returns the number of traces in the grid.
func (g *IndexGrid) Size() int { return g.size }

// Names returns the axis names.
func (g *IndexGrid) Names() []string { return append([]string(nil), g.names...) }

// Shape returns the axis lengths.
func (g *IndexGrid) Shape() []int { return append([]int(nil), g.shape...) }

func (g *IndexGrid) axis(name string) int {
	for i, n := range g.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Select returns the trace ordinals that represent every position along
// axes, with all other axes fixed at 0. Ordinals are in row-major order of
// axes as given, so values read for them fill an array of the returned
// shape directly.
func (g *IndexGrid) Select(axes []string) (ordinals []int, shape []int, err error) {
	pos := make([]int, len(axes))
	shape = make([]int, len(axes))
	count := 1
	for i, name := range axes {
		p := g.axis(name)
		if p < 0 {
			return nil, nil, fmt.Errorf("grid: unknown axis %q", name)
		}
		for _, q := range pos[:i] {
			if q == p {
				return nil, nil, fmt.Errorf("grid: axis %q selected twice", name)
			}
		}
		pos[i] = p
		shape[i] = g.shape[p]
		count *= shape[i]
	}
	if count == 0 {
		return []int{}, shape, nil
	}
	if g.size == 0 {
		return nil, nil, ErrNoTraces
	}

	ordinals = make([]int, count)
	idx := make([]int, len(axes))
	for n := range ordinals {
		ord := 0
		for i, p := range pos {
			ord += idx[i] * g.strides[p]
		}
		ordinals[n] = ord
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return ordinals, shape, nil
}
