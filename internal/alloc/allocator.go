package alloc

import (
	"fmt"
	"sort"
	"sync"
)

// Allocator is an append-only address allocator.
type Allocator struct {
	mu sync.Mutex

	base  uint64
	eof   uint64
	align uint64

	allocations []Allocation
	stats       Stats
}

// Allocation records one block handed out by the allocator.
type Allocation struct {
	Addr uint64
	Size uint64
	Tag  string
}

// End returns the first address past the block.
func (a Allocation) End() uint64 { return a.Addr + a.Size }

// Stats summarises allocator activity.
type Stats struct {
	Allocations uint64
	Bytes       uint64
	Padding     uint64
	Largest     uint64
}

// New creates an allocator whose first block starts at base. Raw data blocks
// are aligned to align bytes; an align of 0 or 1 disables alignment.
func New(base, align uint64) *Allocator {
	if align == 0 {
		align = 1
	}
	return &Allocator{base: base, eof: base, align: align}
}

// Alloc reserves size bytes at the end of the file.
func (a *Allocator) Alloc(size uint64, tag string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alloc(size, tag, 1)
}

// AllocAligned reserves size bytes starting at the next aligned address.
func (a *Allocator) AllocAligned(size uint64, tag string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alloc(size, tag, a.align)
}

func (a *Allocator) alloc(size uint64, tag string, align uint64) uint64 {
	addr := a.eof
	if rem := addr % align; rem != 0 {
		pad := align - rem
		addr += pad
		a.stats.Padding += pad
	}
	a.eof = addr + size
	a.allocations = append(a.allocations, Allocation{Addr: addr, Size: size, Tag: tag})
	a.stats.Allocations++
	a.stats.Bytes += size
	if size > a.stats.Largest {
		a.stats.Largest = size
	}
	return addr
}

// EOF returns the current end of file address.
func (a *Allocator) EOF() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eof
}

// Stats returns a snapshot of allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Allocations returns the blocks handed out so far, sorted by address.
func (a *Allocator) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := append([]Allocation(nil), a.allocations...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// Validate checks that no two blocks overlap and that none starts before the
// base address.
func (a *Allocator) Validate() error {
	blocks := a.Allocations()
	for i, b := range blocks {
		if b.Addr < a.base {
			return fmt.Errorf("block %q at %d precedes base %d", b.Tag, b.Addr, a.base)
		}
		if i > 0 && blocks[i-1].End() > b.Addr {
			return fmt.Errorf("block %q [%d,%d) overlaps %q [%d,%d)",
				b.Tag, b.Addr, b.End(), blocks[i-1].Tag, blocks[i-1].Addr, blocks[i-1].End())
		}
	}
	return nil
}
