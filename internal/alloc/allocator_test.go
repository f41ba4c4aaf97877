package alloc

import (
	"testing"
)

func TestAllocSequential(t *testing.T) {
	a := New(48, 1)
	if addr := a.Alloc(100, "a"); addr != 48 {
		t.Errorf("first Alloc = %d, want 48", addr)
	}
	if addr := a.Alloc(20, "b"); addr != 148 {
		t.Errorf("second Alloc = %d, want 148", addr)
	}
	if a.EOF() != 168 {
		t.Errorf("EOF() = %d, want 168", a.EOF())
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAllocAligned(t *testing.T) {
	a := New(48, 512)
	a.Alloc(10, "header")
	addr := a.AllocAligned(1000, "data")
	if addr != 512 {
		t.Errorf("AllocAligned = %d, want 512", addr)
	}
	s := a.Stats()
	if s.Allocations != 2 || s.Bytes != 1010 || s.Padding != 512-58 || s.Largest != 1000 {
		t.Errorf("Stats() = %+v", s)
	}
	if a.EOF() != 1512 {
		t.Errorf("EOF() = %d", a.EOF())
	}
}

func TestAllocationsSorted(t *testing.T) {
	a := New(0, 0)
	a.Alloc(5, "x")
	a.Alloc(0, "empty")
	a.Alloc(7, "y")
	blocks := a.Allocations()
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Addr < blocks[i-1].Addr {
			t.Errorf("blocks not sorted: %+v", blocks)
		}
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
