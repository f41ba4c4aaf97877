package layout

import (
	"bytes"
	"errors"
	"testing"

	"github.com/robert-malhotra/segy2netcdf/internal/alloc"
	"github.com/robert-malhotra/segy2netcdf/internal/binary"
	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

func TestStoreLoadContiguous(t *testing.T) {
	buf := binary.NewBuffer(0)
	a := alloc.New(48, 8)
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	l, err := Store(buf, a, "v", raw, []uint64{2}, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Class != message.LayoutContiguous || l.Address != 48 || l.Size != 8 {
		t.Errorf("layout = %+v", l)
	}

	got, err := Load(binary.NewBytesReader(buf.Bytes(), binary.DefaultConfig()), l, nil, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Load = %v", got)
	}
}

func TestStoreLoadChunked(t *testing.T) {
	buf := binary.NewBuffer(0)
	a := alloc.New(48, 1)
	raw := bytes.Repeat([]byte{0, 0, 0x80, 0x3f}, 1000)

	d, err := filter.NewDeflate(4)
	if err != nil {
		t.Fatal(err)
	}
	p := filter.NewPipeline(filter.NewShuffle(4), d)

	l, err := Store(buf, a, "v", raw, []uint64{10, 100}, 4, p)
	if err != nil {
		t.Fatal(err)
	}
	if l.Class != message.LayoutChunked || !l.Filtered || l.FilteredSize >= uint64(len(raw)) {
		t.Errorf("layout = %+v", l)
	}

	rebuilt, err := filter.FromMessage(p.Message())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(binary.NewBytesReader(buf.Bytes(), binary.DefaultConfig()), l, rebuilt, uint64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("chunk did not round trip")
	}
}

func TestStoreEmptyIsContiguous(t *testing.T) {
	d, _ := filter.NewDeflate(4)
	l, err := Store(binary.NewBuffer(0), alloc.New(48, 1), "v", nil, []uint64{0}, 4, filter.NewPipeline(d))
	if err != nil {
		t.Fatal(err)
	}
	if l.Class != message.LayoutContiguous || l.Size != 0 {
		t.Errorf("layout = %+v", l)
	}
}

func TestLoadUnallocated(t *testing.T) {
	got, err := Load(binary.NewBytesReader(nil, binary.DefaultConfig()), Unallocated(12), nil, 12)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, make([]byte, 12)) {
		t.Errorf("Load = %v", got)
	}
}

func TestLoadShortContiguous(t *testing.T) {
	l := message.NewContiguousLayout(0, 4)
	_, err := Load(binary.NewBytesReader(make([]byte, 4), binary.DefaultConfig()), l, nil, 8)
	if err == nil {
		t.Error("Load accepted storage smaller than the dataset")
	}
	if errors.Is(err, ErrChunkTooLarge) {
		t.Errorf("unexpected error %v", err)
	}
}
