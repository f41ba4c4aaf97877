package superblock

import (
	"bytes"
	"errors"
	"testing"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

func TestWriteRead(t *testing.T) {
	sb := New()
	sb.EOFAddress = 4096
	sb.RootGroup = 1000

	buf := binary.NewBuffer(0)
	if err := sb.Write(buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != 48 {
		t.Fatalf("superblock is %d bytes, want 48", buf.Len())
	}

	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Version != 2 || got.EOFAddress != 4096 || got.RootGroup != 1000 {
		t.Errorf("got %+v", got)
	}
	if got.Config.OffsetSize != 8 || got.Config.LengthSize != 8 {
		t.Errorf("sizes = %d/%d", got.Config.OffsetSize, got.Config.LengthSize)
	}
}

func TestReadCorrupt(t *testing.T) {
	sb := New()
	buf := binary.NewBuffer(0)
	if err := sb.Write(buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[30] ^= 0x01

	_, err := Read(bytes.NewReader(data))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Read err = %v, want ErrChecksumMismatch", err)
	}
}

func TestReadNotHDF5(t *testing.T) {
	data := make([]byte, 4096)
	_, err := Read(bytes.NewReader(data))
	if !errors.Is(err, ErrNotHDF5) {
		t.Errorf("Read err = %v, want ErrNotHDF5", err)
	}
}
