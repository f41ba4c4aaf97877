package binary

import (
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	buf := NewBuffer(0)
	w := NewWriter(buf, DefaultConfig())

	if err := w.WriteUint8(0xAB); err != nil {
		t.Fatalf("WriteUint8: %v", err)
	}
	if err := w.WriteUint16(0x1234); err != nil {
		t.Fatalf("WriteUint16: %v", err)
	}
	if err := w.WriteUint32(0xDEADBEEF); err != nil {
		t.Fatalf("WriteUint32: %v", err)
	}
	if err := w.WriteOffset(0x0102030405060708); err != nil {
		t.Fatalf("WriteOffset: %v", err)
	}
	if err := w.WriteUndefinedOffset(); err != nil {
		t.Fatalf("WriteUndefinedOffset: %v", err)
	}
	if err := w.WriteZeros(3); err != nil {
		t.Fatalf("WriteZeros: %v", err)
	}

	if w.Pos() != 1+2+4+8+8+3 {
		t.Fatalf("Pos() = %d, want 26", w.Pos())
	}
	if buf.Len() != 26 {
		t.Fatalf("Len() = %d, want 26", buf.Len())
	}

	r := NewBytesReader(buf.Bytes(), DefaultConfig())
	u8, _ := r.ReadUint8()
	u16, _ := r.ReadUint16()
	u32, _ := r.ReadUint32()
	off, _ := r.ReadOffset()
	undef, err := r.ReadOffset()
	if err != nil {
		t.Fatalf("ReadOffset: %v", err)
	}

	if u8 != 0xAB || u16 != 0x1234 || u32 != 0xDEADBEEF || off != 0x0102030405060708 {
		t.Errorf("got %x %x %x %x", u8, u16, u32, off)
	}
	if !r.IsUndefinedOffset(undef) {
		t.Errorf("IsUndefinedOffset(%x) = false", undef)
	}
}

func TestWriterAtPatchesInPlace(t *testing.T) {
	buf := NewBuffer(16)
	w := NewWriter(buf, DefaultConfig())
	_ = w.WriteZeros(8)
	if err := w.At(2).WriteUint16(0xFFFF); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0xFF, 0xFF, 0, 0, 0, 0}
	got := buf.Bytes()
	if string(got) != string(want) {
		t.Errorf("bytes = %v, want %v", got, want)
	}
	if w.Pos() != 8 {
		t.Errorf("original writer moved to %d", w.Pos())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewBytesReader([]byte{1, 2}, DefaultConfig())
	if _, err := r.ReadUint32(); err != ErrTruncated {
		t.Errorf("ReadUint32 err = %v, want ErrTruncated", err)
	}
}

func TestReadCString(t *testing.T) {
	r := NewBytesReader([]byte("abc\x00\x00\x00xyz"), DefaultConfig())
	s, err := r.ReadCString(6)
	if err != nil {
		t.Fatal(err)
	}
	if s != "abc" {
		t.Errorf("ReadCString = %q", s)
	}
	if r.Pos() != 6 {
		t.Errorf("Pos() = %d, want 6", r.Pos())
	}
}

func TestUintNOddWidths(t *testing.T) {
	cfg := DefaultConfig()
	buf := make([]byte, 3)
	PutUintN(buf, 0x0A0B0C, 3, cfg.ByteOrder)
	if got := UintN(buf, 3, cfg.ByteOrder); got != 0x0A0B0C {
		t.Errorf("UintN = %x", got)
	}
	if Undefined(4) != 0xFFFFFFFF {
		t.Errorf("Undefined(4) = %x", Undefined(4))
	}
}

func TestLookup3Checksum(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0xdeadbeef},
		{"Four score and seven years ago", 0x17770551},
	}
	for _, tt := range tests {
		if got := Lookup3Checksum([]byte(tt.in)); got != tt.want {
			t.Errorf("Lookup3Checksum(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestLookup3ChecksumDetectsChange(t *testing.T) {
	data := []byte("OHDR\x02\x00some header bytes here")
	sum := Lookup3Checksum(data)
	data[5] ^= 1
	if Lookup3Checksum(data) == sum {
		t.Error("checksum unchanged after bit flip")
	}
}
