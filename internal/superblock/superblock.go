// Package superblock reads and writes the version 2 superblock that opens
// every file this module produces.
package superblock

import (
	"errors"
	"fmt"
	"io"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// Signature is the 8-byte HDF5 format signature.
var Signature = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

// Locations searched for a signature, in order.
var searchOffsets = []int64{0, 512, 1024, 2048}

// Errors
var (
	ErrNotHDF5            = errors.New("not an HDF5 file: signature not found")
	ErrUnsupportedVersion = errors.New("unsupported superblock version")
	ErrChecksumMismatch   = errors.New("superblock checksum mismatch")
)

// Superblock holds the file-level metadata of a version 2 or 3 superblock.
type Superblock struct {
	Version    uint8
	Config     binary.Config
	EOFAddress uint64
	RootGroup  uint64
	FileOffset int64 // where the signature was found
}

// New returns a version 2 superblock with the default configuration.
func New() *Superblock {
	return &Superblock{Version: 2, Config: binary.DefaultConfig()}
}

// Size returns the encoded superblock size.
func (sb *Superblock) Size() int {
	return 12 + 4*sb.Config.OffsetSize + 4
}

// Write writes the superblock at offset 0 of dst.
func (sb *Superblock) Write(dst io.WriterAt) error {
	buf := binary.NewBuffer(sb.Size())
	w := binary.NewWriter(buf, sb.Config)

	hdr := append(append([]byte{}, Signature...),
		sb.Version, uint8(sb.Config.OffsetSize), uint8(sb.Config.LengthSize), 0)
	if err := w.WriteBytes(hdr); err != nil {
		return err
	}
	if err := w.WriteOffset(0); err != nil { // base address
		return err
	}
	if err := w.WriteUndefinedOffset(); err != nil { // no extension
		return err
	}
	if err := w.WriteOffset(sb.EOFAddress); err != nil {
		return err
	}
	if err := w.WriteOffset(sb.RootGroup); err != nil {
		return err
	}
	if err := w.WriteUint32(binary.Lookup3Checksum(buf.Bytes())); err != nil {
		return err
	}
	_, err := dst.WriteAt(buf.Bytes(), 0)
	return err
}

// Read locates and decodes the superblock of r.
func Read(r io.ReaderAt) (*Superblock, error) {
	sig := make([]byte, len(Signature))
	for _, off := range searchOffsets {
		if _, err := r.ReadAt(sig, off); err != nil {
			break
		}
		if string(sig) == string(Signature) {
			return readAt(r, off)
		}
	}
	return nil, ErrNotHDF5
}

func readAt(r io.ReaderAt, off int64) (*Superblock, error) {
	fixed := make([]byte, 12)
	if _, err := r.ReadAt(fixed, off); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	sb := &Superblock{Version: fixed[8], FileOffset: off}
	if sb.Version != 2 && sb.Version != 3 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, sb.Version)
	}
	sb.Config = binary.DefaultConfig()
	sb.Config.OffsetSize = int(fixed[9])
	sb.Config.LengthSize = int(fixed[10])

	raw := make([]byte, sb.Size())
	if _, err := r.ReadAt(raw, off); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	n := len(raw) - 4
	rd := binary.NewBytesReader(raw, sb.Config).At(int64(n))
	stored, _ := rd.ReadUint32()
	if binary.Lookup3Checksum(raw[:n]) != stored {
		return nil, ErrChecksumMismatch
	}

	rd = rd.At(12 + 2*int64(sb.Config.OffsetSize))
	sb.EOFAddress, _ = rd.ReadOffset()
	sb.RootGroup, _ = rd.ReadOffset()
	return sb, nil
}
