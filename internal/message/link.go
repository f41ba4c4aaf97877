package message

import (
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// Link is a hard link message (0x0006). Soft and external links decode with
// Hard set to false and no address.
type Link struct {
	Name    string
	Address uint64
	Hard    bool

	// Order is the creation index, written when HasOrder is set.
	Order    int64
	HasOrder bool
}

// NewHardLink returns a link from name to the object header at addr.
func NewHardLink(name string, addr uint64) *Link {
	return &Link{Name: name, Address: addr, Hard: true}
}

func (m *Link) Type() Type { return TypeLink }

func nameWidth(n int) (width int, bits uint8) {
	switch {
	case n <= 0xff:
		return 1, 0
	case n <= 0xffff:
		return 2, 1
	default:
		return 4, 2
	}
}

// Encode writes a version 1 hard link with an ASCII name.
func (m *Link) Encode(w *binary.Writer) error {
	if !m.Hard {
		return fmt.Errorf("link %q is not a hard link: %w", m.Name, ErrUnsupported)
	}
	width, bits := nameWidth(len(m.Name))
	if m.HasOrder {
		bits |= 0x04
	}
	if err := w.WriteBytes([]byte{1, bits}); err != nil {
		return err
	}
	if m.HasOrder {
		if err := w.WriteUint64(uint64(m.Order)); err != nil {
			return err
		}
	}
	if err := w.WriteUintN(uint64(len(m.Name)), width); err != nil {
		return err
	}
	if err := w.WriteBytes([]byte(m.Name)); err != nil {
		return err
	}
	return w.WriteOffset(m.Address)
}

func (m *Link) EncodedSize(cfg binary.Config) int {
	width, _ := nameWidth(len(m.Name))
	n := 2 + width + len(m.Name) + cfg.OffsetSize
	if m.HasOrder {
		n += 8
	}
	return n
}

func parseLink(data []byte, cfg binary.Config) (*Link, error) {
	if len(data) < 2 || data[0] != 1 {
		if len(data) < 2 {
			return nil, errShort("link")
		}
		return nil, fmt.Errorf("link version %d: %w", data[0], ErrUnsupported)
	}
	flags := data[1]
	r := binary.NewBytesReader(data, cfg).At(2)

	m := &Link{Hard: true}
	if flags&0x08 != 0 {
		t, err := r.ReadUint8()
		if err != nil {
			return nil, errShort("link")
		}
		m.Hard = t == 0
	}
	if flags&0x04 != 0 {
		order, err := r.ReadUint64()
		if err != nil {
			return nil, errShort("link")
		}
		m.Order, m.HasOrder = int64(order), true
	}
	if flags&0x10 != 0 {
		r.Skip(1)
	}
	n, err := r.ReadUintN(1 << (flags & 0x03))
	if err != nil {
		return nil, errShort("link")
	}
	name, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, errShort("link")
	}
	m.Name = string(name)
	if m.Hard {
		if m.Address, err = r.ReadOffset(); err != nil {
			return nil, errShort("link")
		}
	}
	return m, nil
}

// LinkInfo is the link info message (0x0002) of a group that stores its
// links compactly in the header. When TrackOrder is set the links carry
// creation indexes below MaxOrder+1 but no order index is built.
type LinkInfo struct {
	TrackOrder bool
	MaxOrder   int64
}

func (m *LinkInfo) Type() Type { return TypeLinkInfo }

// Encode writes version 0 with undefined fractal heap and name index
// addresses.
func (m *LinkInfo) Encode(w *binary.Writer) error {
	var flags uint8
	if m.TrackOrder {
		flags = 0x01
	}
	if err := w.WriteBytes([]byte{0, flags}); err != nil {
		return err
	}
	if m.TrackOrder {
		if err := w.WriteUint64(uint64(m.MaxOrder)); err != nil {
			return err
		}
	}
	if err := w.WriteUndefinedOffset(); err != nil {
		return err
	}
	return w.WriteUndefinedOffset()
}

func (m *LinkInfo) EncodedSize(cfg binary.Config) int {
	n := 2 + 2*cfg.OffsetSize
	if m.TrackOrder {
		n += 8
	}
	return n
}

// FillValue is a version 3 fill value message (0x0005) with no fill value
// defined, so unwritten elements read as zero.
type FillValue struct {
	// AllocTime is 1 (early), 2 (late) or 3 (incremental).
	AllocTime uint8
}

func (m *FillValue) Type() Type { return TypeFillValue }

// Encode writes the message with the "write fill value if set" policy.
func (m *FillValue) Encode(w *binary.Writer) error {
	return w.WriteBytes([]byte{3, m.AllocTime&0x03 | 2<<2})
}

func (m *FillValue) EncodedSize(binary.Config) int { return 2 }

// GroupInfo is the group info message (0x000A) with default phase change
// values.
type GroupInfo struct{}

func (m *GroupInfo) Type() Type { return TypeGroupInfo }

func (m *GroupInfo) Encode(w *binary.Writer) error { return w.WriteBytes([]byte{0, 0}) }

func (m *GroupInfo) EncodedSize(binary.Config) int { return 2 }
