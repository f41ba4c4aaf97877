package message

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// Attribute is the attribute message (0x000C).
type Attribute struct {
	Name      string
	Datatype  *Datatype
	Dataspace *Dataspace
	Data      []byte
}

// NewAttribute returns an attribute holding already encoded data.
func NewAttribute(name string, dt *Datatype, ds *Dataspace, data []byte) *Attribute {
	return &Attribute{Name: name, Datatype: dt, Dataspace: ds, Data: data}
}

func (m *Attribute) Type() Type { return TypeAttribute }

// Encode writes a version 3 attribute with an ASCII name.
func (m *Attribute) Encode(w *binary.Writer) error {
	cfg := w.Config()
	if err := w.WriteBytes([]byte{3, 0}); err != nil {
		return err
	}
	for _, v := range []int{len(m.Name) + 1, m.Datatype.EncodedSize(cfg), m.Dataspace.EncodedSize(cfg)} {
		if err := w.WriteUint16(uint16(v)); err != nil {
			return err
		}
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := w.WriteBytes(append([]byte(m.Name), 0)); err != nil {
		return err
	}
	if err := m.Datatype.Encode(w); err != nil {
		return err
	}
	if err := m.Dataspace.Encode(w); err != nil {
		return err
	}
	return w.WriteBytes(m.Data)
}

func (m *Attribute) EncodedSize(cfg binary.Config) int {
	return 9 + len(m.Name) + 1 + m.Datatype.EncodedSize(cfg) + m.Dataspace.EncodedSize(cfg) + len(m.Data)
}

func parseAttribute(data []byte, cfg binary.Config) (*Attribute, error) {
	if len(data) < 8 {
		return nil, errShort("attribute")
	}
	version := data[0]
	r := binary.NewBytesReader(data, cfg).At(2)
	nameSize, _ := r.ReadUint16()
	dtSize, _ := r.ReadUint16()
	dsSize, _ := r.ReadUint16()

	pad := func(n uint16) int { return int(n) }
	switch version {
	case 1:
		pad = func(n uint16) int { return (int(n) + 7) &^ 7 }
	case 2:
	case 3:
		r.Skip(1)
	default:
		return nil, fmt.Errorf("attribute version %d: %w", version, ErrUnsupported)
	}

	name, err := r.ReadBytes(pad(nameSize))
	if err != nil {
		return nil, errShort("attribute")
	}
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	dtRaw, err := r.ReadBytes(pad(dtSize))
	if err != nil {
		return nil, errShort("attribute")
	}
	dsRaw, err := r.ReadBytes(pad(dsSize))
	if err != nil {
		return nil, errShort("attribute")
	}

	dt, err := parseDatatype(dtRaw)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	ds, err := parseDataspace(dsRaw, cfg)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}

	m := &Attribute{Name: string(name), Datatype: dt, Dataspace: ds}
	start := int(r.Pos())
	end := start + int(ds.NumElements())*int(dt.Size)
	if end > len(data) {
		return nil, errShort("attribute")
	}
	m.Data = data[start:end]
	return m, nil
}
