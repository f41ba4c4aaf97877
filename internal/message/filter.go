package message

import (
	"encoding/binary"
	"fmt"

	bin "github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// Registered filter identifiers.
const (
	FilterDeflate    uint16 = 1
	FilterShuffle    uint16 = 2
	FilterFletcher32 uint16 = 3
)

// FilterInfo describes one stage of a filter pipeline.
type FilterInfo struct {
	ID         uint16
	Flags      uint16 // bit 0: optional
	Name       string
	ClientData []uint32
}

// FilterPipeline is the filter pipeline message (0x000B).
type FilterPipeline struct {
	Filters []FilterInfo
}

func (m *FilterPipeline) Type() Type { return TypeFilterPipeline }

// Encode writes a version 2 pipeline. Names are only written for
// non-reserved filter identifiers.
func (m *FilterPipeline) Encode(w *bin.Writer) error {
	if err := w.WriteBytes([]byte{2, uint8(len(m.Filters))}); err != nil {
		return err
	}
	for _, f := range m.Filters {
		if err := w.WriteUint16(f.ID); err != nil {
			return err
		}
		if f.ID >= 256 {
			if err := w.WriteUint16(uint16(len(f.Name) + 1)); err != nil {
				return err
			}
		}
		if err := w.WriteUint16(f.Flags); err != nil {
			return err
		}
		if err := w.WriteUint16(uint16(len(f.ClientData))); err != nil {
			return err
		}
		if f.ID >= 256 {
			if err := w.WriteBytes(append([]byte(f.Name), 0)); err != nil {
				return err
			}
		}
		for _, v := range f.ClientData {
			if err := w.WriteUint32(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *FilterPipeline) EncodedSize(bin.Config) int {
	n := 2
	for _, f := range m.Filters {
		n += 6 + 4*len(f.ClientData)
		if f.ID >= 256 {
			n += 2 + len(f.Name) + 1
		}
	}
	return n
}

func parseFilterPipeline(data []byte) (*FilterPipeline, error) {
	if len(data) < 2 {
		return nil, errShort("filter pipeline")
	}
	version, count := data[0], int(data[1])
	off := 2
	if version == 1 {
		off = 8
	} else if version != 2 {
		return nil, fmt.Errorf("filter pipeline version %d: %w", version, ErrUnsupported)
	}

	need := func(n int) error {
		if off+n > len(data) {
			return errShort("filter pipeline")
		}
		return nil
	}
	u16 := func() uint16 {
		v := binary.LittleEndian.Uint16(data[off:])
		off += 2
		return v
	}

	m := &FilterPipeline{Filters: make([]FilterInfo, 0, count)}
	for i := 0; i < count; i++ {
		if err := need(2); err != nil {
			return nil, err
		}
		f := FilterInfo{ID: u16()}

		nameLen := 0
		if version == 1 || f.ID >= 256 {
			if err := need(2); err != nil {
				return nil, err
			}
			nameLen = int(u16())
		}
		if err := need(4); err != nil {
			return nil, err
		}
		f.Flags = u16()
		ncd := int(u16())

		if nameLen > 0 {
			if version == 1 {
				nameLen = (nameLen + 7) &^ 7
			}
			if err := need(nameLen); err != nil {
				return nil, err
			}
			name := data[off : off+nameLen]
			for j, c := range name {
				if c == 0 {
					name = name[:j]
					break
				}
			}
			f.Name = string(name)
			off += nameLen
		}

		if err := need(4 * ncd); err != nil {
			return nil, err
		}
		f.ClientData = make([]uint32, ncd)
		for j := range f.ClientData {
			f.ClientData[j] = binary.LittleEndian.Uint32(data[off:])
			off += 4
		}
		if version == 1 && ncd%2 == 1 {
			off += 4
		}
		m.Filters = append(m.Filters, f)
	}
	return m, nil
}
