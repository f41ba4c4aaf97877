// Package fields is the registry of SEG-Y trace header fields, keyed by the
// names segyio gives them.
package fields

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// HeaderSize is the length of a SEG-Y trace header.
const HeaderSize = 240

// Field is a signed integer stored in every trace header.
type Field struct {
	Name   string
	Offset int // 1-based byte position within the trace header
	Size   int // 2 or 4 bytes
}

// ID returns the field identifier, its 1-based byte offset.
func (f Field) ID() int { return f.Offset }

func (f Field) String() string {
	return fmt.Sprintf("%s@%d", f.Name, f.Offset)
}

// Decode reads the field from a trace header.
func (f Field) Decode(header []byte, order binary.ByteOrder) int32 {
	p := header[f.Offset-1:]
	if f.Size == 2 {
		return int32(int16(order.Uint16(p)))
	}
	return int32(order.Uint32(p))
}

// Encode stores v into a trace header.
func (f Field) Encode(header []byte, order binary.ByteOrder, v int32) {
	p := header[f.Offset-1:]
	if f.Size == 2 {
		order.PutUint16(p, uint16(int16(v)))
		return
	}
	order.PutUint32(p, uint32(v))
}

// Registry maps field names to fields.
type Registry struct {
	byName map[string]Field
	fields []Field
}

// NewRegistry builds a registry from fs. Names and byte ranges must be
// unique and lie within the trace header.
func NewRegistry(fs []Field) (*Registry, error) {
	r := &Registry{byName: make(map[string]Field, len(fs))}
	used := make([]string, HeaderSize+1)
	for _, f := range fs {
		if f.Size != 2 && f.Size != 4 {
			return nil, fmt.Errorf("field %s: size %d", f.Name, f.Size)
		}
		if f.Offset < 1 || f.Offset+f.Size-1 > HeaderSize {
			return nil, fmt.Errorf("field %s: offset %d outside trace header", f.Name, f.Offset)
		}
		if _, dup := r.byName[f.Name]; dup {
			return nil, fmt.Errorf("field %s: duplicate name", f.Name)
		}
		for b := f.Offset; b < f.Offset+f.Size; b++ {
			if used[b] != "" {
				return nil, fmt.Errorf("field %s overlaps %s at byte %d", f.Name, used[b], b)
			}
			used[b] = f.Name
		}
		r.byName[f.Name] = f
		r.fields = append(r.fields, f)
	}
	sort.Slice(r.fields, func(i, j int) bool { return r.fields[i].Offset < r.fields[j].Offset })
	return r, nil
}

// Lookup returns the named field. The boolean is false for unknown names.
func (r *Registry) Lookup(name string) (Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Fields returns every field in byte order.
func (r *Registry) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Names returns every field name in byte order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields.
func (r *Registry) Len() int { return len(r.fields) }

var defaultRegistry *Registry

func init() {
	r, err := NewRegistry(traceFields)
	if err != nil {
		panic(err)
	}
	defaultRegistry = r
}

// Default returns the registry of standard SEG-Y revision 1 trace header
// fields.
func Default() *Registry { return defaultRegistry }
