package message

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
)

// Type identifies an object header message.
type Type uint16

// Header message types.
const (
	TypeNIL            Type = 0x0000
	TypeDataspace      Type = 0x0001
	TypeLinkInfo       Type = 0x0002
	TypeDatatype       Type = 0x0003
	TypeFillValue      Type = 0x0005
	TypeLink           Type = 0x0006
	TypeDataLayout     Type = 0x0008
	TypeGroupInfo      Type = 0x000A
	TypeFilterPipeline Type = 0x000B
	TypeAttribute      Type = 0x000C
	TypeContinuation   Type = 0x0010
	TypeSymbolTable    Type = 0x0011
)

func (t Type) String() string {
	switch t {
	case TypeNIL:
		return "NIL"
	case TypeDataspace:
		return "Dataspace"
	case TypeLinkInfo:
		return "LinkInfo"
	case TypeDatatype:
		return "Datatype"
	case TypeFillValue:
		return "FillValue"
	case TypeLink:
		return "Link"
	case TypeDataLayout:
		return "DataLayout"
	case TypeGroupInfo:
		return "GroupInfo"
	case TypeFilterPipeline:
		return "FilterPipeline"
	case TypeAttribute:
		return "Attribute"
	case TypeContinuation:
		return "Continuation"
	case TypeSymbolTable:
		return "SymbolTable"
	default:
		return fmt.Sprintf("Type(0x%04x)", uint16(t))
	}
}

// ErrUnsupported is returned for message versions or variants that cannot be
// decoded.
var ErrUnsupported = errors.New("unsupported message")

// errShort builds the error for a message body that ends early.
func errShort(what string) error {
	return fmt.Errorf("%s message: %w", what, binary.ErrTruncated)
}

// Message is implemented by every header message.
type Message interface {
	Type() Type
}

// Encoder is implemented by messages the writer can emit.
type Encoder interface {
	Message
	// Encode writes the message body at the writer's position.
	Encode(w *binary.Writer) error
	// EncodedSize returns the number of bytes Encode writes.
	EncodedSize(cfg binary.Config) int
}

// Parse decodes a message body of the given type.
func Parse(typ Type, data []byte, cfg binary.Config) (Message, error) {
	switch typ {
	case TypeDataspace:
		return parseDataspace(data, cfg)
	case TypeDatatype:
		return parseDatatype(data)
	case TypeDataLayout:
		return parseLayout(data, cfg)
	case TypeFilterPipeline:
		return parseFilterPipeline(data)
	case TypeAttribute:
		return parseAttribute(data, cfg)
	case TypeLink:
		return parseLink(data, cfg)
	default:
		return &Unknown{MsgType: typ, Data: data}, nil
	}
}

// Unknown is a message the package does not interpret.
type Unknown struct {
	MsgType Type
	Data    []byte
}

func (m *Unknown) Type() Type { return m.MsgType }

// Encode writes the raw body back out.
func (m *Unknown) Encode(w *binary.Writer) error { return w.WriteBytes(m.Data) }

// EncodedSize returns the raw body length.
func (m *Unknown) EncodedSize(binary.Config) int { return len(m.Data) }

// Encode serializes msg into a standalone byte slice.
func Encode(msg Encoder, cfg binary.Config) ([]byte, error) {
	buf := binary.NewBuffer(msg.EncodedSize(cfg))
	if err := msg.Encode(binary.NewWriter(buf, cfg)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
