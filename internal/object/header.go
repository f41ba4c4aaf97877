// Package object reads and writes version 2 HDF5 object headers.
//
// A header is written once, at its final size, after every message it holds
// is known, so headers never need continuation blocks.
package object

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

var signature = []byte("OHDR")

// Errors
var (
	ErrInvalidHeader      = errors.New("invalid object header")
	ErrUnsupportedVersion = errors.New("unsupported object header version")
	ErrChecksumMismatch   = errors.New("object header checksum mismatch")
)

/*
Version 2 object header as written here:

	0  4  "OHDR"
	4  1  version (2)
	5  1  flags, bits 0-1 select the width of the chunk size field
	6  n  size of chunk #0 (message bytes, excluding the checksum)
	   .  messages: type(1) size(2) flags(1) body
	   4  lookup3 checksum of everything before it
*/

// Header is a decoded object header.
type Header struct {
	Address  uint64
	Messages []message.Message
}

// Find returns the first message of the given type, or nil.
func (h *Header) Find(typ message.Type) message.Message {
	for _, m := range h.Messages {
		if m.Type() == typ {
			return m
		}
	}
	return nil
}

// FindAll returns every message of the given type.
func (h *Header) FindAll(typ message.Type) []message.Message {
	var out []message.Message
	for _, m := range h.Messages {
		if m.Type() == typ {
			out = append(out, m)
		}
	}
	return out
}

func chunkWidth(n int) (width int, flag uint8) {
	switch {
	case n <= 0xff:
		return 1, 0
	case n <= 0xffff:
		return 2, 1
	default:
		return 4, 2
	}
}

func messagesSize(cfg binary.Config, msgs []message.Encoder) (int, error) {
	n := 0
	for _, m := range msgs {
		sz := m.EncodedSize(cfg)
		if sz > 0xffff {
			return 0, fmt.Errorf("%s message of %d bytes exceeds header limit", m.Type(), sz)
		}
		n += 4 + sz
	}
	return n, nil
}

// Size returns the number of bytes Write produces for msgs.
func Size(cfg binary.Config, msgs []message.Encoder) (int, error) {
	body, err := messagesSize(cfg, msgs)
	if err != nil {
		return 0, err
	}
	width, _ := chunkWidth(body)
	return 6 + width + body + 4, nil
}

// Encode assembles a complete header, checksum included.
func Encode(cfg binary.Config, msgs []message.Encoder) ([]byte, error) {
	body, err := messagesSize(cfg, msgs)
	if err != nil {
		return nil, err
	}
	width, flag := chunkWidth(body)

	buf := binary.NewBuffer(6 + width + body + 4)
	w := binary.NewWriter(buf, cfg)
	if err := w.WriteBytes(append(append([]byte{}, signature...), 2, flag)); err != nil {
		return nil, err
	}
	if err := w.WriteUintN(uint64(body), width); err != nil {
		return nil, err
	}
	for _, m := range msgs {
		if err := w.WriteUint8(uint8(m.Type())); err != nil {
			return nil, err
		}
		if err := w.WriteUint16(uint16(m.EncodedSize(cfg))); err != nil {
			return nil, err
		}
		if err := w.WriteUint8(0); err != nil {
			return nil, err
		}
		start := w.Pos()
		if err := m.Encode(w); err != nil {
			return nil, fmt.Errorf("encoding %s message: %w", m.Type(), err)
		}
		if got := int(w.Pos() - start); got != m.EncodedSize(cfg) {
			return nil, fmt.Errorf("%s message wrote %d bytes, expected %d", m.Type(), got, m.EncodedSize(cfg))
		}
	}
	if err := w.WriteUint32(binary.Lookup3Checksum(buf.Bytes())); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a header for msgs at the writer's position.
func Write(w *binary.Writer, msgs []message.Encoder) error {
	data, err := Encode(w.Config(), msgs)
	if err != nil {
		return err
	}
	return w.WriteBytes(data)
}

// Read decodes and verifies the header at address.
func Read(r *binary.Reader, address uint64) (*Header, error) {
	hr := r.At(int64(address))
	prefix, err := hr.ReadBytes(6)
	if err != nil {
		return nil, fmt.Errorf("reading object header at %d: %w", address, err)
	}
	if string(prefix[:4]) != string(signature) {
		return nil, fmt.Errorf("%w: no signature at address %d", ErrInvalidHeader, address)
	}
	if prefix[4] != 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, prefix[4])
	}
	flags := prefix[5]
	if flags&0x20 != 0 {
		hr.Skip(16)
	}
	if flags&0x10 != 0 {
		hr.Skip(4)
	}
	body, err := hr.ReadUintN(1 << (flags & 0x03))
	if err != nil {
		return nil, fmt.Errorf("reading object header at %d: %w", address, err)
	}

	msgStart := hr.Pos()
	msgEnd := msgStart + int64(body)
	whole, err := r.At(int64(address)).ReadBytes(int(msgEnd-int64(address)) + 4)
	if err != nil {
		return nil, fmt.Errorf("reading object header at %d: %w", address, err)
	}
	n := len(whole) - 4
	stored := uint32(whole[n]) | uint32(whole[n+1])<<8 | uint32(whole[n+2])<<16 | uint32(whole[n+3])<<24
	if binary.Lookup3Checksum(whole[:n]) != stored {
		return nil, fmt.Errorf("%w at address %d", ErrChecksumMismatch, address)
	}

	hdr := &Header{Address: address}
	trackOrder := flags&0x04 != 0
	for hr.Pos()+4 <= msgEnd {
		typ, _ := hr.ReadUint8()
		size, _ := hr.ReadUint16()
		hr.Skip(1)
		if trackOrder {
			hr.Skip(2)
		}
		data, err := hr.ReadBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("reading object header at %d: %w", address, err)
		}
		t := message.Type(typ)
		switch t {
		case message.TypeNIL:
			continue
		case message.TypeContinuation:
			return nil, fmt.Errorf("%w: continuation blocks at address %d", message.ErrUnsupported, address)
		}
		msg, err := message.Parse(t, data, r.Config())
		if err != nil {
			return nil, fmt.Errorf("object header at %d: %w", address, err)
		}
		hdr.Messages = append(hdr.Messages, msg)
	}
	return hdr, nil
}
