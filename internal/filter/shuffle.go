package filter

import (
	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Shuffle groups byte j of every element together, which makes numeric
// arrays compress better.
type Shuffle struct {
	elemSize int
}

// NewShuffle returns a shuffle filter for elements of elemSize bytes.
func NewShuffle(elemSize int) *Shuffle {
	if elemSize < 1 {
		elemSize = 1
	}
	return &Shuffle{elemSize: elemSize}
}

func newShuffleFromClientData(cd []uint32) *Shuffle {
	if len(cd) > 0 {
		return NewShuffle(int(cd[0]))
	}
	return NewShuffle(1)
}

func (f *Shuffle) Info() message.FilterInfo {
	return message.FilterInfo{ID: message.FilterShuffle, ClientData: []uint32{uint32(f.elemSize)}}
}

func (f *Shuffle) Encode(input []byte) ([]byte, error) {
	n := len(input) / f.elemSize
	if f.elemSize == 1 || n == 0 {
		return input, nil
	}
	out := make([]byte, len(input))
	for i := 0; i < n; i++ {
		for j := 0; j < f.elemSize; j++ {
			out[j*n+i] = input[i*f.elemSize+j]
		}
	}
	// trailing partial element stays in place
	copy(out[n*f.elemSize:], input[n*f.elemSize:])
	return out, nil
}

func (f *Shuffle) Decode(input []byte) ([]byte, error) {
	n := len(input) / f.elemSize
	if f.elemSize == 1 || n == 0 {
		return input, nil
	}
	out := make([]byte, len(input))
	for i := 0; i < n; i++ {
		for j := 0; j < f.elemSize; j++ {
			out[i*f.elemSize+j] = input[j*n+i]
		}
	}
	copy(out[n*f.elemSize:], input[n*f.elemSize:])
	return out, nil
}
