// Package filter implements the chunk filters a NetCDF-4 variable can be
// stored through: deflate compression and byte shuffling.
//
// Filters run in pipeline order when a chunk is written and in reverse
// order when it is read back.
package filter

import (
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Filter transforms chunk bytes in both directions.
type Filter interface {
	// Info returns the pipeline entry describing this filter.
	Info() message.FilterInfo

	Encode(input []byte) ([]byte, error)
	Decode(input []byte) ([]byte, error)
}

var registry = map[uint16]func([]uint32) Filter{
	message.FilterDeflate: func(cd []uint32) Filter { return newDeflateFromClientData(cd) },
	message.FilterShuffle: func(cd []uint32) Filter { return newShuffleFromClientData(cd) },
}

// New creates a filter from a pipeline entry. Unknown optional filters
// return a nil Filter and no error.
func New(info message.FilterInfo) (Filter, error) {
	ctor, ok := registry[info.ID]
	if !ok {
		if info.Flags&0x01 != 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("filter %d (%s) is not supported", info.ID, info.Name)
	}
	return ctor(info.ClientData), nil
}
