package filter

import (
	"fmt"

	"github.com/robert-malhotra/segy2netcdf/internal/message"
)

// Pipeline is an ordered list of filters.
type Pipeline struct {
	filters []Filter
}

// NewPipeline returns a pipeline running filters in the given order.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{filters: filters}
}

// FromMessage builds the pipeline described by a filter pipeline message.
// A nil message yields an empty pipeline.
func FromMessage(fp *message.FilterPipeline) (*Pipeline, error) {
	p := &Pipeline{}
	if fp == nil {
		return p, nil
	}
	for _, info := range fp.Filters {
		f, err := New(info)
		if err != nil {
			return nil, err
		}
		if f != nil {
			p.filters = append(p.filters, f)
		}
	}
	return p, nil
}

// Empty reports whether the pipeline has no filters.
func (p *Pipeline) Empty() bool { return len(p.filters) == 0 }

// Has reports whether a filter with the given id is in the pipeline.
func (p *Pipeline) Has(id uint16) bool {
	for _, f := range p.filters {
		if f.Info().ID == id {
			return true
		}
	}
	return false
}

// Message returns the filter pipeline message for this pipeline.
func (p *Pipeline) Message() *message.FilterPipeline {
	m := &message.FilterPipeline{}
	for _, f := range p.filters {
		m.Filters = append(m.Filters, f.Info())
	}
	return m
}

// Encode runs every filter in order.
func (p *Pipeline) Encode(data []byte) ([]byte, error) {
	var err error
	for _, f := range p.filters {
		if data, err = f.Encode(data); err != nil {
			return nil, fmt.Errorf("filter %d encode: %w", f.Info().ID, err)
		}
	}
	return data, nil
}

// Decode runs the filters in reverse, skipping those whose bit is set in
// mask.
func (p *Pipeline) Decode(data []byte, mask uint32) ([]byte, error) {
	var err error
	for i := len(p.filters) - 1; i >= 0; i-- {
		if mask&(1<<uint(i)) != 0 {
			continue
		}
		if data, err = p.filters[i].Decode(data); err != nil {
			return nil, fmt.Errorf("filter %d decode: %w", p.filters[i].Info().ID, err)
		}
	}
	return data, nil
}
