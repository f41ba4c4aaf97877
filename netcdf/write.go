package netcdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/layout"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
	"github.com/robert-malhotra/segy2netcdf/internal/object"
	"github.com/robert-malhotra/segy2netcdf/internal/superblock"
)

// finish writes one object header per dataset, then the root group header,
// then the superblock pointing at it.
func (f *File) finish() error {
	var links []*message.Link
	link := func(name string, addr uint64) {
		l := message.NewHardLink(name, addr)
		l.Order, l.HasOrder = int64(len(links)), true
		links = append(links, l)
	}

	// A dimension without a coordinate variable is stored as an empty
	// placeholder scale.
	for _, d := range f.dims {
		if d.coord != nil {
			continue
		}
		msgs, err := f.dimensionMessages(d)
		if err != nil {
			return err
		}
		addr, err := f.writeHeader(d.Name, msgs)
		if err != nil {
			return err
		}
		link(d.Name, addr)
	}

	for _, v := range f.vars {
		msgs, err := f.variableMessages(v)
		if err != nil {
			return err
		}
		addr, err := f.writeHeader(v.name, msgs)
		if err != nil {
			return err
		}
		link(v.name, addr)
	}

	root := []message.Encoder{
		&message.LinkInfo{TrackOrder: true, MaxOrder: int64(len(links))},
		&message.GroupInfo{},
	}
	for _, l := range links {
		root = append(root, l)
	}
	for _, a := range f.attrs.msgs {
		root = append(root, a)
	}
	rootAddr, err := f.writeHeader("/", root)
	if err != nil {
		return err
	}

	if err := f.alloc.Validate(); err != nil {
		return fmt.Errorf("file layout: %w", err)
	}
	sb := superblock.New()
	sb.Config = f.cfg
	sb.EOFAddress = f.alloc.EOF()
	sb.RootGroup = rootAddr
	if err := sb.Write(f.osFile); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}

	stats := f.alloc.Stats()
	f.log.Debug("file closed",
		zap.Int("dimensions", len(f.dims)),
		zap.Int("variables", len(f.vars)),
		zap.Uint64("bytes", sb.EOFAddress),
		zap.Uint64("allocations", stats.Allocations))
	return nil
}

func (f *File) writeHeader(tag string, msgs []message.Encoder) (uint64, error) {
	data, err := object.Encode(f.cfg, msgs)
	if err != nil {
		return 0, fmt.Errorf("header for %q: %w", tag, err)
	}
	addr := f.alloc.Alloc(uint64(len(data)), tag+" header")
	if _, err := f.osFile.WriteAt(data, int64(addr)); err != nil {
		return 0, fmt.Errorf("header for %q: %w", tag, err)
	}
	return addr, nil
}

// scaleAttributes marks a dataset as the dimension scale of d.
func (f *File) scaleAttributes(d *Dimension, name string) ([]message.Encoder, error) {
	var msgs []message.Encoder
	for _, a := range []struct {
		name  string
		value any
	}{
		{attrClass, dimensionScale},
		{attrName, name},
		{attrDimID, int32(d.ID)},
	} {
		m, err := encodeAttribute(f.cfg, a.name, a.value)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (f *File) dimensionMessages(d *Dimension) ([]message.Encoder, error) {
	dt := message.Float32()
	msgs := []message.Encoder{
		message.NewDataspace(uint64(d.Len)),
		dt,
		&message.FillValue{AllocTime: 2},
		layout.Unallocated(uint64(d.Len) * uint64(dt.Size)),
	}
	scale, err := f.scaleAttributes(d, fmt.Sprintf("%s%10d", dimOnlyPrefix, d.Len))
	if err != nil {
		return nil, err
	}
	return append(msgs, scale...), nil
}

func (f *File) variableMessages(v *Variable) ([]message.Encoder, error) {
	dims := make([]uint64, len(v.dims))
	for i, d := range v.dims {
		dims[i] = uint64(d.Len)
	}
	dt := v.typ.datatype()

	l := v.layout
	if !v.written {
		l = layout.Unallocated(uint64(v.Len()) * uint64(dt.Size))
		v.pipeline = filter.NewPipeline()
	}

	space := message.NewDataspace(dims...)
	if len(dims) == 0 {
		space = message.NewScalarDataspace()
	}
	msgs := []message.Encoder{space, dt}
	if l.Class == message.LayoutChunked {
		msgs = append(msgs, &message.FillValue{AllocTime: 3}, v.pipeline.Message())
	} else {
		msgs = append(msgs, &message.FillValue{AllocTime: 2})
	}
	msgs = append(msgs, l)

	for _, a := range v.attrs.msgs {
		msgs = append(msgs, a)
	}
	if v.IsCoordinate() {
		scale, err := f.scaleAttributes(v.dims[0], v.name)
		if err != nil {
			return nil, err
		}
		return append(msgs, scale...), nil
	}
	if len(v.dims) > 0 {
		ids := make([]int32, len(v.dims))
		for i, d := range v.dims {
			ids[i] = int32(d.ID)
		}
		m, err := encodeAttribute(f.cfg, attrCoordinates, ids)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
