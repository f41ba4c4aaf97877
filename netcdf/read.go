package netcdf

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/binary"
	"github.com/robert-malhotra/segy2netcdf/internal/filter"
	"github.com/robert-malhotra/segy2netcdf/internal/message"
	"github.com/robert-malhotra/segy2netcdf/internal/object"
	"github.com/robert-malhotra/segy2netcdf/internal/superblock"
)

// Open opens a NetCDF-4 file for reading. Only root group datasets with
// contiguous or single-chunk storage are understood.
func Open(path string) (*File, error) {
	osFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := load(osFile)
	if err != nil {
		osFile.Close()
		return nil, err
	}
	f.path = path
	return f, nil
}

type dataset struct {
	name string
	hdr  *object.Header
	attr attrSet
}

func (d *dataset) stringAttr(name string) string {
	m := d.attr.get(name)
	if m == nil || m.Datatype.Class != message.ClassString {
		return ""
	}
	a, err := decodeAttribute(m)
	if err != nil {
		return ""
	}
	s, _ := a.Value.(string)
	return s
}

func (d *dataset) int32sAttr(name string) ([]int32, bool) {
	m := d.attr.get(name)
	if m == nil {
		return nil, false
	}
	a, err := decodeAttribute(m)
	if err != nil {
		return nil, false
	}
	switch v := a.Value.(type) {
	case int32:
		return []int32{v}, true
	case []int32:
		return v, true
	}
	return nil, false
}

func load(osFile *os.File) (*File, error) {
	sb, err := superblock.Read(osFile)
	if err != nil {
		if errors.Is(err, superblock.ErrNotHDF5) {
			return nil, ErrNotNetCDF
		}
		return nil, fmt.Errorf("%w: %v", ErrNotNetCDF, err)
	}

	f := &File{osFile: osFile, cfg: sb.Config, log: zap.NewNop()}
	f.reader = binary.NewReader(osFile, sb.Config)

	root, err := object.Read(f.reader, sb.RootGroup)
	if err != nil {
		return nil, fmt.Errorf("root group: %w", err)
	}
	for _, m := range root.FindAll(message.TypeAttribute) {
		f.attrs.set(m.(*message.Attribute))
	}

	var links []*message.Link
	for _, m := range root.FindAll(message.TypeLink) {
		if l := m.(*message.Link); l.Hard {
			links = append(links, l)
		}
	}
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].HasOrder && links[j].HasOrder {
			return links[i].Order < links[j].Order
		}
		return links[i].Name < links[j].Name
	})

	var sets []*dataset
	for _, l := range links {
		hdr, err := object.Read(f.reader, l.Address)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", l.Name, err)
		}
		if hdr.Find(message.TypeDataLayout) == nil {
			continue // a group or committed datatype
		}
		ds := &dataset{name: l.Name, hdr: hdr}
		for _, m := range hdr.FindAll(message.TypeAttribute) {
			ds.attr.set(m.(*message.Attribute))
		}
		sets = append(sets, ds)
	}

	if err := f.loadDimensions(sets); err != nil {
		return nil, err
	}
	for _, ds := range sets {
		if strings.HasPrefix(ds.stringAttr(attrName), dimOnlyPrefix) {
			continue
		}
		v, err := f.loadVariable(ds)
		if err != nil {
			return nil, err
		}
		f.vars = append(f.vars, v)
	}
	return f, nil
}

func (f *File) loadDimensions(sets []*dataset) error {
	for _, ds := range sets {
		if ds.stringAttr(attrClass) != dimensionScale {
			continue
		}
		space, _ := ds.hdr.Find(message.TypeDataspace).(*message.Dataspace)
		if space == nil || len(space.Dims) != 1 {
			return fmt.Errorf("dimension %q: scale is not one-dimensional: %w", ds.name, ErrNotNetCDF)
		}
		d := &Dimension{Name: ds.name, Len: int(space.Dims[0]), ID: len(f.dims)}
		if ids, ok := ds.int32sAttr(attrDimID); ok && len(ids) == 1 {
			d.ID = int(ids[0])
		}
		f.dims = append(f.dims, d)
	}
	sort.SliceStable(f.dims, func(i, j int) bool { return f.dims[i].ID < f.dims[j].ID })
	return nil
}

func (f *File) dimensionByID(id int) *Dimension {
	for _, d := range f.dims {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// phonyDimension returns a dimension named like netCDF names dimensions it
// has to invent for plain HDF5 datasets.
func (f *File) phonyDimension(length int) *Dimension {
	for _, d := range f.dims {
		if strings.HasPrefix(d.Name, "phony_dim_") && d.Len == length {
			return d
		}
	}
	d := &Dimension{Name: fmt.Sprintf("phony_dim_%d", len(f.dims)), Len: length, ID: len(f.dims)}
	f.dims = append(f.dims, d)
	return d
}

func (f *File) loadVariable(ds *dataset) (*Variable, error) {
	space, _ := ds.hdr.Find(message.TypeDataspace).(*message.Dataspace)
	dt, _ := ds.hdr.Find(message.TypeDatatype).(*message.Datatype)
	lay, _ := ds.hdr.Find(message.TypeDataLayout).(*message.Layout)
	if space == nil || dt == nil || lay == nil {
		return nil, fmt.Errorf("variable %q: incomplete header: %w", ds.name, ErrNotNetCDF)
	}
	fp, _ := ds.hdr.Find(message.TypeFilterPipeline).(*message.FilterPipeline)
	pipeline, err := filter.FromMessage(fp)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", ds.name, err)
	}

	v := &Variable{
		file:     f,
		name:     ds.name,
		typ:      typeOf(dt),
		attrs:    ds.attr,
		pipeline: pipeline,
		layout:   lay,
		written:  true,
		datatype: dt,
	}

	switch {
	case ds.stringAttr(attrClass) == dimensionScale:
		d, err := f.Dimension(ds.name)
		if err != nil {
			return nil, err
		}
		d.coord = v
		v.dims = []*Dimension{d}
	default:
		ids, ok := ds.int32sAttr(attrCoordinates)
		if ok && len(ids) != len(space.Dims) {
			return nil, fmt.Errorf("variable %q: %d coordinates for rank %d: %w", ds.name, len(ids), len(space.Dims), ErrNotNetCDF)
		}
		for i, n := range space.Dims {
			var d *Dimension
			if ok {
				if d = f.dimensionByID(int(ids[i])); d == nil {
					return nil, fmt.Errorf("variable %q: unknown dimension id %d: %w", ds.name, ids[i], ErrNotNetCDF)
				}
			} else {
				d = f.phonyDimension(int(n))
			}
			if uint64(d.Len) != n {
				return nil, fmt.Errorf("variable %q: dimension %q has length %d, dataspace says %d: %w",
					ds.name, d.Name, d.Len, n, ErrNotNetCDF)
			}
			v.dims = append(v.dims, d)
		}
	}
	return v, nil
}
