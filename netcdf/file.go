package netcdf

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/robert-malhotra/segy2netcdf/internal/alloc"
	"github.com/robert-malhotra/segy2netcdf/internal/binary"
	"github.com/robert-malhotra/segy2netcdf/internal/superblock"
)

// Version is recorded in the _NCProperties attribute of every file written.
const Version = "0.3.0"

// File is a NetCDF-4 file open for writing (Create) or reading (Open).
type File struct {
	path     string
	osFile   *os.File
	cfg      binary.Config
	writable bool
	closed   bool
	log      *zap.Logger

	// writing
	alloc *alloc.Allocator

	// reading
	reader *binary.Reader

	dims  []*Dimension
	vars  []*Variable
	attrs attrSet
}

// Create creates a NetCDF-4 file at path, truncating any existing file.
// Raw data is written as variables are filled; headers and the superblock
// are written by Close.
func Create(path string, opts ...FileOption) (*File, error) {
	options := defaultFileOptions()
	for _, opt := range opts {
		opt(options)
	}

	osFile, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	sb := superblock.New()
	f := &File{
		path:     path,
		osFile:   osFile,
		cfg:      sb.Config,
		writable: true,
		log:      options.logger.With(zap.String("file", path)),
		alloc:    alloc.New(uint64(sb.Size()), options.alignment),
	}
	props, err := encodeAttribute(f.cfg, AttrProperties, "version=2,segy2netcdf="+Version)
	if err != nil {
		osFile.Close()
		return nil, err
	}
	f.attrs.set(props)
	return f, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

func (f *File) checkWritable() error {
	if f.closed {
		return ErrClosed
	}
	if !f.writable {
		return ErrReadOnly
	}
	return nil
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

func (f *File) nameInUse(name string) bool {
	for _, d := range f.dims {
		if d.Name == name {
			return true
		}
	}
	for _, v := range f.vars {
		if v.name == name {
			return true
		}
	}
	return false
}

// AddDimension declares a dimension of the given length.
func (f *File) AddDimension(name string, length int) (*Dimension, error) {
	if err := f.checkWritable(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, fmt.Errorf("dimension %w", err)
	}
	if length < 0 {
		return nil, fmt.Errorf("dimension %q: negative length %d", name, length)
	}
	if f.nameInUse(name) {
		return nil, fmt.Errorf("dimension %q: %w", name, ErrExists)
	}
	d := &Dimension{Name: name, Len: length, ID: len(f.dims)}
	f.dims = append(f.dims, d)
	return d, nil
}

// Dimension returns the named dimension.
func (f *File) Dimension(name string) (*Dimension, error) {
	for _, d := range f.dims {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("dimension %q: %w", name, ErrNotFound)
}

// Dimensions returns every dimension in id order.
func (f *File) Dimensions() []*Dimension {
	return append([]*Dimension(nil), f.dims...)
}

// Variable returns the named variable.
func (f *File) Variable(name string) (*Variable, error) {
	if f.closed {
		return nil, ErrClosed
	}
	for _, v := range f.vars {
		if v.name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("variable %q: %w", name, ErrNotFound)
}

// Variables returns every variable in creation order.
func (f *File) Variables() []*Variable {
	return append([]*Variable(nil), f.vars...)
}

// SetAttribute sets a global attribute, replacing any with the same name.
func (f *File) SetAttribute(name string, value any) error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	if reservedAttribute(name) {
		return fmt.Errorf("attribute %q is reserved: %w", name, ErrInvalidName)
	}
	m, err := encodeAttribute(f.cfg, name, value)
	if err != nil {
		return err
	}
	f.attrs.set(m)
	return nil
}

// Attribute returns the named global attribute.
func (f *File) Attribute(name string) (Attribute, error) {
	return f.attrs.lookup(name)
}

// Attributes returns the global attributes in the order they were set.
func (f *File) Attributes() ([]Attribute, error) {
	return f.attrs.public()
}

// Close finishes a file being written, or releases a file being read.
// Variables never written read back as zeros.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if !f.writable {
		return f.osFile.Close()
	}

	err := f.finish()
	if err == nil {
		err = f.osFile.Sync()
	}
	return multierr.Append(err, f.osFile.Close())
}
