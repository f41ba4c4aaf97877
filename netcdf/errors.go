// Package netcdf writes and reads NetCDF-4 files: HDF5 files whose root
// group holds dimension scales, variables and attributes following the
// netCDF-4 conventions.
//
// A file is created with Create, described with AddDimension and
// AddVariable, filled with Variable.Write and finished with Close, which
// writes every object header and the superblock. Open reads files in the
// subset of the format that Create produces.
package netcdf

import "errors"

// Common errors
var (
	ErrNotNetCDF         = errors.New("not a NetCDF-4 file")
	ErrNotFound          = errors.New("not found")
	ErrExists            = errors.New("name already in use")
	ErrClosed            = errors.New("file is closed")
	ErrReadOnly          = errors.New("file is open for reading")
	ErrWriteOnly         = errors.New("file is open for writing")
	ErrAlreadyWritten    = errors.New("variable already written")
	ErrShape             = errors.New("data does not match variable shape")
	ErrType              = errors.New("data does not match variable type")
	ErrAttributeTooLarge = errors.New("attribute too large")
	ErrInvalidName       = errors.New("invalid name")
)
