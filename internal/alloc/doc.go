// Package alloc hands out file address space while a NetCDF file is being
// written.
//
// Space is only ever appended at the end of the file; nothing is freed or
// reused because every object is written exactly once. Each allocation is
// tagged with the object it belongs to so the layout of a finished file can
// be reported.
package alloc
