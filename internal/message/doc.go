// Package message encodes and decodes the HDF5 object header messages that
// make up a NetCDF-4 file.
//
// Only the messages needed to describe dimensions, variables and their
// attributes are understood:
//
//   - Dataspace (0x0001): the shape of a variable. See [Dataspace].
//   - Link Info (0x0002) and Group Info (0x000A): compact group storage.
//   - Datatype (0x0003): integer, float and fixed string types. See [Datatype].
//   - Link (0x0006): a hard link from the root group. See [Link].
//   - Data Layout (0x0008): contiguous or single-chunk storage. See [Layout].
//   - Filter Pipeline (0x000B): deflate and shuffle. See [FilterPipeline].
//   - Attribute (0x000C): a named value. See [Attribute].
//
// Anything else decodes to [Unknown] and is carried through untouched.
//
// Every message type that the writer emits implements [Encoder]:
//
//	size := msg.EncodedSize(cfg)
//	err := msg.Encode(w)
package message
