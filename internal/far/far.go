// Package far reads and writes FAR archives, the container format used
// by early Maxis titles to pack game assets into a single file.
//
// Layout:
//
//	[8]  magic "FAR!byAZ"
//	[4]  format version
//	[4]  manifest offset, absolute from the start of the buffer
//	[..] concatenated file data
//	[..] manifest: entry count, then one record per file
//
// Every integer is a little endian uint32. A manifest record holds the
// file size twice, then the absolute offset of the file's data, then
// the name length and the UTF-8 name bytes with no terminator. Writers
// emit the duplicate size field; readers trust the first copy.
package far

import (
	"fmt"
	"math"
)

const (
	// Magic is the 8 byte signature that opens every archive.
	Magic = "FAR!byAZ"

	// CurrentVersion is stamped on archives assembled by Build. Decode
	// accepts any version and preserves it across a round trip.
	CurrentVersion = 1

	// headerSize covers the magic, version and manifest offset.
	headerSize = 16

	// entrySize is the fixed portion of a manifest record: size,
	// duplicate size, offset and name length. The name bytes follow.
	entrySize = 16
)

// Entry is one manifest record: where a file's bytes live inside the
// archive and under what name.
type Entry struct {
	Name   string
	Size   uint32
	Offset uint32
}

// File is a named piece of file content, either supplied by the caller
// or copied out of an archive by Hydrate.
type File struct {
	Name string
	Size uint32
	Data []byte
}

// NewFile wraps raw bytes as an archive member. Nil content is
// normalized to an empty slice, so File.Data is never nil. It fails
// when the content is too large to address with 32 bit offsets.
func NewFile(name string, data []byte) (File, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return File{}, fmt.Errorf("file %q is %d bytes: %w", name, len(data), ErrTooLarge)
	}
	if data == nil {
		data = []byte{}
	}
	return File{Name: name, Size: uint32(len(data)), Data: data}, nil
}

// Archive is a decoded FAR container. Entries always mirrors the
// manifest. Files stays empty after Decode; it is populated by Hydrate
// or by Build.
type Archive struct {
	Version uint32
	Entries []Entry
	Files   []File
}

// DataSize is the combined size of every file in the archive.
func (a *Archive) DataSize() uint64 {
	var n uint64
	for _, e := range a.Entries {
		n += uint64(e.Size)
	}
	return n
}
