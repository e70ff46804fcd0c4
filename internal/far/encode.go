package far

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Build assembles an archive from files in the given order. Each
// entry's offset is the absolute position its data will occupy once
// serialized, starting immediately after the 16 byte header.
func Build(files []File) *Archive {
	entries := make([]Entry, len(files))
	offset := uint32(headerSize)
	for i, f := range files {
		entries[i] = Entry{Name: f.Name, Size: f.Size, Offset: offset}
		offset += f.Size
	}
	return &Archive{Version: CurrentVersion, Entries: entries, Files: files}
}

// Serialize encodes the archive as header, concatenated file data and
// trailing manifest. Offsets are recomputed from the bytes actually
// written, so output depends only on file order and content and a
// decode/serialize round trip reproduces the input exactly.
func (a *Archive) Serialize() ([]byte, error) {
	if len(a.Files) != len(a.Entries) {
		return nil, fmt.Errorf("%d manifest entries but %d loaded files; hydrate before serializing",
			len(a.Entries), len(a.Files))
	}

	var dataSize uint64
	manifestSize := 4
	for _, f := range a.Files {
		if uint64(f.Size) != uint64(len(f.Data)) {
			return nil, fmt.Errorf("file %q declares %d bytes but holds %d", f.Name, f.Size, len(f.Data))
		}
		dataSize += uint64(f.Size)
		manifestSize += entrySize + len(f.Name)
	}
	if headerSize+dataSize > math.MaxUint32 {
		return nil, fmt.Errorf("%d bytes of file data: %w", dataSize, ErrTooLarge)
	}
	manifestOffset := uint32(headerSize) + uint32(dataSize)

	out := make([]byte, headerSize+int(dataSize)+manifestSize)
	copy(out, Magic)
	binary.LittleEndian.PutUint32(out[8:], a.Version)
	binary.LittleEndian.PutUint32(out[12:], manifestOffset)

	offsets := make([]uint32, len(a.Files))
	p := headerSize
	for i, f := range a.Files {
		offsets[i] = uint32(p)
		copy(out[p:], f.Data)
		p += len(f.Data)
	}

	binary.LittleEndian.PutUint32(out[p:], uint32(len(a.Files)))
	p += 4
	for i, f := range a.Files {
		binary.LittleEndian.PutUint32(out[p:], f.Size)
		binary.LittleEndian.PutUint32(out[p+4:], f.Size)
		binary.LittleEndian.PutUint32(out[p+8:], offsets[i])
		binary.LittleEndian.PutUint32(out[p+12:], uint32(len(f.Name)))
		p += entrySize
		copy(out[p:], f.Name)
		p += len(f.Name)
	}
	return out, nil
}
