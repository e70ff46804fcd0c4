package far

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// Decode parses the header and manifest of a serialized archive. The
// returned Archive carries entry metadata only; pass the same buffer to
// Hydrate to load file contents.
func Decode(data []byte) (*Archive, error) {
	version, manifestOffset, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	entries, err := parseManifest(data, manifestOffset)
	if err != nil {
		return nil, err
	}
	return &Archive{Version: version, Entries: entries}, nil
}

// Hydrate copies every entry's bytes out of data and returns a new
// archive holding both metadata and contents. The buffer is not
// retained; each file receives its own copy, so hydrating twice from
// the same buffer yields equal archives.
func (a *Archive) Hydrate(data []byte) (*Archive, error) {
	files := make([]File, len(a.Entries))
	for i, e := range a.Entries {
		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("file %q spans [%d, %d) in a %d byte buffer: %w",
				e.Name, e.Offset, end, len(data), ErrOffsetOutOfRange)
		}
		content := make([]byte, e.Size)
		copy(content, data[e.Offset:])
		files[i] = File{Name: e.Name, Size: e.Size, Data: content}
	}
	return &Archive{Version: a.Version, Entries: a.Entries, Files: files}, nil
}

func parseHeader(data []byte) (version, manifestOffset uint32, err error) {
	if len(data) < len(Magic) {
		return 0, 0, fmt.Errorf("reading magic: %w", ErrTruncated)
	}
	if string(data[:len(Magic)]) != Magic {
		return 0, 0, ErrInvalidMagic
	}
	if len(data) < headerSize {
		return 0, 0, fmt.Errorf("reading header fields: %w", ErrTruncated)
	}
	version = binary.LittleEndian.Uint32(data[8:])
	manifestOffset = binary.LittleEndian.Uint32(data[12:])
	return version, manifestOffset, nil
}

func parseManifest(data []byte, offset uint32) ([]Entry, error) {
	if uint64(offset) > uint64(len(data)) {
		return nil, fmt.Errorf("manifest offset %d beyond %d byte buffer: %w",
			offset, len(data), ErrTruncatedManifest)
	}
	m := data[offset:]
	if len(m) < 4 {
		return nil, fmt.Errorf("reading entry count: %w", ErrTruncatedManifest)
	}
	count := binary.LittleEndian.Uint32(m)
	p := 4

	// Every record is at least entrySize bytes, so a count that cannot
	// fit in the remaining buffer is rejected before any allocation.
	if uint64(count)*entrySize > uint64(len(m)-p) {
		return nil, fmt.Errorf("entry count %d exceeds remaining %d bytes: %w",
			count, len(m)-p, ErrTruncatedManifest)
	}

	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(m)-p < entrySize {
			return nil, fmt.Errorf("reading entry %d: %w", i, ErrTruncatedManifest)
		}
		size := binary.LittleEndian.Uint32(m[p:])
		dupSize := binary.LittleEndian.Uint32(m[p+4:])
		fileOffset := binary.LittleEndian.Uint32(m[p+8:])
		nameLen := binary.LittleEndian.Uint32(m[p+12:])
		p += entrySize

		if dupSize != size {
			slog.Warn("Manifest size fields disagree", "entry", i, "size", size, "duplicate_size", dupSize)
		}

		if uint64(nameLen) > uint64(len(m)-p) {
			return nil, fmt.Errorf("reading entry %d name (%d bytes): %w", i, nameLen, ErrTruncatedManifest)
		}
		name := m[p : p+int(nameLen)]
		p += int(nameLen)
		if !utf8.Valid(name) {
			return nil, fmt.Errorf("entry %d: %w", i, ErrInvalidName)
		}

		entries = append(entries, Entry{
			Name:   string(name),
			Size:   size,
			Offset: fileOffset,
		})
	}
	return entries, nil
}
