package far

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patchU32 overwrites a little endian uint32 field in place.
func patchU32(data []byte, offset int, value uint32) {
	binary.LittleEndian.PutUint32(data[offset:], value)
}

// singleFileArchive serializes an archive holding one file and returns
// the bytes along with the position of its manifest record.
func singleFileArchive(tb testing.TB, name string, content []byte) (data []byte, record int) {
	tb.Helper()
	data = mustSerialize(tb, Build([]File{mustFile(tb, name, content)}))
	manifestOffset := binary.LittleEndian.Uint32(data[12:])
	return data, int(manifestOffset) + 4
}

func TestDecodeHeaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "nil buffer", data: nil, wantErr: ErrTruncated},
		{name: "shorter than magic", data: []byte("FAR!"), wantErr: ErrTruncated},
		{name: "magic only", data: []byte(Magic), wantErr: ErrTruncated},
		{name: "magic with partial fields", data: append([]byte(Magic), 1, 0, 0), wantErr: ErrTruncated},
		{name: "wrong magic exact length", data: []byte("ZIPFILE!"), wantErr: ErrInvalidMagic},
		{name: "wrong magic long buffer", data: make([]byte, 64), wantErr: ErrInvalidMagic},
		{name: "case mismatch", data: append([]byte("far!byaz"), make([]byte, 12)...), wantErr: ErrInvalidMagic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeManifestOffsetBeyondBuffer(t *testing.T) {
	t.Parallel()

	data, _ := singleFileArchive(t, "a.txt", []byte("hello"))
	patchU32(data, 12, uint32(len(data)+1))

	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrTruncatedManifest)
}

func TestDecodeManifestOffsetInsideHeader(t *testing.T) {
	t.Parallel()

	// An offset pointing back into the header makes the magic bytes
	// read as an absurd entry count; that must surface as a manifest
	// error, never a panic.
	data, _ := singleFileArchive(t, "a.txt", []byte("hello"))
	patchU32(data, 12, 0)

	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrTruncatedManifest)
}

func TestDecodeManifestTruncation(t *testing.T) {
	t.Parallel()

	full, record := singleFileArchive(t, "a.txt", []byte("hello"))

	tests := []struct {
		name string
		data func() []byte
	}{
		{
			name: "cut before entry count",
			data: func() []byte { return full[:record-2] },
		},
		{
			name: "cut inside fixed record",
			data: func() []byte { return full[:record+7] },
		},
		{
			name: "cut inside name bytes",
			data: func() []byte { return full[:len(full)-2] },
		},
		{
			name: "entry count far beyond buffer",
			data: func() []byte {
				data := append([]byte(nil), full...)
				patchU32(data, record-4, 0xFFFFFFFF)
				return data
			},
		},
		{
			name: "name length beyond buffer",
			data: func() []byte {
				data := append([]byte(nil), full...)
				patchU32(data, record+12, 0xFFFF)
				return data
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.data())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTruncatedManifest)
		})
	}
}

func TestDecodeInvalidName(t *testing.T) {
	t.Parallel()

	data, record := singleFileArchive(t, "ab", []byte("hello"))
	// Overwrite the two name bytes with an invalid UTF-8 sequence.
	data[record+entrySize] = 0xFF
	data[record+entrySize+1] = 0xFE

	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDecodeToleratesSizeFieldMismatch(t *testing.T) {
	t.Parallel()

	data, record := singleFileArchive(t, "a.txt", []byte("hello"))
	// Corrupt only the duplicate size field; the first copy wins.
	patchU32(data, record+4, 999)

	a, err := Decode(data)
	require.NoError(t, err, "mismatched duplicate size should not fail the decode")
	require.Len(t, a.Entries, 1)
	assert.Equal(t, uint32(5), a.Entries[0].Size)
}

func TestDecodeEntryMetadata(t *testing.T) {
	t.Parallel()

	files := sampleFiles(t)
	data := mustSerialize(t, Build(files))

	a, err := Decode(data)
	require.NoError(t, err, "Decode failed")
	require.Len(t, a.Entries, len(files))
	for i, f := range files {
		assert.Equal(t, f.Name, a.Entries[i].Name, "entry %d name", i)
		assert.Equal(t, f.Size, a.Entries[i].Size, "entry %d size", i)
	}
	assert.Empty(t, a.Files, "Decode should not load file contents")
}

func TestHydrateOutOfRange(t *testing.T) {
	t.Parallel()

	t.Run("data region cut short", func(t *testing.T) {
		t.Parallel()
		data, _ := singleFileArchive(t, "a.txt", []byte("hello"))
		a, err := Decode(data)
		require.NoError(t, err, "Decode failed")

		_, err = a.Hydrate(data[:headerSize+2])
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	})

	t.Run("offset patched beyond buffer", func(t *testing.T) {
		t.Parallel()
		data, record := singleFileArchive(t, "a.txt", []byte("hello"))
		patchU32(data, record+8, uint32(len(data)))
		a, err := Decode(data)
		require.NoError(t, err, "Decode failed")

		_, err = a.Hydrate(data)
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	})

	t.Run("offset plus size overflows", func(t *testing.T) {
		t.Parallel()
		data, record := singleFileArchive(t, "a.txt", []byte("hello"))
		patchU32(data, record+8, 0xFFFFFFFF)
		a, err := Decode(data)
		require.NoError(t, err, "Decode failed")

		_, err = a.Hydrate(data)
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	})
}
