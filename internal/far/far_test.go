package far

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustFile wraps content as an archive member or fails the test.
func mustFile(tb testing.TB, name string, data []byte) File {
	tb.Helper()
	f, err := NewFile(name, data)
	require.NoError(tb, err, "NewFile failed")
	return f
}

// mustSerialize encodes an archive or fails the test.
func mustSerialize(tb testing.TB, a *Archive) []byte {
	tb.Helper()
	data, err := a.Serialize()
	require.NoError(tb, err, "Serialize failed")
	return data
}

// sampleFiles covers the interesting name and content shapes: plain
// names, path-like names, non-ASCII names and empty content.
func sampleFiles(tb testing.TB) []File {
	tb.Helper()
	return []File{
		mustFile(tb, "behavior.iff", []byte("BHAV behavior data")),
		mustFile(tb, "objects/chair.spf", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}),
		mustFile(tb, "résumé.txt", []byte("curriculum vitae")),
		mustFile(tb, "empty.dat", nil),
	}
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	f := mustFile(t, "notes.txt", []byte("hello"))
	assert.Equal(t, "notes.txt", f.Name)
	assert.Equal(t, uint32(5), f.Size)

	// Nil content is normalized so hydrated copies, which are always
	// non-nil, compare equal to the original member.
	empty := mustFile(t, "empty", nil)
	assert.Equal(t, uint32(0), empty.Size)
	require.NotNil(t, empty.Data, "zero-size members should hold an empty slice, not nil")
	assert.Equal(t, []byte{}, empty.Data)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	files := sampleFiles(t)
	original := Build(files)
	encoded := mustSerialize(t, original)

	decoded, err := Decode(encoded)
	require.NoError(t, err, "Decode failed")
	assert.Equal(t, uint32(CurrentVersion), decoded.Version)
	require.Len(t, decoded.Entries, len(files))

	hydrated, err := decoded.Hydrate(encoded)
	require.NoError(t, err, "Hydrate failed")
	require.Len(t, hydrated.Files, len(files))
	for i, f := range files {
		assert.Equal(t, f.Name, hydrated.Files[i].Name, "file %d name", i)
		assert.Equal(t, f.Size, hydrated.Files[i].Size, "file %d size", i)
		assert.Equal(t, f.Data, hydrated.Files[i].Data, "file %d content", i)
	}

	reencoded := mustSerialize(t, hydrated)
	assert.Equal(t, encoded, reencoded, "round trip should reproduce the exact bytes")
}

func TestSerializeDeterministic(t *testing.T) {
	t.Parallel()

	a := Build(sampleFiles(t))
	first := mustSerialize(t, a)
	second := mustSerialize(t, a)
	assert.Equal(t, first, second)
}

func TestHydrateIdempotent(t *testing.T) {
	t.Parallel()

	encoded := mustSerialize(t, Build(sampleFiles(t)))
	decoded, err := Decode(encoded)
	require.NoError(t, err, "Decode failed")

	once, err := decoded.Hydrate(encoded)
	require.NoError(t, err, "first Hydrate failed")
	twice, err := once.Hydrate(encoded)
	require.NoError(t, err, "second Hydrate failed")
	assert.Equal(t, once, twice)
}

func TestHydrateCopiesContent(t *testing.T) {
	t.Parallel()

	encoded := mustSerialize(t, Build([]File{mustFile(t, "a.txt", []byte("hello"))}))
	decoded, err := Decode(encoded)
	require.NoError(t, err, "Decode failed")
	hydrated, err := decoded.Hydrate(encoded)
	require.NoError(t, err, "Hydrate failed")

	// Clobbering the source buffer must not reach through to the
	// hydrated file.
	for i := range encoded {
		encoded[i] = 0xAA
	}
	assert.Equal(t, []byte("hello"), hydrated.Files[0].Data)
}

func TestVersionPreserved(t *testing.T) {
	t.Parallel()

	a := Build([]File{mustFile(t, "a", []byte("x"))})
	a.Version = 3
	encoded := mustSerialize(t, a)

	decoded, err := Decode(encoded)
	require.NoError(t, err, "Decode failed")
	assert.Equal(t, uint32(3), decoded.Version)
}

func TestDataSize(t *testing.T) {
	t.Parallel()

	a := Build([]File{
		mustFile(t, "a", make([]byte, 10)),
		mustFile(t, "b", make([]byte, 20)),
	})
	assert.Equal(t, uint64(30), a.DataSize())
	assert.Equal(t, uint64(0), Build(nil).DataSize())
}
