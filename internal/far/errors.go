package far

import "errors"

// Sentinel errors for archive decoding and encoding.
var (
	// ErrInvalidMagic is returned when a buffer does not begin with the
	// FAR signature.
	ErrInvalidMagic = errors.New("far: invalid magic")

	// ErrTruncated is returned when a buffer ends before the fixed
	// header could be read.
	ErrTruncated = errors.New("far: truncated header")

	// ErrTruncatedManifest is returned when the manifest promises more
	// bytes than the buffer holds.
	ErrTruncatedManifest = errors.New("far: truncated manifest")

	// ErrInvalidName is returned when an entry name is not valid UTF-8.
	ErrInvalidName = errors.New("far: invalid entry name")

	// ErrOffsetOutOfRange is returned when an entry's byte range falls
	// outside the buffer being hydrated.
	ErrOffsetOutOfRange = errors.New("far: entry offset out of range")

	// ErrTooLarge is returned when content cannot be addressed with the
	// format's 32 bit offsets.
	ErrTooLarge = errors.New("far: exceeds 32 bit addressing")
)
