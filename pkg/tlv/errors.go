package tlv

import "errors"

var (
	// ErrValueTooLong is returned when a parameter value exceeds the
	// one-byte length field.
	ErrValueTooLong = errors.New("tlv: value longer than 255 bytes")

	// ErrTruncated is returned when the input ends inside a record.
	ErrTruncated = errors.New("tlv: truncated record")

	// ErrParamCountMismatch is returned when the number of parsed records
	// does not match the expected parameter count.
	ErrParamCountMismatch = errors.New("tlv: parameter count mismatch")

	// ErrTagNotFound is returned when the requested tag is absent.
	ErrTagNotFound = errors.New("tlv: tag not found")

	// ErrWrongLength is returned when a tag is present but its value has
	// a different length than the requested scalar width.
	ErrWrongLength = errors.New("tlv: wrong value length")

	// ErrNotParsed is returned when values are requested before Parse.
	ErrNotParsed = errors.New("tlv: buffer not parsed")
)
