package assembly

import "errors"

var (
	// ErrPropertyRead indicates a mandatory design tracking property could not
	// be read. The affected record is skipped.
	ErrPropertyRead = errors.New("mandatory property unavailable")

	// ErrOptionalExtraction indicates mass or center of mass could not be read.
	// The affected fields are left absent.
	ErrOptionalExtraction = errors.New("optional property unavailable")

	// ErrInvalidOccurrence indicates an occurrence could not be classified.
	// The occurrence is skipped.
	ErrInvalidOccurrence = errors.New("invalid occurrence")

	// ErrOccurrences indicates an occurrence collection could not be read.
	// It aborts the traversal.
	ErrOccurrences = errors.New("occurrence collection unavailable")

	// ErrCycleDetected indicates a sub-assembly references one of its ancestors.
	ErrCycleDetected = errors.New("assembly reference cycle")

	// ErrDepthExceeded indicates nesting deeper than the configured ceiling.
	ErrDepthExceeded = errors.New("assembly nesting too deep")
)
