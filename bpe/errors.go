package bpe

import "errors"

// Sentinel errors returned by the training structures and the tokenizer.
var (
	// ErrInvalidIndex indicates a sequence access on a dead or
	// out-of-range position index.
	ErrInvalidIndex = errors.New("invalid or dead sequence index")

	// ErrEmptyHeap indicates a peek or pop on an empty priority map.
	ErrEmptyHeap = errors.New("priority map is empty")

	// ErrDuplicateKey indicates a push whose map key is already present.
	ErrDuplicateKey = errors.New("map key already present")

	// ErrMissingKey indicates a delete-by-key for an absent map key.
	ErrMissingKey = errors.New("map key not present")

	// ErrInvariant indicates an internal consistency violation. It is a
	// defect in this package, not a usage error.
	ErrInvariant = errors.New("internal invariant violated")

	// ErrNotTrained indicates Encode or Save was called before Train or
	// Load.
	ErrNotTrained = errors.New("tokenizer has not been trained")
)
