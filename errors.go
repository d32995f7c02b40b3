package dreval

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShapeMismatch indicates true and predicted label sequences differ in length.
	ErrShapeMismatch = errors.New("dreval: true and predicted label lengths differ")

	// ErrUnknownLabel indicates a label identifier outside the configured class set.
	ErrUnknownLabel = errors.New("dreval: unknown label")

	// ErrInvalidClasses indicates an explicit class set that is empty or has duplicates.
	ErrInvalidClasses = errors.New("dreval: invalid class set")

	// ErrInvalidTaxonomy indicates a taxonomy that is not an injective mapping onto 0..K-1.
	ErrInvalidTaxonomy = errors.New("dreval: invalid taxonomy")

	// ErrModelNotFound indicates the classifier model file does not exist.
	ErrModelNotFound = errors.New("dreval: model file not found")

	// ErrInvalidModel indicates the model file exists but could not be loaded.
	ErrInvalidModel = errors.New("dreval: invalid model format")
)
