package docmodel

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource      = errors.New("source content cannot be empty")
	ErrConversionFailed = errors.New("conversion failed")

	// Citation manager errors.
	ErrNoBibliography = errors.New("no bibliography configured")

	// Pool errors.
	ErrPoolClosed = errors.New("converter pool is closed")
)
