package vecstore

import "github.com/kailas-cloud/vecstore/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrPointNotFound       = domain.ErrPointNotFound
	ErrVectorNotFound      = domain.ErrVectorNotFound
	ErrMalformedRequest    = domain.ErrMalformedRequest
	ErrWrongSparse         = domain.ErrWrongSparse
	ErrVectorDimMismatch   = domain.ErrVectorDimMismatch
	ErrBatchLengthMismatch = domain.ErrBatchLengthMismatch
)
