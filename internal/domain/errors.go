package domain

import "errors"

var (
	// ErrWrongSparse signals a request for the dense facet of a sparse
	// vector or the sparse facet of a dense one.
	ErrWrongSparse = errors.New("wrong sparse/dense vector variant")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrPointNotFound signals a missing point.
	ErrPointNotFound = errors.New("point not found")
	// ErrVectorNotFound signals a lookup miss on a named vector field.
	ErrVectorNotFound = errors.New("vector name not found")
	// ErrMalformedRequest signals a wire payload that matches none of the
	// untagged variants.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrBatchLengthMismatch signals per-field batch lists that do not
	// align with the number of points.
	ErrBatchLengthMismatch = errors.New("batch vector list length mismatch")
)
