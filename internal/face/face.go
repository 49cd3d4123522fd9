package face

import (
	"context"
	"errors"
)

// ErrNoFace is returned when an image contains no detectable face.
var ErrNoFace = errors.New("no face detected")

// Result is the outcome of comparing a candidate snapshot against the
// reference profile image.
type Result struct {
	Verified   bool
	Confidence float64
}

// Comparator decides whether two images show the same person. Implementations
// are treated as a black box by the proctoring pipeline.
type Comparator interface {
	Compare(ctx context.Context, reference, candidate []byte) (Result, error)
}
