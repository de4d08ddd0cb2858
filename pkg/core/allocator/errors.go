package allocator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidWillFactor is returned when willFactor is not greater than 1
	ErrInvalidWillFactor = errors.New("willFactor must be greater than 1")

	// ErrInvalidShape is returned when the throw factor thresholds are not 0 < p1 < p2 < 1
	ErrInvalidShape = errors.New("throw factor thresholds must satisfy 0 < threshold1 < threshold2 < 1")

	// ErrCloserThanNearest means a candidate is closer than the nearest container of its fraction
	ErrCloserThanNearest = errors.New("no container should be nearer than the nearest container")

	// ErrZeroWeightSum means every plausible container got a zero throw factor
	ErrZeroWeightSum = errors.New("throw factors sum to zero")

	// ErrUnknownContainer means a distribution table references a container missing from the catalog
	ErrUnknownContainer = errors.New("container not in catalog")

	// ErrFractionMismatch means a container was targeted for a fraction it does not accept
	ErrFractionMismatch = errors.New("container does not accept fraction")
)

// ConsistencyError signals an internal inconsistency while allocating a user's waste.
// These indicate a logic bug rather than bad input.
type ConsistencyError struct {
	UserID      string
	Fraction    string
	ContainerID string
	Err         error
}

func (e *ConsistencyError) Error() string {
	parts := []string{fmt.Sprintf("user %q", e.UserID)}
	if e.Fraction != "" {
		parts = append(parts, fmt.Sprintf("fraction %q", e.Fraction))
	}
	if e.ContainerID != "" {
		parts = append(parts, fmt.Sprintf("container %q", e.ContainerID))
	}
	return fmt.Sprintf("allocation inconsistency (%s): %v", strings.Join(parts, ", "), e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}
