package allocator

import "fmt"

// Throw factor levels at the two thresholds
const (
	FullWeight    = 1.0
	ReducedWeight = 0.25
)

// Shape positions the two thresholds between the nearest container and the
// maximum plausible distance, as fractions of that span
type Shape struct {
	Threshold1 float64
	Threshold2 float64
}

// Shapes used by earlier model revisions. Neither is a default; configurations
// must name the thresholds they want.
var (
	ShapeEarly = Shape{Threshold1: 0.1, Threshold2: 0.5}
	ShapeLate  = Shape{Threshold1: 0.05, Threshold2: 0.8}
)

// Validate checks that 0 < Threshold1 < Threshold2 < 1
func (s Shape) Validate() error {
	if !(s.Threshold1 > 0 && s.Threshold1 < s.Threshold2 && s.Threshold2 < 1) {
		return fmt.Errorf("%w, got %v and %v", ErrInvalidShape, s.Threshold1, s.Threshold2)
	}
	return nil
}

// Thresholds are the distances at which the throw factor changes regime
type Thresholds struct {
	Min float64
	Th1 float64
	Th2 float64
	Max float64
}

// ThrowFactor maps a container's distance to a raw weight relative to the
// nearest container of the same fraction. The weight stays at FullWeight near
// the nearest container, decays linearly to ReducedWeight, then holds until the
// maximum plausible distance where it drops to 0.
type ThrowFactor struct {
	WillFactor float64
	Shape      Shape
}

// Thresholds returns the regime boundaries for the given nearest distance
func (tf ThrowFactor) Thresholds(minDist float64) Thresholds {
	span := tf.WillFactor - 1
	return Thresholds{
		Min: minDist,
		Th1: minDist * (1 + span*tf.Shape.Threshold1),
		Th2: minDist * (1 + span*tf.Shape.Threshold2),
		Max: minDist * tf.WillFactor,
	}
}

// Weight returns the raw throw factor of a container at distance, given the
// nearest container's distance. A distance below minDist returns ErrCloserThanNearest.
func (tf ThrowFactor) Weight(minDist, distance float64) (float64, error) {
	if distance < minDist {
		return 0, fmt.Errorf("%w: distance %.3f m < nearest %.3f m", ErrCloserThanNearest, distance, minDist)
	}

	// The nearest container always takes full weight, including when minDist is 0
	if distance == minDist {
		return FullWeight, nil
	}

	th := tf.Thresholds(minDist)
	slope := (FullWeight - ReducedWeight) / (th.Th2 - th.Th1)

	switch {
	case distance < th.Th1:
		return FullWeight, nil
	case distance < th.Th2:
		return FullWeight - (distance-th.Th1)*slope, nil
	case distance < th.Max:
		return ReducedWeight, nil
	default:
		return 0, nil
	}
}
