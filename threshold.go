package xintersect

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ThresholdSet is the validated, ascending list of crossing ratios an observer reports on.
// It is never empty and immutable after construction.
type ThresholdSet struct {
	values []float64
}

// NewThresholdSet validates and sorts values. An empty input yields [0].
// Duplicates are kept.
func NewThresholdSet(values ...float64) (ThresholdSet, error) {
	out := make([]float64, 0, max(1, len(values)))
	for _, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return ThresholdSet{}, &ConfigError{
				Field: "threshold",
				Value: strconv.FormatFloat(v, 'g', -1, 64),
				Err:   ErrRange,
			}
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, cmp.Compare[float64])
	if len(out) == 0 {
		out = append(out, 0)
	}
	return ThresholdSet{values: out}, nil
}

// Values returns a copy of the thresholds.
func (s ThresholdSet) Values() []float64 {
	if len(s.values) == 0 {
		return []float64{0}
	}
	return slices.Clone(s.values)
}

func (s ThresholdSet) Len() int {
	if len(s.values) == 0 {
		return 1
	}
	return len(s.values)
}

func (s ThresholdSet) At(i int) float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[i]
}

// Index returns the number of thresholds less than or equal to ratio, i.e. the
// index of the first threshold strictly above it. Two ratios on the same side of
// every threshold share an index.
func (s ThresholdSet) Index(ratio float64) int {
	vals := s.values
	if len(vals) == 0 {
		vals = []float64{0}
	}
	i := 0
	for i < len(vals) && vals[i] <= ratio {
		i++
	}
	return i
}

// ThresholdInput is the "single ratio or list of ratios" option value.
// In YAML both `threshold: 0.5` and `threshold: [0, 0.5, 1]` decode into it.
type ThresholdInput []float64

// Single builds a ThresholdInput from one ratio.
func Single(v float64) ThresholdInput { return ThresholdInput{v} }

// List builds a ThresholdInput from a sequence of ratios.
func List(vs ...float64) ThresholdInput { return ThresholdInput(slices.Clone(vs)) }

func (t *ThresholdInput) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("threshold: %w", err)
		}
		*t = ThresholdInput{v}
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := node.Decode(&vs); err != nil {
			return fmt.Errorf("threshold: %w", err)
		}
		*t = ThresholdInput(vs)
		return nil
	}
	return fmt.Errorf("threshold: expected a number or a list of numbers (line %d)", node.Line)
}
