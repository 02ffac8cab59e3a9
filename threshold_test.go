package xintersect

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestThresholdSet_DefaultsToZero tests that an empty input yields [0].
func TestThresholdSet_DefaultsToZero(t *testing.T) {
	s, err := NewThresholdSet()
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, s.Values())
	assert.Equal(t, 1, s.Len())

	var zero ThresholdSet
	assert.Equal(t, []float64{0}, zero.Values())
}

// TestThresholdSet_SortsAndKeepsDuplicates tests ascending order with duplicates preserved.
func TestThresholdSet_SortsAndKeepsDuplicates(t *testing.T) {
	s, err := NewThresholdSet(0.5, 0.25, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.5}, s.Values())

	s, err = NewThresholdSet(1, 0, 0.75, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 0.75, 1}, s.Values())
}

func TestThresholdSet_Range(t *testing.T) {
	for _, v := range []float64{-0.01, 1.5, math.NaN(), math.Inf(1)} {
		_, err := NewThresholdSet(0, v)
		require.Error(t, err, "value %v", v)
		assert.ErrorIs(t, err, ErrRange)

		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "threshold", cfgErr.Field)
	}

	_, err := NewThresholdSet(0, 1)
	assert.NoError(t, err, "bounds are inclusive")
}

func TestThresholdSet_ValuesIsACopy(t *testing.T) {
	s, err := NewThresholdSet(0.2, 0.4)
	require.NoError(t, err)
	v := s.Values()
	v[0] = 0.9
	assert.Equal(t, []float64{0.2, 0.4}, s.Values())
}

// TestThresholdSet_Index tests that ratios on the same side of every threshold share an index.
func TestThresholdSet_Index(t *testing.T) {
	s, err := NewThresholdSet(0, 0.5, 1)
	require.NoError(t, err)

	cases := []struct {
		ratio float64
		want  int
	}{
		{0, 1},
		{0.25, 1},
		{0.49, 1},
		{0.5, 2},
		{0.99, 2},
		{1, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, s.Index(c.ratio), "ratio %v", c.ratio)
	}
}

func TestThresholdInput_YAML(t *testing.T) {
	var in struct {
		Threshold ThresholdInput `yaml:"threshold"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("threshold: 0.5"), &in))
	assert.Equal(t, ThresholdInput{0.5}, in.Threshold)

	require.NoError(t, yaml.Unmarshal([]byte("threshold: [1, 0, 0.5]"), &in))
	assert.Equal(t, ThresholdInput{1, 0, 0.5}, in.Threshold)

	err := yaml.Unmarshal([]byte("threshold: {a: 1}"), &in)
	assert.Error(t, err)

	err = yaml.Unmarshal([]byte("threshold: half"), &in)
	assert.Error(t, err)
}
