package xintersect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObserverConfig(t *testing.T) {
	cfg, err := ParseObserverConfig([]byte("root_margin: \"10px 0px\"\nthreshold: [1, 0.25]\n"))
	require.NoError(t, err)
	assert.Equal(t, "10px 0px", cfg.RootMargin)
	assert.Equal(t, ThresholdInput{1, 0.25}, cfg.Threshold)

	root := newElement("root")
	o, err := newTestObserver(&fakeCoordinator{}, (&recorder{}).callback, cfg.Init(root))
	require.NoError(t, err)
	defer o.Close()
	assert.Equal(t, "10px 0px 10px 0px", o.RootMargin())
	assert.Equal(t, []float64{0.25, 1}, o.Thresholds())

	cfg, err = ParseObserverConfig([]byte("threshold: 0.5"))
	require.NoError(t, err)
	assert.Equal(t, ThresholdInput{0.5}, cfg.Threshold)
	assert.Empty(t, cfg.RootMargin)

	_, err = ParseObserverConfig([]byte("threshold: [a, b"))
	assert.Error(t, err)
}

// TestParseObserverConfig_ValidatesAtBuild tests that bad values surface from the builder.
func TestParseObserverConfig_ValidatesAtBuild(t *testing.T) {
	cfg, err := ParseObserverConfig([]byte("threshold: [0, 2]"))
	require.NoError(t, err)

	coord := &fakeCoordinator{}
	_, err = newTestObserver(coord, (&recorder{}).callback, cfg.Init(nil))
	assert.ErrorIs(t, err, ErrRange)
	assert.Empty(t, coord.created)
}
