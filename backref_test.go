package xintersect

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackReferences_RegisterUnregister(t *testing.T) {
	coord := nopCoordinator{}
	o1, err := newTestObserver(coord, (&recorder{}).callback, Init{})
	require.NoError(t, err)
	o2, err := newTestObserver(coord, (&recorder{}).callback, Init{})
	require.NoError(t, err)

	var refs BackReferences
	refs.Register(o1)
	refs.Register(o2)
	refs.Register(o1)
	refs.Register(nil)
	require.Equal(t, []*Observer{o1, o2}, refs.Observers())

	refs.Unregister(o1)
	assert.Equal(t, []*Observer{o2}, refs.Observers())
	refs.Unregister(o1)
	assert.Equal(t, 1, refs.Len())
}

// TestBackReferences_DoNotKeepObserversAlive tests that an observer dropped
// without Close is reclaimed and pruned from the target's list.
func TestBackReferences_DoNotKeepObserversAlive(t *testing.T) {
	target := newElement("a")
	func() {
		o, err := newTestObserver(nopCoordinator{}, (&recorder{}).callback, Init{})
		require.NoError(t, err)
		o.Observe(target)
		require.Equal(t, 1, target.refs.Len())
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return target.refs.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// TestRegistry_ReleaseThenCompact tests that released slots keep snapshot
// positions until the next mutation compacts them.
func TestRegistry_ReleaseThenCompact(t *testing.T) {
	var r registry
	a, b, c := newElement("a"), newElement("b"), newElement("c")
	require.True(t, r.observe(a))
	require.True(t, r.observe(b))
	require.True(t, r.observe(c))
	require.False(t, r.observe(b))

	require.True(t, r.release(b))
	assert.False(t, r.release(b))
	assert.Len(t, r.slots, 3)
	assert.Equal(t, 2, r.len())
	assert.False(t, r.contains(b))
	assert.Equal(t, []Element{a, c}, r.snapshot())

	require.True(t, r.observe(b))
	assert.Equal(t, []Element{a, c, b}, r.snapshot())
	assert.Len(t, r.slots, 3)

	require.True(t, r.unobserve(a))
	assert.False(t, r.unobserve(a))
	assert.Equal(t, []Element{c, b}, r.clear())
	assert.Equal(t, 0, r.len())
}
