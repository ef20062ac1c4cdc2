package debounce_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metwallet/walletd/pkg/debounce"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	t.Parallel()

	d := debounce.New(30 * time.Millisecond)
	defer d.Stop()

	var calls int32
	for i := 0; i < 10; i++ {
		d.Trigger(func(uint64) { atomic.AddInt32(&calls, 1) })
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDebouncerDiscardsStaleResults(t *testing.T) {
	t.Parallel()

	d := debounce.New(time.Millisecond)
	defer d.Stop()

	seqs := make(chan uint64, 2)
	d.Trigger(func(seq uint64) { seqs <- seq })
	first := <-seqs
	d.Trigger(func(seq uint64) { seqs <- seq })
	second := <-seqs
	require.Greater(t, second, first)

	var (
		lock   sync.Mutex
		result string
	)
	set := func(v string) func() {
		return func() {
			lock.Lock()
			defer lock.Unlock()
			result = v
		}
	}

	// the newer request resolves first
	require.True(t, d.Apply(second, set("fresh")))
	require.False(t, d.Apply(first, set("stale")))

	lock.Lock()
	defer lock.Unlock()
	require.Equal(t, "fresh", result)
}

func TestDebouncerInvalidate(t *testing.T) {
	t.Parallel()

	d := debounce.New(time.Millisecond)
	defer d.Stop()

	seqs := make(chan uint64, 1)
	d.Trigger(func(seq uint64) { seqs <- seq })
	seq := <-seqs

	d.Invalidate()
	require.False(t, d.Apply(seq, func() {}))
}

func TestDebouncerStop(t *testing.T) {
	t.Parallel()

	d := debounce.New(20 * time.Millisecond)

	var calls int32
	d.Trigger(func(uint64) { atomic.AddInt32(&calls, 1) })
	require.True(t, d.Pending())
	require.False(t, d.Stopped())
	d.Stop()
	require.False(t, d.Pending())
	require.True(t, d.Stopped())

	d.Trigger(func(uint64) { atomic.AddInt32(&calls, 1) })
	require.False(t, d.Pending())

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, atomic.LoadInt32(&calls))
}
