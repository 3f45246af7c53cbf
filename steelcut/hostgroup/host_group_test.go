package hostgroup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/steelcutops/steelcut-mas/steelcut/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroup(names ...string) *HostGroup {
	hg := NewHostGroup()
	for _, name := range names {
		hg.AddHost(&host.Host{Hostname: name, OSType: host.Darwin})
	}
	return hg
}

func TestAddRemoveHost(t *testing.T) {
	hg := newGroup("mac02", "mac01")
	assert.True(t, hg.HasHost("mac01"))
	assert.Equal(t, []string{"mac01", "mac02"}, hg.Hostnames())

	hg.RemoveHost("mac01")
	assert.False(t, hg.HasHost("mac01"))
	assert.Equal(t, []string{"mac02"}, hg.Hostnames())
}

func TestProcessVisitsEveryHost(t *testing.T) {
	hg := newGroup("mac01", "mac02", "mac03")

	var mu sync.Mutex
	seen := map[string]bool{}
	err := hg.Process(context.Background(), func(ctx context.Context, h *host.Host) error {
		mu.Lock()
		defer mu.Unlock()
		seen[h.Hostname] = true
		return nil
	}, 2)

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mac01": true, "mac02": true, "mac03": true}, seen)
}

func TestProcessBoundsConcurrency(t *testing.T) {
	hg := newGroup("a", "b", "c", "d", "e", "f")

	var inFlight, peak int32
	err := hg.Process(context.Background(), func(ctx context.Context, h *host.Host) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	}, 2)

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestProcessAggregatesErrors(t *testing.T) {
	hg := newGroup("mac01", "mac02", "mac03")
	errBoom := errors.New("boom")

	err := hg.Process(context.Background(), func(ctx context.Context, h *host.Host) error {
		if h.Hostname == "mac02" {
			return nil
		}
		return errBoom
	}, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "host mac01: boom")
	assert.Contains(t, err.Error(), "host mac03: boom")
	assert.NotContains(t, err.Error(), "mac02")
}

func TestProcessCancelledContext(t *testing.T) {
	hg := newGroup("mac01")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := hg.Process(ctx, func(ctx context.Context, h *host.Host) error {
		called = true
		return nil
	}, 1)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
