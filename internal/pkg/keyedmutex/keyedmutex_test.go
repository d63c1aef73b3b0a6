//go:build unit

package keyedmutex_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"coupon-engine/internal/pkg/keyedmutex"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLockUnlock(t *testing.T) {
	m := keyedmutex.New(time.Second)
	key := uuid.New()

	release, err := m.Lock(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	release()
	assert.Equal(t, 0, m.Len())
}

func TestWaitTimeout(t *testing.T) {
	m := keyedmutex.New(50 * time.Millisecond)
	key := uuid.New()

	release, err := m.Lock(context.Background(), key)
	require.NoError(t, err)
	defer release()

	_, err = m.Lock(context.Background(), key)
	assert.ErrorIs(t, err, keyedmutex.ErrWaitTimeout)
}

func TestContextCancel(t *testing.T) {
	m := keyedmutex.New(time.Minute)
	key := uuid.New()

	release, err := m.Lock(context.Background(), key)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Lock(ctx, key)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDistinctKeysDoNotContend(t *testing.T) {
	m := keyedmutex.New(50 * time.Millisecond)

	releaseA, err := m.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := m.Lock(context.Background(), uuid.New())
	require.NoError(t, err)
	defer releaseB()
}

func TestMutualExclusion(t *testing.T) {
	m := keyedmutex.New(5 * time.Second)
	key := uuid.New()

	var (
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	g := errgroup.Group{}
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			release, err := m.Lock(context.Background(), key)
			if err != nil {
				return err
			}
			defer release()

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, m.Len())
}

func TestWaiterAcquiresAfterRelease(t *testing.T) {
	m := keyedmutex.New(time.Second)
	key := uuid.New()

	release, err := m.Lock(context.Background(), key)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, lockErr := m.Lock(context.Background(), key)
		if lockErr == nil {
			close(acquired)
			r()
		}
	}()

	time.Sleep(10 * time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}
