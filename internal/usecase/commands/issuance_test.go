//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra/memstore"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/keyedmutex"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"
	"coupon-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var claimNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type claimHarness struct {
	store *memstore.Store
	clock *clock.MockClock
	cmds  commands.IssuanceCommands
}

func newClaimHarness(lockWait time.Duration) *claimHarness {
	clk := clock.NewMockClock(claimNow)
	store := memstore.NewStore(clk)
	instQueries := queries.NewCustomerCouponQueries(store.CustomerCouponViews(), clk)
	return &claimHarness{
		store: store,
		clock: clk,
		cmds:  commands.NewIssuanceCommands(store, keyedmutex.New(lockWait), instQueries, clk),
	}
}

func (h *claimHarness) seed(t *testing.T, b *builder.CouponBuilder) *coupon.Definition {
	t.Helper()
	def, err := b.BuildDomain(h.clock.Now())
	require.NoError(t, err)
	require.NoError(t, h.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Insert(ctx, def)
	}))
	return def
}

func (h *claimHarness) couponView(t *testing.T, code string) *queries.CouponView {
	t.Helper()
	view, err := h.store.CouponViews().FindByCode(context.Background(), code)
	require.NoError(t, err)
	return view
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("successful claim issues one instance with resolved expiry", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		def := h.seed(t, builder.NewCouponBuilder().WithRelativeExpiry(30))
		customerID := uuid.New()

		view, err := h.cmds.Claim(ctx, customerID, "SUMMER2026")
		require.NoError(t, err)
		require.NotNil(t, view)

		assert.Equal(t, def.ID(), view.CouponID)
		assert.Equal(t, customerID, view.CustomerID)
		assert.Equal(t, claimNow, view.IssuedAt)
		assert.Equal(t, claimNow.Add(30*24*time.Hour), view.ExpiresAt)
		assert.Equal(t, "unused", view.Status)

		assert.Equal(t, int32(1), h.couponView(t, "SUMMER2026").IssuedQuantity)
	})

	t.Run("absolute expiry resolves to the fixed date", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		deadline := claimNow.Add(90 * 24 * time.Hour)
		h.seed(t, builder.NewCouponBuilder().WithAbsoluteExpiry(deadline))

		view, err := h.cmds.Claim(ctx, uuid.New(), "SUMMER2026")
		require.NoError(t, err)

		assert.Equal(t, deadline, view.ExpiresAt)
	})

	t.Run("code is normalized before lookup", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		h.seed(t, builder.NewCouponBuilder())

		_, err := h.cmds.Claim(ctx, uuid.New(), "  summer2026  ")
		assert.NoError(t, err)
	})

	t.Run("unknown code", func(t *testing.T) {
		h := newClaimHarness(time.Second)

		_, err := h.cmds.Claim(ctx, uuid.New(), "NOSUCHCODE")
		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
	})

	t.Run("malformed code reads as not found", func(t *testing.T) {
		h := newClaimHarness(time.Second)

		_, err := h.cmds.Claim(ctx, uuid.New(), "not a code!")
		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		def := h.seed(t, builder.NewCouponBuilder())
		require.NoError(t, h.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Coupons().UpdateStatus(ctx, def.ID(), coupon.StatusInactive, def.Version())
		}))

		_, err := h.cmds.Claim(ctx, uuid.New(), "SUMMER2026")
		assert.ErrorIs(t, err, commands.ErrNotIssuable)
	})

	t.Run("window not yet open, then opens", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		start := claimNow.Add(time.Hour)
		h.seed(t, builder.NewCouponBuilder().WithIssueStartTime(&start))
		customerID := uuid.New()

		_, err := h.cmds.Claim(ctx, customerID, "SUMMER2026")
		assert.ErrorIs(t, err, commands.ErrNotYetOpen)

		h.clock.Set(start)
		_, err = h.cmds.Claim(ctx, customerID, "SUMMER2026")
		assert.NoError(t, err)
	})

	t.Run("second claim by the same customer", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		h.seed(t, builder.NewCouponBuilder())
		customerID := uuid.New()

		_, err := h.cmds.Claim(ctx, customerID, "SUMMER2026")
		require.NoError(t, err)

		_, err = h.cmds.Claim(ctx, customerID, "SUMMER2026")
		assert.ErrorIs(t, err, commands.ErrAlreadyIssued)

		assert.Equal(t, int32(1), h.couponView(t, "SUMMER2026").IssuedQuantity)
	})

	t.Run("sold out", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		h.seed(t, builder.NewCouponBuilder().WithTotalQuantity(1))

		_, err := h.cmds.Claim(ctx, uuid.New(), "SUMMER2026")
		require.NoError(t, err)

		_, err = h.cmds.Claim(ctx, uuid.New(), "SUMMER2026")
		assert.ErrorIs(t, err, commands.ErrSoldOut)
	})

	t.Run("holder of a sold-out coupon hears already issued, not sold out", func(t *testing.T) {
		h := newClaimHarness(time.Second)
		h.seed(t, builder.NewCouponBuilder().WithTotalQuantity(1))
		customerID := uuid.New()

		_, err := h.cmds.Claim(ctx, customerID, "SUMMER2026")
		require.NoError(t, err)

		_, err = h.cmds.Claim(ctx, customerID, "SUMMER2026")
		assert.ErrorIs(t, err, commands.ErrAlreadyIssued)
	})
}

// Last unit: two customers race for quantity 1. Exactly one wins, the loser
// sees SoldOut, and a repeat attempt by the winner reports AlreadyIssued.
func TestClaimLastUnit(t *testing.T) {
	ctx := context.Background()
	h := newClaimHarness(5 * time.Second)
	h.seed(t, builder.NewCouponBuilder().WithTotalQuantity(1))

	alice := uuid.New()
	bob := uuid.New()

	results := make(map[uuid.UUID]error, 2)
	var mu sync.Mutex

	var wg sync.WaitGroup
	for _, customerID := range []uuid.UUID{alice, bob} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.cmds.Claim(ctx, customerID, "SUMMER2026")
			mu.Lock()
			results[customerID] = err
			mu.Unlock()
		}()
	}
	wg.Wait()

	winners := 0
	var winner uuid.UUID
	for customerID, err := range results {
		if err == nil {
			winners++
			winner = customerID
		} else {
			assert.ErrorIs(t, err, commands.ErrSoldOut)
		}
	}
	require.Equal(t, 1, winners)

	view := h.couponView(t, "SUMMER2026")
	assert.Equal(t, int32(1), view.IssuedQuantity)
	assert.Equal(t, int32(0), view.Remaining)

	_, err := h.cmds.Claim(ctx, winner, "SUMMER2026")
	assert.ErrorIs(t, err, commands.ErrAlreadyIssued)
}

// No oversell: many more claimants than quantity; successes must equal the
// quantity exactly and the counter must never pass it.
func TestClaimNoOversell(t *testing.T) {
	const (
		totalQuantity = 10
		claimants     = 50
	)

	h := newClaimHarness(10 * time.Second)
	h.seed(t, builder.NewCouponBuilder().WithTotalQuantity(totalQuantity))

	var (
		mu        sync.Mutex
		successes int
		soldOut   int
	)

	g := errgroup.Group{}
	for i := 0; i < claimants; i++ {
		g.Go(func() error {
			_, err := h.cmds.Claim(context.Background(), uuid.New(), "SUMMER2026")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, commands.ErrSoldOut):
				soldOut++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, totalQuantity, successes)
	assert.Equal(t, claimants-totalQuantity, soldOut)
	assert.Equal(t, int32(totalQuantity), h.couponView(t, "SUMMER2026").IssuedQuantity)
}

// No duplicates: one customer hammering the same coupon gets exactly one
// instance no matter how many requests race.
func TestClaimNoDuplicates(t *testing.T) {
	h := newClaimHarness(10 * time.Second)
	h.seed(t, builder.NewCouponBuilder())
	customerID := uuid.New()

	var (
		mu            sync.Mutex
		successes     int
		alreadyIssued int
	)

	g := errgroup.Group{}
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := h.cmds.Claim(context.Background(), customerID, "SUMMER2026")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, commands.ErrAlreadyIssued):
				alreadyIssued++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, successes)
	assert.Equal(t, 9, alreadyIssued)
	assert.Equal(t, int32(1), h.couponView(t, "SUMMER2026").IssuedQuantity)

	views, err := h.store.CustomerCouponViews().FindByCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

// A claim that cannot acquire the per-coupon lock within the bound fails
// fast as temporarily unavailable instead of queueing forever.
func TestClaimLockWaitTimeout(t *testing.T) {
	clk := clock.NewMockClock(claimNow)
	store := memstore.NewStore(clk)
	slow := &slowUoW{inner: store, entered: make(chan struct{}), release: make(chan struct{})}
	instQueries := queries.NewCustomerCouponQueries(store.CustomerCouponViews(), clk)
	cmds := commands.NewIssuanceCommands(slow, keyedmutex.New(50*time.Millisecond), instQueries, clk)

	def, err := builder.NewCouponBuilder().BuildDomain(claimNow)
	require.NoError(t, err)
	require.NoError(t, store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Insert(ctx, def)
	}))

	firstDone := make(chan error, 1)
	go func() {
		_, claimErr := cmds.Claim(context.Background(), uuid.New(), "SUMMER2026")
		firstDone <- claimErr
	}()

	<-slow.entered

	_, err = cmds.Claim(context.Background(), uuid.New(), "SUMMER2026")
	assert.ErrorIs(t, err, commands.ErrTemporarilyUnavailable)

	close(slow.release)
	require.NoError(t, <-firstDone)
}

// slowUoW stalls the first transaction until released, keeping the
// per-coupon lock held long enough for a second claim to time out.
type slowUoW struct {
	inner   shared.UnitOfWork
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (u *slowUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	stalled := false
	u.once.Do(func() {
		stalled = true
	})
	if stalled {
		close(u.entered)
		<-u.release
	}
	return u.inner.Within(ctx, fn)
}
