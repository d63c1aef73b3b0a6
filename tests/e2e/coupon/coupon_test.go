//go:build e2e

package coupon_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/domain/issuedcoupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/infra/readstore"
	"coupon-engine/internal/infra/repository"
	"coupon-engine/internal/infra/uow"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/keyedmutex"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"
	"coupon-engine/tests/common/builder"
	"coupon-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CouponRepositorySuite struct {
	e2e.SharedSuite

	clock       clock.Clock
	uow         shared.UnitOfWork
	coupons     shared.CouponRepository
	instances   shared.IssuedCouponRepository
	couponViews queries.CouponViewRepo
	claims      commands.IssuanceCommands
}

func (s *CouponRepositorySuite) SetupSuite() {
	s.SharedSuite.SetupSuite()

	s.clock = clock.NewRealClock()
	s.uow = uow.NewPostgresUoW(s.DB, time.Second)
	s.coupons = repository.NewCouponRepository(s.DB)
	s.instances = repository.NewIssuedCouponRepository(s.DB)
	s.couponViews = readstore.NewCouponReadStore(s.DB)

	instQueries := queries.NewCustomerCouponQueries(readstore.NewCustomerCouponReadStore(s.DB), s.clock)
	s.claims = commands.NewIssuanceCommands(s.uow, keyedmutex.New(5*time.Second), instQueries, s.clock)
}

func TestCouponRepositorySuite(t *testing.T) {
	suite.Run(t, new(CouponRepositorySuite))
}

func (s *CouponRepositorySuite) insertDefinition(b *builder.CouponBuilder) *coupon.Definition {
	def, err := b.BuildDomain(s.clock.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.coupons.Insert(context.Background(), def))
	return def
}

// ================================================================================
// Definition persistence
// ================================================================================

func (s *CouponRepositorySuite) TestDefinitionRoundTrip() {
	ctx := context.Background()

	s.Run("insert then read back through the read store", func() {
		b := builder.NewCouponBuilder()
		def := s.insertDefinition(b)

		got, err := s.couponViews.FindByID(ctx, def.ID())
		s.Require().NoError(err)

		want := b.BuildViewQuery(s.clock.Now())
		diff := cmp.Diff(want, got, cmpopts.IgnoreFields(queries.CouponView{},
			"ID", "CreatedAt", "UpdatedAt"))
		s.Empty(diff)
	})

	s.Run("duplicate code is a unique violation", func() {
		s.insertDefinition(builder.NewCouponBuilder())

		other, err := builder.NewCouponBuilder().BuildDomain(s.clock.Now())
		s.Require().NoError(err)

		err = s.coupons.Insert(context.Background(), other)
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindDuplicateKey))
	})

	s.Run("find by code under lock matches find by id", func() {
		def := s.insertDefinition(builder.NewCouponBuilder())

		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			locked, err := tx.Coupons().FindByCodeForUpdate(ctx, "SUMMER2026")
			if err != nil {
				return err
			}
			s.Equal(def.ID(), locked.ID())
			return nil
		})
		s.Require().NoError(err)
	})

	s.Run("unknown id reads as not found", func() {
		_, err := s.coupons.FindByID(ctx, uuid.New())
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindNotFound))
	})
}

func (s *CouponRepositorySuite) TestOptimisticVersioning() {
	ctx := context.Background()

	s.Run("status update with the current version succeeds", func() {
		def := s.insertDefinition(builder.NewCouponBuilder())

		s.Require().NoError(s.coupons.UpdateStatus(ctx, def.ID(), coupon.StatusInactive, def.Version()))

		got, err := s.couponViews.FindByID(ctx, def.ID())
		s.Require().NoError(err)
		s.Equal("inactive", got.Status)
		s.Equal(def.Version()+1, got.Version)
	})

	s.Run("stale version is a version conflict", func() {
		def := s.insertDefinition(builder.NewCouponBuilder())

		s.Require().NoError(s.coupons.UpdateStatus(ctx, def.ID(), coupon.StatusInactive, def.Version()))

		err := s.coupons.UpdateStatus(ctx, def.ID(), coupon.StatusActive, def.Version())
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindVersionConflict))
	})

	s.Run("missing row is not found rather than a conflict", func() {
		err := s.coupons.UpdateStatus(ctx, uuid.New(), coupon.StatusInactive, 1)
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindNotFound))
	})
}

func (s *CouponRepositorySuite) TestIncrementIssued() {
	ctx := context.Background()

	s.Run("counter stops exactly at total quantity", func() {
		def := s.insertDefinition(builder.NewCouponBuilder().WithTotalQuantity(2))

		s.Require().NoError(s.coupons.IncrementIssued(ctx, def.ID()))
		s.Require().NoError(s.coupons.IncrementIssued(ctx, def.ID()))

		err := s.coupons.IncrementIssued(ctx, def.ID())
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindConflict))

		got, err := s.couponViews.FindByID(ctx, def.ID())
		s.Require().NoError(err)
		s.Equal(int32(2), got.IssuedQuantity)
		s.Equal(int32(0), got.Remaining)
	})
}

// ================================================================================
// Instance persistence
// ================================================================================

func (s *CouponRepositorySuite) TestInstancePersistence() {
	ctx := context.Background()

	s.Run("one instance per customer and coupon", func() {
		def := s.insertDefinition(builder.NewCouponBuilder())
		customerID := uuid.New()
		now := s.clock.Now()

		first := issuedcoupon.NewInstance(def.ID(), customerID, now, now.Add(24*time.Hour))
		s.Require().NoError(s.instances.Insert(ctx, first))

		exists, err := s.instances.Exists(ctx, customerID, def.ID())
		s.Require().NoError(err)
		s.True(exists)

		second := issuedcoupon.NewInstance(def.ID(), customerID, now, now.Add(24*time.Hour))
		err = s.instances.Insert(ctx, second)
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindDuplicateKey))
	})

	s.Run("mark used succeeds once then conflicts", func() {
		def := s.insertDefinition(builder.NewCouponBuilder())
		now := s.clock.Now()
		inst := issuedcoupon.NewInstance(def.ID(), uuid.New(), now, now.Add(24*time.Hour))
		s.Require().NoError(s.instances.Insert(ctx, inst))

		s.Require().NoError(s.instances.MarkUsed(ctx, inst.ID()))

		err := s.instances.MarkUsed(ctx, inst.ID())
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindConflict))
	})

	s.Run("mark used on a missing instance is not found", func() {
		err := s.instances.MarkUsed(ctx, uuid.New())
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindNotFound))
	})

	s.Run("delete expired removes only instances past the cutoff", func() {
		def := s.insertDefinition(builder.NewCouponBuilder())
		now := s.clock.Now()

		expired := issuedcoupon.NewInstance(def.ID(), uuid.New(), now.Add(-48*time.Hour), now.Add(-time.Hour))
		alive := issuedcoupon.NewInstance(def.ID(), uuid.New(), now, now.Add(24*time.Hour))
		s.Require().NoError(s.instances.Insert(ctx, expired))
		s.Require().NoError(s.instances.Insert(ctx, alive))

		deleted, err := s.instances.DeleteExpired(ctx, now)
		s.Require().NoError(err)
		s.Equal(int64(1), deleted)

		_, err = s.instances.FindByID(ctx, expired.ID())
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindNotFound))

		_, err = s.instances.FindByID(ctx, alive.ID())
		s.Require().NoError(err)
	})
}

// ================================================================================
// Claim flow against a real database
// ================================================================================

func (s *CouponRepositorySuite) TestClaimFlow() {
	s.Run("concurrent claims never oversell", func() {
		const (
			totalQuantity = 5
			claimants     = 20
		)
		s.insertDefinition(builder.NewCouponBuilder().WithTotalQuantity(totalQuantity))

		var (
			mu        sync.Mutex
			successes int
			soldOut   int
		)

		var wg sync.WaitGroup
		for range claimants {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.claims.Claim(context.Background(), uuid.New(), "SUMMER2026")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, commands.ErrSoldOut):
					soldOut++
				}
			}()
		}
		wg.Wait()

		s.Equal(totalQuantity, successes)
		s.Equal(claimants-totalQuantity, soldOut)

		got, err := s.couponViews.FindByCode(context.Background(), "SUMMER2026")
		s.Require().NoError(err)
		s.Equal(int32(totalQuantity), got.IssuedQuantity)
	})

	s.Run("same customer cannot hold two copies", func() {
		s.insertDefinition(builder.NewCouponBuilder())
		customerID := uuid.New()

		_, err := s.claims.Claim(context.Background(), customerID, "SUMMER2026")
		s.Require().NoError(err)

		_, err = s.claims.Claim(context.Background(), customerID, "SUMMER2026")
		s.Require().ErrorIs(err, commands.ErrAlreadyIssued)
	})
}
