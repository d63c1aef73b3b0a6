package queries

import (
	"context"

	"coupon-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	GetByCode(ctx context.Context, code string) (*CouponView, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error)
	ListIssuableForStore(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error)
	ListAllIssuable(ctx context.Context) ([]*CouponView, error)
}

type CouponViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	FindByCode(ctx context.Context, code string) (*CouponView, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error)
	// FindIssuable returns active definitions with remaining quantity whose
	// window has opened; storeID == uuid.Nil means all stores.
	FindIssuable(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error)
}

// IssuableListCache keeps hot issuable listings out of the database.
// A miss or error always degrades to the underlying repo.
type IssuableListCache interface {
	GetList(ctx context.Context, storeID uuid.UUID) ([]*CouponView, bool)
	SetList(ctx context.Context, storeID uuid.UUID, items []*CouponView)
	Invalidate(ctx context.Context, storeID uuid.UUID)
}

type couponQueriesImpl struct {
	repo  CouponViewRepo
	cache IssuableListCache
	clock clock.Clock
}

func NewCouponQueries(repo CouponViewRepo, cache IssuableListCache, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{repo: repo, cache: cache, clock: clk}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *couponQueriesImpl) GetByCode(ctx context.Context, code string) (*CouponView, error) {
	return q.repo.FindByCode(ctx, code)
}

func (q *couponQueriesImpl) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error) {
	return q.repo.FindByStore(ctx, storeID)
}

func (q *couponQueriesImpl) ListIssuableForStore(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error) {
	return q.listIssuable(ctx, storeID)
}

func (q *couponQueriesImpl) ListAllIssuable(ctx context.Context) ([]*CouponView, error) {
	return q.listIssuable(ctx, uuid.Nil)
}

// Listings tolerate cache staleness: issuability is re-validated under lock
// at claim time, so a stale listing can never cause an oversell.
func (q *couponQueriesImpl) listIssuable(ctx context.Context, storeID uuid.UUID) ([]*CouponView, error) {
	if q.cache != nil {
		if items, ok := q.cache.GetList(ctx, storeID); ok {
			return items, nil
		}
	}

	items, err := q.repo.FindIssuable(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if q.cache != nil {
		q.cache.SetList(ctx, storeID, items)
	}
	return items, nil
}
