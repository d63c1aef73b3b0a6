package queries

import (
	"context"
	"time"

	"coupon-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type CustomerCouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CustomerCouponView, error)
	// ListForCustomer returns every instance the customer holds, any status.
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]*CustomerCouponView, error)
	// ListUsableInStore returns unused, unexpired instances whose coupon
	// belongs to the given store.
	ListUsableInStore(ctx context.Context, customerID, storeID uuid.UUID) ([]*CustomerCouponView, error)
}

type CustomerCouponViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerCouponView, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*CustomerCouponView, error)
	FindUsableInStore(ctx context.Context, customerID, storeID uuid.UUID, now time.Time) ([]*CustomerCouponView, error)
}

type customerCouponQueriesImpl struct {
	repo  CustomerCouponViewRepo
	clock clock.Clock
}

func NewCustomerCouponQueries(repo CustomerCouponViewRepo, clk clock.Clock) CustomerCouponQueries {
	return &customerCouponQueriesImpl{repo: repo, clock: clk}
}

func (q *customerCouponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CustomerCouponView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *customerCouponQueriesImpl) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]*CustomerCouponView, error) {
	return q.repo.FindByCustomer(ctx, customerID)
}

func (q *customerCouponQueriesImpl) ListUsableInStore(ctx context.Context, customerID, storeID uuid.UUID) ([]*CustomerCouponView, error) {
	return q.repo.FindUsableInStore(ctx, customerID, storeID, q.clock.Now())
}
