package memstore

import (
	"context"
	"sort"
	"time"

	"coupon-engine/internal/infra"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

// The Store doubles as the read side so tests see committed writes
// immediately. CouponViews and CustomerCouponViews adapt it to the two view
// repo ports, whose FindByID signatures would otherwise collide.

type couponViewRepo struct{ s *Store }

type customerCouponViewRepo struct{ s *Store }

func (s *Store) CouponViews() queries.CouponViewRepo {
	return couponViewRepo{s: s}
}

func (s *Store) CustomerCouponViews() queries.CustomerCouponViewRepo {
	return customerCouponViewRepo{s: s}
}

func (r couponViewRepo) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	return r.s.findCouponViewByID(ctx, id)
}

func (r couponViewRepo) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	return r.s.FindByCode(ctx, code)
}

func (r couponViewRepo) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*queries.CouponView, error) {
	return r.s.FindByStore(ctx, storeID)
}

func (r couponViewRepo) FindIssuable(ctx context.Context, storeID uuid.UUID) ([]*queries.CouponView, error) {
	return r.s.FindIssuable(ctx, storeID)
}

func (r customerCouponViewRepo) FindByID(ctx context.Context, id uuid.UUID) (*queries.CustomerCouponView, error) {
	return r.s.FindInstanceByID(ctx, id)
}

func (r customerCouponViewRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*queries.CustomerCouponView, error) {
	return r.s.FindByCustomer(ctx, customerID)
}

func (r customerCouponViewRepo) FindUsableInStore(ctx context.Context, customerID, storeID uuid.UUID, now time.Time) ([]*queries.CustomerCouponView, error) {
	return r.s.FindUsableInStore(ctx, customerID, storeID, now)
}

func (s *Store) findCouponViewByID(_ context.Context, id uuid.UUID) (*queries.CouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.state.coupons[id]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return rowToView(row), nil
}

func (s *Store) FindByCode(_ context.Context, code string) (*queries.CouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.state.byCode[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return rowToView(s.state.coupons[id]), nil
}

func (s *Store) FindByStore(_ context.Context, storeID uuid.UUID) ([]*queries.CouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]*queries.CouponView, 0)
	for _, row := range s.state.coupons {
		if row.storeID == storeID {
			views = append(views, rowToView(row))
		}
	}
	sortViews(views)
	return views, nil
}

func (s *Store) FindIssuable(_ context.Context, storeID uuid.UUID) ([]*queries.CouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	views := make([]*queries.CouponView, 0)
	for _, row := range s.state.coupons {
		if storeID != uuid.Nil && row.storeID != storeID {
			continue
		}
		if row.status != "active" || row.issuedQuantity >= row.totalQuantity {
			continue
		}
		if row.issueStartTime != nil && row.issueStartTime.After(now) {
			continue
		}
		views = append(views, rowToView(row))
	}
	sortViews(views)
	return views, nil
}

func (s *Store) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*queries.CustomerCouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]*queries.CustomerCouponView, 0)
	for _, row := range s.state.instances {
		if row.customerID == customerID {
			views = append(views, s.instanceToView(row))
		}
	}
	sortCustomerViews(views)
	return views, nil
}

func (s *Store) FindUsableInStore(_ context.Context, customerID, storeID uuid.UUID, now time.Time) ([]*queries.CustomerCouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]*queries.CustomerCouponView, 0)
	for _, row := range s.state.instances {
		if row.customerID != customerID || row.status != "unused" || !row.expiresAt.After(now) {
			continue
		}
		def, ok := s.state.coupons[row.couponID]
		if !ok || def.storeID != storeID {
			continue
		}
		views = append(views, s.instanceToView(row))
	}
	sortCustomerViews(views)
	return views, nil
}

func (s *Store) FindInstanceByID(_ context.Context, id uuid.UUID) (*queries.CustomerCouponView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.state.instances[id]
	if !ok {
		return nil, infra.WrapRepoErr("issued coupon not found", nil, infra.KindNotFound)
	}
	return s.instanceToView(row), nil
}

func (s *Store) instanceToView(row *instanceRow) *queries.CustomerCouponView {
	v := &queries.CustomerCouponView{
		ID:         row.id,
		CouponID:   row.couponID,
		CustomerID: row.customerID,
		IssuedAt:   row.issuedAt,
		ExpiresAt:  row.expiresAt,
		Status:     row.status,
	}
	if def, ok := s.state.coupons[row.couponID]; ok {
		v.CouponCode = def.code
		v.CouponName = def.name
		v.StoreID = def.storeID
		v.DiscountKind = def.discountKind
		v.DiscountValue = def.discountValue
	}
	return v
}

func rowToView(row *couponRow) *queries.CouponView {
	return &queries.CouponView{
		ID:               row.id,
		StoreID:          row.storeID,
		Code:             row.code,
		Name:             row.name,
		DiscountKind:     row.discountKind,
		DiscountValue:    row.discountValue,
		MaxDiscountCents: row.maxDiscountCents,
		MinOrderCents:    row.minOrderCents,
		ExpiryKind:       row.expiryKind,
		ExpiresAt:        row.expiresAt,
		ExpiryDays:       int32(row.expiryDays),
		IssueStartTime:   row.issueStartTime,
		TotalQuantity:    row.totalQuantity,
		IssuedQuantity:   row.issuedQuantity,
		Remaining:        row.totalQuantity - row.issuedQuantity,
		Categories:       append([]string(nil), row.categories...),
		Status:           row.status,
		Version:          row.version,
		CreatedAt:        row.createdAt,
		UpdatedAt:        row.updatedAt,
	}
}

func sortViews(views []*queries.CouponView) {
	sort.Slice(views, func(i, j int) bool {
		return views[i].Code < views[j].Code
	})
}

func sortCustomerViews(views []*queries.CustomerCouponView) {
	sort.Slice(views, func(i, j int) bool {
		return views[i].IssuedAt.Before(views[j].IssuedAt)
	})
}
