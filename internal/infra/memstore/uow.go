package memstore

import (
	"context"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/domain/issuedcoupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Within holds the store lock for the whole transaction. Commit swaps the
// mutated clone in; any error discards it.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	tx := &memTx{state: working, clock: s.clock}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.state = working
	return nil
}

type memTx struct {
	state *state
	clock clock.Clock
}

func (t *memTx) Coupons() shared.CouponRepository {
	return &couponRepo{tx: t}
}

func (t *memTx) IssuedCoupons() shared.IssuedCouponRepository {
	return &issuedCouponRepo{tx: t}
}

type couponRepo struct {
	tx *memTx
}

func (r *couponRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Definition, error) {
	row, ok := r.tx.state.coupons[id]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return rowToDefinition(row)
}

func (r *couponRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Definition, error) {
	return r.FindByID(ctx, id)
}

func (r *couponRepo) FindByCodeForUpdate(_ context.Context, code string) (*coupon.Definition, error) {
	id, ok := r.tx.state.byCode[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return rowToDefinition(r.tx.state.coupons[id])
}

func (r *couponRepo) Insert(_ context.Context, d *coupon.Definition) error {
	if _, exists := r.tx.state.byCode[d.Code().String()]; exists {
		return infra.WrapRepoErr("coupon code already exists", nil, infra.KindDuplicateKey)
	}
	row := definitionToRow(d, r.tx.clock.Now())
	r.tx.state.coupons[row.id] = row
	r.tx.state.byCode[row.code] = row.id
	return nil
}

func (r *couponRepo) Update(_ context.Context, d *coupon.Definition) error {
	row, ok := r.tx.state.coupons[d.ID()]
	if !ok {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	if row.version != d.Version() {
		return infra.WrapRepoErr("coupon version conflict", nil, infra.KindVersionConflict)
	}
	updated := definitionToRow(d, row.createdAt)
	updated.issuedQuantity = row.issuedQuantity
	updated.totalQuantity = row.totalQuantity
	updated.status = row.status
	updated.version = row.version + 1
	updated.updatedAt = r.tx.clock.Now()
	r.tx.state.coupons[d.ID()] = updated
	return nil
}

func (r *couponRepo) UpdateStatus(_ context.Context, id uuid.UUID, status coupon.Status, expectedVersion int64) error {
	row, ok := r.tx.state.coupons[id]
	if !ok {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	if row.version != expectedVersion {
		return infra.WrapRepoErr("coupon version conflict", nil, infra.KindVersionConflict)
	}
	row.status = status.String()
	row.version++
	row.updatedAt = r.tx.clock.Now()
	return nil
}

func (r *couponRepo) Delete(_ context.Context, id uuid.UUID) error {
	row, ok := r.tx.state.coupons[id]
	if !ok {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	delete(r.tx.state.byCode, row.code)
	delete(r.tx.state.coupons, id)
	return nil
}

func (r *couponRepo) IncrementIssued(_ context.Context, id uuid.UUID) error {
	row, ok := r.tx.state.coupons[id]
	if !ok {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	if row.issuedQuantity >= row.totalQuantity {
		return infra.WrapRepoErr("issued quantity would exceed total quantity", nil, infra.KindConflict)
	}
	row.issuedQuantity++
	row.updatedAt = r.tx.clock.Now()
	return nil
}

type issuedCouponRepo struct {
	tx *memTx
}

func (r *issuedCouponRepo) Exists(_ context.Context, customerID, couponID uuid.UUID) (bool, error) {
	_, ok := r.tx.state.pairs[pairKey{customerID: customerID, couponID: couponID}]
	return ok, nil
}

func (r *issuedCouponRepo) Insert(_ context.Context, inst *issuedcoupon.Instance) error {
	key := pairKey{customerID: inst.CustomerID(), couponID: inst.CouponID()}
	if _, exists := r.tx.state.pairs[key]; exists {
		return infra.WrapRepoErr("customer already holds this coupon", nil, infra.KindDuplicateKey)
	}
	r.tx.state.instances[inst.ID()] = &instanceRow{
		id:         inst.ID(),
		couponID:   inst.CouponID(),
		customerID: inst.CustomerID(),
		issuedAt:   inst.IssuedAt(),
		expiresAt:  inst.ExpiresAt(),
		status:     inst.Status().String(),
	}
	r.tx.state.pairs[key] = inst.ID()
	return nil
}

func (r *issuedCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*issuedcoupon.Instance, error) {
	row, ok := r.tx.state.instances[id]
	if !ok {
		return nil, infra.WrapRepoErr("issued coupon not found", nil, infra.KindNotFound)
	}
	return issuedcoupon.ReconstructInstance(
		row.id, row.couponID, row.customerID,
		row.issuedAt, row.expiresAt, issuedcoupon.Status(row.status),
	), nil
}

func (r *issuedCouponRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	row, ok := r.tx.state.instances[id]
	if !ok {
		return infra.WrapRepoErr("issued coupon not found", nil, infra.KindNotFound)
	}
	if row.status != issuedcoupon.StatusUnused.String() {
		return infra.WrapRepoErr("issued coupon already used", nil, infra.KindConflict)
	}
	row.status = issuedcoupon.StatusUsed.String()
	return nil
}

func (r *issuedCouponRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, row := range r.tx.state.instances {
		if row.expiresAt.Before(cutoff) {
			delete(r.tx.state.pairs, pairKey{customerID: row.customerID, couponID: row.couponID})
			delete(r.tx.state.instances, id)
			deleted++
		}
	}
	return deleted, nil
}

func rowToDefinition(row *couponRow) (*coupon.Definition, error) {
	discount, err := coupon.NewDiscountPolicy(
		coupon.DiscountKind(row.discountKind), row.discountValue, row.maxDiscountCents)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rebuild discount policy", err)
	}
	expiry, err := coupon.NewExpiryPolicy(
		coupon.ExpiryKind(row.expiryKind), row.expiresAt, row.expiryDays)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rebuild expiry policy", err)
	}
	return coupon.ReconstructDefinition(
		row.id, row.storeID, coupon.Code(row.code), row.name,
		discount, row.minOrderCents, expiry,
		row.issueStartTime,
		row.totalQuantity, row.issuedQuantity,
		append([]string(nil), row.categories...),
		coupon.Status(row.status), row.version,
		row.createdAt, row.updatedAt,
	), nil
}

func definitionToRow(d *coupon.Definition, createdAt time.Time) *couponRow {
	return &couponRow{
		id:               d.ID(),
		storeID:          d.StoreID(),
		code:             d.Code().String(),
		name:             d.Name(),
		discountKind:     d.Discount().Kind().String(),
		discountValue:    d.Discount().Value(),
		maxDiscountCents: d.Discount().MaxDiscountCents(),
		minOrderCents:    d.MinOrderCents(),
		expiryKind:       d.Expiry().Kind().String(),
		expiresAt:        d.Expiry().ExpiresAt(),
		expiryDays:       d.Expiry().ExpiryDays(),
		issueStartTime:   d.IssueStartTime(),
		totalQuantity:    d.TotalQuantity(),
		issuedQuantity:   d.IssuedQuantity(),
		categories:       append([]string(nil), d.Categories()...),
		status:           d.Status().String(),
		version:          d.Version(),
		createdAt:        createdAt,
		updatedAt:        createdAt,
	}
}
