package shared

import (
	"context"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/domain/issuedcoupon"

	"github.com/google/uuid"
)

// UnitOfWork runs a function as one atomic unit: every repository write made
// through the Tx either commits as a whole or leaves no trace.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Coupons() CouponRepository
	IssuedCoupons() IssuedCouponRepository
}

type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Definition, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Definition, error)
	// FindByCodeForUpdate re-reads the definition under an exclusive
	// row-level lock; claims must validate against this copy, never a
	// cached one.
	FindByCodeForUpdate(ctx context.Context, code string) (*coupon.Definition, error)
	Insert(ctx context.Context, d *coupon.Definition) error
	// Update persists editable fields and bumps version; the definition's
	// current version acts as the optimistic concurrency check.
	Update(ctx context.Context, d *coupon.Definition) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status coupon.Status, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementIssued adds exactly 1 to issued_quantity, guarded so the
	// counter can never pass total_quantity.
	IncrementIssued(ctx context.Context, id uuid.UUID) error
}

type IssuedCouponRepository interface {
	// Exists is the duplicate guard for one (customer, coupon) pair. Only
	// trustworthy when called inside the issuance critical section.
	Exists(ctx context.Context, customerID, couponID uuid.UUID) (bool, error)
	Insert(ctx context.Context, inst *issuedcoupon.Instance) error
	FindByID(ctx context.Context, id uuid.UUID) (*issuedcoupon.Instance, error)
	// MarkUsed transitions unused → used; a missing row maps to NOT_FOUND,
	// any other current status to CONFLICT.
	MarkUsed(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes every instance with expires_at before the cutoff
	// and reports how many went away.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
