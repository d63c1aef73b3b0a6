package repository

import (
	"context"
	"time"

	"coupon-engine/internal/domain/issuedcoupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/pgconv"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IssuedCouponRepository struct {
	db DBTX
}

func NewIssuedCouponRepository(db DBTX) shared.IssuedCouponRepository {
	return &IssuedCouponRepository{db: db}
}

func (r *IssuedCouponRepository) Exists(ctx context.Context, customerID, couponID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM customer_coupons
			WHERE customer_id = $1 AND coupon_id = $2
		)`,
		customerID, couponID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check issued coupon existence", err)
	}
	return exists, nil
}

func (r *IssuedCouponRepository) Insert(ctx context.Context, inst *issuedcoupon.Instance) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customer_coupons (id, coupon_id, customer_id, issued_at, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		inst.ID(), inst.CouponID(), inst.CustomerID(),
		inst.IssuedAt(), inst.ExpiresAt(), inst.Status().String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("customer already holds this coupon", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert issued coupon", err)
	}
	return nil
}

func (r *IssuedCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*issuedcoupon.Instance, error) {
	var (
		instID     uuid.UUID
		couponID   uuid.UUID
		customerID uuid.UUID
		issuedAt   pgtype.Timestamptz
		expiresAt  pgtype.Timestamptz
		status     string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, coupon_id, customer_id, issued_at, expires_at, status
		FROM customer_coupons WHERE id = $1`,
		id,
	).Scan(&instID, &couponID, &customerID, &issuedAt, &expiresAt, &status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("issued coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan issued coupon", err)
	}
	return issuedcoupon.ReconstructInstance(
		instID, couponID, customerID,
		pgconv.TimeFromPgtype(issuedAt), pgconv.TimeFromPgtype(expiresAt),
		issuedcoupon.Status(status),
	), nil
}

func (r *IssuedCouponRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customer_coupons
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		id, issuedcoupon.StatusUsed.String(), issuedcoupon.StatusUnused.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark issued coupon used", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM customer_coupons WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return infra.WrapRepoErr("failed to diagnose missed redemption", err)
		}
		if !exists {
			return infra.WrapRepoErr("issued coupon not found", nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("issued coupon already used", nil, infra.KindConflict)
	}
	return nil
}

func (r *IssuedCouponRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM customer_coupons WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired issued coupons", err)
	}
	return tag.RowsAffected(), nil
}
