package repository

import (
	"context"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/pgconv"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const couponColumns = `
	id, store_id, code, name,
	discount_kind, discount_value, max_discount_cents, min_order_cents,
	expiry_kind, expires_at, expiry_days, issue_start_time,
	total_quantity, issued_quantity, categories, status, version,
	created_at, updated_at`

type CouponRepository struct {
	db DBTX
}

func NewCouponRepository(db DBTX) shared.CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Definition, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+couponColumns+` FROM coupon_definitions WHERE id = $1`, id)
	return scanDefinition(row)
}

func (r *CouponRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Definition, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+couponColumns+` FROM coupon_definitions WHERE id = $1 FOR UPDATE`, id)
	return scanDefinition(row)
}

func (r *CouponRepository) FindByCodeForUpdate(ctx context.Context, code string) (*coupon.Definition, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+couponColumns+` FROM coupon_definitions WHERE code = $1 FOR UPDATE`, code)
	return scanDefinition(row)
}

func (r *CouponRepository) Insert(ctx context.Context, d *coupon.Definition) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon_definitions (
			id, store_id, code, name,
			discount_kind, discount_value, max_discount_cents, min_order_cents,
			expiry_kind, expires_at, expiry_days, issue_start_time,
			total_quantity, issued_quantity, categories, status, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		d.ID(), d.StoreID(), d.Code().String(), d.Name(),
		d.Discount().Kind().String(), d.Discount().Value(),
		pgconv.Int64PtrToPgtype(d.Discount().MaxDiscountCents()),
		pgconv.Int64PtrToPgtype(d.MinOrderCents()),
		d.Expiry().Kind().String(), pgconv.TimePtrToPgtype(d.Expiry().ExpiresAt()), d.Expiry().ExpiryDays(),
		pgconv.TimePtrToPgtype(d.IssueStartTime()),
		d.TotalQuantity(), d.IssuedQuantity(), categoriesOrEmpty(d.Categories()),
		d.Status().String(), d.Version(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert coupon definition", err)
	}
	return nil
}

// Update rewrites the editable fields only; total_quantity and
// issued_quantity never move through this path.
func (r *CouponRepository) Update(ctx context.Context, d *coupon.Definition) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_definitions SET
			name = $2,
			discount_kind = $3, discount_value = $4, max_discount_cents = $5,
			min_order_cents = $6,
			expiry_kind = $7, expires_at = $8, expiry_days = $9,
			issue_start_time = $10, categories = $11,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $12`,
		d.ID(), d.Name(),
		d.Discount().Kind().String(), d.Discount().Value(),
		pgconv.Int64PtrToPgtype(d.Discount().MaxDiscountCents()),
		pgconv.Int64PtrToPgtype(d.MinOrderCents()),
		d.Expiry().Kind().String(), pgconv.TimePtrToPgtype(d.Expiry().ExpiresAt()), d.Expiry().ExpiryDays(),
		pgconv.TimePtrToPgtype(d.IssueStartTime()), categoriesOrEmpty(d.Categories()),
		d.Version(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon definition", err)
	}
	if tag.RowsAffected() == 0 {
		return r.diagnoseMissedUpdate(ctx, d.ID())
	}
	return nil
}

func (r *CouponRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status coupon.Status, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_definitions
		SET status = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		id, status.String(), expectedVersion,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon status", err)
	}
	if tag.RowsAffected() == 0 {
		return r.diagnoseMissedUpdate(ctx, id)
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupon_definitions WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon definition", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) IncrementIssued(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_definitions
		SET issued_quantity = issued_quantity + 1, updated_at = now()
		WHERE id = $1 AND issued_quantity < total_quantity`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to increment issued quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("issued quantity would exceed total quantity", nil, infra.KindConflict)
	}
	return nil
}

func (r *CouponRepository) diagnoseMissedUpdate(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupon_definitions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr("failed to diagnose missed update", err)
	}
	if !exists {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return infra.WrapRepoErr("coupon version conflict", nil, infra.KindVersionConflict)
}

func scanDefinition(row pgx.Row) (*coupon.Definition, error) {
	var (
		id, storeID      uuid.UUID
		code, name       string
		discountKind     string
		discountValue    int64
		maxDiscountCents pgtype.Int8
		minOrderCents    pgtype.Int8
		expiryKind       string
		expiresAt        pgtype.Timestamptz
		expiryDays       int32
		issueStartTime   pgtype.Timestamptz
		totalQuantity    int32
		issuedQuantity   int32
		categories       []string
		status           string
		version          int64
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &storeID, &code, &name,
		&discountKind, &discountValue, &maxDiscountCents, &minOrderCents,
		&expiryKind, &expiresAt, &expiryDays, &issueStartTime,
		&totalQuantity, &issuedQuantity, &categories, &status, &version,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		if isLockTimeout(err) {
			return nil, infra.WrapRepoErr("timed out waiting for coupon row lock", err, infra.KindLockTimeout)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon definition", err)
	}

	discount, err := coupon.NewDiscountPolicy(
		coupon.DiscountKind(discountKind), discountValue, pgconv.Int64PtrFromPgtype(maxDiscountCents))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rebuild discount policy", err)
	}

	expiry, err := coupon.NewExpiryPolicy(
		coupon.ExpiryKind(expiryKind), pgconv.TimePtrFromPgtype(expiresAt), int(expiryDays))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rebuild expiry policy", err)
	}

	return coupon.ReconstructDefinition(
		id, storeID, coupon.Code(code), name,
		discount, pgconv.Int64PtrFromPgtype(minOrderCents), expiry,
		pgconv.TimePtrFromPgtype(issueStartTime),
		totalQuantity, issuedQuantity, categories,
		coupon.Status(status), version,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func categoriesOrEmpty(cats []string) []string {
	if cats == nil {
		return []string{}
	}
	return cats
}
