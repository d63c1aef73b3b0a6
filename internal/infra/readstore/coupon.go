package readstore

import (
	"context"

	"coupon-engine/internal/infra"
	"coupon-engine/internal/infra/repository"
	"coupon-engine/internal/pkg/pgconv"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const couponViewColumns = `
	id, store_id, code, name,
	discount_kind, discount_value, max_discount_cents, min_order_cents,
	expiry_kind, expires_at, expiry_days, issue_start_time,
	total_quantity, issued_quantity, categories, status, version,
	created_at, updated_at`

type CouponReadStore struct {
	db repository.DBTX
}

func NewCouponReadStore(db repository.DBTX) queries.CouponViewRepo {
	return &CouponReadStore{db: db}
}

func (s *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	row := s.db.QueryRow(ctx,
		`SELECT`+couponViewColumns+` FROM coupon_definitions WHERE id = $1`, id)
	return scanCouponView(row)
}

func (s *CouponReadStore) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	row := s.db.QueryRow(ctx,
		`SELECT`+couponViewColumns+` FROM coupon_definitions WHERE code = $1`, code)
	return scanCouponView(row)
}

func (s *CouponReadStore) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*queries.CouponView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT`+couponViewColumns+` FROM coupon_definitions WHERE store_id = $1 ORDER BY created_at DESC`,
		storeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons by store", err)
	}
	defer rows.Close()

	return collectCouponViews(rows)
}

// FindIssuable lists definitions a customer could claim right now. The
// window check uses the database clock so listings and claims agree on
// "now" within one source of truth.
func (s *CouponReadStore) FindIssuable(ctx context.Context, storeID uuid.UUID) ([]*queries.CouponView, error) {
	query := `SELECT` + couponViewColumns + `
		FROM coupon_definitions
		WHERE status = 'active'
		  AND issued_quantity < total_quantity
		  AND (issue_start_time IS NULL OR issue_start_time <= now())`
	args := []any{}
	if storeID != uuid.Nil {
		query += ` AND store_id = $1`
		args = append(args, storeID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list issuable coupons", err)
	}
	defer rows.Close()

	return collectCouponViews(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCouponView(row rowScanner) (*queries.CouponView, error) {
	var (
		v                queries.CouponView
		maxDiscountCents pgtype.Int8
		minOrderCents    pgtype.Int8
		expiresAt        pgtype.Timestamptz
		issueStartTime   pgtype.Timestamptz
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.StoreID, &v.Code, &v.Name,
		&v.DiscountKind, &v.DiscountValue, &maxDiscountCents, &minOrderCents,
		&v.ExpiryKind, &expiresAt, &v.ExpiryDays, &issueStartTime,
		&v.TotalQuantity, &v.IssuedQuantity, &v.Categories, &v.Status, &v.Version,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon view", err)
	}

	v.MaxDiscountCents = pgconv.Int64PtrFromPgtype(maxDiscountCents)
	v.MinOrderCents = pgconv.Int64PtrFromPgtype(minOrderCents)
	v.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
	v.IssueStartTime = pgconv.TimePtrFromPgtype(issueStartTime)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	v.Remaining = v.TotalQuantity - v.IssuedQuantity
	return &v, nil
}

type pgxRows interface {
	rowScanner
	Next() bool
	Err() error
}

func collectCouponViews(rows pgxRows) ([]*queries.CouponView, error) {
	views := make([]*queries.CouponView, 0)
	for rows.Next() {
		v, err := scanCouponView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon views", err)
	}
	return views, nil
}
