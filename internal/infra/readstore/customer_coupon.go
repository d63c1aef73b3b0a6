package readstore

import (
	"context"
	"time"

	"coupon-engine/internal/infra"
	"coupon-engine/internal/infra/repository"
	"coupon-engine/internal/pkg/pgconv"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerCouponViewQuery = `
	SELECT
		cc.id, cc.coupon_id, cd.code, cd.name, cd.store_id,
		cd.discount_kind, cd.discount_value,
		cc.customer_id, cc.issued_at, cc.expires_at, cc.status
	FROM customer_coupons cc
	JOIN coupon_definitions cd ON cd.id = cc.coupon_id`

type CustomerCouponReadStore struct {
	db repository.DBTX
}

func NewCustomerCouponReadStore(db repository.DBTX) queries.CustomerCouponViewRepo {
	return &CustomerCouponReadStore{db: db}
}

func (s *CustomerCouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CustomerCouponView, error) {
	row := s.db.QueryRow(ctx, customerCouponViewQuery+` WHERE cc.id = $1`, id)
	return scanCustomerCouponView(row)
}

func (s *CustomerCouponReadStore) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*queries.CustomerCouponView, error) {
	rows, err := s.db.Query(ctx,
		customerCouponViewQuery+` WHERE cc.customer_id = $1 ORDER BY cc.issued_at DESC`,
		customerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list customer coupons", err)
	}
	defer rows.Close()

	return collectCustomerCouponViews(rows)
}

func (s *CustomerCouponReadStore) FindUsableInStore(ctx context.Context, customerID, storeID uuid.UUID, now time.Time) ([]*queries.CustomerCouponView, error) {
	rows, err := s.db.Query(ctx,
		customerCouponViewQuery+`
		WHERE cc.customer_id = $1
		  AND cd.store_id = $2
		  AND cc.status = 'unused'
		  AND cc.expires_at > $3
		ORDER BY cc.expires_at ASC`,
		customerID, storeID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list usable customer coupons", err)
	}
	defer rows.Close()

	return collectCustomerCouponViews(rows)
}

func scanCustomerCouponView(row rowScanner) (*queries.CustomerCouponView, error) {
	var (
		v         queries.CustomerCouponView
		issuedAt  pgtype.Timestamptz
		expiresAt pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.CouponID, &v.CouponCode, &v.CouponName, &v.StoreID,
		&v.DiscountKind, &v.DiscountValue,
		&v.CustomerID, &issuedAt, &expiresAt, &v.Status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("issued coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan customer coupon view", err)
	}

	v.IssuedAt = pgconv.TimeFromPgtype(issuedAt)
	v.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &v, nil
}

func collectCustomerCouponViews(rows pgxRows) ([]*queries.CustomerCouponView, error) {
	views := make([]*queries.CustomerCouponView, 0)
	for rows.Next() {
		v, err := scanCustomerCouponView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate customer coupon views", err)
	}
	return views, nil
}
