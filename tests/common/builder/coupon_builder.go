package builder

import (
	"time"

	"coupon-engine/internal/domain/coupon"
	reqdto "coupon-engine/internal/handler/dto/request"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

// CouponBuilder assembles valid coupon definitions for tests; mutate single
// fields to probe one validation at a time.
type CouponBuilder struct {
	storeID          uuid.UUID
	code             string
	name             string
	discountKind     string
	discountValue    int64
	maxDiscountCents *int64
	minOrderCents    *int64
	expiryKind       string
	expiresAt        *time.Time
	expiryDays       int
	issueStartTime   *time.Time
	totalQuantity    int32
	categories       []string
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		storeID:       uuid.New(),
		code:          "SUMMER2026",
		name:          "Summer Promo",
		discountKind:  "percentage",
		discountValue: 10,
		expiryKind:    "relative",
		expiryDays:    30,
		totalQuantity: 100,
		categories:    []string{"food"},
	}
}

func (b *CouponBuilder) WithStoreID(id uuid.UUID) *CouponBuilder {
	b.storeID = id
	return b
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.code = code
	return b
}

func (b *CouponBuilder) WithName(name string) *CouponBuilder {
	b.name = name
	return b
}

func (b *CouponBuilder) WithPercentageDiscount(percent int64, capCents *int64) *CouponBuilder {
	b.discountKind = "percentage"
	b.discountValue = percent
	b.maxDiscountCents = capCents
	return b
}

func (b *CouponBuilder) WithFixedDiscount(amountCents int64) *CouponBuilder {
	b.discountKind = "fixed_amount"
	b.discountValue = amountCents
	b.maxDiscountCents = nil
	return b
}

func (b *CouponBuilder) WithMinOrderCents(v *int64) *CouponBuilder {
	b.minOrderCents = v
	return b
}

func (b *CouponBuilder) WithAbsoluteExpiry(at time.Time) *CouponBuilder {
	b.expiryKind = "absolute"
	b.expiresAt = &at
	b.expiryDays = 0
	return b
}

func (b *CouponBuilder) WithRelativeExpiry(days int) *CouponBuilder {
	b.expiryKind = "relative"
	b.expiresAt = nil
	b.expiryDays = days
	return b
}

func (b *CouponBuilder) WithIssueStartTime(at *time.Time) *CouponBuilder {
	b.issueStartTime = at
	return b
}

func (b *CouponBuilder) WithTotalQuantity(q int32) *CouponBuilder {
	b.totalQuantity = q
	return b
}

func (b *CouponBuilder) WithCategories(cats []string) *CouponBuilder {
	b.categories = cats
	return b
}

func (b *CouponBuilder) StoreID() uuid.UUID {
	return b.storeID
}

func (b *CouponBuilder) BuildDomain(now time.Time) (*coupon.Definition, error) {
	discount, err := coupon.NewDiscountPolicy(coupon.DiscountKind(b.discountKind), b.discountValue, b.maxDiscountCents)
	if err != nil {
		return nil, err
	}
	expiry, err := coupon.NewExpiryPolicy(coupon.ExpiryKind(b.expiryKind), b.expiresAt, b.expiryDays)
	if err != nil {
		return nil, err
	}
	return coupon.NewDefinition(
		b.storeID, b.code, b.name, discount, b.minOrderCents,
		expiry, b.issueStartTime, b.totalQuantity, b.categories, now,
	)
}

func (b *CouponBuilder) BuildDefineRequestDTO() reqdto.DefineCouponRequest {
	return reqdto.DefineCouponRequest{
		Code:             b.code,
		Name:             b.name,
		DiscountKind:     b.discountKind,
		DiscountValue:    b.discountValue,
		MaxDiscountCents: b.maxDiscountCents,
		MinOrderCents:    b.minOrderCents,
		ExpiryKind:       b.expiryKind,
		ExpiresAt:        b.expiresAt,
		ExpiryDays:       b.expiryDays,
		IssueStartTime:   b.issueStartTime,
		TotalQuantity:    b.totalQuantity,
		Categories:       b.categories,
	}
}

func (b *CouponBuilder) BuildUpdateRequestDTO(version int64) reqdto.UpdateCouponRequest {
	return reqdto.UpdateCouponRequest{
		Name:             b.name,
		DiscountKind:     b.discountKind,
		DiscountValue:    b.discountValue,
		MaxDiscountCents: b.maxDiscountCents,
		MinOrderCents:    b.minOrderCents,
		ExpiryKind:       b.expiryKind,
		ExpiresAt:        b.expiresAt,
		ExpiryDays:       b.expiryDays,
		IssueStartTime:   b.issueStartTime,
		Categories:       b.categories,
		Version:          version,
	}
}

func (b *CouponBuilder) BuildViewQuery(now time.Time) *queries.CouponView {
	return &queries.CouponView{
		ID:               uuid.New(),
		StoreID:          b.storeID,
		Code:             b.code,
		Name:             b.name,
		DiscountKind:     b.discountKind,
		DiscountValue:    b.discountValue,
		MaxDiscountCents: b.maxDiscountCents,
		MinOrderCents:    b.minOrderCents,
		ExpiryKind:       b.expiryKind,
		ExpiresAt:        b.expiresAt,
		ExpiryDays:       int32(b.expiryDays),
		IssueStartTime:   b.issueStartTime,
		TotalQuantity:    b.totalQuantity,
		IssuedQuantity:   0,
		Remaining:        b.totalQuantity,
		Categories:       b.categories,
		Status:           "active",
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *CouponBuilder) BuildCustomerCouponView(customerID uuid.UUID, couponID uuid.UUID, now time.Time) *queries.CustomerCouponView {
	return &queries.CustomerCouponView{
		ID:            uuid.New(),
		CouponID:      couponID,
		CouponCode:    b.code,
		CouponName:    b.name,
		StoreID:       b.storeID,
		DiscountKind:  b.discountKind,
		DiscountValue: b.discountValue,
		CustomerID:    customerID,
		IssuedAt:      now,
		ExpiresAt:     now.Add(time.Duration(b.expiryDays) * 24 * time.Hour),
		Status:        "unused",
	}
}

func (b *CouponBuilder) BuildDefineParams() commands.DefineCouponParams {
	return commands.DefineCouponParams{
		Code:             b.code,
		Name:             b.name,
		DiscountKind:     b.discountKind,
		DiscountValue:    b.discountValue,
		MaxDiscountCents: b.maxDiscountCents,
		MinOrderCents:    b.minOrderCents,
		ExpiryKind:       b.expiryKind,
		ExpiresAt:        b.expiresAt,
		ExpiryDays:       b.expiryDays,
		IssueStartTime:   b.issueStartTime,
		TotalQuantity:    b.totalQuantity,
		Categories:       b.categories,
	}
}
