package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type CouponView struct {
	ID               uuid.UUID  `json:"id"`
	StoreID          uuid.UUID  `json:"store_id"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	DiscountKind     string     `json:"discount_kind"`
	DiscountValue    int64      `json:"discount_value"`
	MaxDiscountCents *int64     `json:"max_discount_cents,omitempty"`
	MinOrderCents    *int64     `json:"min_order_cents,omitempty"`
	ExpiryKind       string     `json:"expiry_kind"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ExpiryDays       int32      `json:"expiry_days,omitempty"`
	IssueStartTime   *time.Time `json:"issue_start_time,omitempty"`
	TotalQuantity    int32      `json:"total_quantity"`
	IssuedQuantity   int32      `json:"issued_quantity"`
	Remaining        int32      `json:"remaining"`
	Categories       []string   `json:"categories"`
	Status           string     `json:"status"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type CustomerCouponView struct {
	ID            uuid.UUID `json:"id"`
	CouponID      uuid.UUID `json:"coupon_id"`
	CouponCode    string    `json:"coupon_code"`
	CouponName    string    `json:"coupon_name"`
	StoreID       uuid.UUID `json:"store_id"`
	DiscountKind  string    `json:"discount_kind"`
	DiscountValue int64     `json:"discount_value"`
	CustomerID    uuid.UUID `json:"customer_id"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Status        string    `json:"status"`
}
