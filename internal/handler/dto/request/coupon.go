package request

import (
	"time"

	"coupon-engine/internal/usecase/commands"
)

type DefineCouponRequest struct {
	Code             string     `json:"code" binding:"required"`
	Name             string     `json:"name" binding:"required"`
	DiscountKind     string     `json:"discount_kind" binding:"required,oneof=percentage fixed_amount"`
	DiscountValue    int64      `json:"discount_value" binding:"required"`
	MaxDiscountCents *int64     `json:"max_discount_cents,omitempty"`
	MinOrderCents    *int64     `json:"min_order_cents,omitempty"`
	ExpiryKind       string     `json:"expiry_kind" binding:"required,oneof=absolute relative"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ExpiryDays       int        `json:"expiry_days,omitempty"`
	IssueStartTime   *time.Time `json:"issue_start_time,omitempty"`
	TotalQuantity    int32      `json:"total_quantity" binding:"required"`
	Categories       []string   `json:"categories,omitempty"`
}

func (r DefineCouponRequest) ToParams() commands.DefineCouponParams {
	return commands.DefineCouponParams{
		Code:             r.Code,
		Name:             r.Name,
		DiscountKind:     r.DiscountKind,
		DiscountValue:    r.DiscountValue,
		MaxDiscountCents: r.MaxDiscountCents,
		MinOrderCents:    r.MinOrderCents,
		ExpiryKind:       r.ExpiryKind,
		ExpiresAt:        r.ExpiresAt,
		ExpiryDays:       r.ExpiryDays,
		IssueStartTime:   r.IssueStartTime,
		TotalQuantity:    r.TotalQuantity,
		Categories:       r.Categories,
	}
}

type UpdateCouponRequest struct {
	Name             string     `json:"name" binding:"required"`
	DiscountKind     string     `json:"discount_kind" binding:"required,oneof=percentage fixed_amount"`
	DiscountValue    int64      `json:"discount_value" binding:"required"`
	MaxDiscountCents *int64     `json:"max_discount_cents,omitempty"`
	MinOrderCents    *int64     `json:"min_order_cents,omitempty"`
	ExpiryKind       string     `json:"expiry_kind" binding:"required,oneof=absolute relative"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ExpiryDays       int        `json:"expiry_days,omitempty"`
	IssueStartTime   *time.Time `json:"issue_start_time,omitempty"`
	Categories       []string   `json:"categories,omitempty"`
	Version          int64      `json:"version" binding:"required"`
}

func (r UpdateCouponRequest) ToParams() commands.UpdateCouponParams {
	return commands.UpdateCouponParams{
		Name:             r.Name,
		DiscountKind:     r.DiscountKind,
		DiscountValue:    r.DiscountValue,
		MaxDiscountCents: r.MaxDiscountCents,
		MinOrderCents:    r.MinOrderCents,
		ExpiryKind:       r.ExpiryKind,
		ExpiresAt:        r.ExpiresAt,
		ExpiryDays:       r.ExpiryDays,
		IssueStartTime:   r.IssueStartTime,
		Categories:       r.Categories,
		Version:          r.Version,
	}
}

type SetCouponStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=active inactive recalled"`
	Version int64  `json:"version" binding:"required"`
}
