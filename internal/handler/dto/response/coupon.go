package response

import (
	"time"

	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID               uuid.UUID  `json:"id"`
	StoreID          uuid.UUID  `json:"storeId"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	DiscountKind     string     `json:"discountKind"`
	DiscountValue    int64      `json:"discountValue"`
	MaxDiscountCents *int64     `json:"maxDiscountCents,omitempty"`
	MinOrderCents    *int64     `json:"minOrderCents,omitempty"`
	ExpiryKind       string     `json:"expiryKind"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	ExpiryDays       int32      `json:"expiryDays,omitempty"`
	IssueStartTime   *time.Time `json:"issueStartTime,omitempty"`
	TotalQuantity    int32      `json:"totalQuantity"`
	IssuedQuantity   int32      `json:"issuedQuantity"`
	Remaining        int32      `json:"remaining"`
	Categories       []string   `json:"categories"`
	Status           string     `json:"status"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:               v.ID,
		StoreID:          v.StoreID,
		Code:             v.Code,
		Name:             v.Name,
		DiscountKind:     v.DiscountKind,
		DiscountValue:    v.DiscountValue,
		MaxDiscountCents: v.MaxDiscountCents,
		MinOrderCents:    v.MinOrderCents,
		ExpiryKind:       v.ExpiryKind,
		ExpiresAt:        v.ExpiresAt,
		ExpiryDays:       v.ExpiryDays,
		IssueStartTime:   v.IssueStartTime,
		TotalQuantity:    v.TotalQuantity,
		IssuedQuantity:   v.IssuedQuantity,
		Remaining:        v.Remaining,
		Categories:       v.Categories,
		Status:           v.Status,
		Version:          v.Version,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func FromCouponViews(views []*queries.CouponView) []*CouponResponse {
	out := make([]*CouponResponse, len(views))
	for i, v := range views {
		out[i] = FromCouponView(v)
	}
	return out
}

type CustomerCouponResponse struct {
	ID            uuid.UUID `json:"id"`
	CouponID      uuid.UUID `json:"couponId"`
	CouponCode    string    `json:"couponCode"`
	CouponName    string    `json:"couponName"`
	StoreID       uuid.UUID `json:"storeId"`
	DiscountKind  string    `json:"discountKind"`
	DiscountValue int64     `json:"discountValue"`
	CustomerID    uuid.UUID `json:"customerId"`
	IssuedAt      time.Time `json:"issuedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Status        string    `json:"status"`
}

func FromCustomerCouponView(v *queries.CustomerCouponView) *CustomerCouponResponse {
	return &CustomerCouponResponse{
		ID:            v.ID,
		CouponID:      v.CouponID,
		CouponCode:    v.CouponCode,
		CouponName:    v.CouponName,
		StoreID:       v.StoreID,
		DiscountKind:  v.DiscountKind,
		DiscountValue: v.DiscountValue,
		CustomerID:    v.CustomerID,
		IssuedAt:      v.IssuedAt,
		ExpiresAt:     v.ExpiresAt,
		Status:        v.Status,
	}
}

func FromCustomerCouponViews(views []*queries.CustomerCouponView) []*CustomerCouponResponse {
	out := make([]*CustomerCouponResponse, len(views))
	for i, v := range views {
		out[i] = FromCustomerCouponView(v)
	}
	return out
}
