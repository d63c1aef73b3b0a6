package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("coupon name must not be empty")
	ErrInvalidQuantity  = errors.New("total quantity must be positive")
	ErrInvalidMinOrder  = errors.New("minimum order amount must be positive")
	ErrInvalidStatus    = errors.New("invalid coupon status")
	ErrNotIssuable      = errors.New("coupon is not issuable")
	ErrNotYetOpen       = errors.New("coupon issuance window has not opened")
	ErrSoldOut          = errors.New("coupon is sold out")
	ErrHasIssuedCopies  = errors.New("coupon has issued copies")
	ErrQuantityExceeded = errors.New("issued quantity would exceed total quantity")
)

// Definition is a store-owned coupon offer with a finite quantity.
// issuedQuantity may only grow through RecordIssuance inside the issuance
// coordinator's critical section.
type Definition struct {
	id               uuid.UUID
	storeID          uuid.UUID
	code             Code
	name             string
	discount         DiscountPolicy
	minOrderCents    *int64
	expiry           ExpiryPolicy
	issueStartTime   *time.Time
	totalQuantity    int32
	issuedQuantity   int32
	categories       []string
	status           Status
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// ValidateEditableFields checks the fields shared by creation and update:
// name and minimum order amount.
func ValidateEditableFields(name string, minOrderCents *int64) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if minOrderCents != nil && *minOrderCents <= 0 {
		return ErrInvalidMinOrder
	}
	return nil
}

func NewDefinition(
	storeID uuid.UUID,
	code string,
	name string,
	discount DiscountPolicy,
	minOrderCents *int64,
	expiry ExpiryPolicy,
	issueStartTime *time.Time,
	totalQuantity int32,
	categories []string,
	now time.Time,
) (*Definition, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if err := ValidateEditableFields(name, minOrderCents); err != nil {
		return nil, err
	}
	if totalQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	// A start time at or before "now" is normalized away so a coupon meant
	// to be immediately issuable never hides behind read/write clock skew.
	if issueStartTime != nil && !issueStartTime.After(now) {
		issueStartTime = nil
	}

	if err := expiry.Validate(issueStartTime, now); err != nil {
		return nil, err
	}

	return &Definition{
		id:             uuid.New(),
		storeID:        storeID,
		code:           couponCode,
		name:           strings.TrimSpace(name),
		discount:       discount,
		minOrderCents:  minOrderCents,
		expiry:         expiry,
		issueStartTime: issueStartTime,
		totalQuantity:  totalQuantity,
		issuedQuantity: 0,
		categories:     categories,
		status:         StatusActive,
		version:        1,
	}, nil
}

func ReconstructDefinition(
	id, storeID uuid.UUID,
	code Code,
	name string,
	discount DiscountPolicy,
	minOrderCents *int64,
	expiry ExpiryPolicy,
	issueStartTime *time.Time,
	totalQuantity, issuedQuantity int32,
	categories []string,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Definition {
	return &Definition{
		id:             id,
		storeID:        storeID,
		code:           code,
		name:           name,
		discount:       discount,
		minOrderCents:  minOrderCents,
		expiry:         expiry,
		issueStartTime: issueStartTime,
		totalQuantity:  totalQuantity,
		issuedQuantity: issuedQuantity,
		categories:     categories,
		status:         status,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ValidateClaimAt checks the definition-side claim preconditions: status and
// issuance window. Stock is checked separately via ValidateStock, after the
// per-customer duplicate guard, so a customer who already holds a copy of a
// sold-out coupon still hears AlreadyIssued rather than SoldOut. Callers must
// hold the per-coupon lock and work from freshly read state for the results
// to be trustworthy.
func (d *Definition) ValidateClaimAt(now time.Time) error {
	if d.status != StatusActive {
		return ErrNotIssuable
	}
	if d.issueStartTime != nil && d.issueStartTime.After(now) {
		return ErrNotYetOpen
	}
	return nil
}

// ValidateStock reports whether any quantity remains to issue.
func (d *Definition) ValidateStock() error {
	if d.issuedQuantity >= d.totalQuantity {
		return ErrSoldOut
	}
	return nil
}

// RecordIssuance consumes one unit of remaining quantity.
func (d *Definition) RecordIssuance() error {
	if d.issuedQuantity >= d.totalQuantity {
		return ErrQuantityExceeded
	}
	d.issuedQuantity++
	return nil
}

func (d *Definition) ChangeStatus(s Status) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	d.status = s
	return nil
}

func (d *Definition) CanDelete() bool {
	return d.issuedQuantity == 0
}

func (d *Definition) Remaining() int32 {
	return d.totalQuantity - d.issuedQuantity
}

func (d *Definition) IsOpenAt(now time.Time) bool {
	return d.issueStartTime == nil || !d.issueStartTime.After(now)
}

func (d *Definition) ID() uuid.UUID              { return d.id }
func (d *Definition) StoreID() uuid.UUID         { return d.storeID }
func (d *Definition) Code() Code                 { return d.code }
func (d *Definition) Name() string               { return d.name }
func (d *Definition) Discount() DiscountPolicy   { return d.discount }
func (d *Definition) MinOrderCents() *int64      { return d.minOrderCents }
func (d *Definition) Expiry() ExpiryPolicy       { return d.expiry }
func (d *Definition) IssueStartTime() *time.Time { return d.issueStartTime }
func (d *Definition) TotalQuantity() int32       { return d.totalQuantity }
func (d *Definition) IssuedQuantity() int32      { return d.issuedQuantity }
func (d *Definition) Categories() []string       { return d.categories }
func (d *Definition) Status() Status             { return d.status }
func (d *Definition) Version() int64             { return d.version }
func (d *Definition) CreatedAt() time.Time       { return d.createdAt }
func (d *Definition) UpdatedAt() time.Time       { return d.updatedAt }
