package issuedcoupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyUsed = errors.New("coupon instance already used")
)

type Status string

const (
	StatusUnused Status = "unused"
	StatusUsed   Status = "used"
)

func (s Status) String() string {
	return string(s)
}

// Instance is one customer's claimed copy of a coupon definition. The id
// doubles as the external-facing token. expiresAt is computed once at claim
// time and never recomputed; expired instances are hard-deleted by the
// cleanup sweeper rather than transitioned.
type Instance struct {
	id         uuid.UUID
	couponID   uuid.UUID
	customerID uuid.UUID
	issuedAt   time.Time
	expiresAt  time.Time
	status     Status
}

func NewInstance(couponID, customerID uuid.UUID, issuedAt, expiresAt time.Time) *Instance {
	return &Instance{
		id:         uuid.New(),
		couponID:   couponID,
		customerID: customerID,
		issuedAt:   issuedAt,
		expiresAt:  expiresAt,
		status:     StatusUnused,
	}
}

func ReconstructInstance(
	id, couponID, customerID uuid.UUID,
	issuedAt, expiresAt time.Time,
	status Status,
) *Instance {
	return &Instance{
		id:         id,
		couponID:   couponID,
		customerID: customerID,
		issuedAt:   issuedAt,
		expiresAt:  expiresAt,
		status:     status,
	}
}

// MarkUsed transitions unused → used, exactly once.
func (i *Instance) MarkUsed() error {
	if i.status != StatusUnused {
		return ErrAlreadyUsed
	}
	i.status = StatusUsed
	return nil
}

func (i *Instance) IsUsableAt(now time.Time) bool {
	return i.status == StatusUnused && i.expiresAt.After(now)
}

func (i *Instance) HasExpired(now time.Time) bool {
	return now.After(i.expiresAt)
}

func (i *Instance) ID() uuid.UUID         { return i.id }
func (i *Instance) CouponID() uuid.UUID   { return i.couponID }
func (i *Instance) CustomerID() uuid.UUID { return i.customerID }
func (i *Instance) IssuedAt() time.Time   { return i.issuedAt }
func (i *Instance) ExpiresAt() time.Time  { return i.expiresAt }
func (i *Instance) Status() Status        { return i.status }
