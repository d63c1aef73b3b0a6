package coupon

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount must be positive")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 1 and 100")
	ErrInvalidDiscountCap     = errors.New("discount cap must be positive")
	ErrInvalidExpiryPolicy    = errors.New("invalid expiry policy")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountPolicy struct {
	kind             DiscountKind
	value            int64
	maxDiscountCents *int64
}

func NewPercentageDiscount(percent int64, maxDiscountCents *int64) (DiscountPolicy, error) {
	if percent < 1 || percent > 100 {
		return DiscountPolicy{}, ErrInvalidDiscountPercent
	}
	if maxDiscountCents != nil && *maxDiscountCents <= 0 {
		return DiscountPolicy{}, ErrInvalidDiscountCap
	}
	return DiscountPolicy{kind: DiscountPercentage, value: percent, maxDiscountCents: maxDiscountCents}, nil
}

func NewFixedAmountDiscount(amountCents int64) (DiscountPolicy, error) {
	if amountCents <= 0 {
		return DiscountPolicy{}, ErrInvalidDiscountAmount
	}
	return DiscountPolicy{kind: DiscountFixedAmount, value: amountCents}, nil
}

func NewDiscountPolicy(kind DiscountKind, value int64, maxDiscountCents *int64) (DiscountPolicy, error) {
	switch kind {
	case DiscountPercentage:
		return NewPercentageDiscount(value, maxDiscountCents)
	case DiscountFixedAmount:
		return NewFixedAmountDiscount(value)
	default:
		return DiscountPolicy{}, errors.New("unknown discount kind")
	}
}

func (d DiscountPolicy) Kind() DiscountKind { return d.kind }
func (d DiscountPolicy) Value() int64       { return d.value }

func (d DiscountPolicy) MaxDiscountCents() *int64 {
	return d.maxDiscountCents
}

// ExpiryPolicy describes when a claimed instance expires: either a fixed
// calendar timestamp (absolute) or a duration in days from issuance
// (relative).
type ExpiryPolicy struct {
	kind       ExpiryKind
	expiresAt  *time.Time
	expiryDays int
}

func NewAbsoluteExpiry(expiresAt time.Time) ExpiryPolicy {
	return ExpiryPolicy{kind: ExpiryAbsolute, expiresAt: &expiresAt}
}

func NewRelativeExpiry(days int) ExpiryPolicy {
	return ExpiryPolicy{kind: ExpiryRelative, expiryDays: days}
}

func NewExpiryPolicy(kind ExpiryKind, expiresAt *time.Time, expiryDays int) (ExpiryPolicy, error) {
	switch kind {
	case ExpiryAbsolute:
		if expiresAt == nil {
			return ExpiryPolicy{}, ErrInvalidExpiryPolicy
		}
		return NewAbsoluteExpiry(*expiresAt), nil
	case ExpiryRelative:
		return NewRelativeExpiry(expiryDays), nil
	default:
		return ExpiryPolicy{}, ErrInvalidExpiryPolicy
	}
}

func (p ExpiryPolicy) Kind() ExpiryKind { return p.kind }
func (p ExpiryPolicy) ExpiryDays() int  { return p.expiryDays }

func (p ExpiryPolicy) ExpiresAt() *time.Time {
	return p.expiresAt
}

// ResolveAt turns the policy and an issuance instant into the concrete
// expiry timestamp. Pure and deterministic.
func (p ExpiryPolicy) ResolveAt(issuedAt time.Time) time.Time {
	if p.kind == ExpiryAbsolute {
		return *p.expiresAt
	}
	return issuedAt.Add(time.Duration(p.expiryDays) * 24 * time.Hour)
}

// Validate checks the policy against the coupon's activation window:
// an absolute date must lie strictly after the window opens, a relative
// duration must be positive and must not resolve into the past.
func (p ExpiryPolicy) Validate(issueStartTime *time.Time, now time.Time) error {
	from := now
	if issueStartTime != nil {
		from = *issueStartTime
	}

	switch p.kind {
	case ExpiryAbsolute:
		if p.expiresAt == nil || !p.expiresAt.After(from) {
			return ErrInvalidExpiryPolicy
		}
	case ExpiryRelative:
		if p.expiryDays <= 0 {
			return ErrInvalidExpiryPolicy
		}
		if p.ResolveAt(from).Before(now) {
			return ErrInvalidExpiryPolicy
		}
	default:
		return ErrInvalidExpiryPolicy
	}
	return nil
}
