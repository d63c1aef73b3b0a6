package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type DefineCouponParams struct {
	Code             string
	Name             string
	DiscountKind     string
	DiscountValue    int64
	MaxDiscountCents *int64
	MinOrderCents    *int64
	ExpiryKind       string
	ExpiresAt        *time.Time
	ExpiryDays       int
	IssueStartTime   *time.Time
	TotalQuantity    int32
	Categories       []string
}

type UpdateCouponParams struct {
	Name             string
	DiscountKind     string
	DiscountValue    int64
	MaxDiscountCents *int64
	MinOrderCents    *int64
	ExpiryKind       string
	ExpiresAt        *time.Time
	ExpiryDays       int
	IssueStartTime   *time.Time
	Categories       []string
	// Version is the edit's optimistic concurrency token; a stale value
	// surfaces as ErrEditConflict.
	Version int64
}

type CouponCommands interface {
	Define(ctx context.Context, storeID uuid.UUID, p DefineCouponParams) (*queries.CouponView, error)
	Update(ctx context.Context, storeID, couponID uuid.UUID, p UpdateCouponParams) (*queries.CouponView, error)
	SetStatus(ctx context.Context, storeID, couponID uuid.UUID, status string, version int64) error
	Delete(ctx context.Context, storeID, couponID uuid.UUID) error
}

type couponUseCaseImpl struct {
	uow           shared.UnitOfWork
	couponQueries queries.CouponQueries
	cache         queries.IssuableListCache
	clock         clock.Clock
}

func NewCouponCommands(
	uow shared.UnitOfWork,
	couponQueries queries.CouponQueries,
	cache queries.IssuableListCache,
	clk clock.Clock,
) CouponCommands {
	return &couponUseCaseImpl{
		uow:           uow,
		couponQueries: couponQueries,
		cache:         cache,
		clock:         clk,
	}
}

func (c *couponUseCaseImpl) Define(ctx context.Context, storeID uuid.UUID, p DefineCouponParams) (*queries.CouponView, error) {
	discount, expiry, err := buildPolicies(p.DiscountKind, p.DiscountValue, p.MaxDiscountCents, p.ExpiryKind, p.ExpiresAt, p.ExpiryDays)
	if err != nil {
		return nil, err
	}

	def, err := coupon.NewDefinition(
		storeID,
		p.Code,
		p.Name,
		discount,
		p.MinOrderCents,
		expiry,
		p.IssueStartTime,
		p.TotalQuantity,
		p.Categories,
		c.clock.Now(),
	)
	if err != nil {
		return nil, markDomainErr(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Insert(ctx, def)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateCode
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.invalidateListings(ctx, storeID)
	return c.couponQueries.GetByID(ctx, def.ID())
}

func (c *couponUseCaseImpl) Update(ctx context.Context, storeID, couponID uuid.UUID, p UpdateCouponParams) (*queries.CouponView, error) {
	discount, expiry, err := buildPolicies(p.DiscountKind, p.DiscountValue, p.MaxDiscountCents, p.ExpiryKind, p.ExpiresAt, p.ExpiryDays)
	if err != nil {
		return nil, err
	}

	if err := coupon.ValidateEditableFields(p.Name, p.MinOrderCents); err != nil {
		return nil, markDomainErr(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := c.ownedCoupon(ctx, tx, storeID, couponID)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		issueStart := p.IssueStartTime
		if issueStart != nil && !issueStart.After(now) {
			issueStart = nil
		}
		if err := expiry.Validate(issueStart, now); err != nil {
			return ErrInvalidExpiryPolicy
		}

		updated := coupon.ReconstructDefinition(
			current.ID(), current.StoreID(), current.Code(),
			strings.TrimSpace(p.Name), discount, p.MinOrderCents, expiry, issueStart,
			current.TotalQuantity(), current.IssuedQuantity(),
			p.Categories, current.Status(),
			p.Version,
			current.CreatedAt(), now,
		)
		return tx.Coupons().Update(ctx, updated)
	})
	if err != nil {
		return nil, c.mapEditErr(err)
	}

	c.invalidateListings(ctx, storeID)
	return c.couponQueries.GetByID(ctx, couponID)
}

func (c *couponUseCaseImpl) SetStatus(ctx context.Context, storeID, couponID uuid.UUID, status string, version int64) error {
	next := coupon.Status(status)
	if !next.IsValid() {
		return ErrDomainValidation
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := c.ownedCoupon(ctx, tx, storeID, couponID); err != nil {
			return err
		}
		return tx.Coupons().UpdateStatus(ctx, couponID, next, version)
	})
	if err != nil {
		return c.mapEditErr(err)
	}

	c.invalidateListings(ctx, storeID)
	return nil
}

func (c *couponUseCaseImpl) Delete(ctx context.Context, storeID, couponID uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Lock the row so a claim in flight cannot slip an instance in
		// between the guard check and the delete.
		current, err := tx.Coupons().FindByIDForUpdate(ctx, couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if current.StoreID() != storeID {
			return ErrStoreMismatch
		}
		if !current.CanDelete() {
			return ErrHasIssuedCopies
		}
		return tx.Coupons().Delete(ctx, couponID)
	})
	if err != nil {
		return c.mapEditErr(err)
	}

	c.invalidateListings(ctx, storeID)
	return nil
}

func (c *couponUseCaseImpl) ownedCoupon(ctx context.Context, tx shared.Tx, storeID, couponID uuid.UUID) (*coupon.Definition, error) {
	current, err := tx.Coupons().FindByID(ctx, couponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if current.StoreID() != storeID {
		return nil, ErrStoreMismatch
	}
	return current, nil
}

func (c *couponUseCaseImpl) mapEditErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCouponNotFound),
		errors.Is(err, ErrStoreMismatch),
		errors.Is(err, ErrHasIssuedCopies),
		errors.Is(err, ErrInvalidExpiryPolicy),
		errors.Is(err, ErrDomainValidation):
		return err
	case infra.IsKind(err, infra.KindVersionConflict):
		return ErrEditConflict
	case infra.IsKind(err, infra.KindNotFound):
		return ErrCouponNotFound
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}

func (c *couponUseCaseImpl) invalidateListings(ctx context.Context, storeID uuid.UUID) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, storeID)
	}
}

func buildPolicies(
	discountKind string, discountValue int64, maxDiscountCents *int64,
	expiryKind string, expiresAt *time.Time, expiryDays int,
) (coupon.DiscountPolicy, coupon.ExpiryPolicy, error) {
	discount, err := coupon.NewDiscountPolicy(coupon.DiscountKind(discountKind), discountValue, maxDiscountCents)
	if err != nil {
		return coupon.DiscountPolicy{}, coupon.ExpiryPolicy{}, errs.Mark(err, ErrDomainValidation)
	}

	expiry, err := coupon.NewExpiryPolicy(coupon.ExpiryKind(expiryKind), expiresAt, expiryDays)
	if err != nil {
		return coupon.DiscountPolicy{}, coupon.ExpiryPolicy{}, ErrInvalidExpiryPolicy
	}
	return discount, expiry, nil
}

func markDomainErr(err error) error {
	if errors.Is(err, coupon.ErrInvalidExpiryPolicy) {
		return ErrInvalidExpiryPolicy
	}
	return errs.Mark(err, ErrDomainValidation)
}
