package commands

import (
	"context"
	"errors"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/domain/issuedcoupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/pkg/keyedmutex"
	"coupon-engine/internal/pkg/metrics"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type IssuanceCommands interface {
	// Claim hands the customer one instance of the coupon identified by
	// code, or reports exactly why it could not.
	Claim(ctx context.Context, customerID uuid.UUID, couponCode string) (*queries.CustomerCouponView, error)
}

type issuanceUseCaseImpl struct {
	uow             shared.UnitOfWork
	locks           *keyedmutex.KeyedMutex
	instanceQueries queries.CustomerCouponQueries
	clock           clock.Clock
}

func NewIssuanceCommands(
	uow shared.UnitOfWork,
	locks *keyedmutex.KeyedMutex,
	instanceQueries queries.CustomerCouponQueries,
	clk clock.Clock,
) IssuanceCommands {
	return &issuanceUseCaseImpl{
		uow:             uow,
		locks:           locks,
		instanceQueries: instanceQueries,
		clock:           clk,
	}
}

// Claim is the issuance coordinator. The whole claim runs under a per-coupon
// lock as one atomic unit: re-read fresh state, validate status and window,
// duplicate-check, stock-check, resolve expiry, increment the counter, insert
// the instance. Waiters on the same coupon block until commit or abort and
// then re-validate from fresh state; claims on different coupons never
// contend.
func (u *issuanceUseCaseImpl) Claim(ctx context.Context, customerID uuid.UUID, couponCode string) (*queries.CustomerCouponView, error) {
	started := u.clock.Now()

	code, err := coupon.NewCode(couponCode)
	if err != nil {
		return nil, ErrCouponNotFound
	}

	view, err := u.claimLocked(ctx, customerID, code)
	metrics.ObserveClaim(claimOutcome(err), u.clock.Now().Sub(started).Seconds())
	return view, err
}

// lockKeyNS maps coupon codes onto stable lock keys. Codes are unique and
// immutable, which spares a pre-read of the definition just to learn its id.
var lockKeyNS = uuid.MustParse("9f2c1c1e-5c43-4f2a-9d55-0e54c1e0b1aa")

func (u *issuanceUseCaseImpl) claimLocked(ctx context.Context, customerID uuid.UUID, code coupon.Code) (*queries.CustomerCouponView, error) {
	release, err := u.locks.Lock(ctx, uuid.NewSHA1(lockKeyNS, []byte(code.String())))
	if err != nil {
		if errors.Is(err, keyedmutex.ErrWaitTimeout) {
			return nil, ErrTemporarilyUnavailable
		}
		return nil, errs.Mark(err, ErrTemporarilyUnavailable)
	}
	defer release()

	var instanceID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		def, err := tx.Coupons().FindByCodeForUpdate(ctx, code.String())
		if err != nil {
			switch {
			case infra.IsKind(err, infra.KindNotFound):
				return ErrCouponNotFound
			case infra.IsKind(err, infra.KindLockTimeout):
				return ErrTemporarilyUnavailable
			default:
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		now := u.clock.Now()
		if err := def.ValidateClaimAt(now); err != nil {
			return mapClaimErr(err)
		}

		// The duplicate guard is only trustworthy here, inside the locked
		// section; outside it, two racing claims could both see "absent".
		// It runs before the stock check so a repeat claimant of a sold-out
		// coupon hears AlreadyIssued, not SoldOut.
		exists, err := tx.IssuedCoupons().Exists(ctx, customerID, def.ID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if exists {
			return ErrAlreadyIssued
		}

		if err := def.ValidateStock(); err != nil {
			return mapClaimErr(err)
		}

		expiresAt := def.Expiry().ResolveAt(now)

		if err := tx.Coupons().IncrementIssued(ctx, def.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		inst := issuedcoupon.NewInstance(def.ID(), customerID, now, expiresAt)
		if err := tx.IssuedCoupons().Insert(ctx, inst); err != nil {
			// Unique (customer, coupon) backstop for multi-process races.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrAlreadyIssued
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		instanceID = inst.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Committed claims are final: a canceled caller context no longer
	// matters, the read below only shapes the response.
	return u.instanceQueries.GetByID(context.WithoutCancel(ctx), instanceID)
}

func mapClaimErr(err error) error {
	switch {
	case errors.Is(err, coupon.ErrNotIssuable):
		return ErrNotIssuable
	case errors.Is(err, coupon.ErrNotYetOpen):
		return ErrNotYetOpen
	case errors.Is(err, coupon.ErrSoldOut):
		return ErrSoldOut
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}

func claimOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCouponNotFound):
		return "not_found"
	case errors.Is(err, ErrNotIssuable):
		return "not_issuable"
	case errors.Is(err, ErrNotYetOpen):
		return "not_yet_open"
	case errors.Is(err, ErrSoldOut):
		return "sold_out"
	case errors.Is(err, ErrAlreadyIssued):
		return "already_issued"
	case errors.Is(err, ErrTemporarilyUnavailable):
		return "temporarily_unavailable"
	default:
		return "error"
	}
}
