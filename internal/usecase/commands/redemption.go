package commands

import (
	"context"

	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// RedemptionCommands is the order subsystem's entry point: when a coupon is
// applied at checkout, the instance is marked used exactly once. Treating a
// retried AlreadyUsed as a no-op is the caller's business, not this layer's.
type RedemptionCommands interface {
	MarkUsed(ctx context.Context, instanceID uuid.UUID) error
}

type redemptionUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewRedemptionCommands(uow shared.UnitOfWork) RedemptionCommands {
	return &redemptionUseCaseImpl{uow: uow}
}

func (u *redemptionUseCaseImpl) MarkUsed(ctx context.Context, instanceID uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.IssuedCoupons().MarkUsed(ctx, instanceID)
	})
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return ErrInstanceNotFound
	case infra.IsKind(err, infra.KindConflict):
		return ErrAlreadyUsed
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}
