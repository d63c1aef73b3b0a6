package components

import (
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/pkg/keyedmutex"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewClaimLocks,
)

// One keyed mutex instance per process serializes claims per coupon.
func NewClaimLocks(cfg config.Config) *keyedmutex.KeyedMutex {
	return keyedmutex.New(cfg.Issuance.LockWaitTimeout)
}

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCouponQueries,
		queries.NewCustomerCouponQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCouponCommands,
		commands.NewIssuanceCommands,
		commands.NewRedemptionCommands,
	),
)
