package components

import (
	"log/slog"

	"coupon-engine/internal/infra/cache"
	"coupon-engine/internal/infra/readstore"
	"coupon-engine/internal/infra/repository"
	"coupon-engine/internal/infra/uow"
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		NewUnitOfWork,
		NewIssuableListCache,
		readstore.NewCouponReadStore,
		readstore.NewCustomerCouponReadStore,
	),
)

func NewDBTX(pool *pgxpool.Pool) repository.DBTX {
	return pool
}

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config) shared.UnitOfWork {
	return uow.NewPostgresUoW(pool, cfg.Issuance.LockWaitTimeout)
}

func NewIssuableListCache(client *redis.Client, cfg config.Config, logger *slog.Logger) queries.IssuableListCache {
	return cache.NewIssuableListCache(client, cfg.Redis.ListTTL, logger)
}
