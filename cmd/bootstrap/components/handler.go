package components

import (
	"coupon-engine/internal/handler"
	"coupon-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCouponHandler,
		api.NewClaimHandler,
	),
	fx.Invoke(handler.NewRouter),
)
