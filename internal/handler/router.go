package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"coupon-engine/internal/handler/api"
	"coupon-engine/internal/handler/middleware"
	"coupon-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, couponHandler *api.CouponHandler, claimHandler *api.ClaimHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, couponHandler, claimHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, couponHandler *api.CouponHandler, claimHandler *api.ClaimHandler) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		coupons := apiGroup.Group("/coupons")
		{
			addRoutes(coupons, []route{
				{Method: http.MethodGet, Path: "", Handler: couponHandler.ListByStore},
				{Method: http.MethodGet, Path: "/issuable", Handler: couponHandler.ListIssuable},
				{Method: http.MethodGet, Path: "/:id", Handler: couponHandler.Get},
			})

			storeRequired := coupons.Group("")
			storeRequired.Use(middleware.RequireStore())
			addRoutes(storeRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: couponHandler.Define},
				{Method: http.MethodPut, Path: "/:id", Handler: couponHandler.Update},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: couponHandler.SetStatus},
				{Method: http.MethodDelete, Path: "/:id", Handler: couponHandler.Delete},
			})
		}

		claims := apiGroup.Group("/claims")
		claims.Use(middleware.RequireCustomer())
		{
			addRoutes(claims, []route{
				{Method: http.MethodPost, Path: "/:code", Handler: claimHandler.Claim},
			})
		}

		my := apiGroup.Group("/my")
		my.Use(middleware.RequireCustomer())
		{
			addRoutes(my, []route{
				{Method: http.MethodGet, Path: "/coupons", Handler: claimHandler.ListMyCoupons},
				{Method: http.MethodGet, Path: "/coupons/usable", Handler: claimHandler.ListMyUsableCoupons},
			})
		}

		instances := apiGroup.Group("/coupon-instances")
		{
			addRoutes(instances, []route{
				{Method: http.MethodPost, Path: "/:id/redeem", Handler: claimHandler.Redeem},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
