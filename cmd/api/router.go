package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/agrovia/agrovia/internal/auth"
	"github.com/agrovia/agrovia/internal/config"
	"github.com/agrovia/agrovia/internal/dashboard"
	"github.com/agrovia/agrovia/internal/events"
	"github.com/agrovia/agrovia/internal/httpx"
	"github.com/agrovia/agrovia/internal/order"
	"github.com/agrovia/agrovia/internal/product"
	"github.com/agrovia/agrovia/internal/user"
)

type deps struct {
	cfg      config.Config
	tokens   *auth.Tokens
	users    user.Repository
	products product.Repository
	orders   order.Repository
	stats    *dashboard.Aggregator
	pub      *events.Publisher
	// health reports storage reachability for the liveness probe; nil skips
	// the check.
	health func(ctx context.Context) error
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(
		httpx.RequestID(),
		httpx.Logger(),
		httpx.Recovery(d.cfg.IsProduction()),
		httpx.CORS(d.cfg.CORSOrigin),
		httpx.Metrics(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		if d.health != nil {
			if err := d.health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protect := auth.Protect(d.tokens, d.users)
	farmerOrAdmin := auth.RequireRoles(user.RoleFarmer, user.RoleAdmin)

	api := r.Group("/api")

	a := api.Group("/auth")
	a.POST("/register", registerHandler(d.users, d.tokens, d.cfg))
	a.POST("/login", loginHandler(d.users, d.tokens, d.cfg))
	a.POST("/logout", logoutHandler(d.cfg))
	a.GET("/me", protect, meHandler())

	p := api.Group("/products")
	p.GET("", listProductsHandler(d.products))
	p.GET("/myproducts", protect, farmerOrAdmin, myProductsHandler(d.products))
	p.GET("/:id", getProductHandler(d.products))
	p.POST("", protect, farmerOrAdmin, createProductHandler(d.products))
	p.PUT("/:id", protect, farmerOrAdmin, updateProductHandler(d.products))
	p.DELETE("/:id", protect, farmerOrAdmin, deleteProductHandler(d.products))

	o := api.Group("/orders")
	o.Use(protect)
	o.POST("", createOrderHandler(d.orders, d.products, d.pub))
	o.GET("/myorders", myOrdersHandler(d.orders))
	o.GET("/farmer", auth.RequireRoles(user.RoleFarmer), farmerOrdersHandler(d.orders))
	o.GET("/:id", getOrderHandler(d.orders))
	o.PUT("/:id/pay", payOrderHandler(d.orders, d.pub))
	o.PUT("/:id/status", auth.RequireRoles(user.RoleAdmin, user.RoleFarmer), orderStatusHandler(d.orders, d.pub))

	api.GET("/dashboard/stats", protect,
		auth.RequireRoles(user.RoleAdmin, user.RoleFarmer, user.RoleBuyer),
		dashboardStatsHandler(d.stats))

	return r
}
