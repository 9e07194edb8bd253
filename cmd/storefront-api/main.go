package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "github.com/heyireeh/storefront-api/docs"
	"github.com/heyireeh/storefront-api/internal/category"
	"github.com/heyireeh/storefront-api/internal/config"
	"github.com/heyireeh/storefront-api/internal/db"
	"github.com/heyireeh/storefront-api/internal/httpx"
	"github.com/heyireeh/storefront-api/internal/order"
	"github.com/heyireeh/storefront-api/internal/product"
	"github.com/heyireeh/storefront-api/internal/user"
)

type deps struct {
	cfg        config.Config
	log        zerolog.Logger
	users      user.Repository
	categories category.Repository
	products   product.Repository
	orders     order.Repository
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID())
	r.Use(httpx.Logger(d.log))
	r.Use(httpx.Recovery(d.log))
	r.Use(httpx.CORS(d.cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth", httpx.RateLimit(rate.Limit(5), 10))
	authGroup.POST("/register", registerHandler(d.users))
	authGroup.POST("/login", loginHandler(d.users, d.cfg))
	authGroup.POST("/seed", seedAdminHandler(d.users, d.cfg))

	authed := httpx.Auth(d.cfg.JWTSecret)
	admin := httpx.AdminOnly()

	r.GET("/categories", listCategoriesHandler(d.categories))
	r.POST("/categories", authed, admin, createCategoryHandler(d.categories))
	r.PUT("/categories/:id", authed, admin, updateCategoryHandler(d.categories))
	r.DELETE("/categories/:id", authed, admin, deleteCategoryHandler(d.categories))

	r.GET("/products", listProductsHandler(d.products))
	r.GET("/products/:id", getProductHandler(d.products))
	r.POST("/products", authed, admin, createProductHandler(d.products))
	r.PUT("/products/:id", authed, admin, updateProductHandler(d.products))
	r.DELETE("/products/:id", authed, admin, deleteProductHandler(d.products))

	r.POST("/orders", authed, createOrderHandler(d.orders))
	r.GET("/orders/myorders", authed, myOrdersHandler(d.orders))
	r.GET("/orders/:id", authed, getOrderHandler(d.orders))
	r.GET("/orders", authed, admin, listOrdersHandler(d.orders))
	r.PUT("/orders/:id/status", authed, admin, updateOrderStatusHandler(d.orders))

	return r
}

//	@title        Storefront API
//	@version      1.0
//	@description  Catalog, auth and order placement for the storefront.
//	@BasePath     /
//	@securityDefinitions.apikey BearerAuth
//	@in   header
//	@name Authorization
func main() {
	cfg := config.Load()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	r := newRouter(deps{
		cfg:        cfg,
		log:        log,
		users:      user.NewPGRepo(pool),
		categories: category.NewPGRepo(pool),
		products:   product.NewPGRepo(pool),
		orders:     order.NewPGRepo(pool),
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("storefront-api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
