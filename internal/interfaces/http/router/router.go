// Package router wires middleware and handlers into the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/renthub/backend/internal/infrastructure/auth"
	"github.com/renthub/backend/internal/infrastructure/config"
	"github.com/renthub/backend/internal/interfaces/http/handler"
	"github.com/renthub/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService

	System       *handler.SystemHandler
	Transactions *handler.TransactionHandler
	Memberships  *handler.MembershipHandler
	Packages     *handler.PackageHandler
	Listings     *handler.ListingHandler
}

// New builds the gin engine with all middleware and routes registered
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(deps.Config.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	}
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		middleware.CORSWithConfig(corsCfg),
	)

	api := engine.Group("/api/v1")
	api.GET("/health", deps.System.Health)

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware(deps.JWTService))

	// Payment-claim ledger
	transactions := authed.Group("/transactions")
	{
		transactions.POST("", deps.Transactions.Submit)
		transactions.GET("", deps.Transactions.List)
		transactions.GET("/:id", deps.Transactions.Get)
		transactions.POST("/:id/approve", middleware.RequireOperator(), deps.Transactions.Approve)
		transactions.POST("/:id/reject", middleware.RequireOperator(), deps.Transactions.Reject)
	}

	// Caller's membership and quota
	memberships := authed.Group("/memberships")
	{
		memberships.GET("/me", deps.Memberships.Me)
		memberships.GET("/me/quota", deps.Memberships.Quota)
		memberships.GET("/:user_id", middleware.RequireOperator(), deps.Memberships.Get)
	}

	// Catalog: reads for everyone, writes for operators
	packages := authed.Group("/packages")
	{
		packages.GET("", deps.Packages.List)
		packages.GET("/:id", deps.Packages.Get)
		packages.POST("", middleware.RequireOperator(), deps.Packages.Create)
		packages.PUT("/:id", middleware.RequireOperator(), deps.Packages.Update)
		packages.DELETE("/:id", middleware.RequireOperator(), deps.Packages.Deactivate)
	}

	// Rental listings
	listings := authed.Group("/listings")
	{
		listings.POST("", deps.Listings.Create)
		listings.GET("", deps.Listings.List)
		listings.GET("/:id", deps.Listings.Get)
		listings.POST("/:id/archive", deps.Listings.Archive)
	}

	return engine
}
