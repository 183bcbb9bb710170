package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/api/handler"
	"github.com/ledgerbooks/backend/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	authRequired gin.HandlerFunc,
	userHandler *handler.UserHandler,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
	reportHandler *handler.ReportHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Registration and authentication
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
		}

		// Everything below requires a valid bearer token
		authed := v1.Group("")
		authed.Use(authRequired)
		{
			authed.GET("/users/me", userHandler.Me)
			authed.GET("/users/:id", userHandler.GetByID)

			// Chart of accounts operations
			accounts := authed.Group("/accounts")
			{
				accounts.POST("", accountHandler.Create)
				accounts.GET("", accountHandler.List)
				accounts.GET("/:id", accountHandler.GetByID)
				accounts.PUT("/:id", accountHandler.Update)
				accounts.DELETE("/:id", accountHandler.Delete)
				accounts.GET("/:id/balance", accountHandler.GetBalance)
			}

			// Transaction operations
			transactions := authed.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.GetByID)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// Reporting read model
			reports := authed.Group("/reports")
			{
				reports.GET("/accounts/:id/activity", reportHandler.GetAccountActivity)
			}
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
