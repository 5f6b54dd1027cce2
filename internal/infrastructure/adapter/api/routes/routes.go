package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	itemHandler *handler.ItemHandler,
	userHandler *handler.UserHandler,
) {
	// Transaction routes
	transactionRoutes := router.Group("/transactions")
	{
		transactionRoutes.POST("", transactionHandler.Create)
		transactionRoutes.GET("", transactionHandler.List)
		// Registered before /:id so "summary" is not captured as an ID
		transactionRoutes.GET("/summary", transactionHandler.Summary)
		transactionRoutes.GET("/:id", transactionHandler.Get)
		transactionRoutes.POST("/:id/return", transactionHandler.Return)
		transactionRoutes.POST("/:id/extend", transactionHandler.Extend)
		transactionRoutes.POST("/:id/transfer", transactionHandler.Transfer)
		transactionRoutes.PATCH("/:id/annotations", transactionHandler.Annotate)
		transactionRoutes.POST("/:id/override", transactionHandler.Override)
	}

	// Item catalog routes
	itemRoutes := router.Group("/items")
	{
		itemRoutes.POST("", itemHandler.Create)
		itemRoutes.GET("", itemHandler.List)
		itemRoutes.GET("/:barcode", itemHandler.Get)
		itemRoutes.GET("/:barcode/availability", itemHandler.Availability)
	}

	// Borrower routes
	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", userHandler.Register)
		userRoutes.GET("/pending", userHandler.ListPending)
		userRoutes.GET("/:id", userHandler.Get)
		userRoutes.POST("/:id/approve", userHandler.Approve)
		userRoutes.POST("/:id/decline", userHandler.Decline)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, corsOrigins []string) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(corsOrigins))
}
