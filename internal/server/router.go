// Package server assembles the HTTP router from the service layer.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"

	_ "fintrack/internal/docs" // Import swagger docs
)

// Services are the dependencies the handlers are built from.
type Services struct {
	Users        services.UserServicer
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Reports      services.ReportServicer
}

// Options configure the router.
type Options struct {
	CORSAllowedOrigin string
	// OpsAPIKey guards /api/ops. When empty those routes answer 503.
	OpsAPIKey string
	// Swagger mounts the API docs at /swagger.
	Swagger bool
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(svc Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Reports)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	opsHandler := handlers.NewOpsHandler(svc.Users)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSAllowedOrigin))

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Operator routes
	ops := router.Group("/api/ops")
	ops.Use(middleware.OpsAuthMiddleware(opts.OpsAPIKey))
	ops.POST("/purge-password-resets", opsHandler.PurgePasswordResets)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/report", transactionHandler.GetTransactionsReport)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budget-limits")
	budgets.GET("", budgetHandler.GetBudgetLimits)
	budgets.POST("", budgetHandler.SetBudgetLimit)
	budgets.GET("/progress", budgetHandler.GetBudgetProgress)

	protected.GET("/transaction-summary", reportHandler.GetSummary)
	protected.GET("/category-wise-analysis", reportHandler.GetCategoryAnalysis)
	protected.GET("/daily-income-expense", reportHandler.GetDailySnapshot)
	protected.GET("/calendar-events", reportHandler.GetCalendarEvents)
	protected.GET("/actual-spending", reportHandler.GetActualSpending)

	analytics := protected.Group("/analytics")
	analytics.GET("/overview", reportHandler.GetOverview)
	analytics.GET("/expense-distribution", reportHandler.GetExpenseDistribution)
	analytics.GET("/income-expenses-over-time", reportHandler.GetIncomeExpensesOverTime)
	analytics.GET("/monthly-trends", reportHandler.GetMonthlyTrend)
	analytics.GET("/category-spending-trends", reportHandler.GetCategoryTrend)
	analytics.GET("/top-expenses", reportHandler.GetTopExpenses)
	analytics.GET("/top-spending-categories", reportHandler.GetTopSpendingCategories)

	return router
}
