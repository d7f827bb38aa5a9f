// Package server assembles the HTTP API from the ledger services.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pocketledger/internal/handlers"
	"pocketledger/internal/middleware"
	"pocketledger/internal/services"
	"pocketledger/internal/storage"
)

// Services bundles everything the router binds to.
type Services struct {
	Categories services.CategoryServicer
	Ledger     services.LedgerServicer
	Budgets    services.BudgetServicer
	Goals      services.GoalServicer
	Reports    services.ReportServicer
	Transfer   services.TransferServicer
	Audit      services.AuditServicer
}

// NewServices wires the ledger services onto one store. now drives every
// "current month" computation; nil means time.Now.
func NewServices(store *storage.Store, defaultThreshold float64, now func() time.Time) *Services {
	ledger := services.NewLedgerService(store)
	budgets := services.NewBudgetService(store, ledger, defaultThreshold)
	goals := services.NewGoalService(store)
	return &Services{
		Categories: services.NewCategoryService(store),
		Ledger:     ledger,
		Budgets:    budgets,
		Goals:      goals,
		Reports:    services.NewReportService(store, ledger, budgets, goals, now),
		Transfer:   services.NewTransferService(store, ledger, now),
		Audit:      services.NewAuditService(store),
	}
}

// cors allows any front end to bind to the API.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// NewRouter builds the Gin engine serving /api/health and /api/v1.
func NewRouter(svc *Services, now func() time.Time) *gin.Engine {
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Ledger, svc.Audit)
	ledgerHandler := handlers.NewLedgerHandler(svc.Ledger, now)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	goalHandler := handlers.NewGoalHandler(svc.Goals, svc.Audit)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	transferHandler := handlers.NewTransferHandler(svc.Transfer, svc.Audit)
	auditHandler := handlers.NewAuditHandler(svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:name", categoryHandler.GetCategory)
	categories.PUT("/:name", categoryHandler.UpdateCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	ledger := v1.Group("/ledger")
	ledger.GET("/net-worth", ledgerHandler.NetWorth)
	ledger.GET("/totals", ledgerHandler.Totals)
	ledger.GET("/summary", ledgerHandler.Summary)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.GET("/evaluations", budgetHandler.EvaluatePeriod)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/evaluation", budgetHandler.EvaluateBudget)

	goals := v1.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contributions", goalHandler.Contribute)

	reports := v1.Group("/reports")
	reports.GET("/breakdown", reportHandler.Breakdown)
	reports.GET("/trend", reportHandler.Trend)
	reports.GET("/monthly", reportHandler.Monthly)
	reports.GET("/insights", reportHandler.Insights)

	transfer := v1.Group("/transfer")
	transfer.GET("/export.csv", transferHandler.ExportCSV)
	transfer.POST("/import.csv", transferHandler.ImportCSV)
	transfer.GET("/export.json", transferHandler.ExportJSON)
	transfer.POST("/import.json", transferHandler.ImportJSON)

	v1.GET("/audit", auditHandler.Recent)

	return router
}
