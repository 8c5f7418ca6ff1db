package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"saldo/internal/config"
	"saldo/internal/database"
	"saldo/internal/docstore"
	"saldo/internal/handlers"
	"saldo/internal/logger"
	"saldo/internal/middleware"
	"saldo/internal/notify"
	"saldo/internal/services"
	"saldo/internal/store"
	"saldo/internal/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "saldo/internal/docs" // Import swagger docs
)

// @title           Saldo API
// @version         1.0
// @description     Saldo is an envelope-budgeting backend: budgets own accounts and categories, months hold transactions and allocations, and finalizing a month's allocations commits them to category balances.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-ID
// @description Identifier of the requesting user.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment")
	}

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Open the document store backend
	var docs docstore.Store
	if appConfig.StoreBackend == "memory" {
		docs = docstore.NewMemoryStore()
		log.Warn("Using in-memory document store; data will not survive restarts")
	} else {
		dbManager, err := database.NewManager(appConfig)
		if err != nil {
			return fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.Migrate(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		docs = docstore.NewGormStore(dbManager.DB())
	}

	// Register custom binding validators
	validator.Register()

	// Initialize the typed store, event broker and services
	st := store.New(docs)
	broker := notify.NewBroker()
	defer broker.Close()

	budgetService := services.NewBudgetService(st)
	accountService := services.NewAccountService(st)
	categoryService := services.NewCategoryService(st)
	recalcService := services.NewRecalculationService(st, broker)
	monthService := services.NewMonthService(st, recalcService)
	allocationService := services.NewAllocationService(st, recalcService, broker)
	suggestService := services.NewSuggestService(st)
	feedbackService := services.NewFeedbackService(st, broker)

	// Initialize handlers
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	monthHandler := handlers.NewMonthHandler(monthService)
	allocationHandler := handlers.NewAllocationHandler(allocationService)
	suggestHandler := handlers.NewSuggestHandler(suggestService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	eventHandler := handlers.NewEventHandler(budgetService, broker)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(appConfig)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 group; every route is attributed to a user
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())

	// Budget shell routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.RenameBudget)
	budgets.PUT("/:id", budgetHandler.ReplaceBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/participants", budgetHandler.AddParticipant)
	budgets.DELETE("/:id/participants", budgetHandler.RemoveParticipant)

	// Account routes
	budgets.POST("/:id/accounts", accountHandler.AddAccount)
	budgets.PUT("/:id/accounts/positions", accountHandler.ReorderAccounts)
	budgets.PUT("/:id/accounts/:accountID", accountHandler.UpdateAccount)
	budgets.DELETE("/:id/accounts/:accountID", accountHandler.DeleteAccount)
	budgets.POST("/:id/account-groups", accountHandler.AddAccountGroup)
	budgets.PUT("/:id/account-groups/positions", accountHandler.ReorderAccountGroups)
	budgets.PUT("/:id/account-groups/:groupID", accountHandler.UpdateAccountGroup)
	budgets.DELETE("/:id/account-groups/:groupID", accountHandler.DeleteAccountGroup)

	// Category routes
	budgets.POST("/:id/categories", categoryHandler.AddCategory)
	budgets.PUT("/:id/categories/positions", categoryHandler.ReorderCategories)
	budgets.PUT("/:id/categories/:categoryID", categoryHandler.UpdateCategory)
	budgets.DELETE("/:id/categories/:categoryID", categoryHandler.DeleteCategory)
	budgets.POST("/:id/category-groups", categoryHandler.AddCategoryGroup)
	budgets.PUT("/:id/category-groups/positions", categoryHandler.ReorderCategoryGroups)
	budgets.PUT("/:id/category-groups/:groupID", categoryHandler.UpdateCategoryGroup)
	budgets.DELETE("/:id/category-groups/:groupID", categoryHandler.DeleteCategoryGroup)

	// Month and transaction routes
	budgets.GET("/:id/months/:month", monthHandler.GetMonth)
	budgets.POST("/:id/months/:month/income", monthHandler.AddIncome)
	budgets.PUT("/:id/months/:month/income/:transactionID", monthHandler.UpdateIncome)
	budgets.DELETE("/:id/months/:month/income/:transactionID", monthHandler.DeleteIncome)
	budgets.POST("/:id/months/:month/expenses", monthHandler.AddExpense)
	budgets.PUT("/:id/months/:month/expenses/:transactionID", monthHandler.UpdateExpense)
	budgets.DELETE("/:id/months/:month/expenses/:transactionID", monthHandler.DeleteExpense)

	// Allocation lifecycle routes
	budgets.GET("/:id/months/:month/allocations", allocationHandler.GetWorkspace)
	budgets.PUT("/:id/months/:month/allocations", allocationHandler.SaveDraft)
	budgets.POST("/:id/months/:month/allocations/finalize", allocationHandler.Finalize)
	budgets.POST("/:id/months/:month/allocations/unfinalize", allocationHandler.Unfinalize)

	// Suggestion routes
	budgets.GET("/:id/suggest/payees", suggestHandler.SuggestPayees)
	budgets.GET("/:id/suggest/categories", suggestHandler.SuggestCategories)
	budgets.GET("/:id/suggest/accounts", suggestHandler.SuggestAccounts)

	// Event stream
	budgets.GET("/:id/events", eventHandler.StreamEvents)

	// Feedback routes
	v1.POST("/feedback", feedbackHandler.SubmitFeedback)
	v1.GET("/feedback", feedbackHandler.ListFeedback)
	v1.DELETE("/feedback/:feedbackID", feedbackHandler.DeleteFeedback)

	log.Infof("Starting saldo backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// corsConfig builds the CORS policy from configuration. "*" allows every
// origin, for local development.
func corsConfig(appConfig *config.Config) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if appConfig.CORSOrigins == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = strings.Split(appConfig.CORSOrigins, ",")
	}
	return cfg
}
