package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"saldo/internal/docstore"
	"saldo/internal/handlers"
	"saldo/internal/logger"
	"saldo/internal/middleware"
	"saldo/internal/notify"
	"saldo/internal/services"
	"saldo/internal/store"
	"saldo/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Docs   docstore.Store
	Broker *notify.Broker
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory
// document store.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	docs := docstore.NewMemoryStore()
	st := store.New(docs)
	broker := notify.NewBroker()
	t.Cleanup(broker.Close)

	// Services
	budgetService := services.NewBudgetService(st)
	accountService := services.NewAccountService(st)
	categoryService := services.NewCategoryService(st)
	recalcService := services.NewRecalculationService(st, broker)
	monthService := services.NewMonthService(st, recalcService)
	allocationService := services.NewAllocationService(st, recalcService, broker)
	suggestService := services.NewSuggestService(st)
	feedbackService := services.NewFeedbackService(st, broker)

	// Handlers
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	monthHandler := handlers.NewMonthHandler(monthService)
	allocationHandler := handlers.NewAllocationHandler(allocationService)
	suggestHandler := handlers.NewSuggestHandler(suggestService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.RenameBudget)
	budgets.PUT("/:id", budgetHandler.ReplaceBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/participants", budgetHandler.AddParticipant)
	budgets.DELETE("/:id/participants", budgetHandler.RemoveParticipant)

	budgets.POST("/:id/accounts", accountHandler.AddAccount)
	budgets.PUT("/:id/accounts/positions", accountHandler.ReorderAccounts)
	budgets.PUT("/:id/accounts/:accountID", accountHandler.UpdateAccount)
	budgets.DELETE("/:id/accounts/:accountID", accountHandler.DeleteAccount)
	budgets.POST("/:id/account-groups", accountHandler.AddAccountGroup)
	budgets.PUT("/:id/account-groups/positions", accountHandler.ReorderAccountGroups)
	budgets.PUT("/:id/account-groups/:groupID", accountHandler.UpdateAccountGroup)
	budgets.DELETE("/:id/account-groups/:groupID", accountHandler.DeleteAccountGroup)

	budgets.POST("/:id/categories", categoryHandler.AddCategory)
	budgets.PUT("/:id/categories/positions", categoryHandler.ReorderCategories)
	budgets.PUT("/:id/categories/:categoryID", categoryHandler.UpdateCategory)
	budgets.DELETE("/:id/categories/:categoryID", categoryHandler.DeleteCategory)
	budgets.POST("/:id/category-groups", categoryHandler.AddCategoryGroup)
	budgets.PUT("/:id/category-groups/positions", categoryHandler.ReorderCategoryGroups)
	budgets.PUT("/:id/category-groups/:groupID", categoryHandler.UpdateCategoryGroup)
	budgets.DELETE("/:id/category-groups/:groupID", categoryHandler.DeleteCategoryGroup)

	budgets.GET("/:id/months/:month", monthHandler.GetMonth)
	budgets.POST("/:id/months/:month/income", monthHandler.AddIncome)
	budgets.PUT("/:id/months/:month/income/:transactionID", monthHandler.UpdateIncome)
	budgets.DELETE("/:id/months/:month/income/:transactionID", monthHandler.DeleteIncome)
	budgets.POST("/:id/months/:month/expenses", monthHandler.AddExpense)
	budgets.PUT("/:id/months/:month/expenses/:transactionID", monthHandler.UpdateExpense)
	budgets.DELETE("/:id/months/:month/expenses/:transactionID", monthHandler.DeleteExpense)

	budgets.GET("/:id/months/:month/allocations", allocationHandler.GetWorkspace)
	budgets.PUT("/:id/months/:month/allocations", allocationHandler.SaveDraft)
	budgets.POST("/:id/months/:month/allocations/finalize", allocationHandler.Finalize)
	budgets.POST("/:id/months/:month/allocations/unfinalize", allocationHandler.Unfinalize)

	budgets.GET("/:id/suggest/payees", suggestHandler.SuggestPayees)
	budgets.GET("/:id/suggest/categories", suggestHandler.SuggestCategories)
	budgets.GET("/:id/suggest/accounts", suggestHandler.SuggestAccounts)

	v1.POST("/feedback", feedbackHandler.SubmitFeedback)
	v1.GET("/feedback", feedbackHandler.ListFeedback)
	v1.DELETE("/feedback/:feedbackID", feedbackHandler.DeleteFeedback)

	return &testApp{Docs: docs, Broker: broker, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createBudget creates a budget and returns its JSON representation.
func (app *testApp) createBudget(t *testing.T, userID, name string) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", "/api/v1/budgets", `{"name":"`+name+`"}`, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["budget"].(map[string]interface{})
}

// addAccount adds an account to the budget and returns its generated ID.
func (app *testApp) addAccount(t *testing.T, userID, budgetID, name, balance string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/accounts",
		`{"name":"`+name+`","balance":"`+balance+`"}`, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add account failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	for _, raw := range budget["accounts"].([]interface{}) {
		account := raw.(map[string]interface{})
		if account["name"] == name {
			return account["id"].(string)
		}
	}
	t.Fatalf("account %q missing from response", name)
	return ""
}

// categoryID finds a category by name in a budget JSON document.
func categoryID(t *testing.T, budget map[string]interface{}, name string) string {
	t.Helper()
	for _, raw := range budget["categories"].([]interface{}) {
		category := raw.(map[string]interface{})
		if category["name"] == name {
			return category["id"].(string)
		}
	}
	t.Fatalf("category %q missing from budget", name)
	return ""
}

// categoryBalance reads a category's cached balance from a budget JSON document.
func categoryBalance(t *testing.T, budget map[string]interface{}, name string) string {
	t.Helper()
	for _, raw := range budget["categories"].([]interface{}) {
		category := raw.(map[string]interface{})
		if category["name"] == name {
			return category["balance"].(string)
		}
	}
	t.Fatalf("category %q missing from budget", name)
	return ""
}

// getBudget fetches the budget shell.
func (app *testApp) getBudget(t *testing.T, userID, budgetID string) map[string]interface{} {
	t.Helper()
	rec := app.request("GET", "/api/v1/budgets/"+budgetID, "", userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["budget"].(map[string]interface{})
}
