package services

import (
	"context"
	"time"

	"saldo/internal/models"
	"saldo/internal/pagination"

	"github.com/shopspring/decimal"
)

// BudgetServicer defines the contract for budget shell operations.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID, name string) (*models.Budget, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	RenameBudget(ctx context.Context, userID, budgetID, name string) (*models.Budget, error)
	ReplaceBudget(ctx context.Context, userID, budgetID string, replacement *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	AddParticipant(ctx context.Context, userID, budgetID, participantID string) (*models.Budget, error)
	RemoveParticipant(ctx context.Context, userID, budgetID, participantID string) (*models.Budget, error)
}

// AccountInput carries the mutable fields of an account. Updates replace
// all of them; a nil flag means the account inherits from its group.
type AccountInput struct {
	Name     string
	GroupID  string
	Balance  decimal.Decimal
	IsActive *bool
	OnBudget *bool
}

// GroupInput carries the mutable fields of an account group. Non-nil flags
// override every member account.
type GroupInput struct {
	Name     string
	IsActive *bool
	OnBudget *bool
}

// AccountServicer defines the contract for account and account-group
// operations within a budget.
type AccountServicer interface {
	AddAccount(ctx context.Context, userID, budgetID string, input AccountInput) (*models.Budget, error)
	UpdateAccount(ctx context.Context, userID, budgetID, accountID string, input AccountInput) (*models.Budget, error)
	DeleteAccount(ctx context.Context, userID, budgetID, accountID string) (*models.Budget, error)
	ReorderAccounts(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error)
	AddAccountGroup(ctx context.Context, userID, budgetID string, input GroupInput) (*models.Budget, error)
	UpdateAccountGroup(ctx context.Context, userID, budgetID, groupID string, input GroupInput) (*models.Budget, error)
	DeleteAccountGroup(ctx context.Context, userID, budgetID, groupID string) (*models.Budget, error)
	ReorderAccountGroups(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error)
}

// CategoryInput carries the mutable fields of a category. The default
// allocation settings may be empty for categories without a suggestion.
type CategoryInput struct {
	Name                 string
	GroupID              string
	DefaultMonthlyAmount decimal.Decimal
	DefaultMonthlyType   models.AllocationType
}

// CategoryServicer defines the contract for category and category-group
// operations within a budget.
type CategoryServicer interface {
	AddCategory(ctx context.Context, userID, budgetID string, input CategoryInput) (*models.Budget, error)
	UpdateCategory(ctx context.Context, userID, budgetID, categoryID string, input CategoryInput) (*models.Budget, error)
	DeleteCategory(ctx context.Context, userID, budgetID, categoryID string) (*models.Budget, error)
	ReorderCategories(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error)
	AddCategoryGroup(ctx context.Context, userID, budgetID, name string) (*models.Budget, error)
	UpdateCategoryGroup(ctx context.Context, userID, budgetID, groupID, name string) (*models.Budget, error)
	DeleteCategoryGroup(ctx context.Context, userID, budgetID, groupID string) (*models.Budget, error)
	ReorderCategoryGroups(ctx context.Context, userID, budgetID string, orderedIDs []string) (*models.Budget, error)
}

// TransactionInput carries the fields shared by income and expense entries.
type TransactionInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Payee       string
	Description string
	AccountID   string
	Cleared     bool
}

// ExpenseInput extends TransactionInput with expense-only fields.
type ExpenseInput struct {
	TransactionInput
	Kind       models.ExpenseKind
	CategoryID string
}

// MonthView is the computed month payload: the raw month document, the
// budget it belongs to (fresh after any lazy recalculation), and derived
// totals. SpentByCategory keys are category ids; uncategorized spend sits
// under the empty key.
type MonthView struct {
	Budget              *models.Budget             `json:"budget"`
	Month               *models.Month              `json:"month"`
	IncomeTotal         decimal.Decimal            `json:"income_total"`
	SpentTotal          decimal.Decimal            `json:"spent_total"`
	SpentByCategory     map[string]decimal.Decimal `json:"spent_by_category"`
	AllocatedByCategory map[string]decimal.Decimal `json:"allocated_by_category"`
	Recalculated        bool                       `json:"recalculated,omitempty"`
}

// MonthServicer defines the contract for month views and the income and
// expense entries within a month.
type MonthServicer interface {
	GetMonth(ctx context.Context, userID, budgetID, monthKey string) (*MonthView, error)
	AddIncome(ctx context.Context, userID, budgetID, monthKey string, input TransactionInput) (*MonthView, error)
	UpdateIncome(ctx context.Context, userID, budgetID, monthKey, transactionID string, input TransactionInput) (*MonthView, error)
	DeleteIncome(ctx context.Context, userID, budgetID, monthKey, transactionID string) (*MonthView, error)
	AddExpense(ctx context.Context, userID, budgetID, monthKey string, input ExpenseInput) (*MonthView, error)
	UpdateExpense(ctx context.Context, userID, budgetID, monthKey, transactionID string, input ExpenseInput) (*MonthView, error)
	DeleteExpense(ctx context.Context, userID, budgetID, monthKey, transactionID string) (*MonthView, error)
}

// AllocationRow is one category line of the allocations workspace. Source
// reports where the amount came from: "saved" for a persisted entry,
// "default_fixed" or "default_percentage" for a derived suggestion, "none"
// for categories with neither.
type AllocationRow struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Source     string          `json:"source"`
}

// AllocationWorkspace is the computed allocations screen for one month.
type AllocationWorkspace struct {
	BudgetID            string          `json:"budget_id"`
	MonthKey            string          `json:"month"`
	Rows                []AllocationRow `json:"rows"`
	DraftTotal          decimal.Decimal `json:"draft_total"`
	FinalizedTotal      decimal.Decimal `json:"finalized_total"`
	AvailableNow        decimal.Decimal `json:"available_now"`
	AvailableAfterApply decimal.Decimal `json:"available_after_apply"`
	Finalized           bool            `json:"finalized"`
	Stale               bool            `json:"stale,omitempty"`
}

// AllocationServicer defines the contract for the allocation lifecycle:
// draft saves, finalize, unfinalize.
type AllocationServicer interface {
	GetWorkspace(ctx context.Context, userID, budgetID, monthKey string) (*AllocationWorkspace, error)
	SaveDraft(ctx context.Context, userID, budgetID, monthKey string, entries []models.CategoryAllocation) (*AllocationWorkspace, error)
	Finalize(ctx context.Context, userID, budgetID, monthKey string, entries []models.CategoryAllocation) (*AllocationWorkspace, error)
	Unfinalize(ctx context.Context, userID, budgetID, monthKey string) (*AllocationWorkspace, error)
}

// RecalculationServicer defines the contract for rebuilding a budget's
// cached aggregates from raw month documents.
type RecalculationServicer interface {
	// EnsureFresh recalculates when the budget or the given month is
	// flagged stale, returning the fresh budget and whether a rebuild
	// ran. Concurrent callers share a single rebuild per budget.
	EnsureFresh(ctx context.Context, budget *models.Budget, monthKey string) (*models.Budget, bool, error)
	// Recalculate unconditionally rebuilds the budget's caches.
	Recalculate(ctx context.Context, budgetID string) (*models.Budget, error)
}

// Suggestion is one typed-ahead completion.
type Suggestion struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
}

// SuggestServicer defines the contract for the suggestion endpoints.
type SuggestServicer interface {
	SuggestPayees(ctx context.Context, userID, budgetID, query string) ([]Suggestion, error)
	SuggestCategories(ctx context.Context, userID, budgetID, query string, includeAdjustment bool) ([]Suggestion, error)
	SuggestAccounts(ctx context.Context, userID, budgetID, query string, includeNone bool) ([]Suggestion, error)
}

// FeedbackServicer defines the contract for user feedback.
type FeedbackServicer interface {
	SubmitFeedback(ctx context.Context, userID, page, message string) (*models.Feedback, error)
	ListFeedback(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Feedback], error)
	DeleteFeedback(ctx context.Context, id string) error
}
