package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AllocationType determines how a category's suggested monthly allocation
// is computed.
type AllocationType string

const (
	// AllocationFixed suggests a constant dollar amount every month.
	AllocationFixed AllocationType = "fixed"
	// AllocationPercentage suggests a percentage of the previous month's
	// total income, re-derived whenever the workspace is opened.
	AllocationPercentage AllocationType = "percentage"
)

// Budget is the root document of one household budget. It owns its
// accounts, categories, groups and the index of month documents; months
// themselves live in their own collection.
type Budget struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	OwnerID        string          `json:"owner_id"`
	ParticipantIDs []string        `json:"participant_ids"`
	Accounts       []Account       `json:"accounts"`
	AccountGroups  []AccountGroup  `json:"account_groups"`
	Categories     []Category      `json:"categories"`
	CategoryGroups []CategoryGroup `json:"category_groups"`

	// MonthMap records which month documents exist, keyed by YYYY-MM.
	MonthMap map[string]MonthStatus `json:"month_map"`

	// TotalAvailable caches the sum of effectively on-budget, active
	// account balances. Transiently wrong while IsNeedsRecalculation
	// is set.
	TotalAvailable       decimal.Decimal `json:"total_available"`
	IsNeedsRecalculation bool            `json:"is_needs_recalculation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthStatus is a month_map entry.
type MonthStatus struct {
	NeedsRecalculation bool `json:"needs_recalculation,omitempty"`
}

// Account is a financial account tracked by a budget.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id,omitempty"`

	Balance decimal.Decimal `json:"balance"`

	// Tri-state flags: nil means unspecified. Effective values resolve
	// through ResolveFlag.
	IsActive *bool `json:"is_active,omitempty"`
	OnBudget *bool `json:"on_budget,omitempty"`

	Position int `json:"position"`
}

// AccountGroup groups accounts and may override member flags.
type AccountGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active,omitempty"`
	OnBudget *bool  `json:"on_budget,omitempty"`
	Position int    `json:"position"`
}

// Category is an envelope money is allocated to.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id,omitempty"`

	// Balance caches carry-over + finalized allocations − spend across
	// all months. Rebuilt by recalculation.
	Balance decimal.Decimal `json:"balance"`

	// DefaultMonthlyType empty means the category has no default
	// suggestion; DefaultMonthlyAmount is only meaningful when the
	// type is set. For percentage categories the amount is the
	// percentage value, not dollars.
	DefaultMonthlyAmount decimal.Decimal `json:"default_monthly_amount"`
	DefaultMonthlyType   AllocationType  `json:"default_monthly_type,omitempty"`

	Position int `json:"position"`
}

// CategoryGroup groups categories. Ordering only, no override semantics.
type CategoryGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// ResolveFlag resolves a tri-state activity/on-budget flag with
// group-then-item fallback: the group's value if it specifies one, else
// the item's own flag, else true. This is the single precedence rule for
// every effective-flag lookup.
func ResolveFlag(groupFlag, itemFlag *bool) bool {
	if groupFlag != nil {
		return *groupFlag
	}
	if itemFlag != nil {
		return *itemFlag
	}
	return true
}

// EffectiveAccountFlags resolves the account's effective active and
// on-budget status against its group, if any.
func (b *Budget) EffectiveAccountFlags(a Account) (active, onBudget bool) {
	var group *AccountGroup
	if a.GroupID != "" {
		group = b.AccountGroupByID(a.GroupID)
	}
	if group == nil {
		return ResolveFlag(nil, a.IsActive), ResolveFlag(nil, a.OnBudget)
	}
	return ResolveFlag(group.IsActive, a.IsActive), ResolveFlag(group.OnBudget, a.OnBudget)
}

// AccountByID returns a pointer into the accounts slice, or nil.
func (b *Budget) AccountByID(id string) *Account {
	for i := range b.Accounts {
		if b.Accounts[i].ID == id {
			return &b.Accounts[i]
		}
	}
	return nil
}

// AccountGroupByID returns a pointer into the account groups slice, or nil.
func (b *Budget) AccountGroupByID(id string) *AccountGroup {
	for i := range b.AccountGroups {
		if b.AccountGroups[i].ID == id {
			return &b.AccountGroups[i]
		}
	}
	return nil
}

// CategoryByID returns a pointer into the categories slice, or nil.
func (b *Budget) CategoryByID(id string) *Category {
	for i := range b.Categories {
		if b.Categories[i].ID == id {
			return &b.Categories[i]
		}
	}
	return nil
}

// CategoryGroupByID returns a pointer into the category groups slice, or nil.
func (b *Budget) CategoryGroupByID(id string) *CategoryGroup {
	for i := range b.CategoryGroups {
		if b.CategoryGroups[i].ID == id {
			return &b.CategoryGroups[i]
		}
	}
	return nil
}

// IsMember reports whether the user owns or participates in the budget.
func (b *Budget) IsMember(userID string) bool {
	if b.OwnerID == userID {
		return true
	}
	for _, id := range b.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EnsureMonth registers a month key in the month map.
func (b *Budget) EnsureMonth(key string) {
	if b.MonthMap == nil {
		b.MonthMap = make(map[string]MonthStatus)
	}
	if _, ok := b.MonthMap[key]; !ok {
		b.MonthMap[key] = MonthStatus{}
	}
}

// SortedMonthKeys returns the month map keys in ascending order. The
// YYYY-MM format makes lexicographic order chronological.
func (b *Budget) SortedMonthKeys() []string {
	keys := make([]string, 0, len(b.MonthMap))
	for k := range b.MonthMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
