package services

import (
	"context"
	"testing"

	"saldo/internal/testutil"
)

func TestAddAccountUpdatesTotal(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	updated, err := svc.AddAccount(ctx, "user-1", budget.ID, AccountInput{
		Name:    "Savings",
		Balance: dec("500"),
	})
	testutil.AssertNoError(t, err)

	if len(updated.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(updated.Accounts))
	}
	if updated.Accounts[1].Position != 1 {
		t.Errorf("new account position = %d, want 1", updated.Accounts[1].Position)
	}
	testutil.AssertDecimal(t, "total available", updated.TotalAvailable, "1500")
}

func TestAddAccountOffBudgetExcluded(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	updated, err := svc.AddAccount(ctx, "user-1", budget.ID, AccountInput{
		Name:     "Mortgage",
		Balance:  dec("-250000"),
		OnBudget: testutil.BoolPtr(false),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "total available", updated.TotalAvailable, "1000")
}

func TestAddAccountValidation(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.AddAccount(ctx, "user-1", budget.ID, AccountInput{Name: " "})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.AddAccount(ctx, "user-1", budget.ID, AccountInput{Name: "X", GroupID: "nope"})
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestUpdateAccountBalanceEdit(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")
	accountID := budget.Accounts[0].ID

	updated, err := svc.UpdateAccount(ctx, "user-1", budget.ID, accountID, AccountInput{
		Name:    "Checking",
		Balance: dec("2200"),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "account balance", updated.Accounts[0].Balance, "2200")
	testutil.AssertDecimal(t, "total available", updated.TotalAvailable, "2200")
}

func TestDeleteAccountFlagsRecalculation(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")
	accountID := budget.Accounts[0].ID

	// Transaction history referencing the account stays behind in the
	// month documents, so the caches cannot be trusted.
	updated, err := svc.DeleteAccount(ctx, "user-1", budget.ID, accountID)
	testutil.AssertNoError(t, err)

	if len(updated.Accounts) != 0 {
		t.Errorf("expected no accounts, got %d", len(updated.Accounts))
	}
	testutil.AssertDecimal(t, "total available", updated.TotalAvailable, "0")
	if !updated.IsNeedsRecalculation {
		t.Error("expected budget flagged for recalculation")
	}
}

func TestReorderAccounts(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	second, err := svc.AddAccount(ctx, "user-1", budget.ID, AccountInput{Name: "Savings"})
	testutil.AssertNoError(t, err)
	first := second.Accounts[0].ID
	added := second.Accounts[1].ID

	updated, err := svc.ReorderAccounts(ctx, "user-1", budget.ID, []string{added, first})
	testutil.AssertNoError(t, err)
	if updated.Accounts[0].ID != added || updated.Accounts[0].Position != 0 {
		t.Errorf("expected %s first at position 0", added)
	}
	if updated.Accounts[1].ID != first || updated.Accounts[1].Position != 1 {
		t.Errorf("expected %s second at position 1", first)
	}

	t.Run("incomplete order rejected", func(t *testing.T) {
		_, err := svc.ReorderAccounts(ctx, "user-1", budget.ID, []string{first})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		_, err := svc.ReorderAccounts(ctx, "user-1", budget.ID, []string{first, first})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAccountGroupOverridesTotal(t *testing.T) {
	st := testutil.SetupStore(t)
	svc := NewAccountService(st)
	ctx := context.Background()
	budget := testutil.CreateTestBudget(t, st, "user-1")

	withGroup, err := svc.AddAccountGroup(ctx, "user-1", budget.ID, GroupInput{Name: "Cash"})
	testutil.AssertNoError(t, err)
	groupID := withGroup.AccountGroups[0].ID
	accountID := withGroup.Accounts[0].ID

	_, err = svc.UpdateAccount(ctx, "user-1", budget.ID, accountID, AccountInput{
		Name:    "Checking",
		GroupID: groupID,
		Balance: dec("1000"),
	})
	testutil.AssertNoError(t, err)

	// Turning the group off budget pulls its member out of the total.
	updated, err := svc.UpdateAccountGroup(ctx, "user-1", budget.ID, groupID, GroupInput{
		Name:     "Cash",
		OnBudget: testutil.BoolPtr(false),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "total with group off budget", updated.TotalAvailable, "0")

	// Deleting the group drops the override and the account falls back to
	// its own flags.
	updated, err = svc.DeleteAccountGroup(ctx, "user-1", budget.ID, groupID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "total after group delete", updated.TotalAvailable, "1000")
	if updated.Accounts[0].GroupID != "" {
		t.Errorf("expected group reference cleared, got %q", updated.Accounts[0].GroupID)
	}
}
