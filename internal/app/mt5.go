package app

import (
	"context"
	"strings"

	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/validation"
)

// LoadPlans fetches the MT5 plans of one account type. Starting a new load
// cancels the previous one; a superseded load returns ErrStale and leaves
// the plan list to the newer call.
func (a *App) LoadPlans(ctx context.Context, accountType models.PlanType) ([]models.MT5Plan, error) {
	done := a.begin("plans")
	defer done()

	ctx, ticket := a.tracker.Begin(ctx, "mt5Plans")
	defer ticket.Done()

	res := a.api.ListPlans(ctx, a.Session.Token(), 1, a.pageSize)
	if !ticket.Current() {
		return nil, ErrStale
	}
	if !res.OK {
		return nil, a.failed(res)
	}
	var page models.Page[models.MT5Plan]
	if err := res.Decode(&page); err != nil {
		return nil, a.decodeFailed(err)
	}

	demoPlans, realPlans := models.SplitPlans(page.List)
	plans := realPlans
	if accountType == models.PlanTypeDemo {
		plans = demoPlans
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !ticket.Current() {
		return nil, ErrStale
	}
	a.plans = plans
	return plans, nil
}

// Plans is the list from the latest LoadPlans.
func (a *App) Plans() []models.MT5Plan {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.MT5Plan(nil), a.plans...)
}

func (a *App) LoadAccounts(ctx context.Context, page int) (models.Page[models.MT5Account], error) {
	done := a.begin("accounts")
	defer done()

	ctx, ticket := a.tracker.Begin(ctx, "mt5Accounts")
	defer ticket.Done()

	var list models.Page[models.MT5Account]
	res := a.api.ListAccounts(ctx, a.Session.Token(), page, a.pageSize)
	if !ticket.Current() {
		return list, ErrStale
	}
	if !res.OK {
		return list, a.failed(res)
	}
	if err := res.Decode(&list); err != nil {
		return list, a.decodeFailed(err)
	}

	a.mu.Lock()
	a.accounts = append([]models.MT5Account(nil), list.List...)
	a.mu.Unlock()
	return list, nil
}

func (a *App) Accounts() []models.MT5Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.MT5Account(nil), a.accounts...)
}

// CreateMT5Account opens an account once the server confirms it, and
// appends it to the loaded accounts.
func (a *App) CreateMT5Account(ctx context.Context, form validation.MT5AccountForm) (*models.MT5Account, error) {
	done := a.begin("createAccount")
	defer done()

	form.GroupID = strings.TrimSpace(form.GroupID)
	form.Leverage = strings.TrimSpace(form.Leverage)
	if err := validation.Validate(form); err != nil {
		return nil, a.invalid(err)
	}
	if err := a.gate(gating.ActionMT5Create); err != nil {
		return nil, err
	}

	res := a.api.CreateAccount(ctx, a.Session.Token(), client.CreateAccountRequest{
		GroupID:  form.GroupID,
		Leverage: form.Leverage,
		Password: form.Password,
	})
	if !res.OK {
		return nil, a.failed(res)
	}
	var account models.MT5Account
	if err := res.Decode(&account); err != nil {
		return nil, a.decodeFailed(err)
	}

	a.mu.Lock()
	a.accounts = append(a.accounts, account)
	a.mu.Unlock()

	a.toast(ToastSuccess, successMessage(res, "Account created successfully"))
	return &account, nil
}
