package app

import (
	"context"
	"log"
	"strings"

	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/validation"
)

// RefreshBalance fetches the wallet balance into the profile. Failures are
// logged only.
func (a *App) RefreshBalance(ctx context.Context) {
	res := a.api.Balance(ctx, a.Session.Token())
	if !res.OK {
		log.Printf("Failed to fetch balance: %s (%v)", res.Failure(), res.Err)
		return
	}
	var balance models.Balance
	if err := res.Decode(&balance); err != nil {
		log.Printf("Failed to decode balance: %v", err)
		return
	}
	a.Profile.SetBalance(balance.Available)
}

// Deposit files a deposit request. It is checked locally for the minimum
// and for KYC level 1 before anything is sent.
func (a *App) Deposit(ctx context.Context, amount string) (*models.Transaction, error) {
	done := a.begin("deposit")
	defer done()

	amount = strings.TrimSpace(amount)
	if err := validation.Validate(validation.DepositForm{Amount: amount}); err != nil {
		return nil, a.invalid(err)
	}
	if err := a.gate(gating.ActionDeposit); err != nil {
		return nil, err
	}
	res := a.api.Deposit(ctx, a.Session.Token(), validation.Amount(amount))
	return a.transaction(res, "Deposit request submitted")
}

func (a *App) Withdraw(ctx context.Context, amount, address string) (*models.Transaction, error) {
	done := a.begin("withdraw")
	defer done()

	amount, address = strings.TrimSpace(amount), strings.TrimSpace(address)
	if err := validation.Validate(validation.WithdrawForm{Amount: amount, Address: address}); err != nil {
		return nil, a.invalid(err)
	}
	if err := validation.ValidateFunds(amount, a.Profile.Snapshot().Balance); err != nil {
		return nil, a.invalid(err)
	}
	if err := a.gate(gating.ActionWithdraw); err != nil {
		return nil, err
	}
	res := a.api.Withdraw(ctx, a.Session.Token(), validation.Amount(amount), address)
	return a.transaction(res, "Withdrawal request submitted")
}

// Transfer moves wallet funds into one of the user's MT5 accounts.
func (a *App) Transfer(ctx context.Context, amount, accountID string) (*models.Transaction, error) {
	done := a.begin("transfer")
	defer done()

	amount, accountID = strings.TrimSpace(amount), strings.TrimSpace(accountID)
	if err := validation.Validate(validation.TransferForm{Amount: amount, AccountID: accountID}); err != nil {
		return nil, a.invalid(err)
	}
	if err := validation.ValidateFunds(amount, a.Profile.Snapshot().Balance); err != nil {
		return nil, a.invalid(err)
	}
	if err := a.gate(gating.ActionTransfer); err != nil {
		return nil, err
	}
	res := a.api.Transfer(ctx, a.Session.Token(), validation.Amount(amount), accountID)
	tx, err := a.transaction(res, "Transfer completed")
	if err == nil {
		a.RefreshBalance(ctx)
	}
	return tx, err
}

func (a *App) transaction(res *client.Result, fallback string) (*models.Transaction, error) {
	if !res.OK {
		return nil, a.failed(res)
	}
	var tx models.Transaction
	if err := res.Decode(&tx); err != nil {
		return nil, a.decodeFailed(err)
	}
	a.toast(ToastSuccess, successMessage(res, fallback))
	return &tx, nil
}
