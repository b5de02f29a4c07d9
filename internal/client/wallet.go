package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Balance data decodes into models.Balance.
func (c *Client) Balance(ctx context.Context, token string) *Result {
	if token == "" {
		return unauthorized()
	}
	return c.getJSON(ctx, "/user/wallet/balance", token, nil)
}

// Deposit data decodes into models.Transaction.
func (c *Client) Deposit(ctx context.Context, token string, amount decimal.Decimal) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("amount", amount.String())
	return c.sendForm(ctx, http.MethodPost, "/user/wallet/deposit", token, form)
}

func (c *Client) Withdraw(ctx context.Context, token string, amount decimal.Decimal, address string) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("amount", amount.String())
	form.Set("address", address)
	return c.sendForm(ctx, http.MethodPost, "/user/wallet/withdraw", token, form)
}

// Transfer moves wallet funds into an MT5 account.
func (c *Client) Transfer(ctx context.Context, token string, amount decimal.Decimal, accountID string) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("amount", amount.String())
	form.Set("accountId", accountID)
	return c.sendForm(ctx, http.MethodPost, "/user/wallet/transfer", token, form)
}
