package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sizePerPage", strconv.Itoa(size))
	return q
}

// ListPlans data decodes into models.Page[models.MT5Plan].
func (c *Client) ListPlans(ctx context.Context, token string, page, size int) *Result {
	if token == "" {
		return unauthorized()
	}
	return c.getJSON(ctx, "/user/mt5/group/list", token, pageQuery(page, size))
}

// ListAccounts data decodes into models.Page[models.MT5Account].
func (c *Client) ListAccounts(ctx context.Context, token string, page, size int) *Result {
	if token == "" {
		return unauthorized()
	}
	return c.getJSON(ctx, "/user/mt5/account/list", token, pageQuery(page, size))
}

type CreateAccountRequest struct {
	GroupID  string
	Leverage string
	Password string
}

// CreateAccount data decodes into models.MT5Account.
func (c *Client) CreateAccount(ctx context.Context, token string, req CreateAccountRequest) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("groupId", req.GroupID)
	form.Set("Leverage", req.Leverage)
	form.Set("PassMain", req.Password)
	return c.sendForm(ctx, http.MethodPost, "/user/mt5/create/account", token, form)
}
