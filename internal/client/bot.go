package client

import (
	"context"
	"net/http"
	"net/url"
)

// BotPlans data decodes into models.BotOverview.
func (c *Client) BotPlans(ctx context.Context, token string) *Result {
	if token == "" {
		return unauthorized()
	}
	return c.getJSON(ctx, "/user/bot/plans", token, nil)
}

func (c *Client) ActivateBot(ctx context.Context, token, planID string) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("planId", planID)
	return c.sendForm(ctx, http.MethodPost, "/user/bot/activate", token, form)
}

// RequestBotSwitch only files the request; an admin decides it later.
// Data decodes into models.BotSwitchRequest.
func (c *Client) RequestBotSwitch(ctx context.Context, token, fromPlanID, toPlanID string) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("fromPlanId", fromPlanID)
	form.Set("toPlanId", toPlanID)
	return c.sendForm(ctx, http.MethodPost, "/user/bot/switch", token, form)
}

func (c *Client) StopBot(ctx context.Context, token, planID string) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("planId", planID)
	return c.sendForm(ctx, http.MethodPost, "/user/bot/stop", token, form)
}
