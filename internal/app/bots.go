package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
)

var ErrUnknownPlan = errors.New("unknown bot plan")

// LoadBots fetches the bot plans and replaces local run state with the
// server's statuses.
func (a *App) LoadBots(ctx context.Context) (models.BotOverview, error) {
	done := a.begin("bots")
	defer done()

	var overview models.BotOverview
	res := a.api.BotPlans(ctx, a.Session.Token())
	if !res.OK {
		return overview, a.failed(res)
	}
	if err := res.Decode(&overview); err != nil {
		return overview, a.decodeFailed(err)
	}

	a.Bots.Reconcile(overview.Statuses)
	a.mu.Lock()
	a.botPlans = append([]models.BotPlan(nil), overview.Plans...)
	a.mu.Unlock()
	return overview, nil
}

func (a *App) botPlan(id string) (models.BotPlan, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.botPlans {
		if p.ID == id {
			return p, true
		}
	}
	return models.BotPlan{}, false
}

// ToggleBot flips a plan's bot. Nothing running starts it; another plan
// running files a switch request for approval; the plan itself running
// stops it after confirmation. The returned intent says which path ran.
func (a *App) ToggleBot(ctx context.Context, planID string) (gating.Intent, error) {
	done := a.begin("bots")
	defer done()

	plan, ok := a.botPlan(planID)
	if !ok {
		a.toast(ToastError, "Plan not found")
		return 0, ErrUnknownPlan
	}

	intent, err := a.Bots.Plan(planID, a.Profile.Snapshot().Balance, plan.MinimumAmount)
	if err != nil {
		a.toast(ToastError, fmt.Sprintf("Insufficient balance. The %s plan needs at least $%s", plan.Name, plan.MinimumAmount.StringFixed(2)))
		return 0, err
	}

	token := a.Session.Token()
	switch intent {
	case gating.IntentPending:
		a.toast(ToastInfo, "Your switch request is awaiting approval")
		return intent, nil

	case gating.IntentStop:
		if !a.confirm("Turning off the bot will close all ongoing trades. This cannot be undone. Continue?") {
			return intent, ErrDeclined
		}
		return intent, a.applyBotStatus(a.api.StopBot(ctx, token, planID), "Bot stopped")

	case gating.IntentSwitch:
		running, _ := a.Bots.Running()
		if !a.confirm(fmt.Sprintf("Another bot is running. Request a switch to the %s plan? An admin has to approve it.", plan.Name)) {
			return intent, ErrDeclined
		}
		res := a.api.RequestBotSwitch(ctx, token, running, planID)
		if !res.OK {
			return intent, a.failed(res)
		}
		a.Bots.MarkPending(planID)
		a.toast(ToastSuccess, successMessage(res, "Switch request submitted for approval"))
		return intent, nil
	}

	return intent, a.applyBotStatus(a.api.ActivateBot(ctx, token, planID), "Bot activated")
}

func (a *App) applyBotStatus(res *client.Result, fallback string) error {
	if !res.OK {
		return a.failed(res)
	}
	var status models.BotStatus
	if err := res.Decode(&status); err != nil {
		return a.decodeFailed(err)
	}
	a.Bots.Apply(status)
	a.toast(ToastSuccess, successMessage(res, fallback))
	return nil
}

// Listen applies server pushed profile, balance and bot updates until ctx
// is done or the stream drops.
func (a *App) Listen(ctx context.Context) error {
	return a.api.Events(ctx, a.Session.Token(), a.applyEvent)
}

func (a *App) applyEvent(ev models.Event) {
	switch ev.Type {
	case models.EventProfile:
		var data models.UserData
		if err := json.Unmarshal(ev.Data, &data); err != nil {
			log.Printf("Failed to decode profile event: %v", err)
			return
		}
		a.Profile.ApplyServerFlags(data)
	case models.EventBalance:
		var balance models.Balance
		if err := json.Unmarshal(ev.Data, &balance); err != nil {
			log.Printf("Failed to decode balance event: %v", err)
			return
		}
		a.Profile.SetBalance(balance.Available)
	case models.EventBot:
		var status models.BotStatus
		if err := json.Unmarshal(ev.Data, &status); err != nil {
			log.Printf("Failed to decode bot event: %v", err)
			return
		}
		a.Bots.Apply(status)
	default:
		log.Printf("Ignoring event of type %q", ev.Type)
	}
}
