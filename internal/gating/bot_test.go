package gating

import (
	"errors"
	"testing"

	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	fifty   = decimal.NewFromInt(50)
)

func TestPlanActivateWhenNothingRuns(t *testing.T) {
	b := NewBoard()
	intent, err := b.Plan("a", hundred, fifty)
	if err != nil || intent != IntentActivate {
		t.Fatalf("expected activate, got %v %v", intent, err)
	}
}

func TestPlanRefusesInsufficientBalance(t *testing.T) {
	b := NewBoard()
	if _, err := b.Plan("a", fifty, hundred); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if _, err := b.Plan("a", hundred, hundred); err != nil {
		t.Fatalf("expected equal balance to pass, got %v", err)
	}
}

func TestPlanSwitchWhenAnotherRuns(t *testing.T) {
	b := NewBoard()
	if err := b.Activate("a"); err != nil {
		t.Fatal(err)
	}
	intent, err := b.Plan("b", hundred, fifty)
	if err != nil || intent != IntentSwitch {
		t.Fatalf("expected switch, got %v %v", intent, err)
	}
	if err := b.Activate("b"); !errors.Is(err, ErrAnotherBotRunning) {
		t.Fatalf("expected ErrAnotherBotRunning, got %v", err)
	}
}

func TestPlanStopAndPending(t *testing.T) {
	b := NewBoard()
	b.Activate("a")
	intent, err := b.Plan("a", decimal.Zero, hundred)
	if err != nil || intent != IntentStop {
		t.Fatalf("expected stop without balance check, got %v %v", intent, err)
	}

	b.MarkPending("b")
	if intent, _ := b.Plan("b", hundred, fifty); intent != IntentPending {
		t.Fatalf("expected pending, got %v", intent)
	}
}

func TestStopIsTerminalForTheRun(t *testing.T) {
	b := NewBoard()
	b.Activate("a")
	if err := b.Stop("a"); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if b.State("a") != models.BotStopped {
		t.Fatalf("expected stopped, got %s", b.State("a"))
	}
	if err := b.Stop("a"); !errors.Is(err, ErrBotNotRunning) {
		t.Fatalf("expected ErrBotNotRunning, got %v", err)
	}
	if _, ok := b.Running(); ok {
		t.Fatalf("expected nothing running")
	}
}

func TestReconcileKeepsSingleRunning(t *testing.T) {
	b := NewBoard()
	b.Activate("local")
	b.Reconcile([]models.BotStatus{
		{PlanID: "a", Status: models.BotRunning},
		{PlanID: "b", Status: models.BotRunning},
		{PlanID: "c", Status: models.BotPendingApproval},
	})
	if b.State("local") != models.BotStopped {
		t.Fatalf("expected local state replaced")
	}
	id, ok := b.Running()
	if !ok || id != "a" {
		t.Fatalf("expected a running, got %q %v", id, ok)
	}
	if b.State("b") != models.BotStopped {
		t.Fatalf("expected second running bot stopped, got %s", b.State("b"))
	}
	if b.State("c") != models.BotPendingApproval {
		t.Fatalf("expected c pending, got %s", b.State("c"))
	}
}

func TestApplyApprovedSwitch(t *testing.T) {
	b := NewBoard()
	b.Activate("a")
	b.MarkPending("b")
	b.Apply(models.BotStatus{PlanID: "b", Status: models.BotRunning})

	id, _ := b.Running()
	if id != "b" {
		t.Fatalf("expected b running, got %q", id)
	}
	if b.State("a") != models.BotStopped {
		t.Fatalf("expected a stopped, got %s", b.State("a"))
	}
}

func TestPlanWaitsOnAnyPendingSwitch(t *testing.T) {
	b := NewBoard()
	b.Reconcile([]models.BotStatus{
		{PlanID: "a", Status: models.BotRunning},
		{PlanID: "b", Status: models.BotPendingApproval},
	})
	if err := b.Stop("a"); err != nil {
		t.Fatal(err)
	}

	intent, err := b.Plan("c", hundred, fifty)
	if err != nil || intent != IntentPending {
		t.Fatalf("expected pending while b awaits approval, got %v %v", intent, err)
	}
	if _, err := b.Plan("c", fifty, hundred); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected balance refusal to take precedence, got %v", err)
	}

	b.Apply(models.BotStatus{PlanID: "b", Status: models.BotStopped})
	if intent, _ := b.Plan("c", hundred, fifty); intent != IntentActivate {
		t.Fatalf("expected activate once the request is settled, got %v", intent)
	}
}
