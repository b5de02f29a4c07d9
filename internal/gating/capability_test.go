package gating

import (
	"errors"
	"testing"

	"github.com/mehrbod2002/fxmobile/internal/models"
)

func profileAt(level int) models.UserProfile {
	return models.UserProfile{UserData: models.UserData{Level: level}}
}

func TestCapabilitiesByLevel(t *testing.T) {
	cases := []struct {
		level int
		want  Capability
	}{
		{0, Capability{}},
		{1, Capability{Deposit: true, Transfer: true}},
		{2, Capability{Deposit: true, Withdraw: true, MT5Create: true, Transfer: true}},
		{3, Capability{Deposit: true, Withdraw: true, MT5Create: true, Transfer: true}},
	}
	for _, tc := range cases {
		if got := Capabilities(profileAt(tc.level)); got != tc.want {
			t.Errorf("level %d: expected %+v, got %+v", tc.level, tc.want, got)
		}
	}
}

func TestCapabilitiesIgnoreServerFlags(t *testing.T) {
	p := profileAt(0)
	p.IsDepositAllowed = true
	p.IsWithdrawalAllowed = true
	if c := Capabilities(p); c.Deposit || c.Withdraw {
		t.Fatalf("expected level to decide, got %+v", c)
	}
}

func TestCheckReasons(t *testing.T) {
	d := Check(profileAt(0), ActionDeposit)
	if d.Unlocked || d.Reason != ReasonKYCLevel1Required || d.RequiredLevel != 1 {
		t.Fatalf("unexpected deposit decision at level 0: %+v", d)
	}
	d = Check(profileAt(1), ActionWithdraw)
	if d.Unlocked || d.Reason != ReasonKYCLevel2Required || d.RequiredLevel != 2 {
		t.Fatalf("unexpected withdraw decision at level 1: %+v", d)
	}
	if d.Prompt() == "" {
		t.Fatalf("expected a prompt for a locked decision")
	}
	d = Check(profileAt(2), ActionMT5Create)
	if !d.Unlocked || d.Reason != ReasonNone || d.Prompt() != "" {
		t.Fatalf("unexpected mt5 decision at level 2: %+v", d)
	}
	if Check(profileAt(5), Action("unknown")).Unlocked {
		t.Fatalf("expected unknown action to stay locked")
	}
}

func TestRequireReturnsLockedError(t *testing.T) {
	err := Require(profileAt(1), ActionWithdraw)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	var locked *LockedError
	if !errors.As(err, &locked) || locked.Decision.Action != ActionWithdraw {
		t.Fatalf("expected LockedError for withdraw, got %v", err)
	}
	if err := Require(profileAt(1), ActionDeposit); err != nil {
		t.Fatalf("expected deposit allowed at level 1, got %v", err)
	}
}
