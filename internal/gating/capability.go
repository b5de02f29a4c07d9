// Package gating turns the profile's KYC level into allow/deny decisions
// for money-moving actions, and tracks which trading bot is running.
package gating

import (
	"errors"
	"fmt"

	"github.com/mehrbod2002/fxmobile/internal/models"
)

type Action string

const (
	ActionDeposit   Action = "deposit"
	ActionWithdraw  Action = "withdraw"
	ActionMT5Create Action = "mt5_create"
	ActionTransfer  Action = "transfer"
)

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonKYCLevel1Required Reason = "kyc_level_1_required"
	ReasonKYCLevel2Required Reason = "kyc_level_2_required"
)

var ErrLocked = errors.New("action locked")

// Capability is the full set of gated actions for one profile.
type Capability struct {
	Deposit   bool
	Withdraw  bool
	MT5Create bool
	Transfer  bool
}

var requiredLevel = map[Action]int{
	ActionDeposit:   models.KYCLevelBasic,
	ActionTransfer:  models.KYCLevelBasic,
	ActionWithdraw:  models.KYCLevelApproved,
	ActionMT5Create: models.KYCLevelApproved,
}

func Capabilities(p models.UserProfile) Capability {
	return Capability{
		Deposit:   p.Level >= requiredLevel[ActionDeposit],
		Withdraw:  p.Level >= requiredLevel[ActionWithdraw],
		MT5Create: p.Level >= requiredLevel[ActionMT5Create],
		Transfer:  p.Level >= requiredLevel[ActionTransfer],
	}
}

func (c Capability) Allows(a Action) bool {
	switch a {
	case ActionDeposit:
		return c.Deposit
	case ActionWithdraw:
		return c.Withdraw
	case ActionMT5Create:
		return c.MT5Create
	case ActionTransfer:
		return c.Transfer
	}
	return false
}

type Decision struct {
	Action        Action
	Unlocked      bool
	Reason        Reason
	RequiredLevel int
	CurrentLevel  int
}

func Check(p models.UserProfile, a Action) Decision {
	need, ok := requiredLevel[a]
	if !ok {
		return Decision{Action: a, CurrentLevel: p.Level}
	}
	d := Decision{Action: a, RequiredLevel: need, CurrentLevel: p.Level}
	if Capabilities(p).Allows(a) {
		d.Unlocked = true
		return d
	}
	if need >= models.KYCLevelApproved {
		d.Reason = ReasonKYCLevel2Required
	} else {
		d.Reason = ReasonKYCLevel1Required
	}
	return d
}

// Prompt is the confirmation text offered when the action is locked.
func (d Decision) Prompt() string {
	switch d.Reason {
	case ReasonKYCLevel1Required:
		return "Complete KYC Level 1 to continue. Go to verification now?"
	case ReasonKYCLevel2Required:
		return "KYC Level 2 approval is required for this action. Go to verification now?"
	}
	return ""
}

type LockedError struct {
	Decision Decision
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s locked: %s", e.Decision.Action, e.Decision.Reason)
}

func (e *LockedError) Unwrap() error {
	return ErrLocked
}

// Require returns a *LockedError when the action is not allowed.
func Require(p models.UserProfile, a Action) error {
	d := Check(p, a)
	if d.Unlocked {
		return nil
	}
	return &LockedError{Decision: d}
}
