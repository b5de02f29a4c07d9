package gating

import (
	"errors"
	"sync"

	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance for this plan")
	ErrAnotherBotRunning   = errors.New("another bot is already running")
	ErrBotNotRunning       = errors.New("bot is not running")
)

// Intent is what a toggle on a plan's bot should do next.
type Intent int

const (
	IntentActivate Intent = iota
	IntentSwitch
	IntentStop
	IntentPending
)

func (i Intent) String() string {
	switch i {
	case IntentActivate:
		return "activate"
	case IntentSwitch:
		return "switch"
	case IntentStop:
		return "stop"
	case IntentPending:
		return "pending"
	}
	return "unknown"
}

// Board holds the run state of every plan's bot. At most one plan is Running.
type Board struct {
	mu     sync.Mutex
	states map[string]models.BotRunStatus
}

func NewBoard() *Board {
	return &Board{states: make(map[string]models.BotRunStatus)}
}

// Plan decides what toggling planID means. The balance check applies only
// when the toggle would start or move a bot. While any switch awaits approval
// nothing else can start, so every such toggle reports IntentPending.
func (b *Board) Plan(planID string, balance, minAmount decimal.Decimal) (Intent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.states[planID] {
	case models.BotRunning:
		return IntentStop, nil
	case models.BotPendingApproval:
		return IntentPending, nil
	}

	if balance.LessThan(minAmount) {
		return 0, ErrInsufficientBalance
	}
	for _, st := range b.states {
		if st == models.BotPendingApproval {
			return IntentPending, nil
		}
	}
	if _, ok := b.runningLocked(); ok {
		return IntentSwitch, nil
	}
	return IntentActivate, nil
}

func (b *Board) Activate(planID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if running, ok := b.runningLocked(); ok && running != planID {
		return ErrAnotherBotRunning
	}
	b.states[planID] = models.BotRunning
	return nil
}

func (b *Board) MarkPending(planID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.states[planID] != models.BotRunning {
		b.states[planID] = models.BotPendingApproval
	}
}

// Stop ends the plan's run. There is no undo: a new run starts from Plan again.
func (b *Board) Stop(planID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.states[planID] != models.BotRunning {
		return ErrBotNotRunning
	}
	b.states[planID] = models.BotStopped
	return nil
}

func (b *Board) Running() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runningLocked()
}

func (b *Board) State(planID string) models.BotRunStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.states[planID]; ok {
		return s
	}
	return models.BotStopped
}

// Reconcile replaces local state with the server's view. If the server
// reports several running bots only the first is kept running.
func (b *Board) Reconcile(statuses []models.BotStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.states = make(map[string]models.BotRunStatus, len(statuses))
	seenRunning := false
	for _, st := range statuses {
		if st.Status == models.BotRunning {
			if seenRunning {
				b.states[st.PlanID] = models.BotStopped
				continue
			}
			seenRunning = true
		}
		b.states[st.PlanID] = st.Status
	}
}

// Apply records a single server status update, such as an approved switch.
func (b *Board) Apply(st models.BotStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if st.Status == models.BotRunning {
		for id, s := range b.states {
			if s == models.BotRunning && id != st.PlanID {
				b.states[id] = models.BotStopped
			}
		}
	}
	b.states[st.PlanID] = st.Status
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states = make(map[string]models.BotRunStatus)
}

func (b *Board) runningLocked() (string, bool) {
	for id, s := range b.states {
		if s == models.BotRunning {
			return id, true
		}
	}
	return "", false
}
