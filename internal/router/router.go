// Package router keeps the single active screen and a history stack of the
// screens that led to it.
package router

import (
	"errors"
	"fmt"
	"sync"
)

type Screen string

const (
	Splash          Screen = "splash"
	Welcome         Screen = "welcome"
	Login           Screen = "login"
	Signup          Screen = "signup"
	Home            Screen = "home"
	KYCForm         Screen = "kycForm"
	Wallet          Screen = "wallet"
	Transfer        Screen = "transfer"
	Plans           Screen = "plans"
	Withdraw        Screen = "withdraw"
	Settings        Screen = "settings"
	PersonalData    Screen = "personalData"
	Deposit         Screen = "deposit"
	MT5Account      Screen = "mt5Account"
	Trades          Screen = "trades"
	Security        Screen = "security"
	AccountSettings Screen = "accountSettings"
	ForgotPassword  Screen = "forgotPassword"
	VerifyPassword  Screen = "verifyPassword"
	ResetPassword   Screen = "resetPassword"
)

var ErrUnknownScreen = errors.New("unknown screen")

var screens = map[Screen]struct{}{
	Splash: {}, Welcome: {}, Login: {}, Signup: {}, Home: {}, KYCForm: {},
	Wallet: {}, Transfer: {}, Plans: {}, Withdraw: {}, Settings: {},
	PersonalData: {}, Deposit: {}, MT5Account: {}, Trades: {}, Security: {},
	AccountSettings: {}, ForgotPassword: {}, VerifyPassword: {}, ResetPassword: {},
}

func (s Screen) Valid() bool {
	_, ok := screens[s]
	return ok
}

// Parse maps a screen name to its Screen value.
func Parse(name string) (Screen, error) {
	s := Screen(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScreen, name)
	}
	return s, nil
}

type ChangeFunc func(from, to Screen)

// Router swaps screens without guards: a screen whose context is missing is
// expected to render its own empty state.
type Router struct {
	mu        sync.RWMutex
	current   Screen
	history   []Screen
	listeners []ChangeFunc
}

func New() *Router {
	return &Router{current: Splash}
}

func (r *Router) Current() Screen {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns previous screens, oldest first.
func (r *Router) History() []Screen {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Screen, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Router) OnChange(fn ChangeFunc) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Navigate makes s current and pushes the previous screen onto the history.
// Navigating to the current screen does nothing.
func (r *Router) Navigate(s Screen) error {
	return r.swap(s, func(prev Screen) {
		r.history = append(r.history, prev)
	})
}

// Replace makes s current without recording the previous screen.
func (r *Router) Replace(s Screen) error {
	return r.swap(s, nil)
}

// Reset makes s current and forgets the history, as after login or logout.
func (r *Router) Reset(s Screen) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, s)
	}
	r.mu.Lock()
	prev := r.current
	r.current = s
	r.history = nil
	listeners := r.listeners
	r.mu.Unlock()

	if prev != s {
		notify(listeners, prev, s)
	}
	return nil
}

// Back pops the history. It reports false when there is nowhere to go.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	prev := r.current
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	to := r.current
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, prev, to)
	return true
}

func (r *Router) swap(s Screen, record func(prev Screen)) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, s)
	}
	r.mu.Lock()
	prev := r.current
	if prev == s {
		r.mu.Unlock()
		return nil
	}
	if record != nil {
		record(prev)
	}
	r.current = s
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, prev, s)
	return nil
}

func notify(listeners []ChangeFunc, from, to Screen) {
	for _, fn := range listeners {
		fn(from, to)
	}
}
