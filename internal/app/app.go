// Package app drives the client flows a screen would trigger: it owns the
// session, the profile, the router, the theme and the bot board, and talks
// to the API through internal/client.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/profile"
	"github.com/mehrbod2002/fxmobile/internal/router"
	"github.com/mehrbod2002/fxmobile/internal/session"
	"github.com/mehrbod2002/fxmobile/internal/storage"
	"github.com/mehrbod2002/fxmobile/internal/theme"
)

var (
	// ErrStale is returned when a newer request for the same data superseded this one.
	ErrStale    = errors.New("superseded by a newer request")
	ErrDeclined = errors.New("declined by user")
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Notifier shows toasts and asks yes/no questions.
type Notifier interface {
	Toast(kind ToastKind, message string)
	Confirm(message string) bool
}

// RequestError is a failed API call, carrying the message shown to the user.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type Deps struct {
	Client     *client.Client
	Store      storage.Store
	Notifier   Notifier
	SystemDark func() bool
	PageSize   int
}

type App struct {
	Session *session.Session
	Profile *profile.Store
	Router  *router.Router
	Theme   *theme.Theme
	Bots    *gating.Board

	api      *client.Client
	tracker  *client.Tracker
	notify   Notifier
	pageSize int

	mu         sync.Mutex
	loading    map[string]int
	plans      []models.MT5Plan
	accounts   []models.MT5Account
	botPlans   []models.BotPlan
	otpTarget  string
	resetToken string
}

func New(deps Deps) *App {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &App{
		Session:  session.New(deps.Store),
		Profile:  profile.NewStore(),
		Router:   router.New(),
		Theme:    theme.New(deps.Store, deps.SystemDark),
		Bots:     gating.NewBoard(),
		api:      deps.Client,
		tracker:  client.NewTracker(),
		notify:   deps.Notifier,
		pageSize: pageSize,
		loading:  make(map[string]int),
	}
}

// Start restores the theme and the token, then leaves the splash screen
// for home or welcome.
func (a *App) Start(ctx context.Context) error {
	a.Theme.Load()
	a.Session.Load()
	if !a.Session.Authenticated() {
		return a.Router.Reset(router.Welcome)
	}

	res := a.api.Profile(ctx, a.Session.Token())
	switch {
	case res.OK:
		var data models.UserData
		if err := res.Decode(&data); err != nil {
			log.Printf("Failed to decode profile: %v", err)
		} else {
			a.Profile.SetUser(data)
		}
	case res.Status == http.StatusUnauthorized:
		log.Printf("Stored token rejected, signing out")
		if err := a.Session.Logout(); err != nil {
			log.Printf("Failed to clear rejected token: %v", err)
		}
		return a.Router.Reset(router.Welcome)
	default:
		log.Printf("Failed to fetch profile: %v", res.Err)
	}

	a.RefreshBalance(ctx)
	return a.Router.Reset(router.Home)
}

// Loading reports whether a flow tracked under key is in flight.
func (a *App) Loading(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading[key] > 0
}

func (a *App) begin(key string) func() {
	a.mu.Lock()
	a.loading[key]++
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		a.loading[key]--
		if a.loading[key] <= 0 {
			delete(a.loading, key)
		}
		a.mu.Unlock()
	}
}

func (a *App) toast(kind ToastKind, message string) {
	if a.notify != nil {
		a.notify.Toast(kind, message)
	}
}

func (a *App) confirm(message string) bool {
	if a.notify == nil {
		return false
	}
	return a.notify.Confirm(message)
}

// invalid reports a pre-flight failure. No request has been sent.
func (a *App) invalid(err error) error {
	a.toast(ToastError, err.Error())
	return err
}

// failed turns an unsuccessful result into a toast and a *RequestError.
func (a *App) failed(res *client.Result) error {
	msg := res.Failure()
	a.toast(ToastError, msg)
	return &RequestError{Status: res.Status, Message: msg, Err: res.Err}
}

func (a *App) decodeFailed(err error) error {
	log.Printf("Failed to decode response: %v", err)
	a.toast(ToastError, client.GenericFailure)
	return &RequestError{Message: client.GenericFailure, Err: err}
}

func successMessage(res *client.Result, fallback string) string {
	if res.Message != "" {
		return res.Message
	}
	return fallback
}

// gate checks action against the profile. When locked the user is asked
// whether to open verification; the action itself is dropped either way.
func (a *App) gate(action gating.Action) error {
	err := gating.Require(a.Profile.Snapshot(), action)
	var locked *gating.LockedError
	if !errors.As(err, &locked) {
		return err
	}
	if a.confirm(locked.Decision.Prompt()) {
		if navErr := a.Router.Navigate(router.KYCForm); navErr != nil {
			log.Printf("Failed to open verification: %v", navErr)
		}
	}
	return err
}

var gatedScreens = map[router.Screen]gating.Action{
	router.Deposit:  gating.ActionDeposit,
	router.Withdraw: gating.ActionWithdraw,
	router.Transfer: gating.ActionTransfer,
}

// Open navigates to s, unless s hosts a gated action the profile cannot use yet.
func (a *App) Open(s router.Screen) error {
	if action, ok := gatedScreens[s]; ok {
		if err := a.gate(action); err != nil {
			return err
		}
	}
	return a.Router.Navigate(s)
}
