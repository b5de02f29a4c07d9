package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/config"
	"github.com/mehrbod2002/fxmobile/internal/gating"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/router"
	"github.com/mehrbod2002/fxmobile/internal/sandbox"
	"github.com/mehrbod2002/fxmobile/internal/storage"
	"github.com/mehrbod2002/fxmobile/internal/validation"
)

type toastRecord struct {
	kind    ToastKind
	message string
}

type recordingNotifier struct {
	mu      sync.Mutex
	answer  bool
	toasts  []toastRecord
	prompts []string
}

func (n *recordingNotifier) Toast(kind ToastKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toastRecord{kind, message})
}

func (n *recordingNotifier) Confirm(message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompts = append(n.prompts, message)
	return n.answer
}

func (n *recordingNotifier) last() toastRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return toastRecord{}
	}
	return n.toasts[len(n.toasts)-1]
}

func newApp(host string, store storage.Store, n Notifier) *App {
	return New(Deps{
		Client:     client.New(host, 5*time.Second),
		Store:      store,
		Notifier:   n,
		SystemDark: func() bool { return false },
	})
}

func writeEnvelope(w http.ResponseWriter, status int, ok bool, message string, data any) {
	body := map[string]any{"status": ok, "message": message}
	if data != nil {
		body["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// countingServer answers every request with 404 and counts them.
func countingServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeEnvelope(w, http.StatusNotFound, false, "not found", nil)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLoginStoresTokenAndGoesHome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/auth/login" {
			writeEnvelope(w, http.StatusNotFound, false, "", nil)
			return
		}
		var req client.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserName != "a@b.com" || req.Password != "secret" {
			writeEnvelope(w, http.StatusBadRequest, false, "bad request", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "", map[string]string{"token": "abc123"})
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	a := newApp(srv.URL, storage.NewMemoryStore(), n)
	if err := a.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if a.Session.Token() != "abc123" {
		t.Fatalf("expected token abc123, got %q", a.Session.Token())
	}
	if got := n.toasts[0]; got.kind != ToastSuccess {
		t.Fatalf("expected success toast, got %+v", got)
	}
	if a.Router.Current() != router.Home {
		t.Fatalf("expected home, got %s", a.Router.Current())
	}
	if a.Profile.Snapshot().Name != models.DefaultUserName {
		t.Fatalf("expected fallback name, got %q", a.Profile.Snapshot().Name)
	}
	if a.Loading("login") {
		t.Fatalf("expected login loading flag to be reset")
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid credentials", nil)
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	a := newApp(srv.URL, storage.NewMemoryStore(), n)
	_ = a.Router.Navigate(router.Login)

	err := a.Login(context.Background(), "a@b.com", "nope")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 RequestError, got %v", err)
	}
	if n.last().message != "Invalid credentials" {
		t.Fatalf("expected server message toast, got %+v", n.last())
	}
	if a.Session.Authenticated() || a.Router.Current() != router.Login {
		t.Fatalf("expected to stay signed out on login screen")
	}
}

func TestLoginKeepsStateWhenTokenCannotBeSaved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]string{"token": "abc123"})
	}))
	defer srv.Close()

	store := storage.NewMemoryStore()
	store.FailSet = true
	n := &recordingNotifier{}
	a := newApp(srv.URL, store, n)

	if err := a.Login(context.Background(), "a@b.com", "secret"); err == nil {
		t.Fatalf("expected persistence failure to fail the login")
	}
	if a.Session.Authenticated() {
		t.Fatalf("expected no in-memory token after failed persist")
	}
	if n.last().kind != ToastError {
		t.Fatalf("expected error toast, got %+v", n.last())
	}
}

func TestDepositBelowMinimumIsRejectedLocally(t *testing.T) {
	srv, hits := countingServer(t)
	n := &recordingNotifier{}
	a := newApp(srv.URL, storage.NewMemoryStore(), n)
	a.Profile.SetUser(models.UserData{Name: "Ada", Level: models.KYCLevelBasic})

	_, err := a.Deposit(context.Background(), "5")
	if err == nil || !strings.Contains(err.Error(), "Minimum deposit is $10") {
		t.Fatalf("expected minimum deposit error, got %v", err)
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Fatalf("expected no request, got %d", *hits)
	}
	if !strings.Contains(n.last().message, "Minimum deposit is $10") {
		t.Fatalf("expected minimum deposit toast, got %+v", n.last())
	}
}

func TestMT5PasswordTooShortIsRejectedLocally(t *testing.T) {
	srv, hits := countingServer(t)
	n := &recordingNotifier{}
	a := newApp(srv.URL, storage.NewMemoryStore(), n)
	a.Profile.SetUser(models.UserData{Level: models.KYCLevelApproved})

	_, err := a.CreateMT5Account(context.Background(), validation.MT5AccountForm{GroupID: "real-standard", Leverage: "100", Password: "abc"})
	if err == nil || err.Error() != "Password must be between 8-15 characters" {
		t.Fatalf("expected password length error, got %v", err)
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Fatalf("expected no request, got %d", *hits)
	}
}

func TestLockedActionPromptsForVerification(t *testing.T) {
	srv, hits := countingServer(t)
	n := &recordingNotifier{answer: true}
	a := newApp(srv.URL, storage.NewMemoryStore(), n)
	_ = a.Router.Reset(router.Home)

	_, err := a.Deposit(context.Background(), "50")
	var locked *gating.LockedError
	if !errors.As(err, &locked) || locked.Decision.Reason != gating.ReasonKYCLevel1Required {
		t.Fatalf("expected KYC level 1 lock, got %v", err)
	}
	if len(n.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(n.prompts))
	}
	if a.Router.Current() != router.KYCForm {
		t.Fatalf("expected kycForm after accepting, got %s", a.Router.Current())
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Fatalf("expected the locked action not to be sent")
	}

	n.answer = false
	_ = a.Router.Reset(router.Home)
	if err := a.Open(router.Withdraw); !errors.Is(err, gating.ErrLocked) {
		t.Fatalf("expected withdraw screen to be locked, got %v", err)
	}
	if a.Router.Current() != router.Home {
		t.Fatalf("expected to stay home after declining, got %s", a.Router.Current())
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	srv, _ := countingServer(t)
	a := newApp(srv.URL, storage.NewMemoryStore(), &recordingNotifier{})
	for i := 0; i < 2; i++ {
		if err := a.Logout(); err != nil {
			t.Fatalf("Logout #%d returned error: %v", i+1, err)
		}
	}
	if a.Session.Authenticated() {
		t.Fatalf("expected no token")
	}
	if a.Router.Current() != router.Welcome {
		t.Fatalf("expected welcome, got %s", a.Router.Current())
	}
}

func TestStalePlanLoadIsDiscarded(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plans := []models.MT5Plan{
			{ID: "d1", Type: models.PlanTypeDemo},
			{ID: "r1", Type: models.PlanTypeReal},
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			close(arrived)
			<-release
		}
		writeEnvelope(w, http.StatusOK, true, "", models.Page[models.MT5Plan]{List: plans, Total: 2, Page: 1})
	}))
	defer srv.Close()

	a := newApp(srv.URL, storage.NewMemoryStore(), &recordingNotifier{})
	if err := a.Session.Login("tok"); err != nil {
		t.Fatalf("Session.Login returned error: %v", err)
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := a.LoadPlans(context.Background(), models.PlanTypeDemo)
		firstErr <- err
	}()
	<-arrived

	plans, err := a.LoadPlans(context.Background(), models.PlanTypeReal)
	if err != nil {
		t.Fatalf("second LoadPlans returned error: %v", err)
	}
	close(release)

	if err := <-firstErr; !errors.Is(err, ErrStale) {
		t.Fatalf("expected first load to be stale, got %v", err)
	}
	if len(plans) != 1 || plans[0].ID != "r1" {
		t.Fatalf("expected the REAL plan, got %+v", plans)
	}
	if got := a.Plans(); len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("expected stored plans from the newer load, got %+v", got)
	}
	if a.Loading("plans") {
		t.Fatalf("expected plans loading flag to be reset")
	}
}

type sandboxEnv struct {
	server   *sandbox.Server
	url      string
	requests int32
}

func (e *sandboxEnv) requestCount() int32 {
	return atomic.LoadInt32(&e.requests)
}

func newSandbox(t *testing.T) *sandboxEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{JWTSecret: "test-secret", AdminUser: "admin", AdminPass: "root", OTPTTL: time.Minute, DemoOTP: "654321"}
	server, err := sandbox.New(ctx, cfg, sandbox.MemoryRepositories())
	if err != nil {
		t.Fatalf("sandbox.New returned error: %v", err)
	}
	env := &sandboxEnv{server: server}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&env.requests, 1)
		server.Engine.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	env.url = srv.URL
	return env
}

func signup(t *testing.T, a *App, email string) {
	t.Helper()
	err := a.Signup(context.Background(), validation.SignupForm{
		Email: email, Password: "Secret#123", ConfirmPassword: "Secret#123", Country: "DE",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
}

func verifyFully(t *testing.T, a *App) {
	t.Helper()
	ctx := context.Background()
	if err := a.SubmitKYCLevel1(ctx, validation.KYCLevel1Form{Name: "Ada Lovelace", Dob: "1990-04-01", CountryCode: "DE"}); err != nil {
		t.Fatalf("SubmitKYCLevel1 returned error: %v", err)
	}
	if a.Profile.Snapshot().Level != models.KYCLevelBasic {
		t.Fatalf("expected level 1, got %d", a.Profile.Snapshot().Level)
	}
	poi := client.Document{Name: "passport.png", Reader: bytes.NewReader([]byte("passport"))}
	poa := client.Document{Name: "bill.pdf", Reader: bytes.NewReader([]byte("utility bill"))}
	if err := a.SubmitKYCLevel2(ctx, poi, poa); err != nil {
		t.Fatalf("SubmitKYCLevel2 returned error: %v", err)
	}
	if a.Profile.Snapshot().Level != models.KYCLevelApproved {
		t.Fatalf("expected level 2, got %d", a.Profile.Snapshot().Level)
	}
}

func fund(t *testing.T, env *sandboxEnv, a *App, amount string) {
	t.Helper()
	tx, err := a.Deposit(context.Background(), amount)
	if err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}
	if _, err := env.server.Services.Wallet.ReviewTransaction(tx.ID, models.TransactionStatusApproved, ""); err != nil {
		t.Fatalf("ReviewTransaction returned error: %v", err)
	}
	a.RefreshBalance(context.Background())
}

func TestSandboxSignupKYCAndMT5(t *testing.T) {
	env := newSandbox(t)
	n := &recordingNotifier{answer: true}
	store := storage.NewMemoryStore()
	a := newApp(env.url, store, n)
	ctx := context.Background()

	signup(t, a, "ada@example.com")
	if a.Router.Current() != router.Home {
		t.Fatalf("expected home after signup, got %s", a.Router.Current())
	}

	if _, err := a.CreateMT5Account(ctx, validation.MT5AccountForm{GroupID: "real-standard", Leverage: "100", Password: "Trade1234"}); !errors.Is(err, gating.ErrLocked) {
		t.Fatalf("expected MT5 creation to be locked, got %v", err)
	}

	verifyFully(t, a)

	plans, err := a.LoadPlans(ctx, models.PlanTypeDemo)
	if err != nil {
		t.Fatalf("LoadPlans returned error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 demo plans, got %d", len(plans))
	}

	account, err := a.CreateMT5Account(ctx, validation.MT5AccountForm{GroupID: "demo-standard", Leverage: "100", Password: "Trade1234"})
	if err != nil {
		t.Fatalf("CreateMT5Account returned error: %v", err)
	}
	if got := a.Accounts(); len(got) != 1 || got[0].ID != account.ID {
		t.Fatalf("expected the new account to be appended, got %+v", got)
	}

	page, err := a.LoadAccounts(ctx, 1)
	if err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 account on the server, got %d", page.Total)
	}

	restarted := newApp(env.url, store, &recordingNotifier{})
	if err := restarted.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if restarted.Router.Current() != router.Home {
		t.Fatalf("expected restored session to open home, got %s", restarted.Router.Current())
	}
	if restarted.Profile.Snapshot().Email != "ada@example.com" {
		t.Fatalf("expected restored profile, got %+v", restarted.Profile.Snapshot())
	}
}

func TestSandboxWithdrawAndTransfer(t *testing.T) {
	env := newSandbox(t)
	a := newApp(env.url, storage.NewMemoryStore(), &recordingNotifier{answer: true})
	ctx := context.Background()

	signup(t, a, "funds@example.com")
	verifyFully(t, a)
	fund(t, env, a, "500")

	if got := a.Profile.Snapshot().Balance.String(); got != "500" {
		t.Fatalf("expected balance 500, got %s", got)
	}
	if _, err := a.Withdraw(ctx, "900", "TRX-addr"); err == nil || err.Error() != "Insufficient balance" {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	account, err := a.CreateMT5Account(ctx, validation.MT5AccountForm{GroupID: "real-standard", Leverage: "100", Password: "Trade1234"})
	if err != nil {
		t.Fatalf("CreateMT5Account returned error: %v", err)
	}
	if _, err := a.Transfer(ctx, "200", account.ID); err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	if got := a.Profile.Snapshot().Balance.String(); got != "300" {
		t.Fatalf("expected balance 300 after transfer, got %s", got)
	}

	tx, err := a.Withdraw(ctx, "100", "TRX-addr")
	if err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if tx.Status != models.TransactionStatusPending {
		t.Fatalf("expected pending withdrawal, got %s", tx.Status)
	}
}

func TestSandboxBotSwitching(t *testing.T) {
	env := newSandbox(t)
	n := &recordingNotifier{answer: true}
	a := newApp(env.url, storage.NewMemoryStore(), n)
	ctx := context.Background()

	signup(t, a, "bots@example.com")
	verifyFully(t, a)
	fund(t, env, a, "2000")

	if _, err := a.LoadBots(ctx); err != nil {
		t.Fatalf("LoadBots returned error: %v", err)
	}

	intent, err := a.ToggleBot(ctx, "starter")
	if err != nil || intent != gating.IntentActivate {
		t.Fatalf("expected activation, got %s %v", intent, err)
	}
	if a.Bots.State("starter") != models.BotRunning {
		t.Fatalf("expected starter running")
	}

	intent, err = a.ToggleBot(ctx, "growth")
	if err != nil || intent != gating.IntentSwitch {
		t.Fatalf("expected switch request, got %s %v", intent, err)
	}
	if a.Bots.State("growth") != models.BotPendingApproval {
		t.Fatalf("expected growth pending, got %s", a.Bots.State("growth"))
	}
	before := env.requestCount()
	if intent, _ := a.ToggleBot(ctx, "growth"); intent != gating.IntentPending {
		t.Fatalf("expected pending intent, got %s", intent)
	}

	if _, err := a.ToggleBot(ctx, "premium"); !errors.Is(err, gating.ErrInsufficientBalance) {
		t.Fatalf("expected premium to be refused locally, got %v", err)
	}
	if got := env.requestCount(); got != before {
		t.Fatalf("expected pending and refused toggles to stay local, saw %d requests", got-before)
	}

	requests, err := env.server.Services.Bots.GetPendingRequests()
	if err != nil || len(requests) != 1 {
		t.Fatalf("expected one pending request, got %d %v", len(requests), err)
	}
	if _, err := env.server.Services.Bots.ReviewRequest(requests[0].ID, models.RequestApproved, ""); err != nil {
		t.Fatalf("ReviewRequest returned error: %v", err)
	}

	if _, err := a.LoadBots(ctx); err != nil {
		t.Fatalf("LoadBots returned error: %v", err)
	}
	if running, _ := a.Bots.Running(); running != "growth" {
		t.Fatalf("expected growth running after approval, got %q", running)
	}

	n.answer = false
	if _, err := a.ToggleBot(ctx, "growth"); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected declined stop, got %v", err)
	}
	n.answer = true
	if intent, err := a.ToggleBot(ctx, "growth"); err != nil || intent != gating.IntentStop {
		t.Fatalf("expected stop, got %s %v", intent, err)
	}
	if _, ok := a.Bots.Running(); ok {
		t.Fatalf("expected no bot running")
	}
}

func TestSandboxForgotPassword(t *testing.T) {
	env := newSandbox(t)
	n := &recordingNotifier{}
	a := newApp(env.url, storage.NewMemoryStore(), n)
	ctx := context.Background()

	signup(t, a, "reset@example.com")
	if err := a.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if err := a.SendOTP(ctx, "reset@example.com"); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	if a.Router.Current() != router.VerifyPassword {
		t.Fatalf("expected verifyPassword, got %s", a.Router.Current())
	}
	if err := a.VerifyOTP(ctx, "654321"); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if err := a.ResetPassword(ctx, "Fresh#4567", "Fresh#4567"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if a.Router.Current() != router.Login {
		t.Fatalf("expected login screen, got %s", a.Router.Current())
	}
	if err := a.Login(ctx, "reset@example.com", "Fresh#4567"); err != nil {
		t.Fatalf("Login with the new password returned error: %v", err)
	}
}

func TestListenAppliesBalanceEvents(t *testing.T) {
	env := newSandbox(t)
	a := newApp(env.url, storage.NewMemoryStore(), &recordingNotifier{answer: true})

	signup(t, a, "events@example.com")
	verifyFully(t, a)
	tx, err := a.Deposit(context.Background(), "75")
	if err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	listenErr := make(chan error, 1)
	go func() { listenErr <- a.Listen(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for env.server.Hub.GetClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("event stream never connected")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := env.server.Services.Wallet.ReviewTransaction(tx.ID, models.TransactionStatusApproved, ""); err != nil {
		t.Fatalf("ReviewTransaction returned error: %v", err)
	}
	for a.Profile.Snapshot().Balance.String() != "75" {
		if time.Now().After(deadline) {
			t.Fatalf("expected balance 75 from event, got %s", a.Profile.Snapshot().Balance)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-listenErr; err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}
}
