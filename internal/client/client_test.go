package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/shopspring/decimal"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestLoginSendsJSONAndDecodesToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON body, got %s", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["userName"] != "a@b.com" || body["password"] != "secret" {
			t.Errorf("unexpected body %v", body)
		}
		w.Write([]byte(`{"status":true,"data":{"token":"abc123"}}`))
	})

	res := c.Login(context.Background(), LoginRequest{UserName: "a@b.com", Password: "secret"})
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	var data models.LoginData
	if err := res.Decode(&data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Token != "abc123" {
		t.Fatalf("expected token abc123, got %s", data.Token)
	}
}

func TestResultNormalization(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		ok      bool
		message string
	}{
		{"success", 200, `{"status":true,"message":"done"}`, true, "done"},
		{"flag false", 200, `{"status":false,"message":"Invalid credentials"}`, false, "Invalid credentials"},
		{"flag missing", 200, `{"message":"hmm"}`, false, "hmm"},
		{"server error with message", 500, `{"status":false,"message":"Server down"}`, false, "Server down"},
		{"server error without body", 502, `bad gateway`, false, GenericFailure},
		{"http error with true flag", 400, `{"status":true}`, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			res := c.Profile(context.Background(), "tok")
			if res.OK != tc.ok {
				t.Fatalf("expected OK=%v, got %+v", tc.ok, res)
			}
			if res.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, res.Message)
			}
			if res.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, res.Status)
			}
		})
	}
}

func TestTransportFailureUsesGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res := New(srv.URL, time.Second).Profile(context.Background(), "tok")
	if res.OK || res.Err == nil {
		t.Fatalf("expected transport failure, got %+v", res)
	}
	if res.Failure() != GenericFailure {
		t.Fatalf("expected generic failure, got %s", res.Failure())
	}
}

func TestAuthenticatedCallsRequireToken(t *testing.T) {
	called := false
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	if res := c.Deposit(context.Background(), "", decimal.NewFromInt(20)); res.OK || res.Err != ErrUnauthorized {
		t.Fatalf("expected unauthorized result, got %+v", res)
	}
	if called {
		t.Fatal("request should not reach the server without a token")
	}
}

func TestBearerHeader(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Write([]byte(`{"status":true,"data":{"available":"12.5","currency":"USD"}}`))
	})
	res := c.Balance(context.Background(), "tok")
	var bal models.Balance
	if err := res.Decode(&bal); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bal.Available.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected balance %s", bal.Available)
	}
}

func TestOTPKey(t *testing.T) {
	cases := map[string]string{
		"+447700900":        "mobile",
		"0912345678":        "mobile",
		"12345":             "email",
		"a@b.com":           "email",
		"+1234567890123456": "email",
	}
	for target, want := range cases {
		if got := OTPKey(target); got != want {
			t.Errorf("OTPKey(%q) = %s, want %s", target, got, want)
		}
	}
}

func TestVerifyOTPSendsPatchForm(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("email") != "a@b.com" || r.PostForm.Get("otp") != "1234" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"status":true,"data":{"token":"reset"}}`))
	})
	res := c.VerifyOTP(context.Background(), "a@b.com", "1234")
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestCreateAccountFormKeys(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("groupId") != "g1" || r.PostForm.Get("Leverage") != "100" || r.PostForm.Get("PassMain") != "Secret#123" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"status":true,"data":{"id":"acc1"}}`))
	})
	res := c.CreateAccount(context.Background(), "tok", CreateAccountRequest{GroupID: "g1", Leverage: "100", Password: "Secret#123"})
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestListPlansPaging(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("sizePerPage") != "10" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":true,"data":{"list":[{"id":"p1","name":"Std","type":"DEMO","leverage":100}],"total":11,"page":2}}`))
	})
	res := c.ListPlans(context.Background(), "tok", 2, 10)
	var page models.Page[models.MT5Plan]
	if err := res.Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.List) != 1 || page.Total != 11 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestUploadKYCDocumentsMultipart(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		for field, want := range map[string]string{"poi": "passport", "poa": "bill"} {
			f, _, err := r.FormFile(field)
			if err != nil {
				t.Errorf("missing %s: %v", field, err)
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			if string(data) != want {
				t.Errorf("%s content = %q", field, data)
			}
		}
		w.Write([]byte(`{"status":true,"data":{"level":2}}`))
	})
	res := c.UploadKYCDocuments(context.Background(), "tok",
		Document{Name: "poi.png", Reader: strings.NewReader("passport")},
		Document{Name: "poa.png", Reader: strings.NewReader("bill")})
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestTrackerSupersedesOlderRequest(t *testing.T) {
	tr := NewTracker()
	first, t1 := tr.Begin(context.Background(), "plans")
	_, t2 := tr.Begin(context.Background(), "plans")

	if first.Err() == nil {
		t.Fatal("expected first request to be cancelled")
	}
	if t1.Current() {
		t.Fatal("first ticket should be stale")
	}
	if !t2.Current() {
		t.Fatal("second ticket should be current")
	}
	t1.Done()
	if !t2.Current() {
		t.Fatal("stale Done must not affect the current ticket")
	}

	_, other := tr.Begin(context.Background(), "accounts")
	if !other.Current() || !t2.Current() {
		t.Fatal("keys must be tracked independently")
	}
}

func TestEventsStream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/events" || r.URL.Query().Get("token") != "tok" {
			http.Error(w, "bad", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bot","data":{"planId":"b1","status":"RUNNING"}}`))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	var got []models.Event
	err := New(srv.URL, time.Second).Events(context.Background(), "tok", func(ev models.Event) {
		got = append(got, ev)
	})
	if err != nil {
		t.Fatalf("Events returned error: %v", err)
	}
	if len(got) != 1 || got[0].Type != models.EventBot {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestEventsURL(t *testing.T) {
	u, err := New("https://api.example.com/v1/", time.Second).EventsURL("t k")
	if err != nil {
		t.Fatal(err)
	}
	if u != "wss://api.example.com/v1/user/events?token=t+k" {
		t.Fatalf("unexpected url %s", u)
	}
}
