package profile

import (
	"testing"
	"time"

	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/shopspring/decimal"
)

func TestSetUserFallbackName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		s := NewStore()
		s.SetUser(models.UserData{ID: "u1", Name: name})
		if got := s.Snapshot().Name; got != "User Name" {
			t.Fatalf("expected fallback for %q, got %q", name, got)
		}
	}

	s := NewStore()
	s.SetUser(models.UserData{Name: "Ada"})
	if got := s.Snapshot().Name; got != "Ada" {
		t.Fatalf("expected Ada, got %q", got)
	}
}

func TestSetUserOverwritesEverything(t *testing.T) {
	s := NewStore()
	s.SetUser(models.UserData{ID: "u1", Email: "a@b.com", Level: 2, IsDepositAllowed: true})
	s.SetBalance(decimal.NewFromInt(50))
	s.SetUser(models.UserData{ID: "u2", Name: "Bob"})

	p := s.Snapshot()
	if p.ID != "u2" || p.Email != "" || p.Level != 0 || p.IsDepositAllowed {
		t.Fatalf("expected wholesale overwrite, got %+v", p)
	}
	if !p.Balance.IsZero() {
		t.Fatalf("expected balance reset, got %s", p.Balance)
	}
}

func TestUpdateProfileOnlyPresentFields(t *testing.T) {
	s := NewStore()
	s.SetUser(models.UserData{Name: "Ada", Mobile: "+100", Address: "Old street", Level: 1})

	s.UpdateProfile(models.UserData{Name: "Ada L.", Mobile: "", Address: "  ", Gender: "female", Level: 0})

	p := s.Snapshot()
	if p.Name != "Ada L." {
		t.Fatalf("expected name updated, got %q", p.Name)
	}
	if p.Mobile != "+100" || p.Address != "Old street" {
		t.Fatalf("expected empty fields to be ignored, got mobile=%q address=%q", p.Mobile, p.Address)
	}
	if p.Gender != "female" {
		t.Fatalf("expected gender set, got %q", p.Gender)
	}
	if p.Level != 1 {
		t.Fatalf("expected level untouched, got %d", p.Level)
	}
}

func TestDobNormalization(t *testing.T) {
	cases := map[string]string{
		"1990-05-14T00:00:00.000Z":      "1990-05-14",
		"1990-05-14T23:30:00-05:00":     "1990-05-14",
		"1990-05-14T01:15:00+09:00":     "1990-05-14",
		"1990-05-14T12:00:00.123456789Z": "1990-05-14",
		"1990-05-14":                    "1990-05-14",
		"1990-05-14 08:00:00":           "1990-05-14",
	}
	for in, want := range cases {
		s := NewStore()
		s.UpdateProfile(models.UserData{Dob: in})
		if got := s.Snapshot().Dob; got != want {
			t.Errorf("dob %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestRaiseLevelIsMonotonic(t *testing.T) {
	s := NewStore()
	if !s.RaiseLevel(1) {
		t.Fatalf("expected raise to 1")
	}
	if s.RaiseLevel(0) {
		t.Fatalf("expected lower level to be ignored")
	}
	if !s.RaiseLevel(2) {
		t.Fatalf("expected raise to 2")
	}
	p := s.Snapshot()
	if p.Level != 2 || !p.IsKycVerified {
		t.Fatalf("expected level 2 verified, got level=%d verified=%v", p.Level, p.IsKycVerified)
	}
}

func TestResetClearsProfile(t *testing.T) {
	s := NewStore()
	s.SetUser(models.UserData{ID: "u1", Name: "Ada", Level: 2})
	s.Reset()
	p := s.Snapshot()
	if p.ID != "" || p.Name != "" || p.Level != 0 {
		t.Fatalf("expected empty profile after reset, got %+v", p)
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.SetUser(models.UserData{Name: "Ada"})
	select {
	case p := <-ch:
		if p.Name != "Ada" {
			t.Fatalf("expected Ada, got %q", p.Name)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a snapshot")
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after cancel")
	}
	cancel()
	s.SetUser(models.UserData{Name: "Bob"})
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewStore()
	_, cancel := s.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			s.RaiseLevel(i + 1)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("writers blocked on a full subscriber")
	}
}
