package router

import (
	"errors"
	"reflect"
	"testing"
)

func TestInitialScreenIsSplash(t *testing.T) {
	r := New()
	if r.Current() != Splash {
		t.Fatalf("expected splash, got %s", r.Current())
	}
	if len(r.History()) != 0 {
		t.Fatalf("expected empty history")
	}
}

func TestNavigateAndBack(t *testing.T) {
	r := New()
	r.Navigate(Welcome)
	r.Navigate(Login)
	r.Navigate(Home)

	want := []Screen{Splash, Welcome, Login}
	if got := r.History(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	if !r.Back() || r.Current() != Login {
		t.Fatalf("expected back to login, got %s", r.Current())
	}
	r.Back()
	r.Back()
	if r.Current() != Splash {
		t.Fatalf("expected splash, got %s", r.Current())
	}
	if r.Back() {
		t.Fatalf("expected Back to report false on empty history")
	}
}

func TestNavigateToCurrentIsNoop(t *testing.T) {
	r := New()
	calls := 0
	r.OnChange(func(from, to Screen) { calls++ })
	r.Navigate(Splash)
	if calls != 0 || len(r.History()) != 0 {
		t.Fatalf("expected no change, got %d calls", calls)
	}
}

func TestReplaceAndReset(t *testing.T) {
	r := New()
	r.Navigate(Welcome)
	r.Replace(Login)
	if got := r.History(); !reflect.DeepEqual(got, []Screen{Splash}) {
		t.Fatalf("expected replace to skip history, got %v", got)
	}
	r.Reset(Home)
	if r.Current() != Home || len(r.History()) != 0 {
		t.Fatalf("expected home with empty history, got %s %v", r.Current(), r.History())
	}
}

func TestUnknownScreenRejected(t *testing.T) {
	r := New()
	if err := r.Navigate(Screen("nowhere")); !errors.Is(err, ErrUnknownScreen) {
		t.Fatalf("expected ErrUnknownScreen, got %v", err)
	}
	if r.Current() != Splash {
		t.Fatalf("expected screen unchanged, got %s", r.Current())
	}
	if _, err := Parse("deposit"); err != nil {
		t.Fatalf("expected deposit to parse, got %v", err)
	}
}

func TestOnChangeReportsTransitions(t *testing.T) {
	r := New()
	var seen [][2]Screen
	r.OnChange(func(from, to Screen) { seen = append(seen, [2]Screen{from, to}) })
	r.Navigate(Home)
	r.Back()
	want := [][2]Screen{{Splash, Home}, {Home, Splash}}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
}
