package theme

import (
	"testing"

	"github.com/mehrbod2002/fxmobile/internal/storage"
)

func TestSystemModeFollowsProbe(t *testing.T) {
	dark := false
	th := New(nil, func() bool { return dark })
	if th.Mode() != ModeSystem {
		t.Fatalf("expected system mode, got %s", th.Mode())
	}
	if th.IsDark() || th.Colors() != LightPalette {
		t.Fatalf("expected light palette when OS is light")
	}
	dark = true
	if !th.IsDark() || th.Colors() != DarkPalette {
		t.Fatalf("expected dark palette when OS is dark")
	}
}

func TestExplicitModesIgnoreProbe(t *testing.T) {
	th := New(nil, func() bool { return true })
	th.SetMode(ModeLight)
	if th.IsDark() {
		t.Fatalf("expected light mode to ignore OS")
	}
	th.SetMode(ModeDark)
	if th.Colors() != DarkPalette {
		t.Fatalf("expected dark palette")
	}
}

func TestModePersists(t *testing.T) {
	store := storage.NewMemoryStore()
	th := New(store, func() bool { return false })
	if err := th.SetMode(ModeDark); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}

	restored := New(store, func() bool { return false })
	restored.Load()
	if restored.Mode() != ModeDark {
		t.Fatalf("expected dark after reload, got %s", restored.Mode())
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Set(storage.KeyThemeMode, "sepia")
	th := New(store, func() bool { return false })
	th.Load()
	if th.Mode() != ModeSystem {
		t.Fatalf("expected system mode, got %s", th.Mode())
	}

	store.FailGet = true
	th.Load()
	if th.Mode() != ModeSystem {
		t.Fatalf("expected system mode after failed load, got %s", th.Mode())
	}
}

func TestSetModeRejectsUnknown(t *testing.T) {
	th := New(nil, nil)
	if err := th.SetMode(Mode("sepia")); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
