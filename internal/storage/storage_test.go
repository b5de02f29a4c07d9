package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s := NewFileStore(path)

	if _, ok, err := s.Get(KeyAuthToken); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(KeyAuthToken, "abc123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(KeyThemeMode, "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewFileStore(path)
	val, ok, err := reopened.Get(KeyAuthToken)
	if err != nil || !ok || val != "abc123" {
		t.Fatalf("expected abc123, got %q ok=%v err=%v", val, ok, err)
	}

	if err := reopened.Delete(KeyAuthToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(KeyAuthToken); ok {
		t.Fatalf("expected token to be deleted")
	}
	if val, _, _ := s.Get(KeyThemeMode); val != "dark" {
		t.Fatalf("expected theme to survive delete, got %q", val)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestFileStoreDeleteMissingKey(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	if err := s.Delete(KeyAuthToken); err != nil {
		t.Fatalf("expected nil deleting a missing key, got %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, _, err := s.Get(KeyAuthToken); err == nil {
		t.Fatalf("expected decode error for corrupt file")
	}
}

func TestMemoryStoreFailures(t *testing.T) {
	s := NewMemoryStore()
	s.FailSet = true
	if err := s.Set("k", "v"); err != ErrInjected {
		t.Fatalf("expected ErrInjected, got %v", err)
	}
	s.FailSet = false
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.FailGet = true
	if _, _, err := s.Get("k"); err != ErrInjected {
		t.Fatalf("expected ErrInjected, got %v", err)
	}
}
