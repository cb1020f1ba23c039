package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	tmp := t.TempDir()
	s, err := Open(filepath.Join(tmp, "session.toml"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, ok := s.Get(KeyActiveSession); ok {
		t.Fatal("expected empty store")
	}
}

func TestSetGetRemove_RoundTripsThroughFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "sub", "session.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Set(KeyActiveSession, "true"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Set(KeyCompanyID, "acme"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	// Reopen to prove values survived the process boundary.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if v, ok := reopened.Get(KeyActiveSession); !ok || v != "true" {
		t.Fatalf("Get(%s) = %q, %v; want \"true\", true", KeyActiveSession, v, ok)
	}
	if v, ok := reopened.Get(KeyCompanyID); !ok || v != "acme" {
		t.Fatalf("Get(%s) = %q, %v; want \"acme\", true", KeyCompanyID, v, ok)
	}

	if err := reopened.Remove(KeyCompanyID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	again, _ := Open(path)
	if _, ok := again.Get(KeyCompanyID); ok {
		t.Fatal("Remove should persist")
	}
}

func TestSetAll_ReplacesNamespace(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "session.toml")

	s, _ := Open(path)
	if err := s.Set("stale_key", "old"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.SetAll(map[string]string{KeyStartTime: "2024-01-02T09:00:00Z"}); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	if _, ok := s.Get("stale_key"); ok {
		t.Fatal("SetAll should drop keys not in the new snapshot")
	}
	if v, _ := s.Get(KeyStartTime); v != "2024-01-02T09:00:00Z" {
		t.Fatalf("Get(%s) = %q", KeyStartTime, v)
	}
}

func TestClear_EmptiesFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "session.toml")

	s, _ := Open(path)
	_ = s.Set(KeyActiveSession, "true")
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	reopened, _ := Open(path)
	if _, ok := reopened.Get(KeyActiveSession); ok {
		t.Fatal("Clear should persist")
	}
}

func TestOpen_CorruptFileFallsBackToEmpty(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "session.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, ok := s.Get(KeyActiveSession); ok {
		t.Fatal("corrupt file should load as empty namespace")
	}
}

func TestOpen_EmptyPathExpandsDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := Open("")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Set(KeyActiveSession, "true"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	want := filepath.Join(home, ".local", "state", "clockwise", "session.toml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected store file at %s: %v", want, err)
	}
}
