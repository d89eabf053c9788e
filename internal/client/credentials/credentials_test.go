package credentials

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "token"))
	if token, ok := store.Load(); ok || token != "" {
		t.Errorf("expected no credential, got %q", token)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := New(path)

	if err := store.Save("T1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, ok := store.Load()
	if !ok || token != "T1" {
		t.Errorf("Load = %q, %v; want %q, true", token, ok, "T1")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("token file mode = %v; want 0600", info.Mode().Perm())
	}
}

func TestSave_Replaces(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "token"))

	if err := store.Save("old"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save("new"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, ok := store.Load()
	if !ok || token != "new" {
		t.Errorf("Load = %q, %v; want %q, true", token, ok, "new")
	}
}

func TestLoad_EmptyFileMeansAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  \n"), 0600); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	if token, ok := store.Load(); ok || token != "" {
		t.Errorf("expected no credential for blank file, got %q", token)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := New(path)

	if err := store.Save("T1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	store.Clear()

	if _, ok := store.Load(); ok {
		t.Error("expected credential to be gone after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected token file removed, stat err = %v", err)
	}

	// clearing again must be harmless
	store.Clear()
}
