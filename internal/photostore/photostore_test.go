package photostore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndDelete(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "photos"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	path, err := st.Save([]byte("fake-jpeg-bytes"), "selfie.JPG")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Fatalf("expected lowercased .jpg extension, got %q", path)
	}
	if !st.Exists(path) {
		t.Fatal("expected saved photo on disk")
	}

	if err := st.Delete(path); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if st.Exists(path) {
		t.Fatal("expected photo gone")
	}
	// Deleting again is a no-op.
	if err := st.Delete(path); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "photos"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := st.Save(nil, "a.jpg"); err == nil {
		t.Fatal("expected empty image rejected")
	}
	if _, err := st.Save([]byte("x"), "script.sh"); err == nil {
		t.Fatal("expected unsupported extension rejected")
	}
}

func TestDeleteRefusesOutsidePaths(t *testing.T) {
	dir := t.TempDir()
	st, err := New(filepath.Join(dir, "photos"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	outside := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := st.Delete(outside); err == nil {
		t.Fatal("expected outside path rejected")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatal("expected file untouched")
	}
}
