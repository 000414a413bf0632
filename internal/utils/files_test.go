package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerbatim(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "upload.xlsx")
	data := []byte("PK\x03\x04 binary \x00 payload")
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "data", "Profilage.xlsx")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != string(data) {
		t.Fatalf("copy differs: %q %v", got, err)
	}
	if _, err := os.Stat(dst + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
	if err := CopyFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, WorkspaceFile), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := EnsureDir(nested); err != nil {
		t.Fatal(err)
	}
	got, err := FindWorkspaceRoot(nested)
	if err != nil || got != root {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := FindWorkspaceRoot(t.TempDir()); err == nil {
		t.Fatal("expected not found")
	}
}

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.json")
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(p, b); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(p)
	if string(got) != "{\n  \"a\": 1\n}" {
		t.Fatalf("got %q", got)
	}
}
