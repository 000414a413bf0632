package cmd

import (
	"os"
	"path/filepath"
	"testing"

	cfgpkg "github.com/Antoink/SDRV3/internal/config"
	"github.com/Antoink/SDRV3/internal/utils"
)

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, ",": ',', ";": ';', "tab": '\t', "\t": '\t'}
	for in, want := range cases {
		got, err := parseDelimiter(in)
		if err != nil || got != want {
			t.Fatalf("parseDelimiter(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := parseDelimiter("|"); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "off": false, "true": true, "0": false} {
		got, err := parseSwitch(in)
		if err != nil || got != want {
			t.Fatalf("parseSwitch(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseSwitch("maybe"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolveSessionDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg = nil
	t.Cleanup(func() { cfg = nil })

	dir, err := resolveSessionDir("squad")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".sdr", "sessions", "squad"); dir != want {
		t.Fatalf("dir = %s, want %s", dir, want)
	}
	for _, bad := range []string{"", "  ", "a/b", `a\b`} {
		if _, err := resolveSessionDir(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestResolveLocalSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg = nil
	t.Cleanup(func() { cfg = nil })

	root := t.TempDir()
	nested := filepath.Join(root, "data", "2024")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)
	dir, err := resolveSessionDir(".")
	if err != nil {
		t.Fatal(err)
	}
	if !sameDir(t, dir, nested) {
		t.Fatalf("without a session file: dir = %s, want %s", dir, nested)
	}
	if err := os.WriteFile(filepath.Join(root, utils.WorkspaceFile), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, err = resolveSessionDir("."); err != nil || !sameDir(t, dir, root) {
		t.Fatalf("with a session file: dir = %s, %v; want %s", dir, err, root)
	}
}

func sameDir(t *testing.T, a, b string) bool {
	t.Helper()
	ia, err := os.Stat(a)
	if err != nil {
		t.Fatal(err)
	}
	ib, err := os.Stat(b)
	if err != nil {
		t.Fatal(err)
	}
	return os.SameFile(ia, ib)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := expandHome("~/.sdr/sessions")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".sdr", "sessions"); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if got, _ := expandHome("rel/dir/"); got != filepath.Clean("rel/dir") {
		t.Fatalf("relative path changed: %s", got)
	}
}

func TestSetKey(t *testing.T) {
	c := &cfgpkg.Global{}
	if err := setKey(c, "cmj_delimiter", "tab"); err != nil || c.CMJDelimiter != "\t" {
		t.Fatalf("cmj_delimiter: %v %q", err, c.CMJDelimiter)
	}
	if err := setKey(c, "logos", " a.png ,, b.png"); err != nil || len(c.Logos) != 2 || c.Logos[1] != "b.png" {
		t.Fatalf("logos: %v %v", err, c.Logos)
	}
	if err := setKey(c, "top_n", "0"); err == nil {
		t.Fatalf("expected top_n 0 to be rejected")
	}
	if err := setKey(c, "log_level", "loud"); err == nil {
		t.Fatalf("expected invalid log level to be rejected")
	}
	if err := setKey(c, "relative", "on"); err != nil || !c.Relative {
		t.Fatalf("relative: %v", err)
	}
}

func TestMask(t *testing.T) {
	if mask("") != "" || mask("abc") != "******" || mask("abcdefgh") != "abc****fgh" {
		t.Fatalf("unexpected mask output")
	}
}
