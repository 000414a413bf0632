package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const squadCSV = "Joueur,Poste,Poids (kg),Vmax,CMJ (cm)\n" +
	"Jean Dupont,Attaquant,80,34,40\n" +
	"Lucas Martin,Défenseur,75,31,38\n" +
	"Paul Bernard,Milieu,70,29,35\n"

const cmjCSV = "Joueur;Hauteur de Saut TV (cm);Pic de Puissance Max (W)\n" +
	"Jean Dupont;35;4000\n" +
	"Lucas Martin;40;4500\n"

// resetFlags restores every flag of c and its children to its default so that values and
// Changed state do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(args ...string) (string, error) {
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// workspace isolates HOME and writes the squad and CMJ files.
func workspace(t *testing.T) (home, data, jumps string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	data = filepath.Join(home, "squad.csv")
	if err := os.WriteFile(data, []byte(squadCSV), 0o644); err != nil {
		t.Fatalf("write squad: %v", err)
	}
	jumps = filepath.Join(home, "cmj.csv")
	if err := os.WriteFile(jumps, []byte(cmjCSV), 0o644); err != nil {
		t.Fatalf("write cmj: %v", err)
	}
	return home, data, jumps
}

func TestCLI_Init_Select_Profile_Report(t *testing.T) {
	home, data, _ := workspace(t)

	runCmd(t, "init", "squad", "--data", data)
	if _, err := os.Stat(filepath.Join(home, ".sdr", "sessions", "squad", "session.json")); err != nil {
		t.Fatalf("expected session.json: %v", err)
	}
	if _, err := execute("init", "squad", "--data", data); err == nil {
		t.Fatalf("expected second init to fail")
	}

	runCmd(t, "-s", "squad", "session", "select", "Jean Dupont")
	out := runCmd(t, "-s", "squad", "athletes")
	if !strings.Contains(out, "* Jean Dupont") || !strings.Contains(out, "- Paul Bernard") {
		t.Fatalf("unexpected athletes output:\n%s", out)
	}
	out = runCmd(t, "-s", "squad", "athletes", "--position", "Milieu")
	if strings.TrimSpace(out) != "- Paul Bernard" {
		t.Fatalf("position filter: %q", out)
	}

	out = runCmd(t, "-s", "squad", "profile")
	if !strings.Contains(out, "# Jean Dupont") {
		t.Fatalf("profile missing athlete heading:\n%s", out)
	}
	out = runCmd(t, "-s", "squad", "profile", "Lucas Martin", "--json")
	if !strings.Contains(out, `"athlete": "Lucas Martin"`) {
		t.Fatalf("profile json:\n%s", out)
	}
	if _, err := execute("-s", "squad", "profile", "Nobody"); err == nil {
		t.Fatalf("expected unknown athlete to fail")
	}

	outDir := filepath.Join(home, "reports")
	runCmd(t, "-s", "squad", "report", "--out", outDir)
	if _, err := os.Stat(filepath.Join(outDir, "Rapport_Jean Dupont.html")); err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	runCmd(t, "-s", "squad", "report", "--all", "--quiet", "--out", outDir)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(entries))
	}
}

func TestCLI_NotesAndSessionState(t *testing.T) {
	_, data, _ := workspace(t)
	runCmd(t, "init", "notes", "--data", data)

	runCmd(t, "-s", "notes", "note", "Jean Dupont", "strengths", "Explosive", "start")
	out := runCmd(t, "-s", "notes", "note", "Jean Dupont", "Strengths")
	if strings.TrimSpace(out) != "Explosive start" {
		t.Fatalf("note read back: %q", out)
	}
	if _, err := execute("-s", "notes", "note", "Jean Dupont", "mood", "fine"); err == nil {
		t.Fatalf("expected unknown field to fail")
	}

	runCmd(t, "-s", "notes", "session", "relative", "on")
	out = runCmd(t, "-s", "notes", "session", "show")
	for _, want := range []string{"relative: true", "notes: 1 athlete(s)", "  - Jean Dupont", "selected: (none)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("session show missing %q:\n%s", want, out)
		}
	}

	runCmd(t, "-s", "notes", "note", "Jean Dupont", "strengths", "--clear")
	out = runCmd(t, "-s", "notes", "session", "show")
	if !strings.Contains(out, "notes: 0 athlete(s)") {
		t.Fatalf("expected note cleared:\n%s", out)
	}

	out = runCmd(t, "session", "list")
	if !strings.Contains(out, "- notes") {
		t.Fatalf("session list:\n%s", out)
	}
}

func TestCLI_TeamAndCMJ(t *testing.T) {
	home, data, jumps := workspace(t)
	runCmd(t, "init", "team", "--data", data)

	out := runCmd(t, "-s", "team", "team", "rank", "Vmax", "--csv")
	if !strings.HasPrefix(out, "Rang,Joueur,Poste,Vmax,Unité\n1,Jean Dupont,Attaquant,34,km/h\n") {
		t.Fatalf("ranking csv:\n%s", out)
	}
	csvPath := filepath.Join(home, "rank.csv")
	runCmd(t, "-s", "team", "team", "rank", "Vmax", "--csv", "-o", csvPath)
	if b, err := os.ReadFile(csvPath); err != nil || !strings.HasPrefix(string(b), "Rang,") {
		t.Fatalf("ranking file: %v %q", err, b)
	}
	out = runCmd(t, "-s", "team", "team", "rank", "Vmax", "--position", "Milieu")
	if strings.Contains(out, "Jean Dupont") || !strings.Contains(out, "Paul Bernard") {
		t.Fatalf("position filter leaked:\n%s", out)
	}

	out = runCmd(t, "-s", "team", "team", "scatter")
	if !strings.Contains(out, "x: Vmax") || !strings.Contains(out, "y: CMJ (cm)") {
		t.Fatalf("scatter axes:\n%s", out)
	}
	out = runCmd(t, "-s", "team", "team", "dist", "Vmax", "--athlete", "Jean Dupont")
	if !strings.Contains(out, "n=3") || !strings.Contains(out, "better than the mean") {
		t.Fatalf("distribution:\n%s", out)
	}
	if _, err := execute("-s", "team", "team", "rank", "Nope"); err == nil {
		t.Fatalf("expected unknown indicator to fail")
	}

	out = runCmd(t, "cmj", "Jean Dupont", "--file", jumps, "--kpi", "Hauteur de Saut (cm)", "--json")
	if !strings.Contains(out, `"player": 35`) || !strings.Contains(out, `"mean": 37.5`) {
		t.Fatalf("cmj compare:\n%s", out)
	}
	if _, err := execute("cmj", "--file", jumps, "--kpi", "Nope"); err == nil {
		t.Fatalf("expected unknown KPI to fail")
	}
	if _, err := execute("cmj", "--file", jumps, "--phase", "Atterrissage"); err == nil {
		t.Fatalf("expected --phase without athlete to fail")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	workspace(t)
	runCmd(t, "config", "set", "top_n", "5")
	runCmd(t, "config", "set", "api_key", "supersecret")
	runCmd(t, "config", "set", "data_files", "a.xlsx, b.csv")
	out := runCmd(t, "config", "show")
	for _, want := range []string{"top_n: 5", "api_key: sup****ret", "data_files: a.xlsx, b.csv"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}
	if _, err := execute("config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
	if _, err := execute("config", "set", "log_format", "xml"); err == nil {
		t.Fatalf("expected invalid log_format to fail")
	}
}

func TestCLI_Load_Adopt(t *testing.T) {
	home, data, _ := workspace(t)
	working := filepath.Join(home, "working.csv")
	runCmd(t, "config", "set", "data_files", working)

	if _, err := execute("athletes"); err == nil {
		t.Fatalf("expected missing working file to fail")
	}
	runCmd(t, "load", data, "--adopt")
	b, err := os.ReadFile(working)
	if err != nil || string(b) != squadCSV {
		t.Fatalf("working file not replaced verbatim: %v", err)
	}
	out := runCmd(t, "athletes", "--json")
	if !strings.Contains(out, `"Lucas Martin"`) {
		t.Fatalf("athletes json:\n%s", out)
	}

	bad := filepath.Join(home, "bad.csv")
	if err := os.WriteFile(bad, []byte("Club,Vmax\nA,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute("load", bad, "--adopt"); err == nil {
		t.Fatalf("expected file without identifier column to fail")
	}
	if b, _ := os.ReadFile(working); string(b) != squadCSV {
		t.Fatalf("bad upload replaced the working file")
	}
}

func TestCLI_Inspect(t *testing.T) {
	_, data, _ := workspace(t)
	out := runCmd(t, "inspect", data, "--json")
	if !strings.Contains(out, "Vmax") {
		t.Fatalf("inspect json:\n%s", out)
	}
	if _, err := execute("inspect", data, "--sheets"); err == nil {
		t.Fatalf("expected --sheets on csv to fail")
	}
}
