package dataset

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// Two sheets ("Notes", "Profilage"); the second uses a leading-slash relationship target,
// rich-text shared strings, an inline string header and a boolean cell.
const xlsxFixtureBase64 = `
UEsDBBQAAAAIAFsCUV2/7OqhkAAAALIAAAATAAAAW0NvbnRlbnRfVHlwZXNdLnhtbCWOSw7CMAxErxJ537qwQAgl6aLACcoBrOB+RJtEjUHl9qR06XkzntH1
Ok/qw0sagzdwKCtQ7F14jr438GjvxRlqq9tv5KSy1ScDg0i8ICY38EypDJF9Jl1YZpJ8Lj1Gci/qGY9VdUIXvLCXQrYfYPWVO3pPom5rlvfaHAfV7L6tygDF
OI2OJGPcKFqN/xH2B1BLAwQUAAAACABbAlFdbtP2nr0AAAA6AQAADwAAAHhsL3dvcmtib29rLnhtbI1QzQ6CMAx+laV3GXIwhgBejIkX40EfYEKBRbaSdv48
vhM10Zun/n0/bYvV3Q3qiiyWfAnzJAWFvqbG+q6E42EzW8KqKm7E5xPRWUW0lxL6EMZca6l7dEYSGtHHSUvsTIgld1pGRtNIjxjcoLM0XWhnrIeXQs7/aFDb
2hrXVF8c+vASYRxMiLtKb0eBqpgc5B2VNw5L2FFAATW1tk28ChTnNia8beagf8F7ptYOpsMvQvZFyJ4E/bHRn09UD1BLAwQUAAAACABbAlFdfOOjm6AAAAAS
AQAAGgAAAHhsL19yZWxzL3dvcmtib29rLnhtbC5yZWxzbc/BCoMwDADQXym5z6iHMYbV28DrcB9QNGtFbUtTNvf3K4PBHJ6SkOSFVM26zOJBgUdnJRRZDoJs
74bRagm37nI4QVNXV5pVTBNsRs8irViWYGL0Z0TuDS2KM+fJps7dhUXFVAaNXvWT0oRlnh8x/BqwNUU7SAjtUIDoXp4kPDllKmiKKXdhYkMUGT+hyNIZwH2h
3BNwnfFfKb8Kbp6r31BLAwQUAAAACABbAlFdNIke5bkAAAAWAQAAFAAAAHhsL3NoYXJlZFN0cmluZ3MueG1sXY/LCsIwEEV/JWRv07oQKWlKEQRBu9DqPrSj
rThJyETx802lKLq8jznDleUTb+wBngZrCp4lKWdgWtsN5lLwY7OeLXmpJFFgsWio4H0ILheC2h5QU2IdmJicrUcdovQXQc6D7qgHCHgT8zRdCNSD4REzKBlU
bVGKoKQY5dsa2Tk53ULB4zGBfwBX7IT6yX6rfgQ0gI6mwE9eluLH+ILVFbRh3d1ZE/5+qu1xVR3Yrto3m/qbiThVvQBQSwMEFAAAAAgAWwJRXWyCx9qhAAAA
1wAAABgAAAB4bC93b3Jrc2hlZXRzL3NoZWV0MS54bWxNjsEKwjAMhl+l5O6yeRCRrkMQX0B9gNLFrbi2ow3OxzfbQTwk5P+SP4nuPmFSb8rFp9hCU9WgKLrU
+zi08Lhfd0fojF5SfpWRiJWMx9LCyDyfEIsbKdhSpZmidJ4pB8si84BlzmT7zRQm3Nf1AYP1EYze2MWyNTqnRWU5K9StxbkBxS34OPlIN87CfTGaTaCQNLLR
uGp0EuKV/LcMf1+aL1BLAwQUAAAACABbAlFd0r4CivcAAAAZAgAAGAAAAHhsL3dvcmtzaGVldHMvc2hlZXQyLnhtbHWRYVLDIBCFr8Lw32xCotYOoWPteAHr
ATDFhjFABjD1+JJSM4QZ/7HvW/Y9WLr7UQOahHXS6BZXRYmR0J05SX1u8fvx9W6Dd4xejP1yvRAehXbtWtx7P24BXNcLxV1hRqED+TRWcR9KewY3WsFP10tq
AFKWD6C41JjRq3bgnjNqzQXZYBvUbj48Vxj5FrtQT6ykMDEK3Y3tU1at2UvKyJodIpN6kFq8eRt6pGPUs6P03wOXVlDwoX8W50sQQi3JyJKMJA51loxEtSru
s1gRVMVjnilO+8jesrKuF+s6sW4yh/rmsPlnSvM3Zd/Ez3nK+iBZByx7Zr9QSwECFAMUAAAACABbAlFdv+zqoZAAAACyAAAAEwAAAAAAAAAAAAAAgAEAAAAA
W0NvbnRlbnRfVHlwZXNdLnhtbFBLAQIUAxQAAAAIAFsCUV1u0/aevQAAADoBAAAPAAAAAAAAAAAAAACAAcEAAAB4bC93b3JrYm9vay54bWxQSwECFAMUAAAA
CABbAlFdfOOjm6AAAAASAQAAGgAAAAAAAAAAAAAAgAGrAQAAeGwvX3JlbHMvd29ya2Jvb2sueG1sLnJlbHNQSwECFAMUAAAACABbAlFdNIke5bkAAAAWAQAA
FAAAAAAAAAAAAAAAgAGDAgAAeGwvc2hhcmVkU3RyaW5ncy54bWxQSwECFAMUAAAACABbAlFdbILH2qEAAADXAAAAGAAAAAAAAAAAAAAAgAFuAwAAeGwvd29y
a3NoZWV0cy9zaGVldDEueG1sUEsBAhQDFAAAAAgAWwJRXdK+Aor3AAAAGQIAABgAAAAAAAAAAAAAAIABRQQAAHhsL3dvcmtzaGVldHMvc2hlZXQyLnhtbFBL
BQYAAAAABgAGAJQBAAByBQAAAAA=
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadCSVSemicolonAndIngestion(t *testing.T) {
	p := writeFixture(t, "cmj.csv", strings.Join([]string{
		"NOM ; Hauteur de Saut (cm);Poids (kg); Poids (kg)",
		"jean dupont;31,5;78;78",
		";29;70;70",
		"  lucas MARTIN  ;35,2;81;81",
		"jean dupont;32,0;78;78",
	}, "\n"))
	ds, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wantCols := []string{"Joueur", "Hauteur de Saut (cm)", "Poids (kg)", "Poids (kg).1"}
	if !reflect.DeepEqual(ds.Columns, wantCols) {
		t.Fatalf("columns = %q, want %q", ds.Columns, wantCols)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 records (empty id dropped), got %d", ds.Len())
	}
	if got := ds.Athletes(); !reflect.DeepEqual(got, []string{"Jean Dupont", "Lucas Martin"}) {
		t.Fatalf("athletes = %q", got)
	}
	first, ok := ds.Find("Jean Dupont")
	if !ok || first.Cells["Hauteur de Saut (cm)"] != "31,5" {
		t.Fatalf("Find should return the first row, got %+v", first)
	}
	last, ok := ds.Last("Jean Dupont")
	if !ok || last.Cells["Hauteur de Saut (cm)"] != "32,0" {
		t.Fatalf("Last should return the last row, got %+v", last)
	}
	if ds.Name != "cmj.csv" || ds.Source != p {
		t.Fatalf("unexpected name/source: %q %q", ds.Name, ds.Source)
	}
}

func TestLoadCSVExplicitDelimiter(t *testing.T) {
	p := writeFixture(t, "data.txt", "Name|Vmax\nA|30\n")
	ds, err := Load(p, Options{Delimiter: '|'})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, _ := ds.Records[0].Get("Vmax"); v != "30" {
		t.Fatalf("Vmax = %q", v)
	}
}

func TestLoadCSVStripsByteOrderMark(t *testing.T) {
	p := writeFixture(t, "bom.csv", "\ufeffJoueur;Vmax\njean dupont;31,5\n")
	ds, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Columns[0] != IDColumn {
		t.Fatalf("first column = %q, want %q", ds.Columns[0], IDColumn)
	}
	if _, ok := ds.Find("Jean Dupont"); !ok {
		t.Fatalf("athlete not found after BOM header: %v", ds.Athletes())
	}
}

func TestLoadErrors(t *testing.T) {
	noID := writeFixture(t, "bad.csv", "Athlete,Vmax\nA,30\n")
	if _, err := Load(noID, Options{}); !errors.Is(err, ErrNoIdentifier) {
		t.Fatalf("expected ErrNoIdentifier, got %v", err)
	}
	empty := writeFixture(t, "empty.csv", "Joueur,Vmax\n,30\n")
	if _, err := Load(empty, Options{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	blank := writeFixture(t, "blank.csv", "")
	if _, err := Load(blank, Options{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty for blank file, got %v", err)
	}
	other := writeFixture(t, "data.json", "{}")
	if _, err := Load(other, Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	raw := strings.ReplaceAll(strings.TrimSpace(xlsxFixtureBase64), "\n", "")
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	p := filepath.Join(t.TempDir(), "Profilage.xlsx")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := SheetNames(p)
	if err != nil || !reflect.DeepEqual(names, []string{"Notes", "Profilage"}) {
		t.Fatalf("sheet names = %q (%v)", names, err)
	}

	ds, err := Load(p, Options{Sheet: "profilage"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wantCols := []string{"Joueur", "Vmax", "Temps 10m", "Titulaire"}
	if !reflect.DeepEqual(ds.Columns, wantCols) {
		t.Fatalf("columns = %q, want %q", ds.Columns, wantCols)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ds.Len())
	}
	jd, ok := ds.Find("Jean Dupont")
	if !ok {
		t.Fatalf("Jean Dupont not found in %q", ds.Athletes())
	}
	if jd.Cells["Vmax"] != "31.5" || jd.Cells["Temps 10m"] != "1.72" || jd.Cells["Titulaire"] != "TRUE" {
		t.Fatalf("unexpected cells: %+v", jd.Cells)
	}
	lm, _ := ds.Find("Lucas Martin")
	if lm.Cells["Vmax"] != "" || lm.Cells["Titulaire"] != "" {
		t.Fatalf("sparse row should leave missing cells empty: %+v", lm.Cells)
	}

	byIndex, err := Load(p, Options{SheetIndex: 2})
	if err != nil || byIndex.Len() != 2 {
		t.Fatalf("load by index: %v", err)
	}
	if _, err := Load(p, Options{}); !errors.Is(err, ErrNoIdentifier) {
		t.Fatalf("first sheet has no identifier column, got %v", err)
	}
	if _, err := Load(p, Options{Sheet: "Missing"}); err == nil || !strings.Contains(err.Error(), "available sheets: Notes, Profilage") {
		t.Fatalf("expected sheet listing error, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := colIndexFromRef("AA10"); got != 26 {
		t.Fatalf("colIndexFromRef(AA10) = %d", got)
	}
	for in, want := range map[string]string{
		"/xl/worksheets/sheet1.xml": "xl/worksheets/sheet1.xml",
		"worksheets/sheet1.xml":     "xl/worksheets/sheet1.xml",
		"xl/styles.xml":             "xl/styles.xml",
	} {
		if got := normalizeRelPath(in); got != want {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", in, got, want)
		}
	}
	cols := uniqueColumns([]string{" A ", "A", "", "A"})
	if !reflect.DeepEqual(cols, []string{"A", "A.1", "Unnamed: 2", "A.2"}) {
		t.Fatalf("uniqueColumns = %q", cols)
	}
}

func TestFilterAndFirstExisting(t *testing.T) {
	ds := New("t", "", []string{"Joueur", "Poste"}, []Record{
		{ID: "A", Cells: map[string]string{"Joueur": "A", "Poste": "Ailier"}},
		{ID: "B", Cells: map[string]string{"Joueur": "B", "Poste": "Pilier"}},
	})
	sub := ds.Filter(func(r Record) bool { return r.Cells["Poste"] == "Pilier" })
	if sub.Len() != 1 || sub.Records[0].ID != "B" || !sub.HasColumn("Poste") {
		t.Fatalf("unexpected filter result: %+v", sub)
	}
	if got := ds.Raw("Poste"); !reflect.DeepEqual(got, []string{"Ailier", "Pilier"}) {
		t.Fatalf("Raw = %q", got)
	}
	if ds.Raw("Nope") != nil {
		t.Fatal("Raw on unknown column should be nil")
	}

	dir := t.TempDir()
	second := filepath.Join(dir, "Profilage.xlsx")
	if err := os.WriteFile(second, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := FirstExisting(filepath.Join(dir, "Profilage pratiquexlsx.xlsx"), second)
	if !ok || got != second {
		t.Fatalf("FirstExisting = %q %v", got, ok)
	}
	if _, ok := FirstExisting("", dir); ok {
		t.Fatal("directories must not match")
	}
}
