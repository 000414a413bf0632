package photo

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img:"+name), 0o644))
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"Jean Paul Dupont", "Dupont Jean Paul", "Paul Dupont Jean"}, Candidates("  Jean Paul Dupont "))
	assert.Equal(t, []string{"Dupont"}, Candidates("Dupont"))
	assert.Nil(t, Candidates("  "))
}

func TestLookupOrderAndCase(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "DUPONT JEAN.PNG")
	touch(t, dir, "dupont jean.jpeg")
	f := Finder{Dir: dir}

	got, ok := f.Lookup("Jean Dupont")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "DUPONT JEAN.PNG"), got, ".png beats .jpeg")

	touch(t, dir, "jean dupont.jpeg")
	got, _ = f.Lookup("Jean Dupont")
	assert.Equal(t, filepath.Join(dir, "jean dupont.jpeg"), got, "the name as-is beats permutations")

	_, ok = f.Lookup("Lucas Martin")
	assert.False(t, ok)
	_, ok = Finder{Dir: filepath.Join(dir, "nope")}.Lookup("Jean Dupont")
	assert.False(t, ok)
}

func TestLookupIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Martin.jpg"), 0o755))
	_, ok := Finder{Dir: dir}.Lookup("Martin")
	assert.False(t, ok)
}

func TestDataURI(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "logo.png")
	uri := DataURI(filepath.Join(dir, "logo.png"))
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "img:logo.png", string(raw))

	assert.Empty(t, DataURI(filepath.Join(dir, "missing.png")))
	assert.Equal(t, uri, FirstDataURI(filepath.Join(dir, "logo_sdr.png"), filepath.Join(dir, "logo.png")))
}

func TestPlaceholder(t *testing.T) {
	uri := Placeholder("jean dupont")
	require.True(t, strings.HasPrefix(uri, "data:image/svg+xml;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/svg+xml;base64,"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), ">JD</text>")
}
