// Package photo finds athlete portraits and logos on disk and embeds them as data URIs.
package photo

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where portraits are looked up when no directory is configured.
const DefaultDir = "Photos"

// Extensions are tried in this order for every name candidate.
var Extensions = []string{".jpg", ".png", ".jpeg"}

// Finder looks portraits up in Dir. File names match case-insensitively.
type Finder struct {
	Dir string
}

// Candidates lists the file stems tried for name: the name itself, then "Last First..." and
// "Rest... First" permutations for multi-word names.
func Candidates(name string) []string {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return nil
	}
	out := []string{clean}
	parts := strings.Fields(clean)
	if len(parts) > 1 {
		last := len(parts) - 1
		out = append(out,
			parts[last]+" "+strings.Join(parts[:last], " "),
			strings.Join(parts[1:], " ")+" "+parts[0],
		)
	}
	return out
}

// Lookup returns the portrait path of name. A missing directory or file is not an error.
func (f Finder) Lookup(name string) (string, bool) {
	dir := f.Dir
	if dir == "" {
		dir = DefaultDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files[strings.ToLower(e.Name())] = e.Name()
		}
	}
	for _, c := range Candidates(name) {
		for _, ext := range Extensions {
			if real, ok := files[strings.ToLower(c+ext)]; ok {
				return filepath.Join(dir, real), true
			}
		}
	}
	return "", false
}

// DataURI reads an image and encodes it inline. Unreadable files yield "".
func DataURI(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return "data:" + mimeType(path) + ";base64," + base64.StdEncoding.EncodeToString(b)
}

func mimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".gif":
		return "image/gif"
	}
	return "image/jpeg"
}

// FirstDataURI embeds the first readable image among paths.
func FirstDataURI(paths ...string) string {
	for _, p := range paths {
		if uri := DataURI(p); uri != "" {
			return uri
		}
	}
	return ""
}

// Placeholder is an inline SVG silhouette with the athlete's initials.
func Placeholder(name string) string {
	var initials []rune
	for _, p := range strings.Fields(name) {
		for _, r := range p {
			initials = append(initials, r)
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="120" viewBox="0 0 120 120">`+
		`<rect width="120" height="120" rx="12" fill="#2b2d3e"/>`+
		`<text x="60" y="72" font-family="Arial" font-size="40" font-weight="bold" fill="#D71920" text-anchor="middle">%s</text></svg>`,
		strings.ToUpper(string(initials)))
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
