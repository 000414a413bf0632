package dataset

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var idCandidates = []string{"joueur", "nom", "name"}

// Ingest applies the ingestion rules to a raw table: trimmed column names, the identifier
// column renamed to Joueur, rows without identifier dropped, identifiers title-cased.
func Ingest(name, source string, header []string, rows [][]string) (*Dataset, error) {
	columns := uniqueColumns(header)
	idIdx := -1
	lower := make(map[string]int, len(columns))
	for i, c := range columns {
		l := strings.ToLower(c)
		if _, ok := lower[l]; !ok {
			lower[l] = i
		}
	}
	for _, k := range idCandidates {
		if i, ok := lower[k]; ok {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoIdentifier)
	}
	columns[idIdx] = IDColumn

	title := cases.Title(language.French)
	var records []Record
	for _, row := range rows {
		if idIdx >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idIdx])
		if id == "" {
			continue
		}
		id = strings.TrimSpace(title.String(id))
		cells := make(map[string]string, len(columns))
		for j, c := range columns {
			if j < len(row) {
				cells[c] = row[j]
			} else {
				cells[c] = ""
			}
		}
		cells[IDColumn] = id
		records = append(records, Record{ID: id, Cells: cells})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	return New(name, source, columns, records), nil
}

// uniqueColumns trims names and disambiguates repeats with a ".N" suffix.
func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		c := strings.TrimSpace(h)
		if c == "" {
			c = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[c]; ok {
			seen[c] = n + 1
			c = fmt.Sprintf("%s.%d", c, n+1)
		} else {
			seen[c] = 0
		}
		out[i] = c
	}
	return out
}
