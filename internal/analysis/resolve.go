package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Antoink/SDRV3/internal/indicator"
)

// Strategy maps a label to one of columns. Strategies are pure and never panic.
type Strategy func(columns []string, label string) (string, bool)

// Resolver tries its strategies in order; the first hit wins.
type Resolver struct {
	strategies []Strategy
}

// NewResolver composes strategies in the given order.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// NewProfileResolver resolves through the reference mapping, then keywords, then the label itself.
func NewProfileResolver(reg *indicator.Registry) *Resolver {
	return NewResolver(ExactMapping(reg.ColumnMapping()), KeywordMatch(reg.Keywords), LabelMatch(), FirstToken())
}

// NewReportResolver resolves through the reference mapping, then the label itself.
func NewReportResolver(reg *indicator.Registry) *Resolver {
	return NewResolver(ExactMapping(reg.ColumnMapping()), LabelMatch())
}

// NewTeamResolver matches free column names picked in comparison menus.
func NewTeamResolver() *Resolver {
	return NewResolver(LabelMatch(), FirstToken())
}

// Resolve returns the column matched to label, if any.
func (r *Resolver) Resolve(columns []string, label string) (string, bool) {
	if r == nil || label == "" || len(columns) == 0 {
		return "", false
	}
	for _, s := range r.strategies {
		if c, ok := s(columns, label); ok {
			return c, true
		}
	}
	return "", false
}

var folder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics, lower-cases and trims s.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

func foldAll(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = Fold(c)
	}
	return out
}

func containsAt(folded []string, key string) int {
	if key == "" {
		return -1
	}
	for i, c := range folded {
		if strings.Contains(c, key) {
			return i
		}
	}
	return -1
}

func hasColumn(columns []string, c string) bool {
	for _, x := range columns {
		if x == c {
			return true
		}
	}
	return false
}

// ExactMapping looks label up in table (case-insensitively as a fallback) and hits only when
// the mapped column exists verbatim.
func ExactMapping(table map[string]string) Strategy {
	lower := make(map[string]string, len(table))
	for k, v := range table {
		lower[strings.ToLower(k)] = v
	}
	return func(columns []string, label string) (string, bool) {
		mapped, ok := table[label]
		if !ok {
			mapped, ok = lower[strings.ToLower(label)]
		}
		if ok && hasColumn(columns, mapped) {
			return mapped, true
		}
		return "", false
	}
}

// KeywordMatch tries the keywords of label in their listed order; for each keyword the first
// column (in dataset order) containing it wins.
func KeywordMatch(keywords func(label string) []string) Strategy {
	return func(columns []string, label string) (string, bool) {
		kws := keywords(label)
		if len(kws) == 0 {
			return "", false
		}
		folded := foldAll(columns)
		for _, k := range kws {
			if i := containsAt(folded, Fold(k)); i >= 0 {
				return columns[i], true
			}
		}
		return "", false
	}
}

// LabelMatch uses the folded label, side qualifier removed, as the keyword.
func LabelMatch() Strategy {
	return func(columns []string, label string) (string, bool) {
		key := foldedLabel(label)
		if i := containsAt(foldAll(columns), key); i >= 0 {
			return columns[i], true
		}
		return "", false
	}
}

// FirstToken retries with the first word of a multi-word label.
func FirstToken() Strategy {
	return func(columns []string, label string) (string, bool) {
		parts := strings.Fields(foldedLabel(label))
		if len(parts) < 2 {
			return "", false
		}
		if i := containsAt(foldAll(columns), parts[0]); i >= 0 {
			return columns[i], true
		}
		return "", false
	}
}

func foldedLabel(label string) string {
	l := Fold(label)
	l = strings.ReplaceAll(l, "(g)", "")
	l = strings.ReplaceAll(l, "(d)", "")
	return strings.TrimSpace(l)
}

// ResolveCache memoizes resolutions against one column set for the duration of a pass.
// A new dataset snapshot needs a new cache.
type ResolveCache struct {
	r       *Resolver
	columns []string
	memo    map[string]cached
}

type cached struct {
	column string
	ok     bool
}

// Bind returns a memoizing view of r over columns.
func (r *Resolver) Bind(columns []string) *ResolveCache {
	return &ResolveCache{r: r, columns: columns, memo: map[string]cached{}}
}

// Resolve returns the memoized column for label.
func (c *ResolveCache) Resolve(label string) (string, bool) {
	if hit, ok := c.memo[label]; ok {
		return hit.column, hit.ok
	}
	col, ok := c.r.Resolve(c.columns, label)
	c.memo[label] = cached{column: col, ok: ok}
	return col, ok
}

// Columns returns the column set the cache is bound to.
func (c *ResolveCache) Columns() []string { return c.columns }
