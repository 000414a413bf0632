// Package analysis computes percentiles, asymmetries, classifications and rankings of athlete
// indicators against the group held in a dataset snapshot. Every function here is total: missing
// or unparseable data yields a neutral result, never an error.
package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Antoink/SDRV3/internal/dataset"
)

// numberPattern picks the first signed integer or decimal in a cell, e.g. "12.5 kg" -> 12.5.
var numberPattern = regexp.MustCompile(`[-+]?(?:\d*\.\d+|\d+)`)

// Normalize converts an arbitrary cell value to a number. The boolean is false when the value
// is absent: nil, NaN, blank, "-" or text without digits.
func Normalize(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		return NormalizeString(v)
	case []byte:
		return NormalizeString(string(v))
	}
	return 0, false
}

// NormalizeString parses a textual cell. Comma decimals are accepted.
func NormalizeString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	m := numberPattern.FindString(strings.ReplaceAll(s, ",", "."))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CellValue normalizes the cell of rec under column.
func CellValue(rec dataset.Record, column string) (float64, bool) {
	if column == "" {
		return 0, false
	}
	raw, ok := rec.Get(column)
	if !ok {
		return 0, false
	}
	return NormalizeString(raw)
}

// Values returns the valid numeric values of column in record order.
func Values(ds *dataset.Dataset, column string) []float64 {
	raw := ds.Raw(column)
	out := make([]float64, 0, len(raw))
	for _, c := range raw {
		if v, ok := NormalizeString(c); ok {
			out = append(out, v)
		}
	}
	return out
}

// ColumnMax returns the largest valid value found in any of columns. It reports false when
// one of the columns holds no valid value at all.
func ColumnMax(ds *dataset.Dataset, columns ...string) (float64, bool) {
	best, found := 0.0, false
	for _, c := range columns {
		vals := Values(ds, c)
		if len(vals) == 0 {
			return 0, false
		}
		for _, v := range vals {
			if !found || v > best {
				best, found = v, true
			}
		}
	}
	return best, found
}
