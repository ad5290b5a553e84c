// internal/workers/recommendation/select-items/rationale.go
package selectitems

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"purchase-advisor/internal/models"
)

// completeRationale makes sure every query run is addressed. Queries the
// reasoning already mentions are left alone.
func completeRationale(reasoning string, items []models.SelectedItem, pool []models.SearchResult, queries []string) string {
	queryOf := make(map[string]string, len(pool))
	for _, r := range pool {
		queryOf[r.ProductID] = r.Query
	}
	chosen := make(map[string][]string)
	for _, it := range items {
		q := queryOf[it.ProductID]
		chosen[q] = append(chosen[q], it.Name)
	}

	lines := []string{}
	if s := strings.TrimSpace(reasoning); s != "" {
		lines = append(lines, s)
	}
	lower := strings.ToLower(reasoning)
	for _, q := range queries {
		if mentions(lower, strings.ToLower(q)) {
			continue
		}
		if names := chosen[q]; len(names) > 0 {
			lines = append(lines, fmt.Sprintf("For %q: chose %s.", q, strings.Join(names, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("For %q: nothing matched within budget.", q))
		}
	}
	return strings.Join(lines, " ")
}

// mentions reports whether query occurs in text as a whole word or phrase.
// Both arguments are expected lower-cased.
func mentions(text, query string) bool {
	if query == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], query)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(query)
		if !wordRuneBefore(text, start) && !wordRuneAt(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
