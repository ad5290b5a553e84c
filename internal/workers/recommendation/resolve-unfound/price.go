// internal/workers/recommendation/resolve-unfound/price.go
package resolveunfound

import (
	"regexp"
	"strconv"
	"strings"

	"purchase-advisor/internal/models"
)

var (
	currencyPattern = regexp.MustCompile(`(?i)\$\s?(\d[\d,]*(?:\.\d{1,2})?)|\bUSD\s?(\d[\d,]*(?:\.\d{1,2})?)|(\d[\d,]*(?:\.\d{1,2})?)\s?USD\b`)
	barePattern     = regexp.MustCompile(`^\s*(\d[\d,]*(?:\.\d+)?)\s*$`)
)

// priceExtractor returns a positive price found in one field of a result.
type priceExtractor func(models.WebResult) (float64, bool)

var priceExtractors = []priceExtractor{
	fromPriceField,
	func(r models.WebResult) (float64, bool) { return currencyAmount(r.Snippet) },
	func(r models.WebResult) (float64, bool) { return currencyAmount(r.Title) },
}

// ExtractPrice tries the price field, then the snippet, then the title.
func ExtractPrice(r models.WebResult) (float64, bool) {
	for _, extract := range priceExtractors {
		if price, ok := extract(r); ok {
			return price, true
		}
	}
	return 0, false
}

func fromPriceField(r models.WebResult) (float64, bool) {
	if price, ok := currencyAmount(r.Price); ok {
		return price, true
	}
	if m := barePattern.FindStringSubmatch(r.Price); m != nil {
		return parseAmount(m[1])
	}
	return 0, false
}

// currencyAmount returns the first $12.99, USD 12.99 or 12.99 USD amount.
func currencyAmount(text string) (float64, bool) {
	m := currencyPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	for _, group := range m[1:] {
		if group != "" {
			return parseAmount(group)
		}
	}
	return 0, false
}

// parseAmount rejects zero so a free listing counts as no price.
func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
