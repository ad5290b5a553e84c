// internal/models/catalog.go
package models

type SearchResult struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category,omitempty"`
	Link      string  `json:"link,omitempty"`
	Query     string  `json:"query,omitempty"`
}

type SelectedItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Reason    string  `json:"reason,omitempty"`
	Link      string  `json:"link,omitempty"`
}

func (s SelectedItem) LineTotal() float64 {
	return float64(s.Quantity) * s.UnitPrice
}

type WebResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
	Price   string `json:"price,omitempty"`
}

// UnfoundItem is a query the catalog could not satisfy, resolved from a
// web-search result. UnitPrice and LineTotal stay nil when no price could
// be recovered.
type UnfoundItem struct {
	Query        string   `json:"query"`
	Name         string   `json:"name"`
	Link         string   `json:"link"`
	UnitPrice    *float64 `json:"unitPrice"`
	Quantity     int      `json:"quantity"`
	LineTotal    *float64 `json:"lineTotal"`
	WithinBudget bool     `json:"withinBudget"`
}
