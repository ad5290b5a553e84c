// internal/workers/recommendation/dispatch-search/models.go
package dispatchsearch

import "purchase-advisor/internal/models"

type Input struct {
	Queries []string `json:"queries"`
}

type Output struct {
	Pool       []models.SearchResult `json:"pool"`
	Found      []string              `json:"foundQueries"`
	Unfound    []string              `json:"unfoundQueries"`
	QueriesRun []string              `json:"queriesRun"`
	Duplicates int                   `json:"duplicatesDropped"`
}
