// internal/workers/qa/generate-search-query/models.go
package generatesearchquery

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Question    string `json:"question"`
	SearchQuery string `json:"searchQuery"`
}
