// internal/workers/qa/web-search/models.go
package websearch

type Input struct {
	SearchQuery string `json:"searchQuery"`
}

type Output struct {
	URLs []string `json:"urls"`
}

type searchResponse struct {
	Items []struct {
		Link  *string `json:"link"`
		Title string  `json:"title"`
	} `json:"items"`
}
