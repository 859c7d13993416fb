// internal/workers/qa/summarize-pages/models.go
package summarizepages

import "qa-workers/internal/models"

type Input struct {
	Pages models.PageContent `json:"pages"`
}

type Output struct {
	Summaries models.PageSummaries `json:"summaries"`
}
