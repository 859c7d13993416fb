// internal/workers/qa/extract-page-content/models.go
package extractpagecontent

import "qa-workers/internal/models"

type Input struct {
	URLs []string `json:"urls"`
}

type Output struct {
	Pages models.PageContent `json:"pages"`
}
