// internal/workers/qa/synthesize-answer/models.go
package synthesizeanswer

import "qa-workers/internal/models"

type Input struct {
	Question  string               `json:"question"`
	Summaries models.PageSummaries `json:"summaries"`
}

type Output struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
