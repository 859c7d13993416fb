package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"qa-workers/internal/models"
)

var reportRule = strings.Repeat("-", 40)

// PrintAnswers writes the console report of answers to w.
func PrintAnswers(w io.Writer, answers *models.Answers) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "\n=== Answers ===\n\n")
	answers.Each(func(question, answer string) {
		fmt.Fprintf(bw, " - Question: %s\n - Answer: \n%s\n%s\n\n", question, answer, reportRule)
	})
	fmt.Fprint(bw, "=== End of Answers ===\n\n")

	return bw.Flush()
}
