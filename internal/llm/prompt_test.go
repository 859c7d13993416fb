package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		values  map[string]string
		want    string
		wantErr bool
	}{
		{
			name:   "single placeholder",
			tmpl:   "Query for: {question}",
			values: map[string]string{"question": "What is the capital of France?"},
			want:   "Query for: What is the capital of France?",
		},
		{
			name:   "repeated and multiple placeholders",
			tmpl:   "{question}\n{summaries}\n{question}",
			values: map[string]string{"question": "q", "summaries": "s"},
			want:   "q\ns\nq",
		},
		{
			name:   "escaped braces",
			tmpl:   `Reply as {{"query": "..."}} for {question}`,
			values: map[string]string{"question": "q"},
			want:   `Reply as {"query": "..."} for q`,
		},
		{
			name:   "values are not re-expanded",
			tmpl:   "Summarize: {text}",
			values: map[string]string{"text": "function f() { return {a} }"},
			want:   "Summarize: function f() { return {a} }",
		},
		{
			name:    "missing value",
			tmpl:    "Summarize: {text}",
			values:  map[string]string{},
			wantErr: true,
		},
		{
			name:    "unmatched open brace",
			tmpl:    "Summarize: {text",
			values:  map[string]string{"text": "x"},
			wantErr: true,
		},
		{
			name:    "single close brace",
			tmpl:    "oops } here",
			values:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
