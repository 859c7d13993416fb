package extractpagecontent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "script removed",
			html: `<html><body><p>Paris is the capital.</p><script>alert(1)</script></body></html>`,
			want: "Paris is the capital.",
		},
		{
			name: "all boilerplate elements removed",
			html: `<html><head><style>body{color:red}</style><title>Doc</title></head><body>
				<header>Site header</header>
				<nav><a href="/">Home</a></nav>
				<main><h1>Photosynthesis</h1><p>Plants convert light.</p></main>
				<aside>Related links</aside>
				<form><input name="q"><button>Search</button></form>
				<footer>Copyright</footer>
			</body></html>`,
			want: "Doc Photosynthesis Plants convert light.",
		},
		{
			name: "whitespace collapsed",
			html: "<p>line one\n\n\tline   two</p>\n<div>  three </div>",
			want: "line one line two three",
		},
		{
			name: "adjacent elements separated",
			html: `<ul><li>one</li><li>two</li></ul>`,
			want: "one two",
		},
		{
			name: "comments skipped",
			html: `<p>visible<!-- hidden --></p>`,
			want: "visible",
		},
		{
			name: "only stripped content",
			html: `<nav>menu</nav><script>var x = 1;</script>`,
			want: "",
		},
		{
			name: "noscript children parsed as elements",
			html: `<p>Paris</p><noscript><img src="x.gif"><p>Enable JavaScript</p></noscript>`,
			want: "Paris Enable JavaScript",
		},
		{
			name: "noscript tracking iframe",
			html: `<body><noscript><iframe src="https://www.googletagmanager.com/ns.html?id=GTM-X" height="0" width="0"></iframe></noscript><p>Content</p></body>`,
			want: "Content",
		},
		{
			name: "plain text",
			html: "just some text",
			want: "just some text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<")
		})
	}
}

func TestExtractText_NeverContainsScript(t *testing.T) {
	doc := `<div><script>alert(1)</script><p>a</p><SCRIPT type="text/javascript">alert(1)</SCRIPT></div>`
	got, err := ExtractText(strings.NewReader(doc))
	require.NoError(t, err)
	assert.NotContains(t, got, "alert(1)")
	assert.Equal(t, "a", got)
}

func TestDecodeBody_Charset(t *testing.T) {
	r, err := decodeBody([]byte("<p>caf\xe9</p>"), "text/html; charset=iso-8859-1")
	require.NoError(t, err)

	got, err := ExtractText(r)
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}
