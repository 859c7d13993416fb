// internal/models/page.go
package models

// Page is the extracted plain text of one fetched URL.
type Page struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// PageContent maps URL to extracted text, in search-result order.
// Entries with empty text are never stored.
type PageContent []Page

// Add appends a page. Empty text and URLs already present are ignored;
// it reports whether the page was stored.
func (pc *PageContent) Add(url, text string) bool {
	if text == "" || pc.Has(url) {
		return false
	}
	*pc = append(*pc, Page{URL: url, Text: text})
	return true
}

// Has reports whether url has an entry.
func (pc PageContent) Has(url string) bool {
	for _, p := range pc {
		if p.URL == url {
			return true
		}
	}
	return false
}

// URLs returns the stored URLs in order.
func (pc PageContent) URLs() []string {
	urls := make([]string, 0, len(pc))
	for _, p := range pc {
		urls = append(urls, p.URL)
	}
	return urls
}

// Map returns an unordered URL -> text view.
func (pc PageContent) Map() map[string]string {
	out := make(map[string]string, len(pc))
	for _, p := range pc {
		out[p.URL] = p.Text
	}
	return out
}

// Summary is a model-generated summary of one page.
type Summary struct {
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// PageSummaries maps URL to summary, in page order.
type PageSummaries []Summary

// Map returns an unordered URL -> summary view.
func (ps PageSummaries) Map() map[string]string {
	out := make(map[string]string, len(ps))
	for _, s := range ps {
		out[s.URL] = s.Summary
	}
	return out
}
