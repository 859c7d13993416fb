package extractpagecontent

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// strippedElements are removed with their whole subtree before text
// extraction.
var strippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"header": true,
	"footer": true,
	"nav":    true,
	"form":   true,
	"aside":  true,
}

// ExtractText returns the visible text of an HTML document: text nodes
// outside stripped elements, joined by spaces, with every whitespace run
// collapsed to one space.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strippedElements[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

// decodeBody converts body to UTF-8 using the Content-Type charset or the
// document's meta tag.
func decodeBody(body []byte, contentType string) (io.Reader, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	return r, nil
}
