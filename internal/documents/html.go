package documents

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// HTMLExtractor renders HTML resumes as text, one line per block element.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor { return &HTMLExtractor{} }

func (e *HTMLExtractor) Name() string { return "html" }

func (e *HTMLExtractor) Extensions() []string { return []string{".html", ".htm"} }

// Validate rejects binary content. The HTML parser itself accepts any text.
func (e *HTMLExtractor) Validate(data []byte) error {
	if bytes.IndexByte(data, 0) >= 0 {
		return fmt.Errorf("html contains NUL bytes")
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("html is not valid UTF-8")
	}
	return nil
}

func (e *HTMLExtractor) ExtractText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template, head").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b strings.Builder
	root.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			writeNodeText(&b, n)
		}
	})
	return b.String(), nil
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode, html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}
