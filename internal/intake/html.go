package intake

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips scripts, event handlers, and other unsafe markup
// from untrusted tender page HTML before it is stored or rendered.
func SanitizeHTML(html string) string {
	return ugcPolicy.Sanitize(html)
}

// HTMLToText extracts the readable text of an HTML document, dropping
// script/style/nav noise and collapsing whitespace. Block elements are
// separated by newlines so downstream section splitting can key off
// line structure.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, iframe, nav, footer, header").Remove()

	var b strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, div, section").Each(func(_ int, s *goquery.Selection) {
		// Only take leaves; container divs repeat their children's text.
		if s.Children().Filter("p, div, li, section, table").Length() > 0 {
			return
		}
		text := normalizeSpace(s.Text())
		if text == "" {
			return
		}
		b.WriteString(text)
		b.WriteString("\n")
	})

	if b.Len() == 0 {
		return normalizeSpace(doc.Text()), nil
	}
	return strings.TrimSpace(b.String()), nil
}

// PageTitle returns the document title, falling back to the first h1.
func PageTitle(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	title := normalizeSpace(doc.Find("title").First().Text())
	if title == "" {
		title = normalizeSpace(doc.Find("h1").First().Text())
	}
	return title, nil
}
