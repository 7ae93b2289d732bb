package intake

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	html := `<html><head><title>Tender 42</title>
<script>alert("x")</script><style>p{}</style></head>
<body><nav>menu</nav>
<h1>Cable Supply Tender</h1>
<p>Scope   of  Supply</p>
<ul><li>11 kV XLPE cable</li></ul>
<footer>contact</footer></body></html>`

	text, err := HTMLToText(strings.NewReader(html))
	if err != nil {
		t.Fatalf("HTMLToText failed: %v", err)
	}
	if !strings.Contains(text, "Cable Supply Tender") {
		t.Errorf("missing heading text: %q", text)
	}
	if !strings.Contains(text, "Scope of Supply") {
		t.Errorf("whitespace not collapsed: %q", text)
	}
	if !strings.Contains(text, "11 kV XLPE cable") {
		t.Errorf("missing list item: %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "menu") || strings.Contains(text, "contact") {
		t.Errorf("noise elements not removed: %q", text)
	}
}

func TestPageTitle(t *testing.T) {
	title, err := PageTitle(strings.NewReader(`<html><head><title> Tender 42 </title></head></html>`))
	if err != nil {
		t.Fatalf("PageTitle failed: %v", err)
	}
	if title != "Tender 42" {
		t.Errorf("title = %q", title)
	}

	title, err = PageTitle(strings.NewReader(`<html><body><h1>Fallback Heading</h1></body></html>`))
	if err != nil {
		t.Fatalf("PageTitle failed: %v", err)
	}
	if title != "Fallback Heading" {
		t.Errorf("fallback title = %q", title)
	}
}

func TestSanitizeHTML(t *testing.T) {
	dirty := `<p onclick="steal()">ok</p><script>bad()</script>`
	clean := SanitizeHTML(dirty)
	if strings.Contains(clean, "script") || strings.Contains(clean, "onclick") {
		t.Errorf("unsafe markup survived: %q", clean)
	}
	if !strings.Contains(clean, "ok") {
		t.Errorf("content lost: %q", clean)
	}
}
