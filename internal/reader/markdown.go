package reader

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type substitution struct {
	re   *regexp.Regexp
	repl string
}

// Порядок важен: заголовки до выделения, жирный до курсива.
var substitutions = []substitution{
	{regexp.MustCompile(`(?m)^### (.*)$`), "<h3>$1</h3>"},
	{regexp.MustCompile(`(?m)^## (.*)$`), "<h2>$1</h2>"},
	{regexp.MustCompile(`(?m)^# (.*)$`), "<h1>$1</h1>"},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "<strong>$1</strong>"},
	{regexp.MustCompile(`\*(.+?)\*`), "<em>$1</em>"},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`},
}

// ToHTML слегка переформатирует markdown в HTML-фрагмент. Это не полноценный
// рендерер markdown.
func ToHTML(markdown string) string {
	html := strings.ReplaceAll(markdown, "\r\n", "\n")
	for _, s := range substitutions {
		html = s.re.ReplaceAllString(html, s.repl)
	}
	return strings.ReplaceAll(html, "\n", "<br>")
}

// firstHeading возвращает текст первого <h1> фрагмента.
func firstHeading(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
