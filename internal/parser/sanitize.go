package parser

import (
	"regexp"
	"strings"
)

var (
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	htmlTag = regexp.MustCompile(`<[^>]+>`)
)

// entities декодируются последовательно, именно в этом порядке.
var entities = [...][2]string{
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// CleanText снимает обёртки CDATA, вырезает теги, декодирует ограниченный набор
// HTML-сущностей и обрезает пробелы по краям. Прочие сущности остаются как есть.
func CleanText(raw string) string {
	text := cdataRe.ReplaceAllString(raw, "$1")
	text = htmlTag.ReplaceAllString(text, "")
	for _, e := range entities {
		text = strings.ReplaceAll(text, e[0], e[1])
	}
	return strings.TrimSpace(text)
}
