package parser

import (
	"strings"
	"time"
)

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05 GMT",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parsePubDate разбирает дату публикации. Пустая или нераспознанная строка
// даёт now и ok == false.
func parsePubDate(dateStr string, now time.Time) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return now, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return now, false
}
