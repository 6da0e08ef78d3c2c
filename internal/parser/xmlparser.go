package parser

import (
	"context"
	"dailyarticles/internal/domain"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// MaxItemsPerFeed — максимальное число статей, которое отдаёт одна лента.
const MaxItemsPerFeed = 30

var itemRe = regexp.MustCompile(`(?s)<item>(.*?)</item>`)

// RegexParser выделяет статьи из RSS регулярными выражениями, без полноценного
// разбора XML.
type RegexParser struct {
	log *slog.Logger
	now func() time.Time
}

func New(log *slog.Logger) *RegexParser {
	return &RegexParser{
		log: log,
		now: time.Now,
	}
}

func (p *RegexParser) Parse(ctx context.Context, reader io.Reader, source domain.FeedSource) ([]domain.RawArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		p.log.Error(
			"Failed to read feed body",
			slog.String("url", source.URL),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	return p.ParseString(string(raw), source), nil
}

// ParseString разбирает уже загруженный документ.
func (p *RegexParser) ParseString(xml string, source domain.FeedSource) []domain.RawArticle {
	now := p.now()
	articles := make([]domain.RawArticle, 0, MaxItemsPerFeed)
	skipped := 0

	for _, match := range itemRe.FindAllStringSubmatch(xml, -1) {
		fragment := match[1]

		title := CleanText(ExtractTag(fragment, "title"))
		link := strings.TrimSpace(ExtractTag(fragment, "link"))
		if title == "" || link == "" {
			skipped++
			continue
		}

		dateStr := ExtractTag(fragment, "pubDate")
		if dateStr == "" {
			dateStr = ExtractTag(fragment, "dc:date")
		}
		pubDate, ok := parsePubDate(dateStr, now)
		if !ok && dateStr != "" {
			p.log.Debug(
				"Could not parse item date, using current time",
				slog.String("date", dateStr),
				slog.String("item_title", title),
			)
		}

		description := ExtractTag(fragment, "description")
		if description == "" {
			description = ExtractTag(fragment, "content:encoded")
		}

		articles = append(articles, domain.RawArticle{
			Title:          title,
			URL:            link,
			PubDate:        pubDate,
			Source:         source,
			ContentSnippet: CleanText(description),
		})
		if len(articles) >= MaxItemsPerFeed {
			break
		}
	}

	if skipped > 0 {
		p.log.Debug(
			"Skipped items without title or link",
			slog.String("url", source.URL),
			slog.Int("skipped", skipped),
		)
	}
	return articles
}
