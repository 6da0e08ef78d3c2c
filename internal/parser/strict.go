package parser

import (
	"context"
	"dailyarticles/internal/domain"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// StrictParser разбирает ленты полноценным парсером gofeed (RSS и Atom).
// Результат может отличаться от RegexParser на реальных лентах, поэтому
// включается только явно через конфигурацию.
type StrictParser struct {
	log  *slog.Logger
	feed *gofeed.Parser
	now  func() time.Time
}

func NewStrict(log *slog.Logger) *StrictParser {
	return &StrictParser{
		log:  log,
		feed: gofeed.NewParser(),
		now:  time.Now,
	}
}

func (p *StrictParser) Parse(ctx context.Context, reader io.Reader, source domain.FeedSource) ([]domain.RawArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	feed, err := p.feed.Parse(reader)
	if err != nil {
		p.log.Error(
			"Failed to decode feed",
			slog.String("url", source.URL),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	now := p.now()
	articles := make([]domain.RawArticle, 0, MaxItemsPerFeed)
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := CleanText(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		pubDate := now
		switch {
		case item.PublishedParsed != nil:
			pubDate = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			pubDate = *item.UpdatedParsed
		}

		description := item.Description
		if description == "" {
			description = item.Content
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
	return articles, nil
}
