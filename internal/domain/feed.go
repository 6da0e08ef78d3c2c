package domain

import "time"

// FeedSource описывает одну RSS-ленту. URL служит идентификатором источника.
type FeedSource struct {
	Name string
	URL  string
}

// RawArticle — кандидат в подборку, полученный из одного <item> ленты.
type RawArticle struct {
	Title          string
	URL            string
	PubDate        time.Time
	Source         FeedSource
	ContentSnippet string
}

// ScoredArticle — статья с вычисленной оценкой. Оценка зависит от момента вычисления
// и нигде не сохраняется.
type ScoredArticle struct {
	RawArticle
	Score int
}

// ArticleLink — элемент ответа API.
type ArticleLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Selection — итоговая подборка в порядке отбора.
type Selection []ArticleLink

// FetchRecord — результат загрузки одной ленты. Используется только для диагностики.
type FetchRecord struct {
	FeedName  string        `json:"feed_name"`
	FeedURL   string        `json:"feed_url"`
	FetchedAt time.Time     `json:"fetched_at"`
	Items     int           `json:"items"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}
