package scoring

import (
	"dailyarticles/internal/domain"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	RejectExcluded = -1000
	RejectShort    = -500

	minTitleLength     = 30
	qualityTitleMinLen = 40
	qualityTitleMaxLen = 120
)

type recencyBucket struct {
	maxAge time.Duration
	bonus  int
}

var recencyBuckets = [...]recencyBucket{
	{24 * time.Hour, 30},
	{72 * time.Hour, 25},
	{168 * time.Hour, 20},
	{336 * time.Hour, 15},
	{720 * time.Hour, 10},
}

// Scorer оценивает статьи относительно текущего времени.
type Scorer struct {
	now func() time.Time
}

func New() *Scorer {
	return &Scorer{now: time.Now}
}

// NewWithClock нужен для тестов и пакетной оценки в один момент времени.
func NewWithClock(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

func (s *Scorer) Score(article domain.RawArticle) int {
	return ScoreAt(article, s.now())
}

// ScoreAll оценивает все статьи в один и тот же момент времени.
func (s *Scorer) ScoreAll(articles []domain.RawArticle) []domain.ScoredArticle {
	now := s.now()
	scored := make([]domain.ScoredArticle, 0, len(articles))
	for _, a := range articles {
		scored = append(scored, domain.ScoredArticle{RawArticle: a, Score: ScoreAt(a, now)})
	}
	return scored
}

// ScoreAt — чистая функция от статьи и момента оценки. Жёсткие отказы
// возвращаются сразу, остальные сигналы суммируются.
func ScoreAt(article domain.RawArticle, now time.Time) int {
	title := strings.ToLower(article.Title)
	fullText := title + " " + strings.ToLower(article.ContentSnippet)
	titleLen := utf8.RuneCountInString(article.Title)

	if containsAny(title, excludePhrases[:]) || strings.Contains(title, "!") {
		return RejectExcluded
	}
	if titleLen < minTitleLength {
		return RejectShort
	}

	score := recencyBonus(now.Sub(article.PubDate))

	score += min(countMatches(fullText, essayWords[:])*12, 35)
	score += min(countMatches(fullText, longformPhrases[:])*10, 15)

	if titleLen >= qualityTitleMinLen && titleLen <= qualityTitleMaxLen {
		score += 15
	}
	if containsAny(title, clickbaitPhrases[:]) {
		score -= 30
	}
	score += min(countMatches(title, qualityWords[:])*5, 10)
	if strings.Contains(title, ":") {
		score += 5
	}
	score += min(countMatches(fullText, depthWords[:])*10, 20)

	return score
}

func recencyBonus(age time.Duration) int {
	for _, b := range recencyBuckets {
		if age < b.maxAge {
			return b.bonus
		}
	}
	return 0
}

// countMatches считает, сколько разных фраз списка встречается в тексте.
func countMatches(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
