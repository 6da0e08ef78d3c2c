package selection

import (
	"dailyarticles/internal/domain"
	"sort"
)

const (
	// MaxArticles — размер итоговой подборки.
	MaxArticles = 9
	// DiversityThreshold — после стольких отобранных статей ограничение
	// "один источник — одна статья" снимается.
	DiversityThreshold = 5
)

// Rank отбрасывает статьи с неположительной оценкой и устойчиво сортирует
// оставшиеся по убыванию оценки.
func Rank(scored []domain.ScoredArticle) []domain.ScoredArticle {
	ranked := make([]domain.ScoredArticle, 0, len(scored))
	for _, a := range scored {
		if a.Score > 0 {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Select отбирает до MaxArticles статей из списка, отсортированного по убыванию
// оценки. Первый проход берёт по одной статье на источник, пока подборка меньше
// DiversityThreshold; второй добирает оставшиеся места в порядке оценки.
func Select(scored []domain.ScoredArticle) domain.Selection {
	result := make(domain.Selection, 0, MaxArticles)
	usedSources := make(map[string]struct{})
	usedURLs := make(map[string]struct{})

	accept := func(a domain.ScoredArticle) {
		result = append(result, domain.ArticleLink{Title: a.Title, URL: a.URL})
		usedSources[a.Source.URL] = struct{}{}
		usedURLs[a.URL] = struct{}{}
	}

	for _, a := range scored {
		if len(result) >= MaxArticles {
			break
		}
		if a.Score <= 0 {
			continue
		}
		if _, dup := usedURLs[a.URL]; dup {
			continue
		}
		_, sourceUsed := usedSources[a.Source.URL]
		if !sourceUsed || len(result) >= DiversityThreshold {
			accept(a)
		}
	}

	for _, a := range scored {
		if len(result) >= MaxArticles {
			break
		}
		if a.Score <= 0 {
			continue
		}
		if _, dup := usedURLs[a.URL]; !dup {
			accept(a)
		}
	}

	return result
}
