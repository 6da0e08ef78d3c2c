package selection

import (
	"dailyarticles/internal/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(source string, n, score int) domain.ScoredArticle {
	return domain.ScoredArticle{
		RawArticle: domain.RawArticle{
			Title:  fmt.Sprintf("%s article %d", source, n),
			URL:    fmt.Sprintf("https://%s/%d", source, n),
			Source: domain.FeedSource{URL: "https://" + source + "/feed"},
		},
		Score: score,
	}
}

func urls(sel domain.Selection) []string {
	out := make([]string, 0, len(sel))
	for _, l := range sel {
		out = append(out, l.URL)
	}
	return out
}

func TestSelectEmpty(t *testing.T) {
	assert.Empty(t, Select(nil))
}

func TestSelectAllNonPositive(t *testing.T) {
	in := []domain.ScoredArticle{
		scored("a", 1, 0),
		scored("b", 1, -5),
		scored("c", 1, -1000),
	}
	assert.Empty(t, Select(in))
}

func TestSelectDiversityFirst(t *testing.T) {
	in := Rank([]domain.ScoredArticle{
		scored("a", 1, 100),
		scored("a", 2, 90),
		scored("a", 3, 80),
		scored("b", 1, 70),
		scored("c", 1, 60),
		scored("d", 1, 50),
		scored("e", 1, 40),
		scored("a", 4, 30),
		scored("b", 2, 20),
		scored("c", 2, 10),
		scored("d", 2, 5),
	})

	got := Select(in)
	require.Len(t, got, MaxArticles)
	assert.Equal(t, []string{
		"https://a/1",
		"https://b/1",
		"https://c/1",
		"https://d/1",
		"https://e/1",
		// after five picks the source cap is relaxed
		"https://a/4",
		"https://b/2",
		"https://c/2",
		"https://d/2",
	}, urls(got))
}

func TestSelectBackfillsWhenFewSources(t *testing.T) {
	in := Rank([]domain.ScoredArticle{
		scored("a", 1, 100),
		scored("a", 2, 90),
		scored("b", 1, 80),
		scored("a", 3, 70),
		scored("b", 2, 60),
	})

	got := Select(in)
	assert.Equal(t, []string{
		"https://a/1",
		"https://b/1",
		"https://a/2",
		"https://a/3",
		"https://b/2",
	}, urls(got))
}

func TestSelectSkipsNonPositive(t *testing.T) {
	in := []domain.ScoredArticle{
		scored("a", 1, 10),
		scored("b", 1, 0),
		scored("c", 1, -3),
	}
	assert.Equal(t, []string{"https://a/1"}, urls(Select(in)))
}

func TestSelectNeverDuplicatesURL(t *testing.T) {
	dup := scored("a", 1, 50)
	sameURLOtherSource := dup
	sameURLOtherSource.Source = domain.FeedSource{URL: "https://mirror/feed"}

	got := Select(Rank([]domain.ScoredArticle{dup, sameURLOtherSource, dup, scored("b", 1, 10)}))
	assert.Equal(t, []string{"https://a/1", "https://b/1"}, urls(got))
}

func TestSelectProperties(t *testing.T) {
	for sources := 1; sources <= 7; sources++ {
		for perSource := 1; perSource <= 6; perSource++ {
			t.Run(fmt.Sprintf("%dx%d", sources, perSource), func(t *testing.T) {
				var in []domain.ScoredArticle
				score := 1000
				for n := 0; n < perSource; n++ {
					for s := 0; s < sources; s++ {
						in = append(in, scored(fmt.Sprintf("s%d", s), n, score))
						score -= 7
					}
				}
				got := Select(Rank(in))

				assert.LessOrEqual(t, len(got), MaxArticles)
				seen := map[string]bool{}
				for _, l := range got {
					assert.False(t, seen[l.URL], "duplicate url %s", l.URL)
					seen[l.URL] = true
				}

				head := min(DiversityThreshold, len(got))
				hosts := map[string]int{}
				for _, l := range got[:head] {
					hosts[l.URL[:len("https://s0")]]++
				}
				if sources >= DiversityThreshold {
					for host, n := range hosts {
						assert.Equal(t, 1, n, "source %s repeated in first picks", host)
					}
				}
			})
		}
	}
}

func TestSelectIsStableForEqualScores(t *testing.T) {
	in := Rank([]domain.ScoredArticle{
		scored("a", 1, 10),
		scored("b", 1, 10),
		scored("c", 1, 10),
	})
	assert.Equal(t, []string{"https://a/1", "https://b/1", "https://c/1"}, urls(Select(in)))
}

func TestRank(t *testing.T) {
	got := Rank([]domain.ScoredArticle{
		scored("a", 1, 5),
		scored("b", 1, 0),
		scored("c", 1, 20),
		scored("d", 1, 5),
	})
	require.Len(t, got, 3)
	assert.Equal(t, "https://c/1", got[0].URL)
	assert.Equal(t, "https://a/1", got[1].URL)
	assert.Equal(t, "https://d/1", got[2].URL)
}
