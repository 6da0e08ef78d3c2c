package scoring

// Списки ключевых фраз. Сопоставление везде по подстроке в нижнем регистре.
// Наружу отдаются только копии.
var (
	excludePhrases = [...]string{
		"gift guide", "gifts for", "gift ideas",
		"weekly update", "this week", "week in",
		"roundup", "round-up", "recap",
		"10 things", "5 ways", "best of", "top 10", "top 5",
		"listicle", "must-read", "must read",
		"trending", "viral", "hot take",
		"sponsored", "partner content",
		"newsletter", "briefing",
		"podcast", "video", "watch",
	}

	essayWords = [...]string{
		"essay", "reflection", "meditation", "contemplation", "exploration",
		"examination", "perspective", "thoughts on", "thinking about",
		"consider", "reconsidering",
	}

	longformPhrases = [...]string{
		"deep dive", "in-depth", "long read", "comprehensive",
		"understanding", "meaning of", "nature of",
	}

	clickbaitPhrases = [...]string{
		"shocking", "unbelievable", "you won't believe", "this one trick",
		"breaking", "just in", "developing",
	}

	qualityWords = [...]string{
		"how", "why", "what if", "understanding", "rethinking",
		"reimagining", "reconsidering", "beyond", "after",
	}

	depthWords = [...]string{
		"revolution", "transformation", "evolution", "crisis",
		"future of", "history of", "meaning of", "nature of",
		"question of", "problem of",
	}
)

func ExcludePhrases() []string   { return copyList(excludePhrases[:]) }
func EssayWords() []string       { return copyList(essayWords[:]) }
func LongformPhrases() []string  { return copyList(longformPhrases[:]) }
func ClickbaitPhrases() []string { return copyList(clickbaitPhrases[:]) }
func QualityWords() []string     { return copyList(qualityWords[:]) }
func DepthWords() []string       { return copyList(depthWords[:]) }

func copyList(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
