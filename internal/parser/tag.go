package parser

import (
	"regexp"
	"sync"
)

var (
	tagPatternsMu sync.RWMutex
	tagPatterns   = map[string]*regexp.Regexp{}
)

// ExtractTag возвращает внутренний текст первого вхождения тега tagName во фрагменте.
// Поиск нечувствителен к регистру, нежадный и захватывает переводы строк. Атрибуты
// открывающего тега допускаются. Текст не очищается.
//
// Это не XML-парсер: при вложенных или битых тегах границы могут определиться
// неверно, и такое поведение сохраняется намеренно.
func ExtractTag(fragment, tagName string) string {
	match := tagPattern(tagName).FindStringSubmatch(fragment)
	if match == nil {
		return ""
	}
	return match[1]
}

func tagPattern(tagName string) *regexp.Regexp {
	tagPatternsMu.RLock()
	re, ok := tagPatterns[tagName]
	tagPatternsMu.RUnlock()
	if ok {
		return re
	}

	quoted := regexp.QuoteMeta(tagName)
	re = regexp.MustCompile(`(?is)<` + quoted + `[^>]*>(.*?)</` + quoted + `>`)

	tagPatternsMu.Lock()
	tagPatterns[tagName] = re
	tagPatternsMu.Unlock()
	return re
}
