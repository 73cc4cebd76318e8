package dataload

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// canonicalCategories is the golden list of category names the scoring
// pipeline reasons about. Raw categories are mapped onto it.
var canonicalCategories = []string{
	"Одежда и обувь", "Продукты питания", "Кафе и рестораны", "Медицина", "Авто",
	"Спорт", "Развлечения", "АЗС", "Кино", "Питомцы", "Книги", "Цветы",
	"Едим дома", "Смотрим дома", "Играем дома", "Косметика и Парфюмерия",
	"Подарки", "Ремонт дома", "Мебель", "Спа и массаж",
	"Ювелирные украшения", "Такси", "Отели", "Путешествия",
}

// categoryAliases are known raw spellings with an explicit mapping
var categoryAliases = map[string]string{
	"Ювелирные изделия": "Ювелирные украшения",
	"Парфюмерия":        "Косметика и Парфюмерия",
	"Рестораны":         "Кафе и рестораны",
	"Игры":              "Играем дома",
	"Доставка":          "Едим дома",
	"Онлайн-сервисы":    "Смотрим дома",
}

// similarityThreshold is the minimum normalized edit similarity for mapping
// an unknown raw category onto a canonical one.
const similarityThreshold = 0.8

// NormalizeCategory maps a raw category onto the canonical vocabulary:
// exact aliases first, then the closest canonical name when the edit
// similarity clears the threshold, otherwise the raw value unchanged.
func NormalizeCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if mapped, ok := categoryAliases[raw]; ok {
		return mapped
	}
	for _, canon := range canonicalCategories {
		if raw == canon {
			return canon
		}
	}

	best, bestScore := raw, 0.0
	for _, canon := range canonicalCategories {
		if score := similarity(raw, canon); score > bestScore {
			best, bestScore = canon, score
		}
	}
	if bestScore >= similarityThreshold {
		return best
	}
	return raw
}

// similarity is 1 - levenshtein(a,b)/max(len(a),len(b)), computed over runes
func similarity(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	longest := len([]rune(la))
	if n := len([]rune(lb)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(la, lb))/float64(longest)
}
