package feature

import "strings"

// 天气 → 适合的类目关键字。命中为 1，已知天气未命中为 weatherMiss，天气未知为 0.5。
var weatherTable = map[string][]string{
	"rain":  {"국밥", "찌개", "칼국수", "짬뽕", "전", "탕", "중식"},
	"snow":  {"국밥", "찌개", "탕", "전골", "칼국수"},
	"cold":  {"국밥", "찌개", "탕", "전골", "라멘", "한식"},
	"hot":   {"냉면", "샐러드", "카페", "디저트", "빙수", "일식", "포케"},
	"clear": {"샐러드", "카페", "양식", "고기"},
}

const weatherMiss = 0.3

// WeatherSuitability 天气适配度。
func WeatherSuitability(weather, category string) float64 {
	keywords, ok := weatherTable[strings.ToLower(strings.TrimSpace(weather))]
	if !ok {
		return 0.5
	}
	if matchAny(category, keywords) {
		return 1
	}
	return weatherMiss
}

// 同行人数分组的适配类目。
var (
	soloKeywords  = []string{"분식", "패스트푸드", "도시락", "국밥", "카페", "편의점", "김밥"}
	pairKeywords  = []string{"양식", "일식", "카페", "디저트", "이탈리안"}
	groupKeywords = []string{"고기", "중식", "한식", "치킨", "피자", "술집"}
)

// CompanionSuitability 同行人数适配度：0 人表示未知（0.5）。
func CompanionSuitability(companions int, category string) float64 {
	switch {
	case companions <= 0:
		return 0.5
	case companions == 1:
		if matchAny(category, soloKeywords) {
			return 1
		}
		return 0.6
	case companions <= 3:
		if matchAny(category, pairKeywords) {
			return 1
		}
		return 0.7
	default:
		if matchAny(category, groupKeywords) {
			return 1
		}
		return 0.4
	}
}

func matchAny(category string, keywords []string) bool {
	if category == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	return false
}
