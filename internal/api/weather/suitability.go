// Package weather classifies how suitable an attraction is for a given
// day's conditions and defines the forecast source contract.
package weather

import (
	"strings"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// Attraction category keyword sets. Matching runs over both the attraction
// type and its name, first category wins in the order indoor, beach,
// outdoor activity; everything else counts as generic outdoor.
var (
	indoorKeywords = []string{
		"博物馆", "纪念馆", "科技馆", "美术馆", "展览馆", "室内",
		"故居", "陈列馆", "文化创意园", "民俗馆", "艺术馆",
	}
	beachKeywords = []string{
		"海滨", "沙滩", "海岛", "海岸", "海景", "海滩",
	}
	outdoorActivityKeywords = []string{
		"游乐场", "主题公园", "动物园", "植物园",
	}

	rainKeywords  = []string{"雨", "小雨", "中雨", "大雨", "暴雨", "雷阵雨"}
	snowKeywords  = []string{"雪", "小雪", "中雪", "大雪", "暴雪"}
	clearKeywords = []string{"晴", "晴朗", "多云"}
)

// Category is the weather-sensitivity bucket of an attraction.
type Category int

const (
	CategoryOutdoor Category = iota
	CategoryIndoor
	CategoryBeach
	CategoryOutdoorActivity
)

// Classify buckets an attraction by keyword match against its type and name.
func Classify(attr *types.Attraction) Category {
	haystack := strings.ToLower(attr.Type) + " " + strings.ToLower(attr.Name)
	switch {
	case containsAny(haystack, indoorKeywords):
		return CategoryIndoor
	case containsAny(haystack, beachKeywords):
		return CategoryBeach
	case containsAny(haystack, outdoorActivityKeywords):
		return CategoryOutdoorActivity
	default:
		return CategoryOutdoor
	}
}

// Suitability scores how appropriate it is to visit an attraction under the
// given forecast, in [0, 1]. A nil forecast means no weather constraint.
func Suitability(attr *types.Attraction, forecast *types.WeatherDayForecast) float64 {
	if forecast == nil {
		return 1.0
	}

	desc := strings.ToLower(forecast.Weather)
	category := Classify(attr)

	switch {
	case containsAny(desc, rainKeywords):
		switch category {
		case CategoryIndoor:
			return 1.0
		case CategoryBeach:
			return 0.0
		case CategoryOutdoorActivity:
			return 0.2
		default:
			return 0.3
		}
	case containsAny(desc, snowKeywords):
		switch category {
		case CategoryIndoor:
			return 1.0
		case CategoryBeach:
			return 0.0
		case CategoryOutdoorActivity:
			return 0.3
		default:
			return 0.4
		}
	case containsAny(desc, clearKeywords):
		switch category {
		case CategoryIndoor:
			return 0.8
		case CategoryBeach, CategoryOutdoorActivity:
			return 1.0
		default:
			return 0.9
		}
	default:
		return 0.7
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
