// Package risk grades the travel risk of visiting an attraction type under
// given weather and produces avoidance advice, following the production
// system's rule engine.
package risk

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// Levels in ascending severity.
const (
	LevelLow    = "低"
	LevelMedium = "中"
	LevelHigh   = "高"
)

var levelRank = map[string]int{LevelLow: 0, LevelMedium: 1, LevelHigh: 2}

// Assessment is the outcome for one attraction type under one forecast.
type Assessment struct {
	Level          string
	Description    string
	Advice         []string
	WeatherFactors []string
}

// Assessor grades weather risk for an attraction type.
type Assessor interface {
	Assess(ctx context.Context, attractionType string, forecast *types.WeatherDayForecast) Assessment
}

var _ Assessor = (*RuleAssessor)(nil)

// RuleAssessor applies the static category × weather-factor rule table.
type RuleAssessor struct {
	logger *slog.Logger
}

func NewRuleAssessor(logger *slog.Logger) *RuleAssessor {
	return &RuleAssessor{logger: logger}
}

type rule struct {
	level  string
	advice string
}

// Weather factor keys produced by detectFactors.
const (
	factorStorm   = "暴雨"
	factorRain    = "大雨"
	factorSnow    = "暴雪"
	factorThunder = "雷电"
	factorFog     = "大雾"
	factorGale    = "大风"
	factorHeat    = "高温"
	factorCold    = "低温"
)

// ruleTable maps attraction category -> weather factor -> rule. Categories
// not listed fall back to 户外; indoor categories are low risk under any
// weather.
var ruleTable = map[string]map[string]rule{
	"山地": {
		factorStorm:   {LevelHigh, "暴雨天易发生泥石流、滑坡等灾害，禁止登山"},
		factorRain:    {LevelMedium, "雨天山路湿滑，减少登山时间，注意防滑"},
		factorGale:    {LevelHigh, "大风天禁止登山，易发生坠崖事故"},
		factorHeat:    {LevelMedium, "高温天注意防暑，携带足够的水和防暑药品"},
		factorCold:    {LevelHigh, "低温天易发生冻伤，不推荐登山"},
		factorFog:     {LevelMedium, "大雾天能见度低，注意路径标识，结伴而行"},
		factorThunder: {LevelHigh, "雷电天气禁止户外活动，远离山顶、树木和金属物体"},
		factorSnow:    {LevelHigh, "暴雪天气禁止登山，注意雪崩风险"},
	},
	"海滨": {
		factorStorm:   {LevelHigh, "暴雨天易引发风暴潮，绝对禁止靠近海边"},
		factorRain:    {LevelMedium, "雨天海边可能涨潮，注意安全，远离危险区域"},
		factorGale:    {LevelHigh, "大风天禁止下海，巨浪风险极高"},
		factorHeat:    {LevelMedium, "高温天注意防晒，涂抹防晒霜，多喝水"},
		factorThunder: {LevelHigh, "海边雷电天气禁止户外活动，立即寻找室内躲避"},
		factorSnow:    {LevelMedium, "雪天海边湿滑低温，缩短停留时间"},
	},
	"主题乐园": {
		factorStorm:   {LevelMedium, "暴雨天大部分室外项目关闭，建议选择室内项目或改期"},
		factorGale:    {LevelMedium, "大风天大部分高空项目关闭，建议改期"},
		factorHeat:    {LevelMedium, "高温天注意防暑，合理安排游玩时间，避开正午时分"},
		factorCold:    {LevelMedium, "低温天大部分水上项目关闭，建议选择室内项目"},
		factorThunder: {LevelMedium, "雷电天气室外项目关闭，建议选择室内项目或改期"},
	},
	"户外": {
		factorStorm:   {LevelHigh, "暴雨天避免户外活动，防止触电和洪水"},
		factorRain:    {LevelMedium, "雨天减少户外活动，注意防滑和防雷"},
		factorGale:    {LevelMedium, "大风天注意高空坠物，远离广告牌和大树"},
		factorHeat:    {LevelMedium, "高温天注意防暑，避免正午时分户外活动"},
		factorCold:    {LevelMedium, "低温天注意保暖，穿合适的户外服装"},
		factorFog:     {LevelMedium, "大雾天注意交通安全，减速慢行"},
		factorThunder: {LevelHigh, "雷电天气立即寻找安全的室内躲避，远离大树、电线杆"},
		factorSnow:    {LevelMedium, "雪天路面湿滑，减少户外活动时间"},
	},
}

var indoorCategories = map[string]bool{
	"室内":  true,
	"博物馆": true,
}

const indoorAdvice = "室内活动不受天气影响，可正常出行"

var descriptions = map[string]string{
	LevelLow:    "风险较低，适合出行",
	LevelMedium: "风险中等，需注意安全",
	LevelHigh:   "风险较高，不建议出行",
}

// Assess grades the risk of one attraction type under the forecast. The
// highest level among all detected weather factors wins; no factors or a nil
// forecast yield the low-risk default.
func (a *RuleAssessor) Assess(ctx context.Context, attractionType string, forecast *types.WeatherDayForecast) Assessment {
	result := Assessment{
		Level:       LevelLow,
		Description: descriptions[LevelLow],
	}
	if forecast == nil {
		return result
	}

	if indoorCategories[normalizeCategory(attractionType)] {
		result.Advice = []string{indoorAdvice}
		return result
	}

	factors := detectFactors(forecast)
	result.WeatherFactors = factors

	rules, ok := ruleTable[normalizeCategory(attractionType)]
	if !ok {
		rules = ruleTable["户外"]
	}

	for _, factor := range factors {
		r, ok := rules[factor]
		if !ok {
			continue
		}
		result.Advice = append(result.Advice, r.advice)
		if levelRank[r.level] > levelRank[result.Level] {
			result.Level = r.level
		}
	}
	result.Description = descriptions[result.Level]

	if len(result.Advice) == 0 {
		result.Advice = []string{"可正常出行"}
	}
	return result
}

// normalizeCategory folds concrete attraction types onto rule categories.
func normalizeCategory(attractionType string) string {
	switch {
	case strings.Contains(attractionType, "博物馆") || strings.Contains(attractionType, "纪念馆") ||
		strings.Contains(attractionType, "室内") || strings.Contains(attractionType, "展览"):
		return "博物馆"
	case strings.Contains(attractionType, "山"):
		return "山地"
	case strings.Contains(attractionType, "海") || strings.Contains(attractionType, "滩"):
		return "海滨"
	case strings.Contains(attractionType, "乐园") || strings.Contains(attractionType, "游乐") ||
		strings.Contains(attractionType, "主题"):
		return "主题乐园"
	default:
		return "户外"
	}
}

var numberPattern = regexp.MustCompile(`[-+]?\d+\.?\d*`)

// parseLeadingNumber extracts the first numeric token of a free-text field,
// falling back to def when none is present.
func parseLeadingNumber(s string, def float64) float64 {
	match := numberPattern.FindString(s)
	if match == "" {
		return def
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return def
	}
	return v
}

func detectFactors(forecast *types.WeatherDayForecast) []string {
	var factors []string
	desc := forecast.Weather

	switch {
	case strings.Contains(desc, "暴雨"):
		factors = append(factors, factorStorm)
	case strings.Contains(desc, "雨"):
		factors = append(factors, factorRain)
	}
	if strings.Contains(desc, "雪") {
		factors = append(factors, factorSnow)
	}
	if strings.Contains(desc, "雷") {
		factors = append(factors, factorThunder)
	}
	if strings.Contains(desc, "雾") {
		factors = append(factors, factorFog)
	}

	if forecast.WindLevel >= 6 {
		factors = append(factors, factorGale)
	}

	temp := forecast.TempMax
	if temp == 0 && forecast.Temperature != "" {
		temp = parseLeadingNumber(forecast.Temperature, 20)
	}
	switch {
	case temp >= 30:
		factors = append(factors, factorHeat)
	case temp < -10:
		factors = append(factors, factorCold)
	}

	return factors
}
