package catalog

import (
	"strings"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// typeKeywordMap expands the coarse user-facing categories into the keyword
// variants that actually appear in attraction records.
var typeKeywordMap = map[string][]string{
	"风景区":    {"风景区", "风景名胜"},
	"风景名胜":   {"风景区", "风景名胜"},
	"公园":     {"公园", "城市公园", "生态公园"},
	"博物馆":    {"博物馆", "博物院", "陈列馆", "纪念馆"},
	"历史古迹":   {"历史古迹", "古迹", "古建筑", "历史建筑", "遗址", "古迹遗址"},
	"自然景观":   {"自然景观", "自然", "山水", "湖泊", "河流", "森林", "山脉"},
	"科教文化服务": {"博物馆", "博物院", "陈列馆", "纪念馆", "科教文化服务"},
	"体育休闲服务": {"体育", "休闲", "运动", "体育休闲服务"},
}

// extraNameKeywords widens name matching for categories whose attractions
// rarely carry the category as their literal type.
var extraNameKeywords = map[string][]string{
	"博物馆":  {"博物馆"},
	"公园":   {"公园", "园"},
	"风景区":  {"风景区", "风景"},
	"历史古迹": {"古迹", "遗址", "古", "历史"},
	"自然景观": {"自然", "山水", "湖", "河", "山"},
}

// FilterByTypePreferences keeps the attractions matching any of the selected
// categories. Matching runs over the type field, the name and the
// description. With no preferences the input is returned unchanged.
func FilterByTypePreferences(attractions []*types.Attraction, selected []string) []*types.Attraction {
	if len(selected) == 0 {
		return attractions
	}

	targetSet := map[string]struct{}{}
	for _, sel := range selected {
		expanded, ok := typeKeywordMap[sel]
		if !ok {
			expanded = []string{sel}
		}
		for _, t := range expanded {
			targetSet[t] = struct{}{}
		}
	}
	targets := make([]string, 0, len(targetSet))
	for t := range targetSet {
		targets = append(targets, t)
	}

	var filtered []*types.Attraction
	for _, attr := range attractions {
		if matchesAnyType(attr, targets, selected) {
			filtered = append(filtered, attr)
		}
	}
	return filtered
}

func matchesAnyType(attr *types.Attraction, targets, selected []string) bool {
	for _, t := range targets {
		if attr.Type == t {
			return true
		}
		if strings.Contains(attr.Name, t) {
			return true
		}
		if attr.Description != "" && strings.Contains(attr.Description, t) {
			return true
		}
	}
	for _, sel := range selected {
		for _, kw := range extraNameKeywords[sel] {
			if strings.Contains(attr.Name, kw) {
				return true
			}
		}
	}
	return false
}
