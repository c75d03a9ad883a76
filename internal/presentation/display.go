// Package presentation maps analysis categories to operator-facing display names.
// Nothing in the analysis core depends on these strings.
package presentation

import (
	"strings"

	"github.com/piolla/waterpump/internal/domain/entity"
)

const LocaleKorean = "ko"

var koreanTrend = map[entity.Trend]string{
	entity.TrendRising:       "상승",
	entity.TrendFalling:      "하강",
	entity.TrendPlateau:      "평형",
	entity.TrendInsufficient: "불충분",
}

var koreanAlert = map[entity.AlertLevel]string{
	entity.AlertNormal:   "정상",
	entity.AlertWatch:    "관찰",
	entity.AlertCaution:  "주의",
	entity.AlertCritical: "위험",
}

var koreanStability = map[entity.Stability]string{
	entity.StabilityVeryStable: "매우안정",
	entity.StabilityStable:     "안정",
	entity.StabilityModerate:   "보통",
	entity.StabilityUnstable:   "불안정",
}

// label parts overlap in spelling (Normal, Stable, Moderate), so each part has its own table
var koreanLabelParts = [3]map[string]string{
	{
		entity.TempLow:      "저온",
		entity.TempNormal:   "정상",
		entity.TempHigh:     "고온",
		entity.TempOverheat: "과열",
	},
	{
		entity.VariabilityStable:   "안정",
		entity.VariabilityModerate: "보통",
		entity.VariabilityUnstable: "불안정",
	},
	{
		entity.RangeConstant: "일정",
		entity.RangeVariable: "변동",
		entity.RangeVolatile: "급변",
	},
}

func TrendName(t entity.Trend, locale string) string {
	return lookup(koreanTrend, t, locale)
}

func AlertName(a entity.AlertLevel, locale string) string {
	return lookup(koreanAlert, a, locale)
}

func StabilityName(s entity.Stability, locale string) string {
	return lookup(koreanStability, s, locale)
}

// LocalizeLabel translates each part of a composite "{temp}_{variability}_{range}" label.
// Labels that do not have three parts are returned unchanged.
func LocalizeLabel(label, locale string) string {
	if locale != LocaleKorean {
		return label
	}
	parts := strings.Split(label, "_")
	if len(parts) != len(koreanLabelParts) {
		return label
	}
	for i, p := range parts {
		if name, ok := koreanLabelParts[i][p]; ok {
			parts[i] = name
		}
	}
	return strings.Join(parts, "_")
}

func lookup[K ~string](names map[K]string, key K, locale string) string {
	if locale == LocaleKorean {
		if name, ok := names[key]; ok {
			return name
		}
	}
	return string(key)
}
