package presentation

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// hotBatchesShown caps the hot batch list in the text report.
const hotBatchesShown = 3

type phrase struct {
	en, ko string
}

func (p phrase) in(locale string) string {
	if locale == LocaleKorean {
		return p.ko
	}
	return p.en
}

var observationText = map[Observation]phrase{
	ObservationRisingDominant:   {"Rising trend dominates: inspect the cooling system", "온도 상승 트렌드가 우세함 → 냉각 시스템 점검 필요"},
	ObservationUnstableFrequent: {"Many batches fluctuate strongly: review operating conditions", "온도 변동이 큰 배치가 많음 → 운영 조건 점검 필요"},
	ObservationMostlyPlateau:    {"Temperature mostly held steady: operation is healthy", "대부분 안정적인 온도 유지 → 양호한 운영 상태"},
}

var priorityText = map[MaintenancePriority]phrase{
	PriorityCoolingSystem:   {"Full cooling system inspection (coolant, radiator, fan, thermostat)", "냉각 시스템 전면 점검 (냉각수, 라디에이터, 팬, 써모스탯)"},
	PriorityMechanicalParts: {"Mechanical parts inspection (bearings, shaft alignment, impeller balance)", "기계적 부품 점검 (베어링, 축 정렬, 임펠러 균형)"},
	PriorityPreventive:      {"Preventive maintenance (oil, seals and gaskets, electrical connections)", "예방 정비 (오일, 씰 및 가스켓, 전기 연결부)"},
}

var (
	headingText = map[string]phrase{
		"title":        {"Water pump temperature report", "워터펌프 온도 분석 리포트"},
		"info":         {"Analysis", "분석 정보"},
		"temperature":  {"Temperature", "온도 통계"},
		"alerts":       {"Alert levels", "경고 수준 분포"},
		"bands":        {"Temperature bands", "온도 범위별 분포"},
		"trends":       {"Trends", "트렌드 분포"},
		"stability":    {"Stability", "안정성 분포"},
		"observations": {"Observations", "트렌드 해석"},
		"hot":          {"Hot batches (mean > 80°C)", "고온 배치 (평균 > 80°C)"},
		"flagged":      {"Flagged batches", "위험/주의 배치 상세"},
		"maintenance":  {"Maintenance", "정비 우선순위"},
	}
	scheduleText = map[bool]phrase{
		true:  {"Next inspection in 1 week; bring regular maintenance forward by 1 month", "단기 점검: 1주일 후, 정기 정비: 1개월 단축"},
		false: {"Next inspection in 2 weeks; keep the regular maintenance cycle", "정기 점검: 2주 후, 정기 정비: 기존 주기 유지"},
	}
)

// bandText renders a band name with its mean range.
func bandText(band, locale string) string {
	ranges := map[string]string{
		entity.TempLow:      "<40°C",
		entity.TempNormal:   "40-70°C",
		entity.TempHigh:     "70-85°C",
		entity.TempOverheat: ">85°C",
	}
	name := band
	if locale == LocaleKorean {
		if ko, ok := koreanLabelParts[0][band]; ok {
			name = ko
		}
	}
	return fmt.Sprintf("%s (%s)", name, ranges[band])
}

// WriteReport renders a report and its insights as plain text.
func WriteReport(w io.Writer, report *entity.Report, locale string) error {
	s := report.Summary
	in := NewInsights(s, report.AnalysisResults)
	total := s.TotalBatches

	bw := bufio.NewWriter(w)
	section := func(key string) {
		title := headingText[key].in(locale)
		fmt.Fprintf(bw, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
	}

	title := headingText["title"].in(locale)
	fmt.Fprintf(bw, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))

	section("info")
	fmt.Fprintf(bw, "- date: %s\n", report.Metadata.AnalysisDate.Format(time.RFC3339))
	fmt.Fprintf(bw, "- source: %s\n", report.Metadata.DataSource)
	fmt.Fprintf(bw, "- batches: %d\n", report.Metadata.TotalBatches)
	fmt.Fprintf(bw, "- window: %d records\n", report.Metadata.WindowSize)

	section("temperature")
	fmt.Fprintf(bw, "- avg: %.1f°C\n", s.AvgTemperature)
	fmt.Fprintf(bw, "- max: %.1f°C\n", s.MaxTemperature)
	fmt.Fprintf(bw, "- min: %.1f°C\n", s.MinTemperature)

	section("alerts")
	for _, a := range entity.AlertLevels {
		c := s.AlertCounts[a]
		fmt.Fprintf(bw, "- %s: %d (%.1f%%)\n", AlertName(a, locale), c, percent(c, total))
	}

	section("bands")
	for _, b := range in.TemperatureBands {
		fmt.Fprintf(bw, "- %s: %d (%.1f%%)\n", bandText(b.Band, locale), b.Count, b.Percent)
	}

	section("trends")
	for _, t := range entity.Trends {
		c := s.TrendCounts[t]
		fmt.Fprintf(bw, "- %s: %d (%.1f%%)\n", TrendName(t, locale), c, percent(c, total))
	}

	section("stability")
	for _, st := range entity.Stabilities {
		c := s.StabilityCounts[st]
		fmt.Fprintf(bw, "- %s: %d (%.1f%%)\n", StabilityName(st, locale), c, percent(c, total))
	}

	if len(in.Observations) > 0 {
		section("observations")
		for _, o := range in.Observations {
			fmt.Fprintf(bw, "- %s\n", observationText[o].in(locale))
		}
	}

	if len(in.HotBatches) > 0 {
		section("hot")
		for _, b := range in.HotBatches[:min(len(in.HotBatches), hotBatchesShown)] {
			fmt.Fprintf(bw, "- #%d: %.1f°C (%s)\n", b.BatchID, b.Statistics.Mean, LocalizeLabel(b.ValueLabel, locale))
		}
	}

	if len(s.CriticalBatches) > 0 {
		section("flagged")
		for _, b := range s.CriticalBatches {
			fmt.Fprintf(bw, "- #%d %s: mean %.1f°C, max %.1f°C, %s, %s\n",
				b.BatchID, AlertName(b.AlertLevel, locale), b.Statistics.Mean, b.Statistics.Max,
				LocalizeLabel(b.ValueLabel, locale), b.StartTimestamp.Format("2006-01-02 15:04"))
		}
	}

	section("maintenance")
	for i, p := range in.Priorities {
		fmt.Fprintf(bw, "%d. %s\n", i+1, priorityText[p].in(locale))
	}
	fmt.Fprintf(bw, "- %s\n", scheduleText[in.Schedule.Shortened].in(locale))

	return bw.Flush()
}
