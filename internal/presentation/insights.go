package presentation

import (
	"github.com/piolla/waterpump/internal/domain/entity"
)

// hotBatchMean is the batch mean above which a batch is listed as running hot.
const hotBatchMean = 80.0

// shortenedScheduleAvg is the run average above which the maintenance cycle is shortened.
const shortenedScheduleAvg = 75.0

type Observation string

const (
	// ObservationRisingDominant: more than 30% of batches are rising.
	ObservationRisingDominant Observation = "rising_dominant"
	// ObservationUnstableFrequent: more than 20% of batches are unstable.
	ObservationUnstableFrequent Observation = "unstable_frequent"
	// ObservationMostlyPlateau: more than 60% of batches hold a plateau.
	ObservationMostlyPlateau Observation = "mostly_plateau"
)

type MaintenancePriority string

const (
	// PriorityCoolingSystem: Caution and Critical batches exceed 20% of the run.
	PriorityCoolingSystem MaintenancePriority = "cooling_system"
	// PriorityMechanicalParts: unstable batches exceed 30% of the run.
	PriorityMechanicalParts MaintenancePriority = "mechanical_parts"
	PriorityPreventive      MaintenancePriority = "preventive"
)

type TemperatureBand struct {
	Band    string  `json:"band"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MaintenanceSchedule gives the delay until the next inspection and whether the
// regular maintenance cycle should be brought forward.
type MaintenanceSchedule struct {
	Shortened      bool   `json:"shortened"`
	NextInspection string `json:"next_inspection"`
}

// Insights are the rule-based readings of a run that operators act on.
type Insights struct {
	TemperatureBands []TemperatureBand      `json:"temperature_bands"`
	HotBatches       []entity.BatchAnalysis `json:"-"`
	Observations     []Observation          `json:"observations"`
	Priorities       []MaintenancePriority  `json:"priorities"`
	Schedule         MaintenanceSchedule    `json:"schedule"`
}

// temperatureBands share the mean cut-offs of the batch label.
var temperatureBands = []struct {
	name  string
	upper float64
}{
	{entity.TempLow, 40},
	{entity.TempNormal, 70},
	{entity.TempHigh, 85},
}

func bandOf(mean float64) int {
	for i, b := range temperatureBands {
		if mean < b.upper {
			return i
		}
	}
	return len(temperatureBands)
}

func NewInsights(s entity.RunSummary, analyses []entity.BatchAnalysis) Insights {
	total := len(analyses)
	counts := make([]int, len(temperatureBands)+1)
	in := Insights{
		HotBatches:   make([]entity.BatchAnalysis, 0),
		Observations: make([]Observation, 0),
		Priorities:   make([]MaintenancePriority, 0, 3),
	}

	for _, a := range analyses {
		counts[bandOf(a.Statistics.Mean)]++
		if a.Statistics.Mean > hotBatchMean {
			in.HotBatches = append(in.HotBatches, a)
		}
	}
	for i, c := range counts {
		name := entity.TempOverheat
		if i < len(temperatureBands) {
			name = temperatureBands[i].name
		}
		in.TemperatureBands = append(in.TemperatureBands, TemperatureBand{Band: name, Count: c, Percent: percent(c, total)})
	}

	// ratios compare in integers so a share exactly on a threshold never counts
	runBatches := s.TotalBatches
	if runBatches > 0 {
		if s.TrendCounts[entity.TrendRising]*10 > runBatches*3 {
			in.Observations = append(in.Observations, ObservationRisingDominant)
		}
		if s.StabilityCounts[entity.StabilityUnstable]*5 > runBatches {
			in.Observations = append(in.Observations, ObservationUnstableFrequent)
		}
		if s.TrendCounts[entity.TrendPlateau]*5 > runBatches*3 {
			in.Observations = append(in.Observations, ObservationMostlyPlateau)
		}

		flagged := s.AlertCounts[entity.AlertCaution] + s.AlertCounts[entity.AlertCritical]
		if flagged*5 > runBatches {
			in.Priorities = append(in.Priorities, PriorityCoolingSystem)
		}
		if s.StabilityCounts[entity.StabilityUnstable]*10 > runBatches*3 {
			in.Priorities = append(in.Priorities, PriorityMechanicalParts)
		}
	}
	in.Priorities = append(in.Priorities, PriorityPreventive)

	in.Schedule = MaintenanceSchedule{NextInspection: "2 weeks"}
	if s.AvgTemperature > shortenedScheduleAvg {
		in.Schedule = MaintenanceSchedule{Shortened: true, NextInspection: "1 week"}
	}
	return in
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
