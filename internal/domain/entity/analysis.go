package entity

import "time"

type BatchStatistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

type BatchAnalysis struct {
	BatchID        int             `json:"batch_id"`
	StartTimestamp time.Time       `json:"start_timestamp"`
	EndTimestamp   time.Time       `json:"end_timestamp"`
	RecordCount    int             `json:"record_count"`
	Statistics     BatchStatistics `json:"statistics"`
	ValueLabel     string          `json:"value_label"`
	Trend          Trend           `json:"trend"`
	Stability      Stability       `json:"stability"`
	AlertLevel     AlertLevel      `json:"alert_level"`
	RawData        []Sample        `json:"raw_data"`
}

type AnalysisPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RunSummary is derived from the full batch list and rebuilt whenever it changes.
type RunSummary struct {
	TotalBatches    int                `json:"total_batches"`
	AvgTemperature  float64            `json:"avg_temperature"`
	MaxTemperature  float64            `json:"max_temperature"`
	MinTemperature  float64            `json:"min_temperature"`
	AlertCounts     map[AlertLevel]int `json:"alert_counts"`
	TrendCounts     map[Trend]int      `json:"trend_counts"`
	StabilityCounts map[Stability]int  `json:"stability_counts"`
	CriticalBatches []BatchAnalysis    `json:"critical_batches"`
	AnalysisPeriod  AnalysisPeriod     `json:"analysis_period"`
}

type ReportMetadata struct {
	AnalysisDate time.Time `json:"analysis_date"`
	TotalBatches int       `json:"total_batches"`
	WindowSize   int       `json:"window_size"`
	DataSource   string    `json:"data_source"`
}

// Report is the serialized envelope handed to storage and presentation.
type Report struct {
	Metadata        ReportMetadata  `json:"metadata"`
	Summary         RunSummary      `json:"summary"`
	AnalysisResults []BatchAnalysis `json:"analysis_results"`
}
