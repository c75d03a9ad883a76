// Package samplegen produces synthetic pump temperature series for demos and tests.
package samplegen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/piolla/waterpump/internal/domain/entity"
)

type Scenario string

const (
	ScenarioNormal        Scenario = "normal"
	ScenarioOverheating   Scenario = "overheating"
	ScenarioMaintenance   Scenario = "maintenance"
	ScenarioLoadVariation Scenario = "load_variation"
	ScenarioCombined      Scenario = "combined"
)

var Scenarios = []Scenario{ScenarioNormal, ScenarioOverheating, ScenarioMaintenance, ScenarioLoadVariation, ScenarioCombined}

type Config struct {
	Scenario Scenario
	Start    time.Time
	Duration time.Duration
	Interval time.Duration
	Seed     uint64
}

type Generator struct {
	src rand.Source
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Generate builds the samples for cfg. Equal configs produce equal output.
func Generate(cfg Config) ([]entity.Sample, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	g := NewGenerator(cfg.Seed)

	switch cfg.Scenario {
	case ScenarioNormal:
		return g.normalOperation(cfg.Start, cfg.Duration, cfg.Interval), nil
	case ScenarioOverheating:
		return g.overheating(cfg.Start, cfg.Duration, cfg.Interval), nil
	case ScenarioMaintenance:
		return g.maintenanceCycle(cfg.Start, cfg.Duration, cfg.Interval), nil
	case ScenarioLoadVariation:
		return g.loadVariation(cfg.Start, cfg.Duration, cfg.Interval), nil
	case ScenarioCombined:
		return g.combined(cfg.Start, cfg.Interval), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
}

func (g *Generator) noise(sigma float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: sigma, Src: g.src}.Rand()
}

// series steps from start to start+d and asks temp for the value at each elapsed offset.
func series(start time.Time, d, interval time.Duration, lo, hi float64, temp func(now time.Time, elapsed time.Duration) float64) []entity.Sample {
	var out []entity.Sample
	for now := start; now.Before(start.Add(d)); now = now.Add(interval) {
		v := clamp(temp(now, now.Sub(start)), lo, hi)
		out = append(out, entity.Sample{Timestamp: now, Value: math.Round(v*10) / 10})
	}
	return out
}

func (g *Generator) normalOperation(start time.Time, d, interval time.Duration) []entity.Sample {
	return series(start, d, interval, 35, 75, func(now time.Time, _ time.Duration) float64 {
		daily := 5 * math.Sin(float64(now.Hour()-6)*math.Pi/12)
		return 55 + daily + g.noise(2)
	})
}

func (g *Generator) overheating(start time.Time, d, interval time.Duration) []entity.Sample {
	return series(start, d, interval, 40, 100, func(_ time.Time, elapsed time.Duration) float64 {
		h := elapsed.Hours()
		return 60 + math.Min(30, h*8) + g.noise(3+h)
	})
}

func (g *Generator) maintenanceCycle(start time.Time, d, interval time.Duration) []entity.Sample {
	return series(start, d, interval, 20, 80, func(_ time.Time, elapsed time.Duration) float64 {
		h := elapsed.Hours()
		switch {
		case h < 1: // stopped
			return 25 + g.noise(2)
		case h < 2: // warm-up
			return 25 + (h-1)*30 + g.noise(5)
		default:
			settled := math.Min(1, (h-2)/2)
			return 55 + g.noise(2+(1-settled)*10)
		}
	})
}

func (g *Generator) loadVariation(start time.Time, d, interval time.Duration) []entity.Sample {
	return series(start, d, interval, 30, 90, func(_ time.Time, elapsed time.Duration) float64 {
		h := elapsed.Hours()
		load := 0.5 + 0.4*math.Sin(h*math.Pi/4)
		if h > 6 && h < 7 {
			load += 0.3
		}
		return 50 + load*25 + g.noise(2+load*3)
	})
}

func (g *Generator) combined(start time.Time, interval time.Duration) []entity.Sample {
	var out []entity.Sample
	out = append(out, g.normalOperation(start, 20*time.Hour, interval)...)
	out = append(out, g.overheating(start.Add(20*time.Hour), 4*time.Hour, interval)...)
	out = append(out, g.maintenanceCycle(start.Add(24*time.Hour), 8*time.Hour, interval)...)
	out = append(out, g.loadVariation(start.Add(32*time.Hour), 16*time.Hour, interval)...)
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// WriteCSV writes samples with a timestamp,value header.
func WriteCSV(w io.Writer, samples []entity.Sample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"timestamp", "value"}); err != nil {
		return err
	}
	for _, s := range samples {
		record := []string{s.Timestamp.Format(time.RFC3339), strconv.FormatFloat(s.Value, 'f', 1, 64)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
