// Package ingest turns uploaded sensor files into the clean, time-sorted sample
// sequence the analyzer expects.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/piolla/waterpump/internal/domain/entity"
)

var (
	ErrNoSamples         = errors.New("no valid samples")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumns    = errors.New("timestamp and value columns not found")
	// ErrRead marks a failure of the underlying stream rather than of its content.
	// Retrying the same input may succeed.
	ErrRead = errors.New("read failed")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Result holds the accepted samples plus bookkeeping about rejected rows.
type Result struct {
	Samples []entity.Sample
	Total   int
	Dropped int
}

var (
	timestampKeywords = []string{"time", "date", "timestamp", "시간", "날짜"}
	valueKeywords     = []string{"temp", "value", "temperature", "온도", "값"}
)

func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

func Load(r io.Reader, format Format) (*Result, error) {
	switch format {
	case FormatCSV:
		return LoadCSV(r)
	case FormatJSON:
		return LoadJSON(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// detectColumns picks the timestamp and value columns. Exact names win, then the
// first header containing a keyword, then the first two columns.
func detectColumns(headers []string) (ts, val int, err error) {
	ts, val = -1, -1
	for i, h := range headers {
		switch normalizeHeader(h) {
		case "timestamp":
			ts = i
		case "value":
			val = i
		}
	}
	if ts >= 0 && val >= 0 {
		return ts, val, nil
	}

	ts = indexOfKeyword(headers, timestampKeywords, -1)
	val = indexOfKeyword(headers, valueKeywords, ts)
	if ts >= 0 && val >= 0 {
		return ts, val, nil
	}

	if len(headers) >= 2 {
		return 0, 1, nil
	}
	return -1, -1, ErrMissingColumns
}

func indexOfKeyword(headers, keywords []string, skip int) int {
	for i, h := range headers {
		if i == skip {
			continue
		}
		name := normalizeHeader(h)
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// bare numbers are unix seconds; iso8601 would otherwise read them as compact dates
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return time.Time{}, fmt.Errorf("invalid timestamp: %s", s)
		}
		return unixSeconds(secs), nil
	}
	if ts, err := iso8601.ParseString(s); err == nil {
		return ts, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006/01/02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s)
}

func unixSeconds(secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value format: %s", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value: %s", s)
	}
	return v, nil
}

func finish(res *Result) (*Result, error) {
	if len(res.Samples) == 0 {
		return res, ErrNoSamples
	}
	sort.SliceStable(res.Samples, func(i, j int) bool {
		return res.Samples[i].Timestamp.Before(res.Samples[j].Timestamp)
	})
	return res, nil
}

func readFailure(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRead, what, err)
}
