package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// LoadJSON reads an array of flat objects, e.g. [{"timestamp": "...", "value": 51.2}].
// Columns are detected from the first object's keys in sorted order.
func LoadJSON(r io.Reader) (*Result, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	t, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return &Result{}, ErrNoSamples
		}
		return nil, jsonError("json", err)
	}
	if t != json.Delim('[') {
		return nil, fmt.Errorf("expected json array, got %v", t)
	}

	res := &Result{}
	var tsKey, valKey string

	for dec.More() {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, jsonError(fmt.Sprintf("json record %d", res.Total+1), err)
		}
		res.Total++

		if tsKey == "" {
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tsCol, valCol, err := detectColumns(keys)
			if err != nil {
				return nil, err
			}
			tsKey, valKey = keys[tsCol], keys[valCol]
		}

		sample, ok := parseObject(obj, tsKey, valKey)
		if !ok {
			res.Dropped++
			continue
		}
		res.Samples = append(res.Samples, sample)
	}

	// More reports false on a stream error too, so the closing bracket must be read.
	if _, err := dec.Token(); err != nil {
		return nil, jsonError("json array end", err)
	}

	return finish(res)
}

// jsonError treats syntax, type and truncation errors as malformed content and
// anything else as a stream failure.
func jsonError(what string, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return readFailure(what, err)
}

func parseObject(obj map[string]any, tsKey, valKey string) (entity.Sample, bool) {
	var ts time.Time
	switch raw := obj[tsKey].(type) {
	case string:
		parsed, err := parseTimestamp(raw)
		if err != nil {
			return entity.Sample{}, false
		}
		ts = parsed
	case json.Number:
		secs, err := raw.Float64()
		if err != nil {
			return entity.Sample{}, false
		}
		ts = unixSeconds(secs)
	default:
		return entity.Sample{}, false
	}

	var v float64
	switch raw := obj[valKey].(type) {
	case json.Number:
		f, err := strconv.ParseFloat(raw.String(), 64)
		if err != nil {
			return entity.Sample{}, false
		}
		v = f
	case string:
		f, err := parseValue(raw)
		if err != nil {
			return entity.Sample{}, false
		}
		v = f
	default:
		return entity.Sample{}, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return entity.Sample{}, false
	}

	return entity.Sample{Timestamp: ts, Value: v}, true
}
