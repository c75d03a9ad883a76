package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// LoadCSV reads a headered CSV stream. Rows with a bad timestamp or value are dropped.
func LoadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{}, ErrNoSamples
		}
		if isParseError(err) {
			return nil, fmt.Errorf("failed to parse csv header: %w", err)
		}
		return nil, readFailure("csv header", err)
	}

	tsCol, valCol, err := detectColumns(headers)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !isParseError(err) {
			return nil, readFailure(fmt.Sprintf("csv record %d", res.Total+1), err)
		}
		res.Total++
		if err != nil {
			res.Dropped++
			continue
		}

		sample, ok := parseRecord(record, tsCol, valCol)
		if !ok {
			res.Dropped++
			continue
		}
		res.Samples = append(res.Samples, sample)
	}

	return finish(res)
}

func parseRecord(record []string, tsCol, valCol int) (entity.Sample, bool) {
	if tsCol >= len(record) || valCol >= len(record) {
		return entity.Sample{}, false
	}
	ts, err := parseTimestamp(record[tsCol])
	if err != nil {
		return entity.Sample{}, false
	}
	v, err := parseValue(record[valCol])
	if err != nil {
		return entity.Sample{}, false
	}
	return entity.Sample{Timestamp: ts, Value: v}, true
}

// isParseError separates malformed rows, which are dropped, from stream failures.
func isParseError(err error) bool {
	var parseErr *csv.ParseError
	return errors.As(err, &parseErr)
}
