package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"citrusflow/internal/schema"
	"citrusflow/logger"
)

// ErrNoInput marks a missing input file. It is a user-visible condition,
// not a defect: the pipeline reports it and does not start.
var ErrNoInput = errors.New("input file not found")

// ReadFile loads the order CSV at path into a raw table. The first row
// is the header; rows with a deviating field count are accepted and
// padded or truncated against the header.
func ReadFile(path string) (*schema.Table, error) {
	log := logger.GetLogger().WithComponent("ingest")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoInput, path)
		}
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	log.WithFields(logger.Fields{
		"path":    path,
		"rows":    table.Len(),
		"columns": len(table.Headers()),
	}).Info("input loaded")

	return table, nil
}

// Read parses CSV data from r into a raw table.
func Read(r io.Reader) (*schema.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// The export occasionally carries ragged rows; tolerate them.
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", len(rows)+2, err)
		}
		if len(record) > len(headers) {
			record = record[:len(headers)]
		}
		rows = append(rows, record)
	}

	return schema.NewTable(headers, rows), nil
}
