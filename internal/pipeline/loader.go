package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
)

// Loader reads a tabular source into raw records using an explicit column
// mapping. It is a pure read: no coercion, no mutation of the source.
type Loader struct {
	schema config.Schema
}

// NewLoader creates a loader for the given schema.
func NewLoader(schema config.Schema) *Loader {
	return &Loader{schema: schema}
}

// Load reads the source file, validates the header against the schema and
// returns raw records in source row order.
func (l *Loader) Load(path string) ([]models.RawRecord, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, NewError(KindSourceUnavailable, "unsupported source format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, NewError(KindSchemaError, "source %s has no header row", path)
	}

	cols, err := l.resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, models.RawRecord{
			Row:            i + 2, // header is row 1
			OutletID:       cols.get(row, l.schema.Columns.OutletID),
			Area:           cols.get(row, l.schema.Columns.Area),
			Zone:           cols.get(row, l.schema.Columns.Zone),
			Category:       cols.get(row, l.schema.Columns.Category),
			Gallons:        cols.get(row, l.schema.Columns.Gallons),
			Traps:          cols.get(row, l.schema.Columns.Traps),
			TrapEfficiency: cols.get(row, l.schema.Columns.TrapEfficiency),
			MissedCount:    cols.get(row, l.schema.Columns.MissedCount),
			CollectedAt:    cols.get(row, l.schema.Columns.CollectedAt),
			DischargedAt:   cols.get(row, l.schema.Columns.DischargedAt),
		})
	}

	log.WithFields(log.Fields{"source": path, "records": len(records)}).Info("Loaded source data")
	return records, nil
}

// columnIndex maps header names to positions in a row.
type columnIndex map[string]int

// get returns the cell for a mapped header, or "" when the header is not
// mapped or the row is short.
func (c columnIndex) get(row []string, header string) string {
	if header == "" {
		return ""
	}
	idx, ok := c[header]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// resolveColumns validates that every required mapped column exists in the
// header. Optional columns may be absent; required ones fail fast.
func (l *Loader) resolveColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	required := []string{
		l.schema.Columns.OutletID,
		l.schema.Columns.Gallons,
		l.schema.Columns.Traps,
		l.schema.Columns.Area,
		l.schema.Columns.Category,
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, NewError(KindSchemaError, "source is missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, WrapError(KindSourceUnavailable, err, "failed to open %s", path)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, WrapError(KindSourceUnavailable, err, "failed to read sheet %q", sheet)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(KindSourceUnavailable, err, "failed to open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may be ragged; the column index handles short rows

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, WrapError(KindSourceUnavailable, err, "failed to read %s", path)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
