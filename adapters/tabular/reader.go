package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"wasmbench/domain/core"
	"wasmbench/domain/dataset"
	"wasmbench/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader loads CSV and Excel benchmark tables against a declared schema
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a data reader
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

func fileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv", ".txt", "":
		return "csv"
	}
	return ""
}

// Load reads path, checks it against schema and computes the derived columns.
// Every cell is taken literally: there is no missing-value placeholder.
func (r *DataReader) Load(ctx context.Context, path string, schema dataset.Schema) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := internal.LoggerFrom(ctx, r.logger)
	kind := fileType(path)
	logger.Debug("[DataReader] Starting to read %s file: %s", kind, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrInputNotFound, path)
	}

	var rows [][]string
	var err error
	start := time.Now()
	switch kind {
	case "csv":
		rows, err = readCSV(path)
	case "xlsx":
		rows, err = readExcel(path)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedType, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("[DataReader] %s read in %.2fms (%d data rows)", path, float64(time.Since(start).Nanoseconds())/1e6, max(len(rows)-1, 0))

	table, err := buildTable(rows, schema)
	if err != nil {
		return nil, err
	}
	if err := table.Derive(schema); err != nil {
		return nil, err
	}

	logger.Info("[DataReader] Loaded %s (%d columns, %d rows)", path, len(table.Columns()), table.Rows())
	return table, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// readExcel reads the first sheet of a workbook
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyDataset)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// utf8BOM prefixes CSV files written by some Windows tools
const utf8BOM = "\ufeff"

// buildTable converts raw rows (header first) into a typed table
func buildTable(rows [][]string, schema dataset.Schema) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", core.ErrEmptyDataset)
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		index[strings.TrimSpace(header)] = i
	}

	data := rows[1:]
	table := dataset.NewTable(len(data))

	for _, spec := range schema.Input() {
		col, ok := index[spec.Name]
		if !ok {
			return nil, core.NewMissingColumnError(spec.Name)
		}

		switch spec.Kind {
		case dataset.KindNumeric:
			values := make([]float64, len(data))
			for i, row := range data {
				cell := cellAt(row, col)
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, core.NewNotNumericError(spec.Name, cell, i+2)
				}
				values[i] = v
			}
			if err := table.SetNumeric(spec.Name, values); err != nil {
				return nil, err
			}

		case dataset.KindCategorical:
			values := make([]string, len(data))
			for i, row := range data {
				cell := cellAt(row, col)
				if !spec.KnowsLevel(cell) {
					return nil, core.NewUnknownLevelError(spec.Name, cell, i+2)
				}
				values[i] = cell
			}
			if err := table.SetCategorical(spec.Name, values); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

// cellAt returns the trimmed cell, or "" for cells past the end of a short row
func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
