package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"penguinexplorer/internal"
	"penguinexplorer/internal/errors"

	"github.com/xuri/excelize/v2"
)

// RawRow maps a header name to the trimmed cell text
type RawRow map[string]string

// RawTable is a tabular file before typing
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// HasColumn reports whether the header row contains name
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// DataReader handles reading CSV and Excel files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader, choosing the format from the extension.
// Anything that is not .xlsx is read as CSV.
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	fileType := "csv"
	if strings.ToLower(filepath.Ext(filePath)) == ".xlsx" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadData reads the whole file into a RawTable. Every failure is a
// DATA_UNAVAILABLE error.
func (r *DataReader) ReadData() (*RawTable, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.DataUnavailable(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	switch r.fileType {
	case "xlsx":
		return r.readExcelData()
	default:
		return r.readCSVData()
	}
}

// readExcelData reads the first sheet of a workbook
func (r *DataReader) readExcelData() (*RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.DataUnavailable("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := "Sheet1"
	if sheets := f.GetSheetList(); len(sheets) > 0 {
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.DataUnavailable(fmt.Sprintf("failed to read sheet %s", sheet), err)
	}
	r.logger.Debug("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads a delimited file
func (r *DataReader) readCSVData() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.DataUnavailable("failed to open CSV file", err)
	}
	defer file.Close()

	return r.readCSV(file)
}

func (r *DataReader) readCSV(src io.Reader) (*RawTable, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DataUnavailable("failed to read CSV file", err)
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into a RawTable. Short rows leave the
// trailing columns empty, which later reads as missing.
func (r *DataReader) processRows(rows [][]string) (*RawTable, error) {
	if len(rows) < 2 {
		return nil, errors.DataUnavailable(fmt.Sprintf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType)), nil)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]RawRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			r.logger.Trace("[DataReader] Skipping blank row %d", i+1)
			continue
		}
		rowData := make(RawRow, len(headers))
		for j, header := range headers {
			if j < len(row) {
				rowData[header] = strings.TrimSpace(row[j])
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	if len(dataRows) == 0 {
		return nil, errors.DataUnavailable(fmt.Sprintf("%s file has no data rows", strings.ToUpper(r.fileType)), nil)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &RawTable{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
