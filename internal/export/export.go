package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"penguinexplorer/domain/penguin"

	"github.com/xuri/excelize/v2"
)

// Content types of the two download formats
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// MissingToken is written to CSV for a missing value, the same token the
// source file uses.
const MissingToken = "NA"

// SheetName is the worksheet the XLSX export writes to
const SheetName = "penguins"

// Row returns a record's cells in penguin.TableColumns order. Missing numbers
// are nil.
func Row(r penguin.Record) []interface{} {
	return []interface{}{
		r.Species,
		r.Island,
		deref(r.CulmenLength),
		deref(r.CulmenDepth),
		deref(r.FlipperLength),
		r.BodyMass,
		r.Sex,
	}
}

// FormatCell renders one Row cell as text
func FormatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return MissingToken
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		if t == "" {
			return MissingToken
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// WriteCSV writes the view as CSV with a header row
func WriteCSV(w io.Writer, view penguin.FilteredView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(penguin.TableColumns); err != nil {
		return err
	}
	for _, r := range view.Records {
		row := Row(r)
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatCell(v)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the view as a workbook with one sheet. Missing values are
// left as empty cells.
func WriteXLSX(w io.Writer, view penguin.FilteredView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(penguin.TableColumns))
	for i, c := range penguin.TableColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range view.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := Row(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}

func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
