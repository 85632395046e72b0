package export

import (
	"fmt"
	"io"

	"supplierhub/models"

	"github.com/xuri/excelize/v2"
)

var sheetNames = map[string]string{
	TypeAll:     "Factories",
	TypeContact: "Contacts",
	TypeStats:   "Statistics",
}

// Table returns the rows of one export view.
func Table(view string, factories []models.Factory, includeContactInfo bool) ([][]string, error) {
	switch view {
	case TypeAll:
		return AllTable(factories, includeContactInfo), nil
	case TypeContact:
		return ContactTable(factories), nil
	case TypeStats:
		return StatsTable(ComputeStats(factories)), nil
	}
	return nil, fmt.Errorf("unknown export type %q", view)
}

// CSV renders one export view as CSV text.
func CSV(view string, factories []models.Factory, includeContactInfo bool) (string, error) {
	rows, err := Table(view, factories, includeContactInfo)
	if err != nil {
		return "", err
	}
	return FormatCSV(rows), nil
}

// WriteXLSX writes one export view as a single-sheet workbook with a bold
// header row.
func WriteXLSX(w io.Writer, view string, factories []models.Factory, includeContactInfo bool) error {
	rows, err := Table(view, factories, includeContactInfo)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetNames[view]
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}

	return f.Write(w)
}
