package resource

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Resources"

var exportHeader = []string{
	"ID", "Name", "Type", "Status", "Bed Status", "Beds Available", "Beds Total",
	"Distance (mi)", "Walk-ins", "Co-occurring", "Sobriety Required", "Gender",
	"Address", "Phone", "Hours", "Tags", "Last Updated",
}

var exportColumnWidths = []float64{12, 32, 16, 16, 12, 14, 12, 14, 10, 13, 17, 10, 36, 16, 24, 36, 20}

// WriteXLSX renders resources as a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, resources []Resource) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, col, col, exportColumnWidths[i]); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, r := range resources {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, exportRow(r)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func exportRow(r Resource) *[]interface{} {
	row := []interface{}{
		r.ID,
		r.Name,
		string(r.Type),
		string(r.Status),
		"",
		optInt(r.BedsAvailable),
		optInt(r.BedsTotal),
		"",
		yesNo(r.AcceptsWalkIns),
		yesNo(r.AcceptsCoOccurring),
		yesNo(r.RequiresSobriety),
		strVal(r.GenderRestriction),
		r.Address,
		r.Phone,
		strVal(r.Hours),
		strings.Join(r.Tags, ", "),
		r.LastUpdated.UTC().Format("2006-01-02 15:04"),
	}
	if r.BedStatus != nil {
		row[4] = string(*r.BedStatus)
	}
	if r.Distance != nil {
		row[7] = *r.Distance
	}
	return &row
}

func optInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
