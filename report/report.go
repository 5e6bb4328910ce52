// Package report exports an analysis run as an xlsx workbook, one row
// per finalized issue.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ppichler/issuedoc/segment"
)

const sheetName = "Issues"

var headers = []string{
	"#", "Title", "Device", "Page Type", "Component", "Issue Type",
	"Blocks", "Images", "Links", "Tables",
}

// WriteXLSX writes one workbook with a header row and one row per
// issue. An empty issue list still produces a workbook with headers.
func WriteXLSX(path string, issues []segment.Finalized) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("report: renaming sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, iss := range issues {
		row := []any{
			i + 1,
			iss.Title,
			iss.Categories.Device,
			iss.Categories.PageType,
			iss.Categories.Component,
			iss.Categories.IssueType,
			iss.BlockCount,
			len(iss.Images),
			len(iss.Links),
			len(iss.Tables),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheetName, "B", "B", 60); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: saving workbook: %w", err)
	}
	return nil
}
