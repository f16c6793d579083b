package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// SheetName is the worksheet holding exported issues.
const SheetName = "Issues"

// XLSX writes a single-sheet workbook.
type XLSX struct{}

var _ driven.IssueExporter = (*XLSX)(nil)

// NewXLSX creates an XLSX exporter.
func NewXLSX() *XLSX {
	return &XLSX{}
}

// Format returns "xlsx".
func (*XLSX) Format() string { return "xlsx" }

// Export writes issues to w.
func (*XLSX) Export(w io.Writer, issues []domain.Issue) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := setRow(f, 1, columns); err != nil {
		return err
	}
	for n, i := range issues {
		if err := setRow(f, n+2, row(i)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNo int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNo, err)
	}
	return nil
}
