package report

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
)

// SheetName is the worksheet holding the report.
const SheetName = "Pricing"

// XLSXWriter writes the report as an Excel workbook.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSX report writer.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

func (w *XLSXWriter) Path() string {
	return w.path
}

// Write replaces the workbook at Path with the report.
func (w *XLSXWriter) Write(ctx context.Context, rows []domain.PricedRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return w.fail(err)
	}

	head := header(rows)
	headRow := make([]any, len(head))
	for i, h := range head {
		headRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headRow); err != nil {
		return w.fail(err)
	}

	for i, row := range rows {
		cs := cells(row)
		values := make([]any, len(cs))
		for j, c := range cs {
			switch {
			case c.number != nil:
				values[j] = c.number.InexactFloat64()
			case c.integer != nil:
				values[j] = *c.integer
			case c.text != "":
				values[j] = c.text
			default:
				values[j] = nil
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return w.fail(err)
		}
		if err := f.SetSheetRow(SheetName, axis, &values); err != nil {
			return w.fail(err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return w.fail(err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *XLSXWriter) fail(err error) error {
	return apperror.New(apperror.CodeReportWriteFailed, apperror.WithContext(w.path), apperror.WithCause(err))
}
