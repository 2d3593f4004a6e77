package report

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
)

// CSVWriter writes the report as CSV.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a CSV report writer.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string {
	return w.path
}

// Write replaces the file at Path with the report.
func (w *CSVWriter) Write(ctx context.Context, rows []domain.PricedRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return apperror.New(apperror.CodeReportWriteFailed, apperror.WithContext(w.path), apperror.WithCause(err))
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header(rows)); err != nil {
		return apperror.New(apperror.CodeReportWriteFailed, apperror.WithContext(w.path), apperror.WithCause(err))
	}
	for _, row := range rows {
		cs := cells(row)
		record := make([]string, len(cs))
		for i, c := range cs {
			record[i] = c.String()
		}
		if err := cw.Write(record); err != nil {
			return apperror.New(apperror.CodeReportWriteFailed, apperror.WithContext(w.path), apperror.WithCause(err))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperror.New(apperror.CodeReportWriteFailed, apperror.WithContext(w.path), apperror.WithCause(err))
	}
	return f.Close()
}
