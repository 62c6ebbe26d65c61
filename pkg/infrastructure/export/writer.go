package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/shiptrack/pkg/application/dto"
)

// Format names a workbook serialization
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name; blank means xlsx
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected xlsx or csv)", s)
	}
}

// Writer serializes a workbook to a byte stream
type Writer interface {
	// Extension is the file extension of the produced artifact, without the dot
	Extension() string
	// ContentType is the MIME type of the produced artifact
	ContentType() string
	Write(ctx context.Context, wb *dto.Workbook, w io.Writer) error
}

// NewWriter returns the writer for a format
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatXLSX:
		return &XLSXWriter{}, nil
	case FormatCSV:
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// XLSXWriter renders one worksheet per sheet with a bold header row and sized columns
type XLSXWriter struct{}

func (x *XLSXWriter) Extension() string { return "xlsx" }

func (x *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (x *XLSXWriter) Write(ctx context.Context, wb *dto.Workbook, w io.Writer) error {
	if len(wb.Sheets) == 0 {
		return errors.New("workbook has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	for i, sheet := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return errors.Wrapf(err, "name sheet %s", sheet.Name)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return errors.Wrapf(err, "add sheet %s", sheet.Name)
		}

		if err := writeXLSXSheet(f, sheet, header); err != nil {
			return errors.Wrapf(err, "write sheet %s", sheet.Name)
		}
	}

	f.SetActiveSheet(0)
	return errors.Wrap(f.Write(w), "write workbook")
}

func writeXLSXSheet(f *excelize.File, sheet dto.Sheet, headerStyle int) error {
	columns := sheet.Columns
	if err := f.SetSheetRow(sheet.Name, "A1", &columns); err != nil {
		return err
	}
	if len(columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return err
		}
	}

	for c, width := range sheet.Widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// CSVWriter packs one CSV file per sheet into a zip archive
type CSVWriter struct{}

func (c *CSVWriter) Extension() string { return "zip" }

func (c *CSVWriter) ContentType() string { return "application/zip" }

func (c *CSVWriter) Write(ctx context.Context, wb *dto.Workbook, w io.Writer) error {
	archive := zip.NewWriter(w)

	for _, sheet := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			archive.Close()
			return err
		}

		entry, err := archive.Create(sheet.Name + ".csv")
		if err != nil {
			archive.Close()
			return errors.Wrapf(err, "add %s.csv", sheet.Name)
		}

		cw := csv.NewWriter(entry)
		if err := cw.Write(sheet.Columns); err != nil {
			archive.Close()
			return errors.Wrapf(err, "write %s header", sheet.Name)
		}
		if err := cw.WriteAll(sheet.Rows); err != nil {
			archive.Close()
			return errors.Wrapf(err, "write %s rows", sheet.Name)
		}
	}

	return errors.Wrap(archive.Close(), "close archive")
}
