// Package export renders an extraction result as a downloadable file.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"audio-insight-go/internal/types"
)

const (
	bom       = "\uFEFF"
	SheetName = "Result"

	CSVContentType  = "text/csv;charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

func filename(at time.Time, ext string) string {
	return fmt.Sprintf("extraction_result_%d.%s", at.UnixMilli(), ext)
}

// Quote wraps s in double quotes and doubles any embedded quote.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func rowValues(res types.ExtractionResult) []string {
	return []string{res.Name, res.PhoneNumber, res.Summary}
}

// Row is the quoted name, phone and summary line.
func Row(res types.ExtractionResult) string {
	vals := rowValues(res)
	for i, v := range vals {
		vals[i] = Quote(v)
	}
	return strings.Join(vals, ",")
}

// CSV builds the BOM-prefixed header template plus one data row.
func CSV(header string, res types.ExtractionResult, at time.Time) Artifact {
	body := bom + header + "\n" + Row(res)
	return Artifact{
		Filename:    filename(at, "csv"),
		ContentType: CSVContentType,
		Body:        []byte(body),
	}
}

// HeaderCells splits the template on commas for spreadsheet columns.
func HeaderCells(header string) []string {
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// XLSX renders the same two rows as a one-sheet workbook.
func XLSX(header string, res types.ExtractionResult, at time.Time) (Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return Artifact{}, errors.Wrap(err, "rename sheet")
	}
	rows := [][]string{HeaderCells(header), rowValues(res)}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return Artifact{}, errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(SheetName, axis, &cells); err != nil {
			return Artifact{}, errors.Wrapf(err, "write row %d", i+1)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return Artifact{}, errors.Wrap(err, "write workbook")
	}
	return Artifact{
		Filename:    filename(at, "xlsx"),
		ContentType: XLSXContentType,
		Body:        buf.Bytes(),
	}, nil
}
