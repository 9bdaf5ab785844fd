package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

const maxLineBytes = 1 << 20

// DetectFormat maps a file name to the format used to read it.
func DetectFormat(fileName string) entity.SourceFormat {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return entity.FormatCSV
	case ".xlsx":
		return entity.FormatXLSX
	case ".pdf":
		return entity.FormatPDF
	default:
		return entity.FormatUnknown
	}
}

// ReadLines reads the upload as trimmed, non-blank text lines.
//
// PDF and unknown formats yield no lines and no error. Any read failure is
// returned as is; callers treat it as a failure of the whole upload.
func ReadLines(format entity.SourceFormat, r io.Reader) ([]RawLine, error) {
	switch format {
	case entity.FormatCSV:
		return readTextLines(r)
	case entity.FormatXLSX:
		return readWorkbookLines(r)
	default:
		return nil, nil
	}
}

func readTextLines(r io.Reader) ([]RawLine, error) {
	// BOMOverride drops a UTF-8 BOM and transcodes UTF-16 exports to UTF-8.
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []RawLine
	number := 0
	for sc.Scan() {
		number++
		if line, ok := cleanLine(sc.Text()); ok {
			lines = append(lines, RawLine{Number: number, Text: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", number+1, err)
	}

	return lines, nil
}

// cleanLine folds compatibility characters (full-width digits and commas,
// non-breaking spaces) and trims the line. Lines made only of separators,
// as spreadsheets export for empty rows, count as blank.
func cleanLine(s string) (string, bool) {
	s = strings.TrimSpace(norm.NFKC.String(s))
	if strings.Trim(s, ", \t") == "" {
		return "", false
	}
	return s, true
}

// readWorkbookLines renders every sheet, in workbook order, as comma separated
// lines. Rows are padded to the sheet width because excelize drops trailing
// empty cells, which would otherwise make unplaced students look short.
func readWorkbookLines(r io.Reader) ([]RawLine, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var lines []RawLine
	number := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		width := 0
		for _, row := range rows {
			width = max(width, len(row))
		}

		for _, row := range rows {
			number++
			if line, ok := cleanLine(joinCells(row, width)); ok {
				lines = append(lines, RawLine{Number: number, Text: line})
			}
		}
	}

	return lines, nil
}

func joinCells(cells []string, width int) string {
	var buf bytes.Buffer
	for i := 0; i < width; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if i >= len(cells) {
			continue
		}
		cell := strings.ReplaceAll(cells[i], "\n", " ")
		if strings.ContainsAny(cell, ",\"") {
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			buf.WriteByte('"')
			continue
		}
		buf.WriteString(cell)
	}
	return buf.String()
}
