package parser

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

func TestParseLinesSingleSection(t *testing.T) {
	res := ParseLines(context.Background(), lines(
		"Department: CSE",
		"Name,Company,Package(LPA)",
		"John,XYZ Corp,6.5",
	))

	require.Len(t, res.Records, 1)
	assert.Equal(t, entity.StudentRecord{
		Name:       "John",
		Department: "CSE",
		Company:    "XYZ Corp",
		Package:    "6.5",
		Status:     entity.StatusPlaced,
	}, res.Records[0])
	assert.Equal(t, entity.ParseMeta{TotalLines: 3, DataRows: 1, ParsedOK: 1}, res.Meta)
}

func TestParseLinesEveryNamedRowBecomesRecord(t *testing.T) {
	res := ParseLines(context.Background(), lines(
		"Name,Company,Package",
		"Student 1,ABC,5",
		"Student 2,,",
		"Student 3,DEF,0",
		"Student 4,GHI,12 LPA",
	))

	require.Len(t, res.Records, 4)
	for i, rec := range res.Records {
		assert.Equal(t, "Student "+string(rune('1'+i)), rec.Name)
	}
	assert.Equal(t, entity.StatusNotPlaced, res.Records[1].Status)
	assert.Equal(t, entity.StatusNotPlaced, res.Records[2].Status)
	assert.Equal(t, entity.StatusPlaced, res.Records[3].Status)
}

func TestParseLinesMultiDepartment(t *testing.T) {
	res := ParseLines(context.Background(), lines(
		"ABC Institute of Technology",
		"Department :- Computer Science",
		"S.No,Student Name,Company Name,CTC",
		",,,In LPA",
		"1,Arun,Infosys Ltd,3.6",
		"2,Bhavna,,",
		"3,,TCS,4",
		"4,Charan",
		"Department - Electronics",
		"S.No,Name,Department,Company,Package",
		"1,Deepa,ECE,Wipro,3.5",
		"2,Elan,,TCS Limited,4.2",
	))

	require.Len(t, res.Records, 4)
	assert.Equal(t, "Computer Science", res.Records[0].Department)
	assert.Equal(t, "Infosys Ltd", res.Records[0].Company)
	assert.Equal(t, entity.StatusNotPlaced, res.Records[1].Status)
	assert.Equal(t, "ECE", res.Records[2].Department)
	assert.Equal(t, "Electronics", res.Records[3].Department)

	assert.Equal(t, 12, res.Meta.TotalLines)
	assert.Equal(t, 6, res.Meta.DataRows)
	assert.Equal(t, 4, res.Meta.ParsedOK)
	assert.Equal(t, 2, res.Meta.Dropped)
}

func TestParseLinesShortRowKeepsMappedFields(t *testing.T) {
	res := ParseLines(context.Background(), lines(
		"Department: CSE",
		"Sl,Name,Company,Package",
		"1,John,ABC",
		"2,Asha,XYZ,6",
	))

	require.Len(t, res.Records, 2)
	assert.Equal(t, entity.StudentRecord{
		Name:       "John",
		Department: "CSE",
		Company:    "ABC",
		Status:     entity.StatusNotPlaced,
	}, res.Records[0])
	assert.Equal(t, entity.StatusPlaced, res.Records[1].Status)
	assert.Equal(t, 0, res.Meta.Dropped)
}

func TestParseLinesStrayQuoteKeepsRow(t *testing.T) {
	res := ParseLines(context.Background(), lines(
		"Name,Company,Package",
		`Ria,"XYZ,7`,
	))

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Ria", res.Records[0].Name)
	assert.Equal(t, `"XYZ`, res.Records[0].Company)
	assert.Equal(t, "7", res.Records[0].Package)
	assert.Equal(t, 0, res.Meta.Dropped)
}

func TestParseLinesHeaderWithoutDepartment(t *testing.T) {
	res := ParseLines(context.Background(), lines(
		"Name,Company,Package",
		"John,ABC,5",
	))

	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Records[0].Department)
}

func TestParseCSVSource(t *testing.T) {
	csv := "\ufeffDepartment: CSE\r\n" +
		"\r\n" +
		"Name,Company,Package\r\n" +
		",,\r\n" +
		"John,\"ABC, Inc.\",６.５\r\n"

	res, err := Parse(context.Background(), entity.FormatCSV, strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "CSE", res.Records[0].Department)
	assert.Equal(t, "ABC, Inc.", res.Records[0].Company)
	assert.Equal(t, "6.5", res.Records[0].Package)
	assert.Equal(t, entity.FormatCSV, res.Meta.Format)
	assert.Equal(t, 3, res.Meta.TotalLines)
}

func TestReadLinesKeepsPhysicalLineNumbers(t *testing.T) {
	got, err := ReadLines(entity.FormatCSV, strings.NewReader("a\n\n  b  \n"))
	require.NoError(t, err)
	assert.Equal(t, []RawLine{{Number: 1, Text: "a"}, {Number: 3, Text: "b"}}, got)
}

func TestParseWorkbookSource(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Department: MECH"},
		{"Name", "Company", "Package"},
		{"Kiran", "L&T Ltd", 7.5},
		{"Latha"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	_, err := f.NewSheet("Civil")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Civil", "A1", &[]any{"Department: CIVIL"}))
	require.NoError(t, f.SetSheetRow("Civil", "A2", &[]any{"Name", "Company, Location", "CTC"}))
	require.NoError(t, f.SetSheetRow("Civil", "A3", &[]any{"Mani", "Acme, Chennai", 3}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Parse(context.Background(), entity.FormatXLSX, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, entity.StudentRecord{Name: "Kiran", Department: "MECH", Company: "L&T Ltd", Package: "7.5", Status: entity.StatusPlaced}, res.Records[0])
	assert.Equal(t, entity.StudentRecord{Name: "Latha", Department: "MECH", Status: entity.StatusNotPlaced}, res.Records[1])
	assert.Equal(t, "Acme, Chennai", res.Records[2].Company)
	assert.Equal(t, "CIVIL", res.Records[2].Department)
}

func TestParseSkippedFormats(t *testing.T) {
	for _, format := range []entity.SourceFormat{entity.FormatPDF, entity.FormatUnknown} {
		res, err := Parse(context.Background(), format, strings.NewReader("Name,Company\nJohn,ABC,5\n"))
		require.NoError(t, err)
		assert.Empty(t, res.Records)
		assert.Equal(t, format, res.Meta.Format)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestParseReadFailure(t *testing.T) {
	_, err := Parse(context.Background(), entity.FormatCSV, failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParseLineTooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineBytes+1)
	_, err := Parse(context.Background(), entity.FormatCSV, strings.NewReader(long))
	require.Error(t, err)
}

func TestParseInvalidWorkbook(t *testing.T) {
	_, err := Parse(context.Background(), entity.FormatXLSX, strings.NewReader("not a zip"))
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, entity.FormatCSV, DetectFormat("batch-2025.CSV"))
	assert.Equal(t, entity.FormatXLSX, DetectFormat("report.xlsx"))
	assert.Equal(t, entity.FormatPDF, DetectFormat("report.pdf"))
	assert.Equal(t, entity.FormatUnknown, DetectFormat("report.docx"))
	assert.Equal(t, entity.FormatUnknown, DetectFormat("noext"))
}
