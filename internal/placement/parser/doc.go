// Package parser turns loosely structured placement sheets into student records.
//
// Sheets exported by departments rarely share a schema: one file may hold
// several "Department: X" sections, each with its own header row, unit
// annotation rows ("In LPA") and trailing notes. Parsing is therefore
// line oriented and permissive:
//
//	lines ──Classifier──▶ events ──MapHeader / NormalizeRow──▶ records
//
// The Classifier is an explicit two-state machine (outside a table, inside a
// table) that tags every line as a department marker, a header row, a data
// row or noise. Header rows are mapped onto the canonical fields by substring
// matching on normalized labels, and data rows are normalized against the
// active header and department context. Rows that cannot be normalized are
// dropped and counted, never reported as errors.
package parser
