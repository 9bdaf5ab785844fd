package parser

import "strings"

type Field string

const (
	FieldName       Field = "name"
	FieldDepartment Field = "department"
	FieldCompany    Field = "company"
	FieldPackage    Field = "package"
)

// HeaderMap maps a canonical field to its column index in the active table.
type HeaderMap map[Field]int

// MapHeader assigns column labels to canonical fields. A label can match
// several fields; when two labels match the same field the later one wins.
func MapHeader(labels []string) HeaderMap {
	m := make(HeaderMap, 4)
	for idx, label := range labels {
		norm := normalizeLabel(label)
		if norm == "" {
			continue
		}
		if strings.Contains(norm, "name") && !strings.Contains(norm, "company") {
			m[FieldName] = idx
		}
		if strings.Contains(norm, "department") {
			m[FieldDepartment] = idx
		}
		if strings.Contains(norm, "company") {
			m[FieldCompany] = idx
		}
		if strings.Contains(norm, "package") || strings.Contains(norm, "ctc") {
			m[FieldPackage] = idx
		}
	}
	return m
}

// normalizeLabel keeps ASCII letters and digits and lowercases them.
func normalizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
