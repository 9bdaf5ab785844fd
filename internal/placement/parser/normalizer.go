package parser

import (
	"strings"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

// NormalizeRow builds a record from a data row. It returns false, without an
// error, when the row has fewer values than mapped fields or has no name.
// A mapped column past the end of the row reads as empty.
func NormalizeRow(values []string, header HeaderMap, department string) (entity.StudentRecord, bool) {
	if len(values) < len(header) {
		return entity.StudentRecord{}, false
	}

	get := func(f Field) string {
		idx, ok := header[f]
		if !ok || idx >= len(values) {
			return ""
		}
		return strings.TrimSpace(values[idx])
	}

	name := get(FieldName)
	if name == "" {
		return entity.StudentRecord{}, false
	}

	dept := get(FieldDepartment)
	if dept == "" {
		dept = department
	}

	company := get(FieldCompany)
	pkg := get(FieldPackage)

	status := entity.StatusNotPlaced
	if company != "" && pkg != "" && pkg != "0" {
		status = entity.StatusPlaced
	}

	return entity.StudentRecord{
		Name:       name,
		Department: dept,
		Company:    company,
		Package:    pkg,
		Status:     status,
	}, true
}
