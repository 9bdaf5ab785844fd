package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

func TestNormalizeRow(t *testing.T) {
	full := HeaderMap{FieldName: 0, FieldDepartment: 1, FieldCompany: 2, FieldPackage: 3}
	noDept := HeaderMap{FieldName: 0, FieldCompany: 1, FieldPackage: 2}

	tests := []struct {
		name    string
		values  []string
		header  HeaderMap
		context string
		want    entity.StudentRecord
		ok      bool
	}{
		{
			name:   "placed",
			values: []string{" John ", "CSE", " XYZ Corp ", " 6.5 "},
			header: full,
			want:   entity.StudentRecord{Name: "John", Department: "CSE", Company: "XYZ Corp", Package: "6.5", Status: entity.StatusPlaced},
			ok:     true,
		},
		{
			name:    "department falls back to context",
			values:  []string{"Jane", "", "ABC", "4"},
			header:  full,
			context: "ECE",
			want:    entity.StudentRecord{Name: "Jane", Department: "ECE", Company: "ABC", Package: "4", Status: entity.StatusPlaced},
			ok:      true,
		},
		{
			name:    "unmapped department uses context",
			values:  []string{"Ravi", "DEF", "3.2"},
			header:  noDept,
			context: "MECH",
			want:    entity.StudentRecord{Name: "Ravi", Department: "MECH", Company: "DEF", Package: "3.2", Status: entity.StatusPlaced},
			ok:      true,
		},
		{
			name:   "zero package is not placed",
			values: []string{"Anu", "GHI", "0"},
			header: noDept,
			want:   entity.StudentRecord{Name: "Anu", Company: "GHI", Package: "0", Status: entity.StatusNotPlaced},
			ok:     true,
		},
		{
			name:   "missing package is not placed",
			values: []string{"Bala", "GHI", ""},
			header: noDept,
			want:   entity.StudentRecord{Name: "Bala", Company: "GHI", Status: entity.StatusNotPlaced},
			ok:     true,
		},
		{
			name:   "missing company is not placed",
			values: []string{"Chitra", "", "5"},
			header: noDept,
			want:   entity.StudentRecord{Name: "Chitra", Package: "5", Status: entity.StatusNotPlaced},
			ok:     true,
		},
		{
			name:   "blank name dropped",
			values: []string{"  ", "ABC", "5"},
			header: noDept,
		},
		{
			name:   "fewer values than mapped fields dropped",
			values: []string{"John", "ABC"},
			header: noDept,
		},
		{
			name:    "trailing mapped column missing reads empty",
			values:  []string{"1", "John", "ABC"},
			header:  HeaderMap{FieldName: 1, FieldCompany: 2, FieldPackage: 3},
			context: "CSE",
			want:    entity.StudentRecord{Name: "John", Department: "CSE", Company: "ABC", Status: entity.StatusNotPlaced},
			ok:      true,
		},
		{
			name:   "name column past the row dropped",
			values: []string{"1", "ABC"},
			header: HeaderMap{FieldName: 5, FieldCompany: 1},
		},
		{
			name:   "no name column dropped",
			values: []string{"ABC", "5"},
			header: HeaderMap{FieldCompany: 0, FieldPackage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeRow(tt.values, tt.header, tt.context)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
