package entity

// StudentRecord is one normalized row of an uploaded placement sheet.
// Package keeps the raw cell text; numeric coercion happens at aggregation.
type StudentRecord struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Company    string `json:"company"`
	Package    string `json:"package"`
	Status     Status `json:"status"`
}
