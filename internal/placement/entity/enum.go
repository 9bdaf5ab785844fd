package entity

import "strings"

type Status string

const (
	StatusPlaced    Status = "Placed"
	StatusNotPlaced Status = "Not Placed"
)

// ParseStatus accepts the display form as well as snake/kebab query forms
// ("placed", "not_placed", "not-placed").
func ParseStatus(value string) (Status, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	switch v {
	case "placed":
		return StatusPlaced, true
	case "not placed", "notplaced", "unplaced":
		return StatusNotPlaced, true
	default:
		return "", false
	}
}

type EventName string

const (
	EventBatchAdded   EventName = "batch_added"
	EventDataUploaded EventName = "data_uploaded"
	EventBatchDeleted EventName = "batch_deleted"
)

type SourceFormat string

const (
	FormatCSV     SourceFormat = "csv"
	FormatXLSX    SourceFormat = "xlsx"
	FormatPDF     SourceFormat = "pdf"
	FormatUnknown SourceFormat = "unknown"
)
