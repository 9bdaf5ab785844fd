package entity

// Event is a domain notification queued for asynchronous delivery.
// CorrelationID ties it back to the request that caused it.
type Event struct {
	ID            string
	Seq           int64
	Name          EventName
	Batch         string
	Payload       any
	OccurredAt    int64
	CorrelationID string
}

type BatchAddedPayload struct {
	BatchName string `json:"batchName"`
}

type DataUploadedPayload struct {
	Batch      string          `json:"batch"`
	Statistics BatchStatistics `json:"statistics"`
	FileName   string          `json:"fileName"`
}

type BatchDeletedPayload struct {
	Batch string `json:"batch"`
}
