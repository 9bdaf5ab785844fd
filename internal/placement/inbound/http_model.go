package inbound

import (
	"net/http"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

type AddBatchRequest struct {
	BatchName string `json:"batch_name" validate:"required,max=64"`
}

type UploadRequest struct {
	Batch    string `json:"batch" validate:"required,max=64"`
	FileName string `json:"file" validate:"required,max=255"`
}

type BatchesResponse struct {
	Batches []string `json:"batches"`
}

type AddBatchResponse struct {
	Batch     string `json:"batch"`
	CreatedAt int64  `json:"created_at"`
}

func (AddBatchResponse) StatusCode() int {
	return http.StatusCreated
}

func (AddBatchResponse) Message() string {
	return "batch added successfully"
}

type UploadResponse struct {
	Batch      string                 `json:"batch"`
	FileName   string                 `json:"file_name"`
	Replaced   bool                   `json:"replaced"`
	Statistics entity.BatchStatistics `json:"statistics"`
	Parse      entity.ParseMeta       `json:"parse"`
}

func (UploadResponse) Message() string {
	return "file uploaded and analytics generated successfully"
}

type AnalyticsResponse struct {
	Batch      string                 `json:"batch"`
	FileName   string                 `json:"file_name"`
	UploadedAt int64                  `json:"uploaded_at"`
	Analytics  entity.BatchStatistics `json:"analytics"`
	Parse      entity.ParseMeta       `json:"parse"`
}

type RecordsResponse struct {
	Batch    string                 `json:"batch"`
	Records  []entity.StudentRecord `json:"records"`
	page     int
	pageSize int
	total    int
}

func (r RecordsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}

type DeleteResponse struct {
	Batch string `json:"batch"`
}

func (DeleteResponse) Message() string {
	return "analytics deleted successfully"
}
