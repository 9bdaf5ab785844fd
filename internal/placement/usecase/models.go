package usecase

import (
	"io"
	"slices"
	"strings"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

type UploadInput struct {
	Batch    string
	FileName string
	Reader   io.Reader
}

type BatchesResult struct {
	Batches []string
}

type AddBatchResult struct {
	Batch     string
	CreatedAt int64
}

type UploadResult struct {
	Batch      string
	FileName   string
	Replaced   bool
	Statistics entity.BatchStatistics
	Meta       entity.ParseMeta
}

type AnalyticsResult struct {
	Batch      string
	FileName   string
	UploadedAt int64
	Statistics entity.BatchStatistics
	Meta       entity.ParseMeta
}

type RecordsResult struct {
	Batch    string
	Records  []entity.StudentRecord
	Page     int
	PageSize int
	Total    int
}

type DeleteResult struct {
	Batch string
}

// RecordFilter narrows ListRecords. Zero values match everything.
type RecordFilter struct {
	Statuses   []entity.Status
	Department string
}

func (f RecordFilter) Matches(rec entity.StudentRecord) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, rec.Status) {
		return false
	}

	if dept := strings.TrimSpace(f.Department); dept != "" {
		if !strings.EqualFold(strings.TrimSpace(rec.Department), dept) {
			return false
		}
	}

	return true
}
