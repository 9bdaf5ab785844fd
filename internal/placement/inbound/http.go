package inbound

import (
	"context"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgrouter"
	"github.com/Lakshm1-R/placement-app/internal/placement/usecase"
)

const (
	defaultMaxUploadBytes = 10 << 20
	prefix                = "/placement-analytics"
)

type uc interface {
	ListBatches(ctx context.Context) (usecase.BatchesResult, error)
	AddBatch(ctx context.Context, name string) (usecase.AddBatchResult, error)
	Upload(ctx context.Context, in usecase.UploadInput) (usecase.UploadResult, error)
	Analytics(ctx context.Context, name string) (usecase.AnalyticsResult, error)
	Records(ctx context.Context, name string, filter usecase.RecordFilter, page, pageSize int) (usecase.RecordsResult, error)
	DeleteBatch(ctx context.Context, name string) (usecase.DeleteResult, error)
}

type Options struct {
	// MaxUploadBytes caps the upload request body. Zero means 10 MiB.
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, opts Options) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}

	end := &HTTPEndpoint{
		uc:       uc,
		validate: newValidator(),
		maxBytes: opts.MaxUploadBytes,
	}

	r.GET(prefix+"/batches", end.ListBatches)
	r.POST(prefix+"/batches", end.AddBatch)
	r.POST(prefix+"/upload", end.Upload) // multipart: batch, file

	r.GET(prefix+"/batches/:batch", end.Analytics)
	r.GET(prefix+"/batches/:batch/records", end.Records) // ?page=&page_size=&status=&department=
	r.DELETE(prefix+"/batches/:batch", end.DeleteBatch)
}
