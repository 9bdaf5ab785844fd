package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgerror"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgrouter"
	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
	"github.com/Lakshm1-R/placement-app/internal/placement/usecase"
)

const multipartMemory = 8 << 20

type HTTPEndpoint struct {
	uc       uc
	validate *validator.Validate
	maxBytes int64
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *HTTPEndpoint) ListBatches(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.ListBatches(ctx)
	if err != nil {
		return nil, err
	}

	return BatchesResponse{Batches: result.Batches}, nil
}

func (h *HTTPEndpoint) AddBatch(ctx context.Context, r *http.Request) (any, error) {
	var req AddBatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(&req); err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}
	req.BatchName = strings.TrimSpace(req.BatchName)

	if err := h.validateStruct(req); err != nil {
		return nil, err
	}

	result, err := h.uc.AddBatch(ctx, req.BatchName)
	if err != nil {
		return nil, err
	}

	return AddBatchResponse{Batch: result.Batch, CreatedAt: result.CreatedAt}, nil
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerror.NewTooLarge(h.maxBytes)
		}
		return nil, pkgerror.NewInvalidFormat()
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	req := UploadRequest{Batch: strings.TrimSpace(r.FormValue("batch"))}

	file, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return nil, pkgerror.NewInvalidFormat()
	}
	if file != nil {
		defer file.Close()
		req.FileName = header.Filename
	}

	if err := h.validateStruct(req); err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, usecase.UploadInput{
		Batch:    req.Batch,
		FileName: req.FileName,
		Reader:   file,
	})
	if err != nil {
		return nil, err
	}

	return UploadResponse{
		Batch:      result.Batch,
		FileName:   result.FileName,
		Replaced:   result.Replaced,
		Statistics: result.Statistics,
		Parse:      result.Meta,
	}, nil
}

func (h *HTTPEndpoint) Analytics(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Analytics(ctx, pkgrouter.GetParam(ctx, "batch"))
	if err != nil {
		return nil, err
	}

	return AnalyticsResponse{
		Batch:      result.Batch,
		FileName:   result.FileName,
		UploadedAt: result.UploadedAt,
		Analytics:  result.Statistics,
		Parse:      result.Meta,
	}, nil
}

func (h *HTTPEndpoint) Records(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	filter, err := parseRecordFilter(query.Get("status"), query.Get("department"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Records(ctx, pkgrouter.GetParam(ctx, "batch"), filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return RecordsResponse{
		Batch:    result.Batch,
		Records:  result.Records,
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

func (h *HTTPEndpoint) DeleteBatch(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.DeleteBatch(ctx, pkgrouter.GetParam(ctx, "batch"))
	if err != nil {
		return nil, err
	}

	return DeleteResponse{Batch: result.Batch}, nil
}

func (h *HTTPEndpoint) validateStruct(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerror.NewInvalidInput(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = formatFieldError(fe)
	}
	return pkgerror.NewInvalidFields(fields)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 20

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		pageSize = min(value, 100)
	}

	return page, pageSize, nil
}

func parseRecordFilter(statusRaw, department string) (usecase.RecordFilter, error) {
	filter := usecase.RecordFilter{Department: strings.TrimSpace(department)}

	if statusRaw != "" {
		for _, value := range strings.Split(statusRaw, ",") {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			status, ok := entity.ParseStatus(value)
			if !ok {
				return filter, pkgerror.NewInvalidInput(errors.New("invalid status filter"))
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	return filter, nil
}
