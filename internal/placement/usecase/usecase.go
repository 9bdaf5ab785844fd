package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgerror"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkglog"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkguid"
	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
	"github.com/Lakshm1-R/placement-app/internal/placement/parser"
	"github.com/Lakshm1-R/placement-app/internal/placement/stats"
)

// Store persists batches. FindBatch and DeleteBatch return the batch without
// its records; records are read through ListRecords.
type Store interface {
	FindBatch(ctx context.Context, name string) (entity.Batch, error)
	InsertBatch(ctx context.Context, batch entity.Batch) error
	ReplaceBatch(ctx context.Context, batch entity.Batch) error
	ListBatchNames(ctx context.Context) ([]string, error)
	ListRecords(ctx context.Context, name string, filter RecordFilter, page, pageSize int) ([]entity.StudentRecord, int, error)
	DeleteBatch(ctx context.Context, name string) (entity.Batch, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

// Archiver keeps a copy of every uploaded file.
type Archiver interface {
	Create(ctx context.Context, name string) (io.WriteCloser, string, error)
	Remove(ctx context.Context, path string) error
}

type Metrics interface {
	RecordUpload(format, outcome string, parsed, dropped int)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store    Store
	Events   EventPublisher
	Archiver Archiver
	Metrics  Metrics
	Clock    Clock
	ID       pkguid.StringID
	Seq      pkguid.NumberID
}

type Usecase struct {
	store    Store
	events   EventPublisher
	archiver Archiver
	metrics  Metrics
	clock    Clock
	id       pkguid.StringID
	seq      pkguid.NumberID
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	id := dep.ID
	if id == nil {
		id = pkguid.NewUUID()
	}

	return &Usecase{
		store:    dep.Store,
		events:   dep.Events,
		archiver: dep.Archiver,
		metrics:  dep.Metrics,
		clock:    clock,
		id:       id,
		seq:      dep.Seq,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) ListBatches(ctx context.Context) (BatchesResult, error) {
	names, err := u.store.ListBatchNames(ctx)
	if err != nil {
		return BatchesResult{}, normalizeErr(err)
	}
	if names == nil {
		names = []string{}
	}

	return BatchesResult{Batches: names}, nil
}

func (u *Usecase) AddBatch(ctx context.Context, name string) (AddBatchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AddBatchResult{}, pkgerror.NewInvalidInput(errors.New("batch name is required"))
	}

	now := u.clock.Now().Unix()
	err := u.store.InsertBatch(ctx, entity.Batch{
		Name:       name,
		CreatedAt:  now,
		Statistics: entity.EmptyStatistics(),
	})
	if err != nil {
		return AddBatchResult{}, mapStoreErr(err)
	}

	u.publish(ctx, entity.EventBatchAdded, name, entity.BatchAddedPayload{BatchName: name})

	return AddBatchResult{Batch: name, CreatedAt: now}, nil
}

// Upload parses a placement sheet, recomputes the batch statistics and stores
// them, creating the batch when it does not exist yet. Any read failure fails
// the whole upload and nothing is stored.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	batch := strings.TrimSpace(in.Batch)
	if batch == "" {
		return UploadResult{}, pkgerror.NewInvalidInput(errors.New("batch is required"))
	}
	if in.Reader == nil {
		return UploadResult{}, pkgerror.NewInvalidInput(errors.New("file is required"))
	}

	fileName := filepath.Base(strings.TrimSpace(in.FileName))
	format := parser.DetectFormat(fileName)
	now := u.clock.Now()

	src := in.Reader
	var (
		archive     io.WriteCloser
		archivePath string
	)
	if u.archiver != nil {
		name := u.archiveName(batch, now, fileName)
		w, path, err := u.archiver.Create(ctx, name)
		if err != nil {
			u.recordUpload(format, "failed", entity.ParseMeta{})
			return UploadResult{}, normalizeErr(err)
		}
		archive, archivePath = w, path
		src = io.TeeReader(in.Reader, w)
	}

	res, err := parser.Parse(ctx, format, src)
	if err == nil && archive != nil {
		// drain whatever the parser did not need so the archive is complete
		_, err = io.Copy(io.Discard, src)
	}
	if archive != nil {
		if cerr := archive.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		u.discardArchive(ctx, archivePath)
		u.recordUpload(format, "failed", res.Meta)
		slog.ErrorContext(ctx, "upload failed", "batch", batch, "file", fileName, "error", err)
		return UploadResult{}, normalizeErr(err)
	}

	statistics := stats.Compute(res.Records)
	next := entity.Batch{
		Name:       batch,
		FileName:   fileName,
		FilePath:   archivePath,
		CreatedAt:  now.Unix(),
		UploadedAt: now.Unix(),
		Records:    res.Records,
		Statistics: statistics,
		Meta:       res.Meta,
	}

	replaced, err := u.save(ctx, next)
	if err != nil {
		u.discardArchive(ctx, archivePath)
		u.recordUpload(format, "failed", res.Meta)
		return UploadResult{}, normalizeErr(err)
	}

	u.recordUpload(format, "ok", res.Meta)
	slog.InfoContext(ctx, "upload processed",
		"batch", batch,
		"file", fileName,
		"format", string(format),
		"records", len(res.Records),
		"dropped", res.Meta.Dropped,
		"replaced", replaced,
	)

	u.publish(ctx, entity.EventDataUploaded, batch, entity.DataUploadedPayload{
		Batch:      batch,
		Statistics: statistics,
		FileName:   fileName,
	})

	return UploadResult{
		Batch:      batch,
		FileName:   fileName,
		Replaced:   replaced,
		Statistics: statistics,
		Meta:       res.Meta,
	}, nil
}

// save overwrites an existing batch or inserts a new one. Find and write are
// separate store calls, so concurrent uploads to one batch resolve as last
// writer wins.
func (u *Usecase) save(ctx context.Context, batch entity.Batch) (bool, error) {
	existing, err := u.store.FindBatch(ctx, batch.Name)
	switch {
	case err == nil:
		batch.CreatedAt = existing.CreatedAt
		return true, u.store.ReplaceBatch(ctx, batch)
	case !errors.Is(err, pkgerror.ErrNotFound):
		return false, err
	}

	err = u.store.InsertBatch(ctx, batch)
	if errors.Is(err, pkgerror.ErrConflict) {
		return true, u.store.ReplaceBatch(ctx, batch)
	}
	return false, err
}

func (u *Usecase) Analytics(ctx context.Context, name string) (AnalyticsResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnalyticsResult{}, pkgerror.NewInvalidInput(errors.New("batch is required"))
	}

	batch, err := u.store.FindBatch(ctx, name)
	if err != nil {
		return AnalyticsResult{}, mapStoreErr(err)
	}

	return AnalyticsResult{
		Batch:      batch.Name,
		FileName:   batch.FileName,
		UploadedAt: batch.UploadedAt,
		Statistics: batch.Statistics,
		Meta:       batch.Meta,
	}, nil
}

func (u *Usecase) Records(ctx context.Context, name string, filter RecordFilter, page, pageSize int) (RecordsResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RecordsResult{}, pkgerror.NewInvalidInput(errors.New("batch is required"))
	}

	if page < 1 || pageSize < 1 {
		return RecordsResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	records, total, err := u.store.ListRecords(ctx, name, filter, page, pageSize)
	if err != nil {
		return RecordsResult{}, mapStoreErr(err)
	}
	if records == nil {
		records = []entity.StudentRecord{}
	}

	return RecordsResult{
		Batch:    name,
		Records:  records,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (u *Usecase) DeleteBatch(ctx context.Context, name string) (DeleteResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DeleteResult{}, pkgerror.NewInvalidInput(errors.New("batch is required"))
	}

	batch, err := u.store.DeleteBatch(ctx, name)
	if err != nil {
		return DeleteResult{}, mapStoreErr(err)
	}

	u.discardArchive(ctx, batch.FilePath)
	u.publish(ctx, entity.EventBatchDeleted, name, entity.BatchDeletedPayload{Batch: name})

	return DeleteResult{Batch: name}, nil
}

func (u *Usecase) publish(ctx context.Context, name entity.EventName, batch string, payload any) {
	if u.events == nil {
		return
	}

	event := entity.Event{
		ID:         u.id.Generate(),
		Name:       name,
		Batch:      batch,
		Payload:    payload,
		OccurredAt: u.clock.Now().UnixMilli(),
	}
	if u.seq != nil {
		event.Seq = u.seq.Generate()
	}
	if pkglog.HasCorrelationID(ctx) {
		event.CorrelationID = pkglog.GetCorrelationID(ctx)
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "event", string(name), "event_id", event.ID, "batch", batch, "error", err)
	}
}

func (u *Usecase) discardArchive(ctx context.Context, path string) {
	if u.archiver == nil || path == "" {
		return
	}
	if err := u.archiver.Remove(ctx, path); err != nil {
		slog.WarnContext(ctx, "failed to remove archived upload", "path", path, "error", err)
	}
}

func (u *Usecase) recordUpload(format entity.SourceFormat, outcome string, meta entity.ParseMeta) {
	if u.metrics == nil {
		return
	}
	u.metrics.RecordUpload(string(format), outcome, meta.ParsedOK, meta.Dropped)
}

// archiveName is unique per upload so same-millisecond uploads of one batch
// never collide on the exclusive create.
func (u *Usecase) archiveName(batch string, now time.Time, fileName string) string {
	tag := safeFileName(u.id.Generate())
	if len(tag) > archiveTagLen {
		tag = tag[len(tag)-archiveTagLen:]
	}
	return fmt.Sprintf("%s-%d-%s%s", safeFileName(batch), now.UnixMilli(), tag, strings.ToLower(filepath.Ext(fileName)))
}

const archiveTagLen = 12

// safeFileName keeps batch names usable as a file name prefix.
func safeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, pkgerror.ErrNotFound):
		return pkgerror.NewNotFound("batch not found")
	case errors.Is(err, pkgerror.ErrConflict):
		return pkgerror.NewBusiness("batch already exists", pkgerror.CodeConflict)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
