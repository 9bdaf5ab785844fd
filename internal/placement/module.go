package placement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgconfig"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgmetrics"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgrouter"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkguid"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgws"
	"github.com/Lakshm1-R/placement-app/internal/placement/event"
	"github.com/Lakshm1-R/placement-app/internal/placement/inbound"
	"github.com/Lakshm1-R/placement-app/internal/placement/store"
	"github.com/Lakshm1-R/placement-app/internal/placement/usecase"
)

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router
	Context context.Context
	ID      pkguid.StringID
	Seq     pkguid.NumberID
	Metrics *pkgmetrics.Metrics
	// Hub receives notifications; nil only logs them.
	Hub *pkgws.Hub
}

type batchStore interface {
	usecase.Store
	Close() error
}

func New(dep Dependency) (func(context.Context) error, error) {
	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(ctx, dep.Config)
	if err != nil {
		return nil, err
	}

	var archiver usecase.Archiver
	if dir := dep.Config.GetString("placement.upload.archive_dir"); dir != "" {
		fa, err := store.NewFileArchive(dir)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		archiver = fa
	}

	var sink event.Sink = event.LogSink{}
	if dep.Hub != nil {
		sink = event.NewHubSink(dep.Hub)
	}

	bus := event.NewBus(intOr(dep.Config.GetInt("placement.events.buffer"), 512))
	dispatcherCfg := event.DispatcherConfig{
		Workers:     intOr(dep.Config.GetInt("placement.events.workers"), 4),
		MaxRetries:  intOr(dep.Config.GetInt("placement.events.max_retries"), 3),
		BaseBackoff: durationOr(dep.Config.GetDuration("placement.events.base_backoff"), 200*time.Millisecond),
	}
	if dep.Metrics != nil {
		dispatcherCfg.Observer = dep.Metrics
		if err := dep.Metrics.ObserveQueue("event", bus.Pending); err != nil {
			slog.WarnContext(ctx, "event queue gauge not registered", "error", err)
		}
	}
	dispatcher := event.NewDispatcher(bus, sink, dispatcherCfg)
	dispatcher.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	deps := usecase.Dependency{
		Store:    st,
		Events:   bus,
		Archiver: archiver,
		ID:       dep.ID,
		Seq:      dep.Seq,
	}
	// a nil *Metrics must not become a non-nil interface
	if dep.Metrics != nil {
		deps.Metrics = dep.Metrics
	}
	uc := usecase.New(deps)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		MaxUploadBytes: dep.Config.GetInt("placement.upload.max_bytes"),
	})

	return func(ctx context.Context) error {
		return errors.Join(dispatcher.Stop(ctx), st.Close())
	}, nil
}

func openStore(ctx context.Context, cfg pkgconfig.Config) (batchStore, error) {
	switch driver := cfg.GetString("placement.storage.driver"); driver {
	case "", "memory":
		slog.InfoContext(ctx, "placement storage", "driver", "memory")
		return memoryStorage{store.NewInMemoryStore()}, nil
	case "sqlite":
		path := cfg.GetString("placement.storage.sqlite_path")
		if path == "" {
			path = "placement.db"
		}
		slog.InfoContext(ctx, "placement storage", "driver", driver, "path", path)
		return store.OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

type memoryStorage struct {
	*store.InMemoryStore
}

func (memoryStorage) Close() error { return nil }

func intOr(v int64, def int) int {
	if v <= 0 {
		return def
	}
	return int(v)
}

func durationOr(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
