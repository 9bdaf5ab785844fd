package app

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgconfig"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkglog"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgmetrics"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgrouter"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgroutine"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkguid"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgws"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"

		if err := pkgconfig.LoadDotEnv(".env"); err != nil {
			slog.Error("failed to load .env", "error", err)
			os.Exit(1)
		}
	}

	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	pkglog.InitLogging(pkglog.Options{
		Service: cfg.GetString("app.name"),
		Level:   cfg.GetString("log.level"),
	})

	// time.Local is fixed at process start, so TZ from config is applied here
	if tz := cfg.GetString("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			slog.Warn("unknown time zone, keeping process default", "tz", tz, "error", err)
		} else {
			time.Local = loc
		}
	}

	a.config = cfg
	a.onClose("config", func(context.Context) error { return cfg.Close() })
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	seq, err := pkguid.NewSnowflake(a.config.GetInt("app.node_id"))
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.seq = seq

	if a.config.GetBool("metrics.enabled") {
		a.metrics = pkgmetrics.New()
	}

	if a.config.GetBool("notify.websocket.enabled") {
		a.hub = pkgws.NewHub(pkgws.Options{
			BroadcastBuffer: int(a.config.GetInt("notify.websocket.broadcast_buffer")),
			ClientBuffer:    int(a.config.GetInt("notify.websocket.client_buffer")),
			AllowedOrigins:  a.config.GetArray("notify.websocket.allowed_origins"),
		})
		a.goroutine.Go(a.ctx, "websocket hub", a.hub.Run)
	}

	a.onClose("background tasks", func(context.Context) error {
		a.cancel()
		return a.goroutine.Wait()
	})
}

func (a *App) initHTTPServer() {
	var extra []pkgrouter.Middleware
	if a.metrics != nil {
		extra = append(extra, a.metrics.Middleware)
	}
	a.router = pkgrouter.NewRouter(a.uuid, extra...)

	if a.metrics != nil {
		a.router.Handle(http.MethodGet, "/metrics", a.metrics.Handler())
	}
	if a.hub != nil {
		a.router.Handle(http.MethodGet, "/ws", a.hub)
	}

	origins := a.config.GetArray("server.cors.allowed_origins")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return a.ctx },
	}
}
