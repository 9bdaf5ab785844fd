package app

import (
	"context"
	"net/http"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgconfig"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkglog"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgmetrics"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgrouter"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgroutine"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkguid"
	"github.com/Lakshm1-R/placement-app/internal/pkg/pkgws"
)

// closer releases one resource on shutdown.
type closer struct {
	name string
	fn   func(context.Context) error
}

// App wires configuration, shared libraries, the HTTP server and the
// feature modules.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config pkgconfig.Config

	uuid      pkguid.StringID
	seq       pkguid.NumberID
	goroutine *pkgroutine.Manager
	metrics   *pkgmetrics.Metrics
	hub       *pkgws.Hub

	router     *pkgrouter.Router
	httpServer *http.Server

	// run in reverse order of registration by Stop
	closers []closer
}

// New builds the application. Any failure during setup is fatal.
func New() *App {
	pkglog.InitLogging(pkglog.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{ctx: ctx, cancel: cancel}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
