package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgconfig"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkglog"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkgrouter"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkgroutine"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkguid"
	"github.com/rs/cors"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.SetLevel(cfg.GetString("log.level"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)

	id, err := pkguid.NewStringID(a.config.GetString("ids.generator"))
	if err != nil {
		slog.Error("failed to init id generator", "error", err)
		os.Exit(1)
	}
	a.ids = id
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.ids)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: corsOrigins(a.config),
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
	}
}

// corsOrigins reads server.cors.allowed_origins, allowing any origin when unset.
func corsOrigins(cfg pkgconfig.Config) []string {
	origins := cfg.GetArray("server.cors.allowed_origins")
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

const (
	closerHTTPServer = "HTTP Server"
	closerConfig     = "Config"
)

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn[closerHTTPServer] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn[closerConfig] = func(context.Context) error {
		return a.config.Close()
	}
}
