package traffic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgconfig"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkgrouter"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkgroutine"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkguid"
	"github.com/hyakkun/data-dashboard/internal/traffic/blob"
	"github.com/hyakkun/data-dashboard/internal/traffic/event"
	"github.com/hyakkun/data-dashboard/internal/traffic/inbound"
	"github.com/hyakkun/data-dashboard/internal/traffic/store"
	"github.com/hyakkun/data-dashboard/internal/traffic/summary"
	"github.com/hyakkun/data-dashboard/internal/traffic/table"
	"github.com/hyakkun/data-dashboard/internal/traffic/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
}

// New wires the traffic log module and registers its endpoints. The
// returned function stops the janitor and closes the stores.
func New(dep Dependency) (func(context.Context) error, error) {
	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	meta, closeMeta, err := store.Open(ctx, dep.Config.GetString("store.driver"), dep.Config.GetString("store.dsn"))
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}

	blobs, closeBlobs, err := blob.Open(ctx, blobConfig(dep.Config))
	if err != nil {
		_ = closeMeta(ctx)
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	opts, err := options(dep.Config)
	if err != nil {
		_ = closeBlobs(ctx)
		_ = closeMeta(ctx)
		return nil, err
	}

	bus := event.NewBus(512)
	uc := usecase.New(usecase.Dependency{
		Store:   meta,
		Blobs:   blobs,
		Events:  bus,
		ID:      dep.ID,
		Options: opts,
	})

	janitor := event.NewJanitor(bus, uc, event.JanitorConfig{
		Workers:     int(dep.Config.GetInt("janitor.workers")),
		MaxRetries:  int(dep.Config.GetInt("janitor.max_retries")),
		BaseBackoff: time.Duration(dep.Config.GetInt("janitor.base_backoff_ms")) * time.Millisecond,
	})
	janitor.Start()

	if dep.Config.GetBool("janitor.sweep_on_start") && dep.Goroutine != nil {
		dep.Goroutine.Go(ctx, "orphan-sweep", func(ctx context.Context) error {
			_, err := uc.Sweep(ctx)
			return err
		})
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	slog.Info("traffic module ready",
		"store", dep.Config.GetString("store.driver"),
		"blob", dep.Config.GetString("blob.driver"),
		"max_upload_bytes", opts.Limits.MaxSize,
		"zone", opts.Zone.String(),
	)

	return func(ctx context.Context) error {
		return errors.Join(janitor.Stop(ctx), closeBlobs(ctx), closeMeta(ctx))
	}, nil
}

func blobConfig(cfg pkgconfig.Config) blob.Config {
	c := blob.Config{
		Driver:   cfg.GetString("blob.driver"),
		LocalDir: cfg.GetString("blob.local.dir"),
	}

	switch c.Driver {
	case "s3":
		c.Bucket = cfg.GetString("blob.s3.bucket")
		c.Prefix = cfg.GetString("blob.s3.prefix")
		c.S3Region = cfg.GetString("blob.s3.region")
		c.S3AccessKey = cfg.GetString("blob.s3.access_key")
		c.S3SecretKey = cfg.GetString("blob.s3.secret_key")
		c.S3Endpoint = cfg.GetString("blob.s3.endpoint")
	case "gcs":
		c.Bucket = cfg.GetString("blob.gcs.bucket")
		c.Prefix = cfg.GetString("blob.gcs.prefix")
	}

	return c
}

func options(cfg pkgconfig.Config) (usecase.Options, error) {
	opts := usecase.Options{
		Limits: table.Limits{
			MaxSize:   cfg.GetInt("upload.max_size_bytes"),
			Extension: cfg.GetString("upload.extension"),
		},
		Zone:          summary.DefaultZone,
		ReportDropped: cfg.GetBool("summary.report_dropped_rows"),
	}

	if cfg.GetString("summary.utc_offset") != "" {
		offset := cfg.GetDuration("summary.utc_offset")
		if offset%time.Minute != 0 || offset < -14*time.Hour || offset > 14*time.Hour {
			return opts, fmt.Errorf("invalid summary.utc_offset %q", cfg.GetString("summary.utc_offset"))
		}
		opts.Zone = zone(offset)
	}

	return opts, nil
}

func zone(offset time.Duration) *time.Location {
	sign := "+"
	if offset < 0 {
		sign = "-"
	}
	abs := offset.Abs()
	name := fmt.Sprintf("UTC%s%d", sign, int(abs.Hours()))
	if m := int(abs.Minutes()) % 60; m != 0 {
		name = fmt.Sprintf("%s:%02d", name, m)
	}
	return time.FixedZone(name, int(offset.Seconds()))
}
