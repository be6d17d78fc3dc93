package inbound

import (
	"context"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgrouter"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/usecase"
)

type uc interface {
	MaxUploadSize() int64
	Upload(ctx context.Context, in usecase.UploadInput) (usecase.UploadResult, error)
	List(ctx context.Context) ([]entity.UploadedFile, error)
	Get(ctx context.Context, id string) (entity.UploadedFile, error)
	Download(ctx context.Context, id string) (usecase.DownloadResult, error)
	Delete(ctx context.Context, id string) error
	DailySummary(ctx context.Context, id string) (usecase.DailySummaryResult, error)
	Summary(ctx context.Context, id string, in usecase.SummaryInput) (usecase.SummaryResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/files", end.UploadFile)
	r.GET("/files", end.ListFiles)
	r.GET("/files/:file_id", end.GetFile)
	r.DELETE("/files/:file_id", end.DeleteFile)
	r.GET("/files/:file_id/download", end.DownloadFile)

	r.GET("/summary/:file_id", end.DailySummary)
	r.POST("/summary/:file_id", end.Summary)
}
