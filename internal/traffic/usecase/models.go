package usecase

import (
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/summary"
)

type UploadInput struct {
	Filename string
	Data     []byte
}

type UploadResult struct {
	File    entity.UploadedFile
	Rows    int64
	Columns []string
}

type DownloadResult struct {
	Filename string
	Data     []byte
}

type SummaryInput struct {
	GroupBy  entity.GroupBy
	TimeUnit entity.TimeUnit
}

type SummaryResult struct {
	GroupBy  entity.GroupBy
	TimeUnit entity.TimeUnit
	Pivot    summary.Pivot
	// Dropped is nil unless dropped row reporting is enabled.
	Dropped *int
}

type DailySummaryResult struct {
	Summary []summary.DailyCount
	Dropped *int
}
