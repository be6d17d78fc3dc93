package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkgrouter"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/usecase"
)

const csvContentType = "text/csv"

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) UploadFile(ctx context.Context, r *http.Request) (any, error) {
	filename, data, err := readUpload(r, h.uc.MaxUploadSize())
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, usecase.UploadInput{Filename: filename, Data: data})
	if err != nil {
		return nil, err
	}

	return UploadResponse{
		Status:  "success",
		Message: "File saved successfully",
		Data: UploadData{
			FileID:   result.File.ID,
			Filename: result.File.Filename,
			Filesize: result.File.Filesize,
			Rows:     result.Rows,
			Columns:  result.Columns,
		},
	}, nil
}

func (h *HTTPEndpoint) ListFiles(ctx context.Context, r *http.Request) (any, error) {
	files, err := h.uc.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]FileItem, 0, len(files))
	for _, f := range files {
		items = append(items, toFileItem(f))
	}

	return items, nil
}

func (h *HTTPEndpoint) GetFile(ctx context.Context, r *http.Request) (any, error) {
	file, err := h.uc.Get(ctx, pkgrouter.GetParam(ctx, "file_id"))
	if err != nil {
		return nil, err
	}

	return FileDetail{FileItem: toFileItem(file), Columns: nonNil(file.Columns)}, nil
}

func (h *HTTPEndpoint) DeleteFile(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.Delete(ctx, pkgrouter.GetParam(ctx, "file_id")); err != nil {
		return nil, err
	}

	return DeleteResponse{Detail: "deleted"}, nil
}

func (h *HTTPEndpoint) DownloadFile(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Download(ctx, pkgrouter.GetParam(ctx, "file_id"))
	if err != nil {
		return nil, err
	}

	return &pkgrouter.File{Name: result.Filename, ContentType: csvContentType, Data: result.Data}, nil
}

func (h *HTTPEndpoint) DailySummary(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.DailySummary(ctx, pkgrouter.GetParam(ctx, "file_id"))
	if err != nil {
		return nil, err
	}

	items := make([]DailyItem, 0, len(result.Summary))
	for _, d := range result.Summary {
		items = append(items, DailyItem{Date: d.Date, Count: d.Count})
	}

	return DailySummaryResponse{Status: "success", Summary: items, DroppedRows: result.Dropped}, nil
}

func (h *HTTPEndpoint) Summary(ctx context.Context, r *http.Request) (any, error) {
	in, err := decodeSummaryRequest(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Summary(ctx, pkgrouter.GetParam(ctx, "file_id"), in)
	if err != nil {
		return nil, err
	}

	rows := make([]SummaryRow, 0, len(result.Pivot.Rows))
	for _, row := range result.Pivot.Rows {
		rows = append(rows, SummaryRow{
			TimeBucket: row.Bucket,
			categories: result.Pivot.Categories,
			counts:     row.Counts,
		})
	}

	return SummaryResponse{
		Status:      "success",
		GroupBy:     result.GroupBy,
		TimeUnit:    result.TimeUnit,
		Categories:  nonNil(result.Pivot.Categories),
		Summary:     rows,
		DroppedRows: result.Dropped,
	}, nil
}

func decodeSummaryRequest(r *http.Request) (usecase.SummaryInput, error) {
	var req SummaryRequest
	if r.Body == nil {
		return usecase.SummaryInput{}, pkgerror.NewUnprocessable([]FieldError{bodyError("missing", "Field required")})
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return usecase.SummaryInput{}, pkgerror.NewUnprocessable([]FieldError{bodyError("json_invalid", "JSON decode error")})
	}

	var missing []FieldError
	if req.GroupBy == nil {
		missing = append(missing, fieldRequired("group_by"))
	}
	if req.TimeUnit == nil {
		missing = append(missing, fieldRequired("time_unit"))
	}
	if len(missing) > 0 {
		return usecase.SummaryInput{}, pkgerror.NewUnprocessable(missing)
	}

	groupBy, err := entity.ParseGroupBy(*req.GroupBy)
	if err != nil {
		return usecase.SummaryInput{}, pkgerror.NewInvalidInput(err)
	}
	unit, err := entity.ParseTimeUnit(*req.TimeUnit)
	if err != nil {
		return usecase.SummaryInput{}, pkgerror.NewInvalidInput(err)
	}

	return usecase.SummaryInput{GroupBy: groupBy, TimeUnit: unit}, nil
}

// readUpload returns the name and bytes of the "file" form part. At most
// maxSize+1 bytes are read so that oversize uploads are still detected.
func readUpload(r *http.Request, maxSize int64) (string, []byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return "", nil, pkgerror.NewUnprocessable([]FieldError{fieldRequired("file")})
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return "", nil, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, pkgerror.NewUnprocessable([]FieldError{fieldRequired("file")})
		}
		if err != nil {
			return "", nil, pkgerror.NewInvalidFormat()
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, maxSize+1))
		_ = part.Close()
		if err != nil {
			return "", nil, pkgerror.NewInvalidFormat()
		}

		return part.FileName(), data, nil
	}
}

func toFileItem(f entity.UploadedFile) FileItem {
	return FileItem{
		FileID:     f.ID,
		Filename:   f.Filename,
		Filesize:   f.Filesize,
		RowCount:   f.RowCount,
		UploadedAt: f.UploadedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
