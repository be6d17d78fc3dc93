package inbound

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/summary"
)

type UploadData struct {
	FileID   string   `json:"file_id"`
	Filename string   `json:"filename"`
	Filesize int64    `json:"filesize"`
	Rows     int64    `json:"rows"`
	Columns  []string `json:"columns"`
}

type UploadResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    UploadData `json:"data"`
}

type FileItem struct {
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	Filesize   int64     `json:"filesize"`
	RowCount   *int64    `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type FileDetail struct {
	FileItem
	Columns []string `json:"columns"`
}

type DeleteResponse struct {
	Detail string `json:"detail"`
}

type DailyItem struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DailySummaryResponse struct {
	Status      string      `json:"status"`
	Summary     []DailyItem `json:"summary"`
	DroppedRows *int        `json:"dropped_rows,omitempty"`
}

type SummaryRequest struct {
	GroupBy  *string `json:"group_by"`
	TimeUnit *string `json:"time_unit"`
}

type SummaryResponse struct {
	Status      string          `json:"status"`
	GroupBy     entity.GroupBy  `json:"group_by"`
	TimeUnit    entity.TimeUnit `json:"time_unit"`
	Categories  []string        `json:"categories"`
	Summary     []SummaryRow    `json:"summary"`
	DroppedRows *int            `json:"dropped_rows,omitempty"`
}

// SummaryRow encodes as {"time_bucket": ..., "<category>": count, ...} with
// the categories in pivot order. Aggregation rejects a category named
// summary.BucketKey, so keys never collide.
type SummaryRow struct {
	TimeBucket string
	categories []string
	counts     []int64
}

func (r SummaryRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeJSONValue(&buf, summary.BucketKey); err != nil {
		return nil, err
	}
	buf.WriteByte(':')
	if err := writeJSONValue(&buf, r.TimeBucket); err != nil {
		return nil, err
	}

	for i, cat := range r.categories {
		buf.WriteByte(',')
		if err := writeJSONValue(&buf, cat); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, r.counts[i]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// FieldError mirrors one entry of a request validation error list.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func fieldRequired(field string) FieldError {
	return FieldError{Loc: []string{"body", field}, Msg: "Field required", Type: "missing"}
}

func bodyError(typ, msg string) FieldError {
	return FieldError{Loc: []string{"body"}, Msg: msg, Type: typ}
}
