package entity

import "time"

// UploadedFile is the metadata record of an uploaded CSV. Its ID is also the
// key of the file bytes in the blob store.
type UploadedFile struct {
	ID         string
	Filename   string
	UploadedAt time.Time
	Filesize   int64
	RowCount   *int64
	Columns    []string
}
