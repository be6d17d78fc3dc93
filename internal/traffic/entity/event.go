package entity

type OrphanReason string

const (
	OrphanReasonMetadataFailed OrphanReason = "METADATA_FAILED"
	OrphanReasonDeleteFailed   OrphanReason = "DELETE_FAILED"
	OrphanReasonSweep          OrphanReason = "SWEEP"
)

// OrphanBlobEvent asks the janitor to remove a blob that has no metadata record.
type OrphanBlobEvent struct {
	EventID string
	FileID  string
	Reason  OrphanReason
}
