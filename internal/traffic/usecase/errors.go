package usecase

import (
	"errors"
	"fmt"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/traffic/summary"
	"github.com/hyakkun/data-dashboard/internal/traffic/table"
)

const (
	msgInvalidType   = "Invalid file type. Only CSV files are allowed."
	msgEmpty         = "File is empty."
	msgEncoding      = "File encoding error. Please upload a CSV file encoded in UTF-8."
	msgParse         = "File parsing error. Please check the CSV format."
	msgMissingHeader = "Missing header or no data in CSV."
	msgFileNotFound  = "File not found."
	msgMissingColumn = "CSV must contain '%s' column."
	msgTooLarge      = "File is too large. File size must be less than %s."
	msgReserved      = "Column '%s' contains the reserved value '%s'."
)

func errFileNotFound() error {
	return pkgerror.NewBusiness(msgFileNotFound, pkgerror.CodeNotFound)
}

func errMissingColumn(column string) error {
	return pkgerror.NewValidation(fmt.Sprintf(msgMissingColumn, column), pkgerror.CodeInvalidInput)
}

// mapParseErr turns table validation failures into caller facing errors.
func mapParseErr(err error, maxSize int64) error {
	switch {
	case errors.Is(err, table.ErrInvalidExtension):
		return pkgerror.NewValidation(msgInvalidType, pkgerror.CodeInvalidInput)
	case errors.Is(err, table.ErrEmptyInput):
		return pkgerror.NewValidation(msgEmpty, pkgerror.CodeInvalidInput)
	case errors.Is(err, table.ErrTooLarge):
		return pkgerror.NewValidation(fmt.Sprintf(msgTooLarge, humanSize(maxSize)), pkgerror.CodeTooLarge)
	case errors.Is(err, table.ErrEncoding):
		return pkgerror.NewValidation(msgEncoding, pkgerror.CodeInvalidInput)
	case errors.Is(err, table.ErrParse):
		return pkgerror.NewValidation(msgParse, pkgerror.CodeInvalidInput)
	case errors.Is(err, table.ErrMissingHeaderOrEmpty):
		return pkgerror.NewValidation(msgMissingHeader, pkgerror.CodeInvalidInput)
	default:
		return normalizeErr(err)
	}
}

func mapSummaryErr(err error, column string) error {
	switch {
	case errors.Is(err, summary.ErrMissingColumn):
		return errMissingColumn(column)
	case errors.Is(err, summary.ErrUnsupportedGranularity):
		return pkgerror.NewInvalidInput(err)
	case errors.Is(err, summary.ErrReservedCategory):
		return pkgerror.NewValidation(fmt.Sprintf(msgReserved, column, summary.BucketKey), pkgerror.CodeInvalidInput)
	default:
		return normalizeErr(err)
	}
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
