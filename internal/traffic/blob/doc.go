// Package blob stores raw uploaded file bytes keyed by file ID.
//
// Backends: a local directory, Amazon S3 (or any S3 compatible endpoint)
// and Google Cloud Storage.
package blob
