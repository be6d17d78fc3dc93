// Package pkguid provides helpers for generating unique identifiers.
//
// Uploaded files, janitor events and request correlation IDs all take their
// IDs from a StringID. NewStringID picks the strategy from configuration:
//   - "uuid" (default): time ordered UUIDv7 strings.
//   - "snowflake": decimal Snowflake IDs.
package pkguid
