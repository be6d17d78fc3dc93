// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, names each task, collects returned
// errors, and logs panics. The application waits on it during shutdown.
package pkgroutine
