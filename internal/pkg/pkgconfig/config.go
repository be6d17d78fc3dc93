package pkgconfig

import "time"

// Config is the read-only view of application configuration used by the
// modules. Missing keys return the zero value of the requested type.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetArray(key string) []string
	GetDuration(key string) time.Duration
	Close() error
}
