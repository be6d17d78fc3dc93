// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Modules depend on the Config interface; Viper is the implementation used at
// runtime. Values come from a YAML file and can be overridden by environment
// variables named after the key with dots replaced by underscores
// (store.dsn -> STORE_DSN).
//
// Binary values are base64 decoded and durations accept Go duration strings.
package pkgconfig
