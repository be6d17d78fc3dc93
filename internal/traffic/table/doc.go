// Package table parses uploaded CSV bytes into an in-memory table and
// validates them against the upload rules (extension, size, encoding, shape).
//
// Header handling mirrors what analysts expect from spreadsheet tooling: a
// UTF-8 BOM is ignored, blank header cells are named "Unnamed: <index>", and
// repeated names are suffixed ".1", ".2", and so on.
package table
