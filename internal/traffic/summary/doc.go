// Package summary turns a parsed traffic log into time-bucketed counts.
//
// The pipeline is Normalize (epoch microseconds to zoned time, dropping
// unparsable rows), Bucket (time to label for a granularity), then Aggregate
// (dense bucket x category pivot) or Daily (counts per day). Every step is a
// pure function over copies of its input.
package summary
