// Package logtail reads the tail of shelf's JSON log file and turns each
// line into an Entry for the `shelf logs` command.
//
// Read keeps a ring buffer of the last n lines, so memory stays bounded by n
// regardless of file size. Lines that are not zap JSON records are kept as
// raw entries rather than dropped.
package logtail
