// Package logging provides a process-wide structured logger for BlazeDB,
// wrapping [log/slog].
//
// Call Init (or InitDefault) once at program startup; Get retrieves the
// shared logger afterwards, lazily initializing with stderr/INFO defaults
// if nothing has called Init yet. Query output never goes through this
// package: it is written directly to the file named on the command line.
package logging
