// Package logging builds the structured log/slog logger used by the
// migration tools. Records are written as JSON by default; the text format
// is meant for interactive terminal use. The logger is supplied to the Fx
// container and installed as the slog default by the application bootstrap.
package logging
