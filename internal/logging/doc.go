// Package logging builds the slog loggers the CLI and orchestrator share.
//
// Two formats exist: "console" for humans watching a run and "json" for
// anything downstream. Construction goes through Options so tests can build
// quiet loggers, and every package that logs takes a *slog.Logger rather
// than reaching for a global.
package logging
