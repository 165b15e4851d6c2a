// Package acquire drives the full acquisition run: it enumerates tasks,
// filters them through the resume gate, pushes the survivors through the
// rate limiter and remote fetch, consults the retry policy after every
// failure, and commits successful payloads atomically.
//
// Each task moves through an explicit state machine (pending, dispatched,
// awaiting retry, succeeded, failed) and produces exactly one terminal
// outcome per run. The run's summary is an ordinary return value; nothing
// in this package keeps global mutable state. A lock file in the output
// directory enforces the one-process-per-output-directory rule the resume
// gate's filesystem inspection depends on.
package acquire
