// Package main hosts the gridpull CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the acquisition run itself, a
// network-free plan preview, journal history, and configuration scaffolding.
// Configuration resolution happens once per invocation through
// commandContext; credentials come from the environment at run time only, so
// plan and history work without any secrets set.
//
// Keep this package lean: the orchestration logic lives in the internal
// packages, and commands only wire configuration into them and render the
// results.
package main
