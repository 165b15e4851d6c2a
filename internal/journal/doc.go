// Package journal persists run history in SQLite for diagnostics.
//
// Each orchestrator run gets one row keyed by a UUID, and every terminal
// task outcome gets one row under it, so "which points keep failing" is a
// query instead of a directory crawl. The journal is strictly observational:
// resume decisions always come from the artifacts on disk, never from here,
// and deleting the database loses nothing but history.
package journal
