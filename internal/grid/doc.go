// Package grid expands a bounding box, step sizes, and a year list into the
// ordered set of acquisition tasks the downloader works through.
//
// Enumeration is deterministic (years outer, then latitude ascending, then
// longitude ascending) so logs are reproducible run to run and every task maps
// to the same artifact paths across restarts. Validation rejects degenerate
// steps, inverted bounds, and grids whose task count would exceed the
// configured ceiling before any network activity happens.
package grid
