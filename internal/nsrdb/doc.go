// Package nsrdb talks to the NSRDB PSM3 time-series endpoint and classifies
// every failure into the closed set the retry policy understands.
//
// The Client builds one point-per-request CSV download (wkt=POINT(lon lat),
// names=<year>) and returns either the raw payload or an error wrapping one
// of the exported sentinels: ErrRateLimited for quota signals, ErrTransient
// for timeouts, connection faults, and server errors, ErrPermanent for other
// client-side rejections, and ErrContentInvalid for payloads that fail
// structural validation downstream. Callers never inspect HTTP details; the
// four-way classification is the entire contract.
package nsrdb
