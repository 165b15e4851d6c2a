// Package artifact owns everything that touches the output directory: the
// task-to-path mapping, structural CSV validation, the atomic commit of
// fetched payloads, resume decisions, and error markers.
//
// The central guarantee is that a file at a permanent path is always complete
// and structurally valid. Payloads land in a .part sibling first, get
// validated, and are promoted with an atomic rename; anything else found at a
// permanent path is deleted rather than trusted. Each task's temporary,
// permanent, and marker paths derive from its unique key, so concurrent
// workers never share a file.
//
// Filesystem inspection here is only safe with a single process per output
// directory; the acquire package enforces that with a lock file.
package artifact
