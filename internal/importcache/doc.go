// Package importcache persists the direct imports of inspected binaries so
// that repeated packaging runs skip re-parsing unchanged files.
//
// Entries are keyed by the SHA-256 of the file's content and a caller-chosen
// scope (the set of accepted formats), so a renamed or copied file hits the
// cache and a rebuilt one misses it. The store is a SQLite database in the
// cache directory opened through the pure-Go modernc.org/sqlite driver.
// Schema creation is serialized across processes with a file lock, and
// concurrent lookups of the same key within one process share a single
// inspection.
//
// The cache never changes results: a failed read or write is logged and the
// caller's inspect function is used directly.
package importcache
