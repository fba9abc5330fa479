// Package inspect reads the direct library dependencies a binary declares.
//
// Only file metadata is read; the binary is never executed or mapped. The
// format is chosen from the file's magic bytes: ELF (DT_NEEDED), Mach-O thin
// or universal (LC_LOAD_DYLIB and its weak, re-export, lazy, and upward
// variants), and PE (the import directory). Results are returned in the order
// the binary declares them, without deduplication, so repeated inspection of
// the same file yields the same list.
package inspect
