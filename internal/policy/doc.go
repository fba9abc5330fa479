// Package policy decides which of a binary's direct library references a
// packaging tool must copy into an application bundle.
//
// A Policy names the libraries the target system provides (system
// directories and soname globs) and the runtime libraries a bundle may carry
// itself. Decide is total: every reference maps to a Decision, and anything
// the policy does not recognize is bundled. Over-bundling is harmless while
// under-bundling breaks the shipped application, so malformed references are
// kept and reported rather than dropped.
//
// Built-in policies cover Linux, Darwin, and Windows targets. Other policies
// are read from YAML files with Load or LoadFile.
package policy
