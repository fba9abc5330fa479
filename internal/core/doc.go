// Package core provides the internal implementation of the nativehost
// platform facade. It contains the Platform (one realization per host
// operating system, selected at build time), its validated configuration,
// and the package-level logger shared by every component.
package core
