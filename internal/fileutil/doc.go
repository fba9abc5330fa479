// Package fileutil provides small file system helpers shared by the import
// cache and the dependency resolver.
package fileutil
