// Package nativehost is the native host layer of an application packager.
//
// It launches and supervises child processes, loads shared libraries and
// resolves their symbols, and lists the libraries a binary depends on
// together with the policy that decides which of them a self-contained
// bundle must carry.
//
// Exactly one realization is compiled in for the host operating system:
// ELF on Linux and the other unix systems, Mach-O on Darwin, and PE
// elsewhere. Callers never branch on the platform themselves.
//
// Lifecycle:
//
//	p, err := nativehost.New(nativehost.WithImportCache(dir))
//	if err != nil { ... }
//	defer p.Close()
//
//	imports, err := p.GetLibraryImports(exe)
//	bundle := p.FilterOutRuntimeDependencies(imports)
//
//	proc := p.CreateProcess()
//	defer proc.Close()
//	if proc.Execute(exe, []string{"--version"}, true) {
//		fmt.Println(proc.Output())
//	}
//
// A Process is owned by a single goroutine. Output, OutputSize, and Exited
// may be used from any goroutine.
package nativehost
