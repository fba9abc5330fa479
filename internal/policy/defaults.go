package policy

// LinuxDefault returns the policy for ELF targets using glibc. Sonames of the
// C library family and the dynamic loader are provided by every distribution;
// the C++ and GCC support libraries count as the bundle's runtime.
func LinuxDefault() Policy {
	return Policy{
		Name: "linux",
		SystemDirs: []string{
			"/lib",
			"/lib64",
			"/usr/lib",
			"/usr/lib64",
		},
		SystemLibraries: []string{
			"libc.so*",
			"libm.so*",
			"libpthread.so*",
			"libdl.so*",
			"librt.so*",
			"libresolv.so*",
			"libutil.so*",
			"libcrypt.so*",
			"libnsl.so*",
			"ld-linux*.so*",
			"ld64.so*",
			"linux-vdso.so*",
			"linux-gate.so*",
		},
		RuntimeLibraries: []string{
			"libstdc++.so*",
			"libgcc_s.so*",
		},
	}
}

// DarwinDefault returns the policy for Mach-O targets. Everything under
// /usr/lib and /System/Library ships with the OS.
func DarwinDefault() Policy {
	return Policy{
		Name: "darwin",
		SystemDirs: []string{
			"/usr/lib",
			"/System/Library",
		},
		RuntimeLibraries: []string{
			"libswift*.dylib",
		},
	}
}

// WindowsDefault returns the policy for PE targets. Names are matched without
// regard to case.
func WindowsDefault() Policy {
	return Policy{
		Name:     "windows",
		FoldCase: true,
		SystemDirs: []string{
			`C:\Windows`,
		},
		SystemLibraries: []string{
			"api-ms-win-*.dll",
			"ext-ms-*.dll",
			"advapi32.dll",
			"bcrypt.dll",
			"comctl32.dll",
			"comdlg32.dll",
			"crypt32.dll",
			"gdi32.dll",
			"imm32.dll",
			"iphlpapi.dll",
			"kernel32.dll",
			"msvcrt.dll",
			"ntdll.dll",
			"ole32.dll",
			"oleaut32.dll",
			"secur32.dll",
			"setupapi.dll",
			"shell32.dll",
			"shlwapi.dll",
			"ucrtbase.dll",
			"user32.dll",
			"userenv.dll",
			"version.dll",
			"winmm.dll",
			"ws2_32.dll",
		},
		RuntimeLibraries: []string{
			"vcruntime*.dll",
			"msvcp*.dll",
			"concrt*.dll",
		},
	}
}

// Default returns the built-in policy for goos. ELF systems other than Linux
// use the Linux policy.
func Default(goos string) Policy {
	switch goos {
	case "darwin", "ios":
		return DarwinDefault()
	case "windows":
		return WindowsDefault()
	default:
		return LinuxDefault()
	}
}
