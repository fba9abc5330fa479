package inspect

import (
	"bytes"
	"io"
	"os"
	"slices"

	"github.com/pkg/errors"

	"github.com/giantswarm/nativehost/internal/sentinel"
)

// ErrFormat is returned when a file is not a recognized binary format, is
// corrupt, or belongs to a format family the Inspector does not accept.
const ErrFormat = sentinel.Error("unrecognized binary format")

// Format identifies an executable file format family.
type Format string

// Supported formats.
const (
	FormatELF   Format = "elf"
	FormatMachO Format = "macho"
	FormatPE    Format = "pe"
)

var (
	elfMagic = []byte{0x7f, 'E', 'L', 'F'}
	peMagic  = []byte{'M', 'Z'}

	machoMagics = [][]byte{
		{0xfe, 0xed, 0xfa, 0xce}, // 32-bit big endian
		{0xce, 0xfa, 0xed, 0xfe}, // 32-bit little endian
		{0xfe, 0xed, 0xfa, 0xcf}, // 64-bit big endian
		{0xcf, 0xfa, 0xed, 0xfe}, // 64-bit little endian
	}
	fatMagic = []byte{0xca, 0xfe, 0xba, 0xbe}
)

// Binary describes the load-time metadata of one executable or library.
type Binary struct {
	Path   string
	Format Format

	// Machine is the target architecture as named by the format package.
	Machine string

	// Imports are the direct library references in declaration order.
	Imports []string

	// RPaths are the embedded search paths: DT_RPATH and DT_RUNPATH for ELF,
	// LC_RPATH for Mach-O. Tokens such as $ORIGIN and @loader_path are kept
	// unexpanded.
	RPaths []string

	// Interpreter is the ELF program interpreter or Mach-O dynamic linker.
	Interpreter string
}

// Inspector reads binaries restricted to a set of format families. The zero
// value accepts every supported format.
type Inspector struct {
	Formats []Format
}

// Inspect reads the metadata of the binary at path with the zero Inspector.
func Inspect(path string) (*Binary, error) {
	return Inspector{}.Inspect(path)
}

// ListImports returns the direct imports of the binary at path with the zero
// Inspector.
func ListImports(path string) ([]string, error) {
	return Inspector{}.ListImports(path)
}

// ListImports returns the direct library references of the binary at path,
// in declaration order.
func (in Inspector) ListImports(path string) ([]string, error) {
	b, err := in.Inspect(path)
	if err != nil {
		return nil, err
	}
	return b.Imports, nil
}

// Inspect reads the metadata of the binary at path. A file that cannot be
// opened returns the open error; a file of an unknown or rejected format
// returns an error matching ErrFormat.
func (in Inspector) Inspect(path string) (*Binary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "inspect %s", path)
	}
	defer f.Close()

	b, err := in.read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "inspect %s", path)
	}
	b.Path = path
	return b, nil
}

func (in Inspector) read(r io.ReaderAt) (*Binary, error) {
	format, err := Detect(r)
	if err != nil {
		return nil, err
	}
	if !in.accepts(format) {
		return nil, errors.WithStack(ErrFormat.Errorf("%s binaries are not native to this platform", format))
	}

	var b *Binary
	switch format {
	case FormatELF:
		b, err = readELF(r)
	case FormatMachO:
		b, err = readMachO(r)
	case FormatPE:
		b, err = readPE(r)
	}
	if err != nil {
		return nil, err
	}
	if b.Imports == nil {
		b.Imports = []string{}
	}
	return b, nil
}

func (in Inspector) accepts(f Format) bool {
	return len(in.Formats) == 0 || slices.Contains(in.Formats, f)
}

// Detect identifies the format family of r from its magic bytes.
func Detect(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 4)
	if n, err := r.ReadAt(magic, 0); n < len(magic) {
		if err == nil || errors.Is(err, io.EOF) {
			return "", errors.WithStack(ErrFormat.Errorf("file too short"))
		}
		return "", errors.WithStack(err)
	}

	switch {
	case bytes.Equal(magic, elfMagic):
		return FormatELF, nil
	case bytes.Equal(magic, fatMagic):
		return FormatMachO, nil
	case bytes.HasPrefix(magic, peMagic):
		return FormatPE, nil
	}
	for _, m := range machoMagics {
		if bytes.Equal(magic, m) {
			return FormatMachO, nil
		}
	}
	return "", errors.WithStack(ErrFormat.Errorf("unknown magic %x", magic))
}
