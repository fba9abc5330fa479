package inspect

import (
	"debug/pe"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// readPE lists the DLLs named in the import directory. debug/pe exposes the
// directory as "symbol:dll" pairs grouped by DLL, so each DLL is taken at its
// first appearance.
func readPE(r io.ReaderAt) (*Binary, error) {
	f, err := pe.NewFile(r)
	if err != nil {
		return nil, errors.WithStack(ErrFormat.Wrap(err))
	}
	defer f.Close()

	syms, err := f.ImportedSymbols()
	if err != nil {
		return nil, errors.WithStack(ErrFormat.Wrap(err))
	}

	b := &Binary{
		Format:  FormatPE,
		Machine: fmt.Sprintf("%#x", f.Machine),
	}
	last := ""
	for _, s := range syms {
		_, dll, ok := strings.Cut(s, ":")
		if !ok || dll == last {
			continue
		}
		b.Imports = append(b.Imports, dll)
		last = dll
	}
	return b, nil
}
