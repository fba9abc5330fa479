package inspect

import (
	"debug/elf"
	"io"
	"strings"

	"github.com/pkg/errors"
)

func readELF(r io.ReaderAt) (*Binary, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, errors.WithStack(ErrFormat.Wrap(err))
	}
	defer f.Close()

	needed, err := f.DynString(elf.DT_NEEDED)
	if err != nil {
		return nil, errors.WithStack(ErrFormat.Wrap(err))
	}

	b := &Binary{
		Format:  FormatELF,
		Machine: f.Machine.String(),
		Imports: needed,
	}

	// DT_RPATH is searched before LD_LIBRARY_PATH and DT_RUNPATH after it;
	// the resolver only needs the union, RPATH first.
	for _, tag := range []elf.DynTag{elf.DT_RPATH, elf.DT_RUNPATH} {
		vals, err := f.DynString(tag)
		if err != nil {
			return nil, errors.WithStack(ErrFormat.Wrap(err))
		}
		for _, v := range vals {
			b.RPaths = append(b.RPaths, splitSearchPath(v)...)
		}
	}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}
		data, err := io.ReadAll(prog.Open())
		if err != nil {
			return nil, errors.WithStack(ErrFormat.Wrap(err))
		}
		b.Interpreter = strings.TrimRight(string(data), "\x00")
		break
	}
	return b, nil
}

// splitSearchPath splits a colon-separated DT_RPATH/DT_RUNPATH value,
// dropping empty elements.
func splitSearchPath(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ":") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
