package inspect

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
	"io"
	"runtime"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Load commands that name a dylib the binary depends on. debug/macho only
// decodes LC_LOAD_DYLIB, so the others are read from the raw command bytes.
const (
	lcLoadDylib       macho.LoadCmd = 0xc
	lcLoadDylinker    macho.LoadCmd = 0xe
	lcLoadWeakDylib   macho.LoadCmd = 0x80000018
	lcRpath           macho.LoadCmd = 0x8000001c
	lcReexportDylib   macho.LoadCmd = 0x8000001f
	lcLazyLoadDylib   macho.LoadCmd = 0x20
	lcLoadUpwardDylib macho.LoadCmd = 0x80000023
)

// strCmd is the prefix shared by the dylib, dylinker, and rpath load
// commands. NameOffset locates the command's NUL-terminated string.
type strCmd struct {
	Cmd        uint32
	Size       uint32
	NameOffset uint32
}

var hostCPU = map[string]macho.Cpu{
	"386":   macho.Cpu386,
	"amd64": macho.CpuAmd64,
	"arm":   macho.CpuArm,
	"arm64": macho.CpuArm64,
	"ppc64": macho.CpuPpc64,
}

func readMachO(r io.ReaderAt) (*Binary, error) {
	f, closer, err := openMachO(r)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	b := &Binary{
		Format:  FormatMachO,
		Machine: f.Cpu.String(),
	}
	for _, l := range f.Loads {
		raw := l.Raw()
		if len(raw) < 8 {
			continue
		}
		cmd := macho.LoadCmd(f.ByteOrder.Uint32(raw[0:4]))
		switch cmd {
		case lcLoadDylib, lcLoadWeakDylib, lcReexportDylib, lcLazyLoadDylib, lcLoadUpwardDylib:
			name, err := loadCmdString(f.ByteOrder, raw)
			if err != nil {
				return nil, err
			}
			b.Imports = append(b.Imports, name)
		case lcRpath:
			p, err := loadCmdString(f.ByteOrder, raw)
			if err != nil {
				return nil, err
			}
			b.RPaths = append(b.RPaths, p)
		case lcLoadDylinker:
			p, err := loadCmdString(f.ByteOrder, raw)
			if err != nil {
				return nil, err
			}
			b.Interpreter = p
		}
	}
	return b, nil
}

// openMachO opens a thin file, or the slice of a universal file that matches
// the host architecture, falling back to the first slice.
func openMachO(r io.ReaderAt) (*macho.File, io.Closer, error) {
	magic := make([]byte, 4)
	if _, err := r.ReadAt(magic, 0); err != nil {
		return nil, nil, errors.WithStack(ErrFormat.Wrap(err))
	}
	if !bytes.Equal(magic, fatMagic) {
		f, err := macho.NewFile(r)
		if err != nil {
			return nil, nil, errors.WithStack(ErrFormat.Wrap(err))
		}
		return f, f, nil
	}

	fat, err := macho.NewFatFile(r)
	if err != nil {
		return nil, nil, errors.WithStack(ErrFormat.Wrap(err))
	}
	if len(fat.Arches) == 0 {
		fat.Close()
		return nil, nil, errors.WithStack(ErrFormat.Errorf("universal binary has no slices"))
	}
	chosen := fat.Arches[0].File
	if cpu, ok := hostCPU[runtime.GOARCH]; ok {
		for _, a := range fat.Arches {
			if a.Cpu == cpu {
				chosen = a.File
				break
			}
		}
	}
	return chosen, fat, nil
}

// loadCmdString reads the string named by a dylib, dylinker, or rpath load
// command.
func loadCmdString(bo binary.ByteOrder, raw []byte) (string, error) {
	if len(raw) < 12 {
		return "", errors.WithStack(ErrFormat.Errorf("load command too short"))
	}
	var hdr strCmd
	if err := struc.UnpackWithOptions(bytes.NewReader(raw), &hdr, &struc.Options{Order: bo}); err != nil {
		return "", errors.WithStack(ErrFormat.Wrap(err))
	}
	off := hdr.NameOffset
	if off < 12 || int(off) >= len(raw) {
		return "", errors.WithStack(ErrFormat.Errorf("load command string offset %d out of range", off))
	}
	s := raw[off:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s), nil
}
