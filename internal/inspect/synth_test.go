package inspect

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/lunixbochs/struc"
)

// writeFile stores data in a temp file and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// strtab accumulates a NUL-separated string table.
type strtab struct {
	buf bytes.Buffer
}

func newStrtab() *strtab {
	s := &strtab{}
	s.buf.WriteByte(0)
	return s
}

func (s *strtab) add(v string) uint32 {
	off := uint32(s.buf.Len())
	s.buf.WriteString(v)
	s.buf.WriteByte(0)
	return off
}

// buildELF returns a little-endian ELF64 shared object with a .dynamic
// section listing needed as DT_NEEDED and runpath as DT_RUNPATH.
func buildELF(t *testing.T, needed []string, runpath string) []byte {
	t.Helper()
	le := binary.LittleEndian

	dynstr := newStrtab()
	var dynamic bytes.Buffer
	putDyn := func(tag elf.DynTag, val uint64) {
		_ = binary.Write(&dynamic, le, uint64(tag))
		_ = binary.Write(&dynamic, le, val)
	}
	for _, n := range needed {
		putDyn(elf.DT_NEEDED, uint64(dynstr.add(n)))
	}
	if runpath != "" {
		putDyn(elf.DT_RUNPATH, uint64(dynstr.add(runpath)))
	}
	putDyn(elf.DT_NULL, 0)

	shstr := newStrtab()
	nameDynstr := shstr.add(".dynstr")
	nameDynamic := shstr.add(".dynamic")
	nameShstrtab := shstr.add(".shstrtab")

	const ehsize = 64
	dynstrOff := uint64(ehsize)
	dynamicOff := dynstrOff + uint64(dynstr.buf.Len())
	dynamicOff = (dynamicOff + 7) &^ 7
	shstrOff := dynamicOff + uint64(dynamic.Len())
	shOff := (shstrOff + uint64(shstr.buf.Len()) + 7) &^ 7

	var out bytes.Buffer
	ident := [16]byte{0x7f, 'E', 'L', 'F', byte(elf.ELFCLASS64), byte(elf.ELFDATA2LSB), byte(elf.EV_CURRENT)}
	out.Write(ident[:])
	_ = binary.Write(&out, le, uint16(elf.ET_DYN))
	_ = binary.Write(&out, le, uint16(elf.EM_X86_64))
	_ = binary.Write(&out, le, uint32(elf.EV_CURRENT))
	_ = binary.Write(&out, le, uint64(0)) // entry
	_ = binary.Write(&out, le, uint64(0)) // phoff
	_ = binary.Write(&out, le, shOff)
	_ = binary.Write(&out, le, uint32(0)) // flags
	_ = binary.Write(&out, le, uint16(ehsize))
	_ = binary.Write(&out, le, uint16(56)) // phentsize
	_ = binary.Write(&out, le, uint16(0))  // phnum
	_ = binary.Write(&out, le, uint16(64)) // shentsize
	_ = binary.Write(&out, le, uint16(4))  // shnum
	_ = binary.Write(&out, le, uint16(3))  // shstrndx

	pad := func(to uint64) {
		for uint64(out.Len()) < to {
			out.WriteByte(0)
		}
	}
	pad(dynstrOff)
	out.Write(dynstr.buf.Bytes())
	pad(dynamicOff)
	out.Write(dynamic.Bytes())
	pad(shstrOff)
	out.Write(shstr.buf.Bytes())
	pad(shOff)

	section := func(name uint32, typ elf.SectionType, off, size uint64, link uint32, entsize uint64) {
		_ = binary.Write(&out, le, name)
		_ = binary.Write(&out, le, uint32(typ))
		_ = binary.Write(&out, le, uint64(0)) // flags
		_ = binary.Write(&out, le, uint64(0)) // addr
		_ = binary.Write(&out, le, off)
		_ = binary.Write(&out, le, size)
		_ = binary.Write(&out, le, link)
		_ = binary.Write(&out, le, uint32(0)) // info
		_ = binary.Write(&out, le, uint64(1)) // addralign
		_ = binary.Write(&out, le, entsize)
	}
	section(0, elf.SHT_NULL, 0, 0, 0, 0)
	section(nameDynstr, elf.SHT_STRTAB, dynstrOff, uint64(dynstr.buf.Len()), 0, 0)
	section(nameDynamic, elf.SHT_DYNAMIC, dynamicOff, uint64(dynamic.Len()), 1, 16)
	section(nameShstrtab, elf.SHT_STRTAB, shstrOff, uint64(shstr.buf.Len()), 0, 0)

	return out.Bytes()
}

// machoLoad is one load command for buildMachO.
type machoLoad struct {
	cmd  macho.LoadCmd
	name string
}

// machHeader64 is mach_header_64.
type machHeader64 struct {
	Magic      uint32
	CPU        uint32
	SubCPU     uint32
	FileType   uint32
	NCmds      uint32
	SizeOfCmds uint32
	Flags      uint32
	Reserved   uint32
}

// dylibVersions follows strCmd in a dylib_command.
type dylibVersions struct {
	Timestamp      uint32
	CurrentVersion uint32
	CompatVersion  uint32
}

// buildMachO returns a little-endian 64-bit Mach-O executable for cpu with
// the given dylib, rpath, and dylinker commands.
func buildMachO(t *testing.T, cpu macho.Cpu, loads []machoLoad) []byte {
	t.Helper()
	opts := &struc.Options{Order: binary.LittleEndian}

	var cmds bytes.Buffer
	for _, l := range loads {
		var strOff uint32
		switch l.cmd {
		case lcRpath, lcLoadDylinker:
			strOff = 12
		default:
			strOff = 24
		}
		size := (strOff + uint32(len(l.name)) + 1 + 7) &^ 7
		start := cmds.Len()
		if err := struc.PackWithOptions(&cmds, &strCmd{Cmd: uint32(l.cmd), Size: size, NameOffset: strOff}, opts); err != nil {
			t.Fatalf("pack load command: %v", err)
		}
		if strOff == 24 {
			v := dylibVersions{Timestamp: 2, CurrentVersion: 0x10000, CompatVersion: 0x10000}
			if err := struc.PackWithOptions(&cmds, &v, opts); err != nil {
				t.Fatalf("pack dylib versions: %v", err)
			}
		}
		cmds.WriteString(l.name)
		for cmds.Len() < start+int(size) {
			cmds.WriteByte(0)
		}
	}

	var out bytes.Buffer
	hdr := machHeader64{
		Magic:      macho.Magic64,
		CPU:        uint32(cpu),
		FileType:   uint32(macho.TypeExec),
		NCmds:      uint32(len(loads)),
		SizeOfCmds: uint32(cmds.Len()),
	}
	if err := struc.PackWithOptions(&out, &hdr, opts); err != nil {
		t.Fatalf("pack mach header: %v", err)
	}
	out.Write(cmds.Bytes())
	return out.Bytes()
}

// buildFat wraps thin Mach-O slices in a universal binary.
func buildFat(t *testing.T, cpus []macho.Cpu, slices [][]byte) []byte {
	t.Helper()
	be := binary.BigEndian

	const align = 12 // 4 KiB
	offset := uint32(1 << align)
	var out bytes.Buffer
	_ = binary.Write(&out, be, macho.MagicFat)
	_ = binary.Write(&out, be, uint32(len(slices)))
	offsets := make([]uint32, len(slices))
	for i, s := range slices {
		offsets[i] = offset
		_ = binary.Write(&out, be, uint32(cpus[i]))
		_ = binary.Write(&out, be, uint32(0)) // subcpu
		_ = binary.Write(&out, be, offset)
		_ = binary.Write(&out, be, uint32(len(s)))
		_ = binary.Write(&out, be, uint32(align))
		offset += (uint32(len(s)) + (1 << align) - 1) &^ ((1 << align) - 1)
	}
	for i, s := range slices {
		for uint32(out.Len()) < offsets[i] {
			out.WriteByte(0)
		}
		out.Write(s)
	}
	return out.Bytes()
}

// buildPE returns a minimal PE image with no optional header and therefore no
// import directory.
func buildPE(t *testing.T) []byte {
	t.Helper()
	le := binary.LittleEndian

	out := make([]byte, 0x40)
	out[0], out[1] = 'M', 'Z'
	le.PutUint32(out[0x3c:], 0x40)
	buf := bytes.NewBuffer(out)
	buf.WriteString("PE\x00\x00")
	_ = binary.Write(buf, le, uint16(0x8664)) // machine
	_ = binary.Write(buf, le, uint16(0))      // sections
	_ = binary.Write(buf, le, uint32(0))      // timestamp
	_ = binary.Write(buf, le, uint32(0))      // symbol table
	_ = binary.Write(buf, le, uint32(0))      // symbols
	_ = binary.Write(buf, le, uint16(0))      // optional header size
	_ = binary.Write(buf, le, uint16(0x22))   // characteristics
	for buf.Len() < 128 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}
