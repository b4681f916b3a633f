package mem

import "encoding/binary"

const (
	// Base is the virtual address the RDRAM window is mapped at (KSEG0).
	Base uint32 = 0x80000000
	// WindowSize is the size of the mapped window. Addresses in
	// [Base, Base+WindowSize) are translated to buffer offsets; everything
	// else is invalid. The window is larger than the default RDRAM size, so
	// translated offsets are still bounds-checked against the buffer.
	WindowSize uint32 = 0x00800000

	// DefaultSize is 4 MiB of RDRAM.
	DefaultSize = 0x400000
	// HeaderSize is the ROM image header skipped by LoadImage.
	HeaderSize = 0x1000
)

// RDRAM is the flat physical memory of the console. Word access is
// big-endian and 4-byte aligned; reads outside the mapped window return 0
// and writes outside it are dropped, matching the relaxed behavior of the
// rest of the core (nothing in the hot path faults).
type RDRAM struct {
	dram []byte
}

// NewRDRAM allocates an RDRAM buffer of the given size in bytes.
// A size <= 0 selects DefaultSize.
func NewRDRAM(size int) *RDRAM {
	if size <= 0 {
		size = DefaultSize
	}
	return &RDRAM{dram: make([]byte, size)}
}

// Size returns the buffer size in bytes.
func (m *RDRAM) Size() int {
	return len(m.dram)
}

// offset translates a virtual address to a buffer offset. ok is false when
// the address is outside the window, misaligned, or past the end of the
// buffer.
func (m *RDRAM) offset(addr uint32) (off uint32, ok bool) {
	if addr < Base || addr >= Base+WindowSize {
		return 0, false
	}
	off = addr - Base
	if off%4 != 0 {
		return 0, false
	}
	if int(off)+4 > len(m.dram) {
		return 0, false
	}
	return off, true
}

// ReadWord reads a big-endian 32-bit word at addr. Invalid addresses read
// as zero.
func (m *RDRAM) ReadWord(addr uint32) uint32 {
	val, _ := m.LoadWord(addr)
	return val
}

// LoadWord is ReadWord with an explicit validity result, for callers that
// must distinguish a stored zero from an invalid address (the CPU leaves
// the target register untouched on a failed load).
func (m *RDRAM) LoadWord(addr uint32) (uint32, bool) {
	off, ok := m.offset(addr)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(m.dram[off:]), true
}

// WriteWord stores val big-endian at addr. Writes to invalid addresses are
// silently dropped.
func (m *RDRAM) WriteWord(addr uint32, val uint32) {
	off, ok := m.offset(addr)
	if !ok {
		return
	}
	binary.BigEndian.PutUint32(m.dram[off:], val)
}

// LoadImage copies a ROM image into RDRAM starting at offset 0, skipping
// the HeaderSize-byte image header and truncating to whatever fits. An
// empty image is the only load error; an image shorter than the header
// loads zero bytes and succeeds.
func (m *RDRAM) LoadImage(rom []byte) error {
	if len(rom) == 0 {
		return ErrImageTooSmall
	}
	if len(rom) > HeaderSize {
		copy(m.dram, rom[HeaderSize:])
	}
	return nil
}

// Dump returns a copy of up to length bytes of RDRAM starting at virtual
// address start, clamped to the mapped buffer. Addresses outside the window
// yield an empty slice.
func (m *RDRAM) Dump(start uint32, length int) []byte {
	if length <= 0 || start < Base || start >= Base+WindowSize {
		return nil
	}
	off := int(start - Base)
	if off >= len(m.dram) {
		return nil
	}
	end := off + length
	if end > len(m.dram) {
		end = len(m.dram)
	}
	out := make([]byte, end-off)
	copy(out, m.dram[off:end])
	return out
}
