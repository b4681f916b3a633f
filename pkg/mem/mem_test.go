package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteRoundTrip(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(0)

	addrs := []uint32{Base, Base + 4, Base + 0x1000, Base + uint32(m.Size()) - 4}
	for _, addr := range addrs {
		m.WriteWord(addr, 0xDEADBEEF)
		assert.Equal(uint32(0xDEADBEEF), m.ReadWord(addr), "addr 0x%08X", addr)
	}
}

func TestBigEndianLayout(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(0)
	m.WriteWord(Base, 0x01020304)

	dump := m.Dump(Base, 4)
	assert.Equal([]byte{0x01, 0x02, 0x03, 0x04}, dump)
}

func TestOutOfRangeAccess(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(0)
	m.WriteWord(Base, 0x12345678)

	bad := []uint32{
		0x00000000,
		Base - 4,
		Base + WindowSize,
		Base + uint32(m.Size()), // inside the window, past the buffer
		0xFFFFFFFC,
	}
	for _, addr := range bad {
		assert.Equal(uint32(0), m.ReadWord(addr), "read 0x%08X", addr)
		m.WriteWord(addr, 0xAAAAAAAA) // must not disturb anything
	}

	assert.Equal(uint32(0x12345678), m.ReadWord(Base))
}

func TestMisalignedAccess(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(0)
	m.WriteWord(Base, 0x12345678)

	m.WriteWord(Base+2, 0xFFFFFFFF)
	assert.Equal(uint32(0), m.ReadWord(Base+2))
	assert.Equal(uint32(0x12345678), m.ReadWord(Base))
}

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(0)

	assert.ErrorIs(m.LoadImage(nil), ErrImageTooSmall)
	assert.ErrorIs(m.LoadImage([]byte{}), ErrImageTooSmall)

	// Shorter than the header: succeeds, copies nothing.
	assert.NoError(m.LoadImage(make([]byte, 16)))
	assert.Equal(uint32(0), m.ReadWord(Base))

	// Header plus two words: payload lands at offset 0.
	rom := make([]byte, HeaderSize+8)
	copy(rom[HeaderSize:], []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88})
	assert.NoError(m.LoadImage(rom))
	assert.Equal(uint32(0x11223344), m.ReadWord(Base))
	assert.Equal(uint32(0x55667788), m.ReadWord(Base+4))
}

func TestLoadImageTruncates(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(64)

	rom := make([]byte, HeaderSize+128)
	for i := range rom[HeaderSize:] {
		rom[HeaderSize+i] = byte(i)
	}
	assert.NoError(m.LoadImage(rom))

	dump := m.Dump(Base, 64)
	assert.Len(dump, 64)
	assert.Equal(byte(63), dump[63])
}

func TestDumpBounds(t *testing.T) {
	assert := assert.New(t)

	m := NewRDRAM(64)

	assert.Nil(m.Dump(0, 16))
	assert.Nil(m.Dump(Base, 0))
	assert.Nil(m.Dump(Base+WindowSize, 16))
	assert.Nil(m.Dump(Base+64, 16))

	// Clamped at the end of the buffer.
	assert.Len(m.Dump(Base+32, 1024), 32)
}
