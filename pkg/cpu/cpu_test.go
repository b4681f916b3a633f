package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
)

// loadProgram writes instruction words big-endian starting at the reset
// vector and returns a running CPU pointed at them.
func loadProgram(m *mem.RDRAM, words ...uint32) *CPU {
	addr := ResetVector
	for _, w := range words {
		m.WriteWord(addr, w)
		addr += 4
	}
	c := NewCPU()
	c.Running = true
	return c
}

func TestRegFamily(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name   string
		funct  uint32
		rs, rt uint32
		want   uint32
	}{
		{"add", FnADD, 5, 3, 8},
		{"and", FnAND, 5, 3, 1},
		{"or", FnOR, 5, 3, 7},
		{"slt false", FnSLT, 5, 3, 0},
		{"slt true", FnSLT, 2, 9, 1},
		{"slt signed", FnSLT, 0xFFFFFFFF, 1, 1}, // -1 < 1
	}

	for _, entry := range table {
		m := mem.NewRDRAM(0)
		c := loadProgram(m, EncodeReg(entry.funct, 1, 2, 3))
		c.GPR[1] = entry.rs
		c.GPR[2] = entry.rt

		c.Step(m)

		assert.Equal(entry.want, c.GPR[3], entry.name)
		assert.Equal(ResetVector+4, c.PC, entry.name)
	}
}

func TestADDISignExtension(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	c := loadProgram(m, EncodeImm(OpADDI, 1, 2, 0xFFFF)) // rt = rs + (-1)
	c.GPR[1] = 10

	c.Step(m)

	assert.Equal(uint32(9), c.GPR[2])
}

func TestLogicalImmediateModes(t *testing.T) {
	assert := assert.New(t)

	// Reference behavior: the immediate is sign-extended even for the
	// logical ops, so ORI with 0x8000 sets the upper half too.
	m := mem.NewRDRAM(0)
	c := loadProgram(m, EncodeImm(OpORI, 1, 2, 0x8000))
	c.Step(m)
	assert.Equal(uint32(0xFFFF8000), c.GPR[2], "reference mode")

	// Corrected mode zero-extends ANDI/ORI immediates.
	m = mem.NewRDRAM(0)
	c = loadProgram(m, EncodeImm(OpORI, 1, 2, 0x8000))
	c.ZeroExtendLogical = true
	c.Step(m)
	assert.Equal(uint32(0x00008000), c.GPR[2], "corrected mode")

	m = mem.NewRDRAM(0)
	c = loadProgram(m, EncodeImm(OpANDI, 1, 2, 0xFF00))
	c.GPR[1] = 0xFFFF00FF
	c.Step(m)
	assert.Equal(uint32(0xFFFF0000), c.GPR[2], "reference ANDI keeps sign bits")

	m = mem.NewRDRAM(0)
	c = loadProgram(m, EncodeImm(OpANDI, 1, 2, 0xFF00))
	c.ZeroExtendLogical = true
	c.GPR[1] = 0xFFFF00FF
	c.Step(m)
	assert.Equal(uint32(0x00000000), c.GPR[2], "corrected ANDI masks to 16 bits")
}

func TestLW(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	m.WriteWord(ResetVector+0x100, 0xCAFEBABE)

	c := loadProgram(m, EncodeImm(OpLW, 1, 2, 0x100))
	c.GPR[1] = ResetVector
	c.Step(m)
	assert.Equal(uint32(0xCAFEBABE), c.GPR[2])

	// Out-of-range load leaves rt untouched, no zero fill.
	c = loadProgram(m, EncodeImm(OpLW, 1, 2, 0))
	c.GPR[1] = 0x10000000
	c.GPR[2] = 0x55555555
	c.Step(m)
	assert.Equal(uint32(0x55555555), c.GPR[2])
}

func TestJump(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	c := NewCPU()
	c.Running = true
	c.PC = 0x80001000
	m.WriteWord(0x80001000, EncodeJump(OpJ, 0x000001))

	c.Step(m)

	// Transfer applies immediately; no delay slot.
	assert.Equal(uint32(0x80000004), c.PC)
	assert.Equal(uint32(0), c.NextPC)
	assert.Equal(uint32(0), c.GPR[31], "J must not link")
}

func TestJumpAndLink(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	c := NewCPU()
	c.Running = true
	c.PC = 0x80001000
	m.WriteWord(0x80001000, EncodeJump(OpJAL, 0x000001))

	c.Step(m)

	assert.Equal(uint32(0x80000004), c.PC)
	assert.Equal(uint32(0x80001008), c.GPR[31])
}

func TestRegisterZeroHardwired(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	c := loadProgram(m,
		EncodeImm(OpADDI, 0, 0, 0x0044), // r0 = r0 + 0x44, must be dropped
		EncodeReg(FnADD, 0, 0, 1),       // r1 = r0 + r0
	)

	c.Step(m)
	assert.Equal(uint32(0), c.GPR[0])

	c.Step(m)
	assert.Equal(uint32(0), c.GPR[1])
}

func TestUnrecognizedIsNoOp(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	c := loadProgram(m,
		EncodeReg(0x3F, 1, 2, 3),     // unknown function field
		EncodeImm(0x3E, 1, 2, 0x1234), // unknown opcode
	)
	c.GPR[1] = 7
	c.GPR[2] = 9

	before := c.Snapshot()
	c.Step(m)
	c.Step(m)
	after := c.Snapshot()

	assert.Equal(before.GPR, after.GPR)
	assert.Equal(ResetVector+8, after.PC)
}

func TestFetchOutOfRange(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	c := NewCPU()
	c.Running = true
	c.PC = 0x00000000 // outside the window; fetch reads the zero word

	c.Step(m)

	assert.Equal(uint32(4), c.PC)
	assert.Equal([32]uint32{}, c.GPR)
}

func TestStepWhileHalted(t *testing.T) {
	assert := assert.New(t)

	m := mem.NewRDRAM(0)
	m.WriteWord(ResetVector, EncodeImm(OpADDI, 0, 1, 1))

	c := NewCPU()
	c.Step(m)

	assert.Equal(ResetVector, c.PC)
	assert.Equal(uint32(0), c.GPR[1])
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	c := NewCPU()
	c.Running = true
	c.GPR[5] = 99
	c.PC = 0x80004000
	c.NextPC = 0x80000010
	c.Hi = 1
	c.Lo = 2

	c.Reset()

	assert.False(c.Running)
	assert.Equal(ResetVector, c.PC)
	assert.Equal(uint32(0), c.NextPC)
	assert.Equal([32]uint32{}, c.GPR)
	assert.Equal(uint32(0), c.Hi)
	assert.Equal(uint32(0), c.Lo)
}

func TestDecodeFields(t *testing.T) {
	assert := assert.New(t)

	inst := Decode(EncodeImm(OpADDI, 3, 7, 0xBEEF))
	assert.Equal(FamilyImm, inst.Family)
	assert.True(inst.Recognized)
	assert.Equal(uint32(3), inst.Rs)
	assert.Equal(uint32(7), inst.Rt)
	assert.Equal(uint16(0xBEEF), inst.Imm)

	inst = Decode(EncodeReg(FnSLT, 1, 2, 3))
	assert.Equal(FamilyReg, inst.Family)
	assert.True(inst.Recognized)
	assert.Equal(uint32(3), inst.Rd)

	inst = Decode(0x00000000) // SLL r0,r0,0 in hardware; unimplemented here
	assert.Equal(FamilyReg, inst.Family)
	assert.False(inst.Recognized)
}
