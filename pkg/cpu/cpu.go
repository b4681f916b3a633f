package cpu

import (
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
)

// ResetVector is the PC value after reset, the start of the RDRAM window.
const ResetVector uint32 = 0x80000000

// CPU models the R4300 interpreter core: 32 GPRs, HI/LO, PC and a pending
// branch target, plus the COP0 bank and load-linked flag carried for
// completeness (no implemented opcode touches them).
//
// The core never faults: an out-of-range fetch reads as the zero word
// (which decodes to an unrecognized no-op), out-of-range loads leave the
// target register unchanged, and unimplemented opcodes retire with no
// effect. Jumps take effect on the very next step; the hardware branch
// delay slot is deliberately not modeled.
type CPU struct {
	GPR    [32]uint32
	Hi     uint32
	Lo     uint32
	PC     uint32
	NextPC uint32 // pending transfer target; 0 means none
	COP0   [32]uint32
	LLBit  bool

	Running bool

	// ZeroExtendLogical selects hardware-style zero extension of the ANDI
	// and ORI immediates. The default (false) reproduces the reference
	// behavior of sign-extending the immediate for every I-family opcode,
	// logical ops included.
	ZeroExtendLogical bool
}

// Registers is a read-only snapshot of the register file.
type Registers struct {
	GPR [32]uint32
	Hi  uint32
	Lo  uint32
	PC  uint32
}

// NewCPU returns a CPU in the halted, reset state.
func NewCPU() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset returns the core to the initial register layout and halts it.
// Mode flags are preserved.
func (c *CPU) Reset() {
	c.GPR = [32]uint32{}
	c.Hi = 0
	c.Lo = 0
	c.PC = ResetVector
	c.NextPC = 0
	c.COP0 = [32]uint32{}
	c.LLBit = false
	c.Running = false
}

// Snapshot copies the register file for host-side display.
func (c *CPU) Snapshot() Registers {
	return Registers{
		GPR: c.GPR,
		Hi:  c.Hi,
		Lo:  c.Lo,
		PC:  c.PC,
	}
}

// setGPR writes a general-purpose register. Register 0 is hard-wired to
// zero; the write is discarded here rather than in storage.
func (c *CPU) setGPR(idx uint32, val uint32) {
	if idx == 0 {
		return
	}
	c.GPR[idx] = val
}

// Step fetches, decodes and executes one instruction against m, then
// retires it. A no-op while halted.
func (c *CPU) Step(m *mem.RDRAM) {
	if !c.Running {
		return
	}

	inst := Decode(m.ReadWord(c.PC))
	c.execute(inst, m)

	if c.NextPC != 0 {
		c.PC = c.NextPC
		c.NextPC = 0
	} else {
		c.PC += 4
	}
}

func (c *CPU) execute(inst Instruction, m *mem.RDRAM) {
	if !inst.Recognized {
		return
	}

	switch inst.Family {
	case FamilyReg:
		c.executeReg(inst)
	case FamilyImm:
		c.executeImm(inst, m)
	case FamilyJump:
		c.executeJump(inst)
	}
}

func (c *CPU) executeReg(inst Instruction) {
	rs := c.GPR[inst.Rs]
	rt := c.GPR[inst.Rt]

	switch inst.Funct {
	case FnADD:
		c.setGPR(inst.Rd, rs+rt) // no overflow trap
	case FnAND:
		c.setGPR(inst.Rd, rs&rt)
	case FnOR:
		c.setGPR(inst.Rd, rs|rt)
	case FnSLT:
		if int32(rs) < int32(rt) {
			c.setGPR(inst.Rd, 1)
		} else {
			c.setGPR(inst.Rd, 0)
		}
	}
}

func (c *CPU) executeImm(inst Instruction, m *mem.RDRAM) {
	rs := c.GPR[inst.Rs]
	imm := uint32(int32(int16(inst.Imm))) // sign-extended
	if c.ZeroExtendLogical && (inst.Opcode == OpANDI || inst.Opcode == OpORI) {
		imm = uint32(inst.Imm)
	}

	switch inst.Opcode {
	case OpADDI:
		c.setGPR(inst.Rt, rs+imm)
	case OpANDI:
		c.setGPR(inst.Rt, rs&imm)
	case OpORI:
		c.setGPR(inst.Rt, rs|imm)
	case OpLW:
		if val, ok := m.LoadWord(rs + imm); ok {
			c.setGPR(inst.Rt, val)
		}
		// failed loads leave rt untouched
	}
}

func (c *CPU) executeJump(inst Instruction) {
	target := (c.PC & 0xF0000000) | (inst.Target << 2)
	if inst.Opcode == OpJAL {
		c.setGPR(31, c.PC+8)
	}
	c.NextPC = target
}
