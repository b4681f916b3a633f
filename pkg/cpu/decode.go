package cpu

// Primary opcodes (bits [31:26]) of the implemented subset. Opcode 0 selects
// the register-register family keyed by the function field; 2 and 3 are the
// unconditional jumps; everything else is an immediate-family opcode.
const (
	OpSpecial uint32 = 0x00
	OpJ       uint32 = 0x02
	OpJAL     uint32 = 0x03
	OpADDI    uint32 = 0x08
	OpANDI    uint32 = 0x0C
	OpORI     uint32 = 0x0D
	OpLW      uint32 = 0x23
)

// Function field values (bits [5:0]) of the implemented R-family subset.
const (
	FnADD uint32 = 0x20
	FnAND uint32 = 0x24
	FnOR  uint32 = 0x25
	FnSLT uint32 = 0x2A
)

// Family classifies an instruction word by its primary opcode.
type Family int

const (
	FamilyReg Family = iota
	FamilyImm
	FamilyJump
)

// Instruction is a decoded instruction word. Recognized is false for any
// opcode/function the core does not implement; the executor retires those
// without effect instead of trapping, so the silent-no-op model is an
// explicit, testable decode outcome rather than a fallen-through default.
type Instruction struct {
	Word   uint32
	Family Family

	Opcode uint32
	Funct  uint32
	Rs     uint32
	Rt     uint32
	Rd     uint32
	Shamt  uint32
	Imm    uint16
	Target uint32

	Recognized bool
}

// Decode splits an instruction word into its fields and classifies it.
func Decode(word uint32) Instruction {
	inst := Instruction{
		Word:   word,
		Opcode: (word >> 26) & 0x3F,
		Rs:     (word >> 21) & 0x1F,
		Rt:     (word >> 16) & 0x1F,
		Rd:     (word >> 11) & 0x1F,
		Shamt:  (word >> 6) & 0x1F,
		Funct:  word & 0x3F,
		Imm:    uint16(word & 0xFFFF),
		Target: word & 0x03FFFFFF,
	}

	switch inst.Opcode {
	case OpSpecial:
		inst.Family = FamilyReg
		switch inst.Funct {
		case FnADD, FnAND, FnOR, FnSLT:
			inst.Recognized = true
		}
	case OpJ, OpJAL:
		inst.Family = FamilyJump
		inst.Recognized = true
	default:
		inst.Family = FamilyImm
		switch inst.Opcode {
		case OpADDI, OpANDI, OpORI, OpLW:
			inst.Recognized = true
		}
	}

	return inst
}

// EncodeReg builds an R-family instruction word.
func EncodeReg(funct, rs, rt, rd uint32) uint32 {
	return (rs&0x1F)<<21 | (rt&0x1F)<<16 | (rd&0x1F)<<11 | funct&0x3F
}

// EncodeImm builds an I-family instruction word.
func EncodeImm(opcode, rs, rt uint32, imm uint16) uint32 {
	return (opcode&0x3F)<<26 | (rs&0x1F)<<21 | (rt&0x1F)<<16 | uint32(imm)
}

// EncodeJump builds a J-family instruction word from a 26-bit target field.
func EncodeJump(opcode, target uint32) uint32 {
	return (opcode&0x3F)<<26 | target&0x03FFFFFF
}
