package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/cpu"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
)

func TestAssembleBasic(t *testing.T) {
	assert := assert.New(t)

	words, err := Assemble(`
		; add two immediates
		ADDI $1, $0, 5
		ADDI $2, $0, 3
		ADD  $3, $1, $2
		NOP
	`)
	assert.NoError(err)
	assert.Equal([]uint32{
		cpu.EncodeImm(cpu.OpADDI, 0, 1, 5),
		cpu.EncodeImm(cpu.OpADDI, 0, 2, 3),
		cpu.EncodeReg(cpu.FnADD, 1, 2, 3),
		0,
	}, words)
}

func TestAssembleLabels(t *testing.T) {
	assert := assert.New(t)

	words, err := Assemble(`
		start:
			ADDI $1, $0, 1
		loop:
			J loop
			JAL start
	`)
	assert.NoError(err)

	// loop is the second instruction: 0x80000004.
	assert.Equal(cpu.EncodeJump(cpu.OpJ, 0x80000004>>2), words[1])
	assert.Equal(cpu.EncodeJump(cpu.OpJAL, 0x80000000>>2), words[2])
}

func TestAssembleLW(t *testing.T) {
	assert := assert.New(t)

	words, err := Assemble(`LW $2, 0x100($1)`)
	assert.NoError(err)
	assert.Equal(cpu.EncodeImm(cpu.OpLW, 1, 2, 0x100), words[0])

	words, err = Assemble(`LW $2, ($1)`)
	assert.NoError(err)
	assert.Equal(cpu.EncodeImm(cpu.OpLW, 1, 2, 0), words[0])
}

func TestAssembleNegativeImmediate(t *testing.T) {
	assert := assert.New(t)

	words, err := Assemble(`ADDI $1, $2, -1`)
	assert.NoError(err)
	assert.Equal(cpu.EncodeImm(cpu.OpADDI, 2, 1, 0xFFFF), words[0])
}

func TestAssembleErrors(t *testing.T) {
	assert := assert.New(t)

	cases := []string{
		"FROB $1, $2, $3",
		"ADD $1, $2",
		"ADDI $1, $2, banana",
		"J nowhere",
		"ADD $1, $2, $99",
		"dup: NOP\ndup: NOP",
	}
	for _, src := range cases {
		_, err := Assemble(src)
		assert.Error(err, src)
	}
}

func TestAssembleImageRunsOnCore(t *testing.T) {
	assert := assert.New(t)

	rom, err := AssembleImage(`
			ADDI $1, $0, 5
			ADDI $2, $0, 3
			ADD  $3, $1, $2
		done:
			J done
	`)
	assert.NoError(err)

	m := mem.NewRDRAM(0)
	assert.NoError(m.LoadImage(rom))

	c := cpu.NewCPU()
	c.Running = true
	for i := 0; i < 8; i++ {
		c.Step(m)
	}

	assert.Equal(uint32(8), c.GPR[3])
	assert.Equal(uint32(0x8000000C), c.PC, "parked on the jump-to-self")
}
