// Package asm assembles the implemented MIPS subset into ROM images the
// memory loader accepts. It exists for building test programs; it is not a
// general MIPS assembler.
package asm

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/cpu"
	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/mem"
)

// regOps are three-register instructions: OP rd, rs, rt.
var regOps = map[string]uint32{
	"ADD": cpu.FnADD,
	"AND": cpu.FnAND,
	"OR":  cpu.FnOR,
	"SLT": cpu.FnSLT,
}

// immOps are register-immediate instructions: OP rt, rs, imm.
var immOps = map[string]uint32{
	"ADDI": cpu.OpADDI,
	"ANDI": cpu.OpANDI,
	"ORI":  cpu.OpORI,
}

// jumpOps take a label or absolute address.
var jumpOps = map[string]uint32{
	"J":   cpu.OpJ,
	"JAL": cpu.OpJAL,
}

type parsedLine struct {
	lineNo   int
	mnemonic string
	operands []string
}

// Assemble translates source into instruction words. Programs are laid out
// from the reset vector; labels resolve to their virtual address.
func Assemble(source string) ([]uint32, error) {
	lines, labels, err := parse(source)
	if err != nil {
		return nil, err
	}

	words := make([]uint32, 0, len(lines))
	for _, line := range lines {
		word, err := encode(line, labels)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.lineNo, err)
		}
		words = append(words, word)
	}
	return words, nil
}

// AssembleImage assembles source and prepends the ROM image header, so the
// result can be handed straight to the memory loader.
func AssembleImage(source string) ([]byte, error) {
	words, err := Assemble(source)
	if err != nil {
		return nil, err
	}
	rom := make([]byte, mem.HeaderSize+len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(rom[mem.HeaderSize+i*4:], w)
	}
	return rom, nil
}

// parse is the first pass: strip comments, collect labels at their word
// addresses, split mnemonics from operands.
func parse(source string) ([]parsedLine, map[string]uint32, error) {
	var lines []parsedLine
	labels := make(map[string]uint32)
	addr := cpu.ResetVector

	for lineNo, raw := range strings.Split(source, "\n") {
		line := raw
		if i := strings.IndexAny(line, ";#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for {
			colon := strings.Index(line, ":")
			if colon < 0 {
				break
			}
			label := strings.TrimSpace(line[:colon])
			if label == "" || strings.ContainsAny(label, " \t") {
				return nil, nil, fmt.Errorf("line %d: bad label %q", lineNo+1, label)
			}
			if _, dup := labels[label]; dup {
				return nil, nil, fmt.Errorf("line %d: duplicate label %q", lineNo+1, label)
			}
			labels[label] = addr
			line = strings.TrimSpace(line[colon+1:])
		}
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		mnemonic := strings.ToUpper(fields[0])
		rest := strings.TrimSpace(line[len(fields[0]):])
		var operands []string
		if rest != "" {
			for _, op := range strings.Split(rest, ",") {
				operands = append(operands, strings.TrimSpace(op))
			}
		}

		lines = append(lines, parsedLine{lineNo: lineNo + 1, mnemonic: mnemonic, operands: operands})
		addr += 4
	}

	return lines, labels, nil
}

// encode is the second pass: one instruction word per parsed line.
func encode(line parsedLine, labels map[string]uint32) (uint32, error) {
	if line.mnemonic == "NOP" {
		if len(line.operands) != 0 {
			return 0, fmt.Errorf("NOP takes no operands")
		}
		return 0, nil
	}

	if line.mnemonic == ".WORD" {
		if len(line.operands) != 1 {
			return 0, fmt.Errorf(".word takes one value")
		}
		val, err := parseNumber(line.operands[0])
		if err != nil {
			return 0, err
		}
		return uint32(val), nil
	}

	if funct, ok := regOps[line.mnemonic]; ok {
		if len(line.operands) != 3 {
			return 0, fmt.Errorf("%s takes rd, rs, rt", line.mnemonic)
		}
		rd, err := parseRegister(line.operands[0])
		if err != nil {
			return 0, err
		}
		rs, err := parseRegister(line.operands[1])
		if err != nil {
			return 0, err
		}
		rt, err := parseRegister(line.operands[2])
		if err != nil {
			return 0, err
		}
		return cpu.EncodeReg(funct, rs, rt, rd), nil
	}

	if opcode, ok := immOps[line.mnemonic]; ok {
		if len(line.operands) != 3 {
			return 0, fmt.Errorf("%s takes rt, rs, imm", line.mnemonic)
		}
		rt, err := parseRegister(line.operands[0])
		if err != nil {
			return 0, err
		}
		rs, err := parseRegister(line.operands[1])
		if err != nil {
			return 0, err
		}
		imm, err := parseNumber(line.operands[2])
		if err != nil {
			return 0, err
		}
		return cpu.EncodeImm(opcode, rs, rt, uint16(imm)), nil
	}

	if line.mnemonic == "LW" {
		if len(line.operands) != 2 {
			return 0, fmt.Errorf("LW takes rt, offset(rs)")
		}
		rt, err := parseRegister(line.operands[0])
		if err != nil {
			return 0, err
		}
		offset, rs, err := parseOffsetBase(line.operands[1])
		if err != nil {
			return 0, err
		}
		return cpu.EncodeImm(cpu.OpLW, rs, rt, offset), nil
	}

	if opcode, ok := jumpOps[line.mnemonic]; ok {
		if len(line.operands) != 1 {
			return 0, fmt.Errorf("%s takes a target", line.mnemonic)
		}
		target := line.operands[0]
		addr, found := labels[target]
		if !found {
			val, err := parseNumber(target)
			if err != nil {
				return 0, fmt.Errorf("unknown target %q", target)
			}
			addr = uint32(val)
		}
		return cpu.EncodeJump(opcode, (addr>>2)&0x03FFFFFF), nil
	}

	return 0, fmt.Errorf("unknown mnemonic %q", line.mnemonic)
}

// parseRegister accepts $n or rn, n in 0..31.
func parseRegister(s string) (uint32, error) {
	t := strings.ToLower(s)
	if strings.HasPrefix(t, "$") || strings.HasPrefix(t, "r") {
		t = t[1:]
	}
	n, err := strconv.ParseUint(t, 10, 8)
	if err != nil || n > 31 {
		return 0, fmt.Errorf("bad register %q", s)
	}
	return uint32(n), nil
}

// parseNumber accepts decimal, hex (0x) and negative literals.
func parseNumber(s string) (int64, error) {
	val, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		// Large unsigned hex values (e.g. 0xDEADBEEF).
		uval, uerr := strconv.ParseUint(s, 0, 32)
		if uerr != nil {
			return 0, fmt.Errorf("bad number %q", s)
		}
		return int64(uval), nil
	}
	return val, nil
}

// parseOffsetBase splits "offset(rs)" into its parts. A bare "(rs)" means
// offset 0.
func parseOffsetBase(s string) (uint16, uint32, error) {
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return 0, 0, fmt.Errorf("bad memory operand %q", s)
	}
	offset := int64(0)
	if open > 0 {
		var err error
		offset, err = parseNumber(s[:open])
		if err != nil {
			return 0, 0, err
		}
	}
	rs, err := parseRegister(s[open+1 : len(s)-1])
	if err != nil {
		return 0, 0, err
	}
	return uint16(offset), rs, nil
}
