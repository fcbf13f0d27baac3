package riscv

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	instructionLineRe = regexp.MustCompile(`^\s*([0-9a-f]+):\s+([a-z.]+)(?:\s+(.*))?$`)
	labelDefRe        = regexp.MustCompile(`^\s*([0-9a-f]+)\s*<([^>]+)>:`)
)

// ParseObjdump parses disassembler (objdump-style) output into an ordered
// instruction sequence. It runs two passes: the first collects every label
// definition so that forward branch targets resolve, the second parses the
// instruction lines. Parsing never fails outright; lines with unrecognized
// mnemonics degrade to OpVerbatim and malformed lines are dropped.
func ParseObjdump(input string) []Instruction {
	lines := strings.Split(input, "\n")
	labels := collectLabels(lines)

	var instructions []Instruction
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := labelDefRe.FindStringSubmatch(line); m != nil {
			instructions = append(instructions, Instruction{Op: OpLabel, Text: m[2]})
			continue
		}

		if strings.Contains(line, ".word") || strings.Contains(line, ".short") {
			instructions = append(instructions, Instruction{
				Op:   OpVerbatim,
				Text: strings.TrimSpace(line),
			})
			continue
		}

		m := instructionLineRe.FindStringSubmatch(line)
		if m == nil {
			// file format banner, section header or similar
			continue
		}
		mnemonic, operands := m[2], m[3]

		parse, known := mnemonics[mnemonic]
		if !known {
			instructions = append(instructions, Instruction{
				Op:   OpVerbatim,
				Text: "    " + strings.TrimSpace(mnemonic+" "+operands),
			})
			continue
		}
		if ins, ok := parse(strings.TrimSpace(operands), labels); ok {
			instructions = append(instructions, ins)
		}
	}

	return instructions
}

// LooksLikeObjdump reports whether the input text has the shape of
// disassembler output rather than hand-written assembly.
func LooksLikeObjdump(input string) bool {
	for _, line := range strings.Split(input, "\n") {
		if instructionLineRe.MatchString(line) || labelDefRe.MatchString(line) {
			return true
		}
	}
	return false
}

// collectLabels records every "<symbol>:" definition line as address → name.
// Labels are not deduplicated; a later definition at the same address wins.
func collectLabels(lines []string) labelTable {
	labels := labelTable{}
	for _, line := range lines {
		m := labelDefRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		addr, err := strconv.ParseUint(m[1], 16, 64)
		if err != nil {
			continue
		}
		labels[addr] = m[2]
	}
	return labels
}
