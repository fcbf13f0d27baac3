package riscv

import (
	"regexp"
	"strconv"
	"strings"
)

// labelTable maps numeric instruction addresses to symbolic label names.
// It is built in a first pass over disassembly input and read-only afterwards;
// for hand-written assembly it stays empty.
type labelTable map[uint64]string

// operandParser parses the operand text of one mnemonic into an instruction.
// It reports false if the operands do not match the expected shape, in which
// case the line is dropped.
type operandParser func(operands string, labels labelTable) (Instruction, bool)

// mnemonics maps each recognized mnemonic to its operand parser. A mnemonic
// missing here is unrecognized, not malformed: the objdump parser carries such
// lines through as OpVerbatim while the hand-written parser drops them.
var mnemonics = map[string]operandParser{
	"li":     parseLi,
	"addi":   parseAddi,
	"add":    regArith(OpAdd, Double),
	"addw":   regArith(OpAdd, Word),
	"sub":    regArith(OpSub, Double),
	"subw":   regArith(OpSub, Word),
	"ble":    branch(OpBle),
	"blez":   branchZero(OpBle),
	"bge":    branch(OpBge),
	"blt":    branch(OpBlt),
	"bgt":    branch(OpBgt),
	"bne":    branch(OpBne),
	"call":   parseCall,
	"j":      parseJ,
	"jr":     parseJr,
	"lui":    parseLui,
	"sd":     store(Double),
	"sw":     store(Word),
	"ld":     load(Double),
	"lw":     load(Word),
	"slli":   parseSlli,
	"mv":     parseMv,
	"sext.w": parseSextW,
	"ecall":  parseECall,
}

// ParseAsm parses hand-written RISC-V assembly text: one instruction per
// line, a whitespace-delimited mnemonic followed by comma-separated operands.
// Blank lines are ignored, label definitions (name:) and directives (.name)
// are carried through as OpLabel and OpDirective, and lines that cannot be
// parsed are dropped.
func ParseAsm(input string) []Instruction {
	var instructions []Instruction

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := strings.CutSuffix(line, ":"); ok && !strings.ContainsAny(name, " \t") {
			instructions = append(instructions, Instruction{Op: OpLabel, Text: name})
			continue
		}

		if rest, ok := strings.CutPrefix(line, "."); ok {
			name, operands, _ := strings.Cut(rest, " ")
			instructions = append(instructions, Instruction{
				Op:       OpDirective,
				Text:     name,
				Operands: strings.TrimSpace(operands),
			})
			continue
		}

		mnemonic, operands := splitMnemonic(line)
		parse, ok := mnemonics[mnemonic]
		if !ok {
			continue
		}
		if ins, ok := parse(operands, labelTable{}); ok {
			instructions = append(instructions, ins)
		}
	}

	return instructions
}

func parseLi(operands string, _ labelTable) (Instruction, bool) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Instruction{}, false
	}
	dest, ok := RegisterByName(parts[0])
	if !ok {
		return Instruction{}, false
	}
	imm, ok := parseImm(parts[1])
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpLi, Dest: dest, Imm: imm}, true
}

// parseAddi handles both the plain form "addi a3,a3,-1" and the relocation
// pseudo-instruction form "addi a1,a0,176 # 100b0 <buf>" that compilers emit
// when the immediate is the low part of a label address.
func parseAddi(operands string, _ labelTable) (Instruction, bool) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Instruction{}, false
	}
	dest, ok := RegisterByName(parts[0])
	if !ok {
		return Instruction{}, false
	}
	src, ok := RegisterByName(parts[1])
	if !ok {
		return Instruction{}, false
	}

	immPart, comment := splitComment(parts[2])
	if label, ok := labelFromComment(comment); ok {
		return Instruction{
			Op:   OpAddl,
			Dest: dest,
			Src:  src,
			Val:  LabelVal(label, RelocLo),
		}, true
	}

	imm, ok := parseImm(immPart)
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpAddi, Dest: dest, Src: src, Imm: imm}, true
}

func regArith(op Op, width Width) operandParser {
	return func(operands string, _ labelTable) (Instruction, bool) {
		parts := splitOperands(operands)
		if len(parts) != 3 {
			return Instruction{}, false
		}
		dest, ok := RegisterByName(parts[0])
		if !ok {
			return Instruction{}, false
		}
		arg1, ok := RegisterByName(parts[1])
		if !ok {
			return Instruction{}, false
		}
		arg2, ok := RegisterByName(parts[2])
		if !ok {
			return Instruction{}, false
		}
		return Instruction{Op: op, Width: width, Dest: dest, Arg1: arg1, Arg2: arg2}, true
	}
}

func branch(op Op) operandParser {
	return func(operands string, labels labelTable) (Instruction, bool) {
		parts := splitOperands(operands)
		if len(parts) != 3 {
			return Instruction{}, false
		}
		arg1, ok := RegisterByName(parts[0])
		if !ok {
			return Instruction{}, false
		}
		arg2, ok := RegisterByName(parts[1])
		if !ok {
			return Instruction{}, false
		}
		target, ok := parseBranchTarget(parts[2], labels)
		if !ok {
			return Instruction{}, false
		}
		return Instruction{Op: op, Arg1: arg1, Arg2: arg2, Val: target}, true
	}
}

// branchZero parses the one-register compare-against-zero form, e.g.
// "blez a3,100e6 <.end>" which is ble with the zero register as arg2.
func branchZero(op Op) operandParser {
	return func(operands string, labels labelTable) (Instruction, bool) {
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return Instruction{}, false
		}
		arg1, ok := RegisterByName(parts[0])
		if !ok {
			return Instruction{}, false
		}
		target, ok := parseBranchTarget(parts[1], labels)
		if !ok {
			return Instruction{}, false
		}
		return Instruction{Op: op, Arg1: arg1, Arg2: X0, Val: target}, true
	}
}

func parseCall(operands string, labels labelTable) (Instruction, bool) {
	target, ok := parseBranchTarget(strings.TrimSpace(operands), labels)
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpCall, Val: target}, true
}

func parseJ(operands string, labels labelTable) (Instruction, bool) {
	target, ok := parseBranchTarget(strings.TrimSpace(operands), labels)
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpJ, Val: target}, true
}

func parseJr(operands string, _ labelTable) (Instruction, bool) {
	target, ok := RegisterByName(strings.TrimSpace(operands))
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpJr, Src: target}, true
}

// parseLui always produces a label operand with the high relocation mark:
// either the label named in the trailing comment or, without one, the raw
// page value spelled as a hex label so the address idiom survives rendering.
func parseLui(operands string, _ labelTable) (Instruction, bool) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Instruction{}, false
	}
	dest, ok := RegisterByName(parts[0])
	if !ok {
		return Instruction{}, false
	}

	immPart, comment := splitComment(parts[1])
	if label, ok := labelFromComment(comment); ok {
		return Instruction{Op: OpLui, Dest: dest, Val: LabelVal(label, RelocHi)}, true
	}

	imm, ok := parseImm(immPart)
	if !ok {
		return Instruction{}, false
	}
	label := "0x" + strconv.FormatInt(int64(imm), 16)
	return Instruction{Op: OpLui, Dest: dest, Val: LabelVal(label, RelocHi)}, true
}

func store(width Width) operandParser {
	return func(operands string, _ labelTable) (Instruction, bool) {
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return Instruction{}, false
		}
		src, ok := RegisterByName(parts[0])
		if !ok {
			return Instruction{}, false
		}
		dest, ok := parseMemOperand(parts[1])
		if !ok {
			return Instruction{}, false
		}
		return Instruction{Op: OpStore, Width: width, Src: src, Val: dest}, true
	}
}

func load(width Width) operandParser {
	return func(operands string, _ labelTable) (Instruction, bool) {
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return Instruction{}, false
		}
		dest, ok := RegisterByName(parts[0])
		if !ok {
			return Instruction{}, false
		}
		src, ok := parseMemOperand(parts[1])
		if !ok {
			return Instruction{}, false
		}
		return Instruction{Op: OpLoad, Width: width, Dest: dest, Val: src}, true
	}
}

func parseSlli(operands string, _ labelTable) (Instruction, bool) {
	parts := splitOperands(operands)
	if len(parts) != 3 {
		return Instruction{}, false
	}
	dest, ok := RegisterByName(parts[0])
	if !ok {
		return Instruction{}, false
	}
	src, ok := RegisterByName(parts[1])
	if !ok {
		return Instruction{}, false
	}
	imm, ok := parseImm(parts[2])
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpSlli, Dest: dest, Src: src, Imm: imm}, true
}

func parseMv(operands string, _ labelTable) (Instruction, bool) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Instruction{}, false
	}
	dest, ok := RegisterByName(parts[0])
	if !ok {
		return Instruction{}, false
	}
	src, ok := RegisterByName(parts[1])
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpMv, Dest: dest, Src: src}, true
}

func parseSextW(operands string, _ labelTable) (Instruction, bool) {
	parts := splitOperands(operands)
	if len(parts) != 2 {
		return Instruction{}, false
	}
	dest, ok := RegisterByName(parts[0])
	if !ok {
		return Instruction{}, false
	}
	src, ok := RegisterByName(parts[1])
	if !ok {
		return Instruction{}, false
	}
	return Instruction{Op: OpSextW, Dest: dest, Src: src}, true
}

func parseECall(string, labelTable) (Instruction, bool) {
	return Instruction{Op: OpECall}, true
}

var (
	memOperandRe = regexp.MustCompile(`^(-?\d+)?\(([a-z0-9]+)\)$`)
	targetRe     = regexp.MustCompile(`^([0-9a-f]+)\s+<([^>]+)>`)
	addrRe       = regexp.MustCompile(`^[0-9a-f]+$`)
	angleRe      = regexp.MustCompile(`<([^>]+)>`)
)

// parseBranchTarget resolves a branch, jump or call target. The inline
// "<label>" annotation of disassembler output wins, then the label table by
// address, then a raw numeric immediate. A target that is not address-shaped
// at all is taken as a literal label name.
func parseBranchTarget(target string, labels labelTable) (Value, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Value{}, false
	}

	if m := targetRe.FindStringSubmatch(target); m != nil {
		return LabelVal(m[2], RelocNone), true
	}

	if addrRe.MatchString(target) {
		addr, err := strconv.ParseUint(target, 16, 64)
		if err != nil {
			return Value{}, false
		}
		if label, ok := labels[addr]; ok {
			return LabelVal(label, RelocNone), true
		}
		return ImmediateVal(int32(addr)), true
	}

	return LabelVal(target, RelocNone), true
}

// parseMemOperand parses a memory reference of the form "offset(reg)".
// A bare symbol falls back to a label operand.
func parseMemOperand(operand string) (Value, bool) {
	m := memOperandRe.FindStringSubmatch(operand)
	if m == nil {
		if operand == "" {
			return Value{}, false
		}
		return LabelVal(operand, RelocNone), true
	}

	var offset int64
	if m[1] != "" {
		var err error
		offset, err = strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return Value{}, false
		}
	}
	reg, ok := RegisterByName(m[2])
	if !ok {
		return Value{}, false
	}
	return RegOffsetVal(reg, int32(offset)), true
}

// parseImm parses a signed decimal or 0x-prefixed hex immediate.
func parseImm(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		v, err := strconv.ParseInt(rest, 16, 32)
		if err != nil {
			return 0, false
		}
		return int32(v), true
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// splitMnemonic splits a line into its mnemonic and remaining operand text.
func splitMnemonic(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// splitOperands splits comma-separated operand text and trims each part.
func splitOperands(operands string) []string {
	if strings.TrimSpace(operands) == "" {
		return nil
	}
	parts := strings.Split(operands, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// splitComment splits an operand from its trailing "# ..." comment.
func splitComment(s string) (string, string) {
	body, comment, _ := strings.Cut(s, "#")
	return strings.TrimSpace(body), comment
}

// labelFromComment extracts a "<label>" annotation from comment text.
func labelFromComment(comment string) (string, bool) {
	m := angleRe.FindStringSubmatch(comment)
	if m == nil {
		return "", false
	}
	return m[1], true
}
