package arm

import "fmt"

// Reloc marks which part of a label address an operand references.
type Reloc int

// Relocation kinds for label operands.
const (
	RelocNone Reloc = iota
	RelocHi         // page address, adrp
	RelocLo         // low 12 bits, :lo12:
)

// ValueKind discriminates the operand variants of Value.
type ValueKind int

// Operand variants.
const (
	ValueRegister ValueKind = iota
	ValueImmediate
	ValueRegOffset
	ValueLabel
)

// Value is an instruction operand: a register, a signed immediate, a base
// register plus offset memory reference, or a label reference.
type Value struct {
	Kind   ValueKind
	Reg    Register
	Imm    int32
	Offset int32
	Label  string
	Reloc  Reloc
}

// RegisterVal returns a register operand.
func RegisterVal(reg Register) Value {
	return Value{Kind: ValueRegister, Reg: reg}
}

// ImmediateVal returns an immediate operand.
func ImmediateVal(imm int32) Value {
	return Value{Kind: ValueImmediate, Imm: imm}
}

// RegOffsetVal returns a base register plus offset memory operand.
func RegOffsetVal(reg Register, offset int32) Value {
	return Value{Kind: ValueRegOffset, Reg: reg, Offset: offset}
}

// LabelVal returns a label operand with a relocation kind.
func LabelVal(label string, reloc Reloc) Value {
	return Value{Kind: ValueLabel, Label: label, Reloc: reloc}
}

// LabelOffsetVal returns a label operand with a byte offset.
func LabelOffsetVal(label string, offset int32) Value {
	return Value{Kind: ValueLabel, Label: label, Offset: offset}
}

// Cond is the condition of a conditional branch.
type Cond int

// Branch conditions.
const (
	CondLE Cond = iota
	CondGE
	CondLT
	CondGT
	CondNE
)

// Suffix returns the b.<cond> mnemonic suffix.
func (c Cond) Suffix() string {
	switch c {
	case CondLE:
		return "le"
	case CondGE:
		return "ge"
	case CondLT:
		return "lt"
	case CondGT:
		return "gt"
	case CondNE:
		return "ne"
	default:
		return "?"
	}
}

// Op identifies an AArch64 opcode the translator can emit.
type Op int

// Supported opcodes.
const (
	OpAdd Op = iota
	OpSub
	OpAnd
	OpAdc
	OpLsl
	OpMov
	OpLdr
	OpStr
	OpSxtw
	OpBlr
	OpBl
	OpB
	OpBCond
	OpAdrp
	OpSvc
	OpRet
	OpLabel
	OpDirective
	OpVerbatim
)

var opNames = map[Op]string{
	OpAdd:       "add",
	OpSub:       "sub",
	OpAnd:       "and",
	OpAdc:       "adc",
	OpLsl:       "lsl",
	OpMov:       "mov",
	OpLdr:       "ldr",
	OpStr:       "str",
	OpSxtw:      "sxtw",
	OpBlr:       "blr",
	OpBl:        "bl",
	OpB:         "b",
	OpBCond:     "b.cond",
	OpAdrp:      "adrp",
	OpSvc:       "svc",
	OpRet:       "ret",
	OpLabel:     "label",
	OpDirective: "directive",
	OpVerbatim:  "verbatim",
}

// String returns the mnemonic-like name of the opcode.
func (op Op) String() string {
	name, ok := opNames[op]
	if !ok {
		return "?"
	}
	return name
}

// Instruction is one AArch64 instruction with typed operands.
//
//	OpAdd, OpSub, OpAnd, OpAdc, OpLsl  Dest, Arg1 (register), Arg2 (value)
//	OpMov                              Dest, Arg2 (immediate)
//	OpLdr                              Width (via Dest), Dest, Arg2 (memory)
//	OpStr                              Width (via Src), Src, Arg2 (memory)
//	OpSxtw                             Dest (double), Src (word)
//	OpBlr                              Src (target register)
//	OpBl, OpB                          Target (label or immediate)
//	OpBCond                            Cond, Arg1 (register), Arg2 (value), Target
//	OpAdrp                             Dest, Arg2 (label, high part)
//	OpSvc                              Imm (immediate, #0)
//	OpRet                              no operands
//	OpLabel                            Text (label name)
//	OpDirective                        Text (directive name), Operands
//	OpVerbatim                         Text (original line)
type Instruction struct {
	Op   Op
	Cond Cond

	Dest   Register
	Src    Register
	Arg1   Register
	Arg2   Value
	Target Value
	Imm    int32

	Text     string
	Operands string
}

// String returns a debug representation used in test failure output.
func (ins Instruction) String() string {
	switch ins.Op {
	case OpAdd, OpSub, OpAnd, OpAdc, OpLsl:
		return fmt.Sprintf("%s %s, %s, %s", ins.Op, ins.Dest, ins.Arg1, valueString(ins.Arg2))
	case OpMov:
		return fmt.Sprintf("mov %s, %s", ins.Dest, valueString(ins.Arg2))
	case OpLdr:
		return fmt.Sprintf("ldr %s, %s", ins.Dest, valueString(ins.Arg2))
	case OpStr:
		return fmt.Sprintf("str %s, %s", ins.Src, valueString(ins.Arg2))
	case OpSxtw:
		return fmt.Sprintf("sxtw %s, %s", ins.Dest, ins.Src)
	case OpBlr:
		return fmt.Sprintf("blr %s", ins.Src)
	case OpBl, OpB:
		return fmt.Sprintf("%s %s", ins.Op, valueString(ins.Target))
	case OpBCond:
		return fmt.Sprintf("b.%s %s, %s, %s", ins.Cond.Suffix(), ins.Arg1, valueString(ins.Arg2), valueString(ins.Target))
	case OpAdrp:
		return fmt.Sprintf("adrp %s, %s", ins.Dest, valueString(ins.Arg2))
	case OpSvc:
		return fmt.Sprintf("svc #%d", ins.Imm)
	case OpRet:
		return "ret"
	case OpLabel:
		return ins.Text + ":"
	case OpDirective:
		return fmt.Sprintf(".%s %s", ins.Text, ins.Operands)
	case OpVerbatim:
		return ins.Text
	default:
		return "?"
	}
}

func valueString(v Value) string {
	switch v.Kind {
	case ValueRegister:
		return v.Reg.String()
	case ValueImmediate:
		return fmt.Sprintf("#%d", v.Imm)
	case ValueRegOffset:
		return fmt.Sprintf("[%s, #%d]", v.Reg, v.Offset)
	case ValueLabel:
		switch v.Reloc {
		case RelocLo:
			return ":lo12:" + v.Label
		default:
			if v.Offset != 0 {
				return fmt.Sprintf("%s+%d", v.Label, v.Offset)
			}
			return v.Label
		}
	default:
		return "?"
	}
}
