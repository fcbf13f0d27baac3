package riscv

import "fmt"

// Reloc marks which part of a label address an operand references.
type Reloc int

// Relocation kinds for label operands.
const (
	RelocNone Reloc = iota // plain label reference
	RelocHi                // high part, %hi / page address
	RelocLo                // low part, %lo / low 12 bits
)

// String returns the relocation kind name.
func (r Reloc) String() string {
	switch r {
	case RelocHi:
		return "hi"
	case RelocLo:
		return "lo"
	default:
		return "none"
	}
}

// ValueKind discriminates the operand variants of Value.
type ValueKind int

// Operand variants.
const (
	ValueRegister ValueKind = iota
	ValueImmediate
	ValueRegOffset
	ValueLabel
)

// Value is an instruction operand: a bare register, a signed immediate, a
// register plus signed offset memory reference, or a label reference with a
// relocation kind and byte offset.
type Value struct {
	Kind   ValueKind
	Reg    Register
	Imm    int32
	Offset int32
	Label  string
	Reloc  Reloc
}

// RegisterVal returns a bare register operand.
func RegisterVal(reg Register) Value {
	return Value{Kind: ValueRegister, Reg: reg}
}

// ImmediateVal returns a signed immediate operand.
func ImmediateVal(imm int32) Value {
	return Value{Kind: ValueImmediate, Imm: imm}
}

// RegOffsetVal returns a register plus offset memory operand.
func RegOffsetVal(reg Register, offset int32) Value {
	return Value{Kind: ValueRegOffset, Reg: reg, Offset: offset}
}

// LabelVal returns a label reference operand with a relocation kind.
func LabelVal(label string, reloc Reloc) Value {
	return Value{Kind: ValueLabel, Label: label, Reloc: reloc}
}

// LabelOffsetVal returns a label reference operand with a byte offset.
func LabelOffsetVal(label string, offset int32) Value {
	return Value{Kind: ValueLabel, Label: label, Offset: offset}
}

// String returns a debug representation of the operand.
func (v Value) String() string {
	switch v.Kind {
	case ValueRegister:
		return v.Reg.String()
	case ValueImmediate:
		return fmt.Sprintf("%d", v.Imm)
	case ValueRegOffset:
		return fmt.Sprintf("%d(%s)", v.Offset, v.Reg)
	case ValueLabel:
		if v.Reloc != RelocNone {
			return fmt.Sprintf("%%%s(%s)", v.Reloc, v.Label)
		}
		if v.Offset != 0 {
			return fmt.Sprintf("%s+%d", v.Label, v.Offset)
		}
		return v.Label
	default:
		return "?"
	}
}
