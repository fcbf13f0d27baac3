package riscv

import "fmt"

// Op identifies a supported RISC-V opcode or pseudo-op.
type Op int

// Supported opcodes. The set is deliberately the RV64I subset the
// translator has lowering rules for; everything else is carried as
// OpVerbatim.
const (
	OpAddi Op = iota
	OpAdd
	OpSub
	OpStore
	OpLoad
	OpMv
	OpMvi
	OpSextW
	OpJr
	OpLi
	OpBle
	OpBge
	OpBlt
	OpBgt
	OpBne
	OpJ
	OpCall
	OpLui
	OpAddl
	OpSlli
	OpECall
	OpLabel
	OpDirective
	OpVerbatim
)

var opNames = map[Op]string{
	OpAddi:      "addi",
	OpAdd:       "add",
	OpSub:       "sub",
	OpStore:     "s",
	OpLoad:      "l",
	OpMv:        "mv",
	OpMvi:       "mvi",
	OpSextW:     "sext.w",
	OpJr:        "jr",
	OpLi:        "li",
	OpBle:       "ble",
	OpBge:       "bge",
	OpBlt:       "blt",
	OpBgt:       "bgt",
	OpBne:       "bne",
	OpJ:         "j",
	OpCall:      "call",
	OpLui:       "lui",
	OpAddl:      "addl",
	OpSlli:      "slli",
	OpECall:     "ecall",
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

// Instruction is one RISC-V instruction with typed operands. Only the
// fields the opcode requires are set; values are immutable once built.
//
//	OpAddi, OpSlli     Dest, Src, Imm
//	OpAdd, OpSub       Width, Dest, Arg1, Arg2
//	OpStore            Width, Src, Val (memory operand)
//	OpLoad             Width, Dest, Val (memory operand)
//	OpMv               Dest, Src
//	OpMvi, OpLi        Dest, Imm
//	OpSextW            Dest, Src
//	OpJr               Src (target register)
//	OpBle..OpBne       Arg1, Arg2, Val (branch target)
//	OpJ, OpCall        Val (branch target)
//	OpLui              Dest, Val (label operand)
//	OpAddl             Dest, Src, Val (label operand)
//	OpECall            no operands
//	OpLabel            Text (label name)
//	OpDirective        Text (directive name), Operands (raw operand text)
//	OpVerbatim         Text (original line)
type Instruction struct {
	Op    Op
	Width Width

	Dest Register
	Src  Register
	Arg1 Register
	Arg2 Register
	Imm  int32
	Val  Value

	Text     string
	Operands string
}

// String returns a debug representation used in test failure output.
func (ins Instruction) String() string {
	switch ins.Op {
	case OpAddi, OpSlli:
		return fmt.Sprintf("%s %s,%s,%d", ins.Op, ins.Dest, ins.Src, ins.Imm)
	case OpAdd, OpSub:
		return fmt.Sprintf("%s.%s %s,%s,%s", ins.Op, ins.Width, ins.Dest, ins.Arg1, ins.Arg2)
	case OpStore:
		return fmt.Sprintf("s.%s %s,%s", ins.Width, ins.Src, ins.Val)
	case OpLoad:
		return fmt.Sprintf("l.%s %s,%s", ins.Width, ins.Dest, ins.Val)
	case OpMv:
		return fmt.Sprintf("mv %s,%s", ins.Dest, ins.Src)
	case OpMvi, OpLi:
		return fmt.Sprintf("%s %s,%d", ins.Op, ins.Dest, ins.Imm)
	case OpSextW:
		return fmt.Sprintf("sext.w %s,%s", ins.Dest, ins.Src)
	case OpJr:
		return fmt.Sprintf("jr %s", ins.Src)
	case OpBle, OpBge, OpBlt, OpBgt, OpBne:
		return fmt.Sprintf("%s %s,%s,%s", ins.Op, ins.Arg1, ins.Arg2, ins.Val)
	case OpJ, OpCall:
		return fmt.Sprintf("%s %s", ins.Op, ins.Val)
	case OpLui:
		return fmt.Sprintf("lui %s,%s", ins.Dest, ins.Val)
	case OpAddl:
		return fmt.Sprintf("addl %s,%s,%s", ins.Dest, ins.Src, ins.Val)
	case OpECall:
		return "ecall"
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
