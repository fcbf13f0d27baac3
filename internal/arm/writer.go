package arm

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedInstruction is returned when an instruction has no valid
// textual form.
var ErrUnsupportedInstruction = errors.New("unsupported instruction")

// Writer serializes translated instructions to assembly text in program
// order. It never reorders, drops or merges instructions; an operand
// combination without a valid textual form aborts rendering.
type Writer struct {
	writer io.Writer
}

// NewWriter creates a new assembly writer.
func NewWriter(writer io.Writer) *Writer {
	return &Writer{writer: writer}
}

// Write renders all instructions, one per line, labels as "name:" and
// directives as ".name operands".
func (w *Writer) Write(instructions []Instruction) error {
	for _, ins := range instructions {
		if err := w.writeInstruction(ins); err != nil {
			return fmt.Errorf("rendering %s: %w", ins.Op, err)
		}
	}
	return nil
}

//nolint:cyclop // one case per opcode
func (w *Writer) writeInstruction(ins Instruction) error {
	switch ins.Op {
	case OpAdd, OpSub, OpAnd, OpAdc, OpLsl:
		return w.writeArith(ins)
	case OpMov:
		dest, err := ins.Dest.Text()
		if err != nil {
			return err
		}
		return w.line("\tmov %s, #%d", dest, ins.Arg2.Imm)
	case OpLdr:
		return w.writeMemoryAccess(loadMnemonic(ins.Dest.Width), ins.Dest, ins.Arg2)
	case OpStr:
		return w.writeMemoryAccess(storeMnemonic(ins.Src.Width), ins.Src, ins.Arg2)
	case OpSxtw:
		dest, err := ins.Dest.Text()
		if err != nil {
			return err
		}
		src, err := ins.Src.Text()
		if err != nil {
			return err
		}
		return w.line("\tsxtw %s, %s", dest, src)
	case OpBlr:
		src, err := ins.Src.Text()
		if err != nil {
			return err
		}
		return w.line("\tblr %s", src)
	case OpBl, OpB:
		target, err := w.targetText(ins.Target)
		if err != nil {
			return err
		}
		return w.line("\t%s %s", ins.Op, target)
	case OpBCond:
		return w.writeCondBranch(ins)
	case OpAdrp:
		dest, err := ins.Dest.Text()
		if err != nil {
			return err
		}
		return w.line("\tadrp %s, %s", dest, ins.Arg2.Label)
	case OpSvc:
		return w.line("\tsvc #%d", ins.Imm)
	case OpRet:
		return w.line("\tret")
	case OpLabel:
		return w.line("%s:", ins.Text)
	case OpDirective:
		if ins.Operands == "" {
			return w.line(".%s", ins.Text)
		}
		return w.line(".%s %s", ins.Text, ins.Operands)
	case OpVerbatim:
		return w.line("%s", ins.Text)
	default:
		return fmt.Errorf("opcode %d: %w", ins.Op, ErrUnsupportedInstruction)
	}
}

func (w *Writer) writeArith(ins Instruction) error {
	dest, err := ins.Dest.Text()
	if err != nil {
		return err
	}
	arg1, err := ins.Arg1.Text()
	if err != nil {
		return err
	}
	arg2, err := w.valueText(ins.Arg2)
	if err != nil {
		return err
	}
	return w.line("\t%s %s, %s, %s", ins.Op, dest, arg1, arg2)
}

func (w *Writer) writeMemoryAccess(mnemonic string, reg Register, mem Value) error {
	regText, err := reg.Text()
	if err != nil {
		return err
	}
	memText, err := w.valueText(mem)
	if err != nil {
		return err
	}
	return w.line("\t%s %s, %s", mnemonic, regText, memText)
}

// writeCondBranch renders the compare and the conditional branch; AArch64 has
// no two-register compare-and-branch instruction.
func (w *Writer) writeCondBranch(ins Instruction) error {
	arg1, err := ins.Arg1.Text()
	if err != nil {
		return err
	}
	arg2, err := w.valueText(ins.Arg2)
	if err != nil {
		return err
	}
	target, err := w.targetText(ins.Target)
	if err != nil {
		return err
	}
	if err := w.line("\tcmp %s, %s", arg1, arg2); err != nil {
		return err
	}
	return w.line("\tb.%s %s", ins.Cond.Suffix(), target)
}

// targetText renders a branch target: a label by name, a raw numeric target
// as a hex address.
func (w *Writer) targetText(v Value) (string, error) {
	if v.Kind == ValueImmediate {
		return fmt.Sprintf("0x%x", v.Imm), nil
	}
	return w.valueText(v)
}

func (w *Writer) valueText(v Value) (string, error) {
	switch v.Kind {
	case ValueRegister:
		return v.Reg.Text()
	case ValueImmediate:
		return fmt.Sprintf("#%d", v.Imm), nil
	case ValueRegOffset:
		reg, err := v.Reg.Text()
		if err != nil {
			return "", err
		}
		if v.Offset == 0 {
			return fmt.Sprintf("[%s]", reg), nil
		}
		return fmt.Sprintf("[%s, #%d]", reg, v.Offset), nil
	case ValueLabel:
		switch v.Reloc {
		case RelocLo:
			return ":lo12:" + v.Label, nil
		case RelocHi:
			return v.Label, nil
		default:
			if v.Offset != 0 {
				return fmt.Sprintf("%s+%d", v.Label, v.Offset), nil
			}
			return v.Label, nil
		}
	default:
		return "", fmt.Errorf("operand kind %d: %w", v.Kind, ErrUnsupportedInstruction)
	}
}

func (w *Writer) line(format string, args ...any) error {
	if _, err := fmt.Fprintf(w.writer, format+"\n", args...); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func loadMnemonic(width Width) string {
	switch width {
	case Half:
		return "ldrh"
	case SignedHalf:
		return "ldrsh"
	case Byte:
		return "ldrb"
	case SignedByte:
		return "ldrsb"
	default:
		return "ldr"
	}
}

func storeMnemonic(width Width) string {
	switch width {
	case Half, SignedHalf:
		return "strh"
	case Byte, SignedByte:
		return "strb"
	default:
		return "str"
	}
}
