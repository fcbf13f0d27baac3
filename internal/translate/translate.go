package translate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/Samir-Rashid/binary-room/internal/arm"
	"github.com/Samir-Rashid/binary-room/internal/options"
	"github.com/Samir-Rashid/binary-room/internal/riscv"
)

// liImmediateMax bounds the immediate of the li pseudo-op; multi-instruction
// immediate materialization is not implemented.
const liImmediateMax = 4095

var (
	// ErrUnsupportedInstruction is returned for an instruction variant or
	// operand combination the translator has no lowering rule for.
	ErrUnsupportedInstruction = errors.New("unsupported instruction")

	// ErrImmediateOutOfRange is returned for an immediate outside the
	// encodable range.
	ErrImmediateOutOfRange = errors.New("immediate out of range")

	// ErrUnmappedRegister is returned when a register has no entry in the
	// fixed ABI mapping table. The table is total over the modeled register
	// set, so hitting this is a translation bug.
	ErrUnmappedRegister = errors.New("unmapped register")
)

// Translator lowers RISC-V instructions to AArch64. It is stateless across
// instructions; translation depends only on the instruction itself and the
// fixed mapping tables.
type Translator struct {
	logger  *log.Logger
	options options.Translator
}

// New creates a new translator.
func New(logger *log.Logger, opts options.Translator) *Translator {
	return &Translator{
		logger:  logger,
		options: opts,
	}
}

// Program lowers a whole instruction sequence in program order. Output
// instructions keep the relative order of their inputs. Translation is
// all-or-nothing: the first unsupported instruction aborts the run and no
// partial output is returned.
func (t *Translator) Program(instructions []riscv.Instruction) ([]arm.Instruction, error) {
	result := make([]arm.Instruction, 0, len(instructions))
	for _, ins := range instructions {
		translated, err := t.Instruction(ins)
		if err != nil {
			return nil, fmt.Errorf("translating %s: %w", ins, err)
		}
		result = append(result, translated...)
	}
	return result, nil
}

// Instruction lowers one instruction into zero or more AArch64 instructions.
//
//nolint:cyclop,funlen // one case per opcode
func (t *Translator) Instruction(ins riscv.Instruction) ([]arm.Instruction, error) {
	switch ins.Op {
	case riscv.OpAddi:
		return t.translateAddi(ins)

	case riscv.OpMvi, riscv.OpLi:
		return t.translateLoadImmediate(ins)

	case riscv.OpMv:
		// no plain register move in this subset, use add dest, src, 0
		dest, err := mapRegister(ins.Dest)
		if err != nil {
			return nil, err
		}
		src, err := mapRegister(ins.Src)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{
			Op:   arm.OpAdd,
			Dest: dest,
			Arg1: src,
			Arg2: arm.ImmediateVal(0),
		})

	case riscv.OpAdd, riscv.OpSub:
		return t.translateArith(ins)

	case riscv.OpStore:
		src, err := mapAccessRegister(ins.Src, ins.Width)
		if err != nil {
			return nil, err
		}
		mem, err := mapVal(ins.Val)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpStr, Src: src, Arg2: mem})

	case riscv.OpLoad:
		dest, err := mapAccessRegister(ins.Dest, ins.Width)
		if err != nil {
			return nil, err
		}
		mem, err := mapVal(ins.Val)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpLdr, Dest: dest, Arg2: mem})

	case riscv.OpSextW:
		dest, err := mapRegisterName(ins.Dest)
		if err != nil {
			return nil, err
		}
		src, err := mapRegisterName(ins.Src)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{
			Op:   arm.OpSxtw,
			Dest: arm.Reg(dest),
			Src:  arm.WReg(src),
		})

	case riscv.OpJr:
		target, err := mapRegister(ins.Src)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpBlr, Src: target})

	case riscv.OpBle, riscv.OpBge, riscv.OpBlt, riscv.OpBgt, riscv.OpBne:
		return t.translateBranch(ins)

	case riscv.OpJ:
		target, err := mapVal(ins.Val)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpB, Target: target})

	case riscv.OpCall:
		target, err := mapVal(ins.Val)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpBl, Target: target})

	case riscv.OpLui:
		dest, err := mapRegister(ins.Dest)
		if err != nil {
			return nil, err
		}
		label, err := mapVal(ins.Val)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpAdrp, Dest: dest, Arg2: label})

	case riscv.OpAddl:
		dest, err := mapRegister(ins.Dest)
		if err != nil {
			return nil, err
		}
		src, err := mapRegister(ins.Src)
		if err != nil {
			return nil, err
		}
		label, err := mapVal(ins.Val)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{Op: arm.OpAdd, Dest: dest, Arg1: src, Arg2: label})

	case riscv.OpSlli:
		dest, err := mapRegister(ins.Dest)
		if err != nil {
			return nil, err
		}
		src, err := mapRegister(ins.Src)
		if err != nil {
			return nil, err
		}
		return single(arm.Instruction{
			Op:   arm.OpLsl,
			Dest: dest,
			Arg1: src,
			Arg2: arm.ImmediateVal(ins.Imm),
		})

	case riscv.OpECall:
		// register remapping already carries the syscall number and the
		// arguments into x8 and x0-x6
		return single(arm.Instruction{Op: arm.OpSvc, Imm: 0})

	case riscv.OpLabel:
		return single(arm.Instruction{Op: arm.OpLabel, Text: ins.Text})

	case riscv.OpDirective:
		return single(arm.Instruction{
			Op:       arm.OpDirective,
			Text:     ins.Text,
			Operands: mapDirectiveOperands(ins.Operands),
		})

	case riscv.OpVerbatim:
		return single(arm.Instruction{Op: arm.OpVerbatim, Text: ins.Text})

	default:
		return nil, fmt.Errorf("opcode %s: %w", ins.Op, ErrUnsupportedInstruction)
	}
}

// translateAddi chooses add or sub by the sign of the immediate, since the
// AArch64 sub immediate is unsigned. An addi from the zero register is the
// load immediate pseudo-op in disguise and is re-dispatched as such.
func (t *Translator) translateAddi(ins riscv.Instruction) ([]arm.Instruction, error) {
	if ins.Src == riscv.X0 {
		return t.translateLoadImmediate(riscv.Instruction{
			Op:   riscv.OpMvi,
			Dest: ins.Dest,
			Imm:  ins.Imm,
		})
	}

	dest, err := mapRegister(ins.Dest)
	if err != nil {
		return nil, err
	}
	src, err := mapRegister(ins.Src)
	if err != nil {
		return nil, err
	}

	if ins.Imm >= 0 {
		return single(arm.Instruction{
			Op:   arm.OpAdd,
			Dest: dest,
			Arg1: src,
			Arg2: arm.ImmediateVal(ins.Imm),
		})
	}
	return single(arm.Instruction{
		Op:   arm.OpSub,
		Dest: dest,
		Arg1: src,
		Arg2: arm.ImmediateVal(-ins.Imm),
	})
}

// translateLoadImmediate lowers li and mvi to mov. A load of the syscall
// number register gets the immediate remapped through the syscall table.
func (t *Translator) translateLoadImmediate(ins riscv.Instruction) ([]arm.Instruction, error) {
	if ins.Imm > liImmediateMax || ins.Imm < -liImmediateMax {
		return nil, fmt.Errorf("li immediate %d: %w", ins.Imm, ErrImmediateOutOfRange)
	}

	imm := ins.Imm
	if ins.Dest == riscv.A7 && t.options.SyscallRemap {
		mapped, ok := mapSyscallNumber(imm)
		if !ok {
			t.logger.Debug("Syscall number not in translation table",
				log.Int("number", int(imm)))
		}
		imm = mapped
	}

	dest, err := mapRegister(ins.Dest)
	if err != nil {
		return nil, err
	}
	return single(arm.Instruction{
		Op:   arm.OpMov,
		Dest: dest,
		Arg2: arm.ImmediateVal(imm),
	})
}

// translateArith lowers register-register add and sub, selecting the 32 bit
// register form for word width and the plain 64 bit form otherwise.
func (t *Translator) translateArith(ins riscv.Instruction) ([]arm.Instruction, error) {
	op := arm.OpAdd
	if ins.Op == riscv.OpSub {
		op = arm.OpSub
	}

	width := mapWidth(ins.Width)
	dest, err := mapRegisterName(ins.Dest)
	if err != nil {
		return nil, err
	}
	arg1, err := mapRegisterName(ins.Arg1)
	if err != nil {
		return nil, err
	}
	arg2, err := mapRegisterName(ins.Arg2)
	if err != nil {
		return nil, err
	}

	return single(arm.Instruction{
		Op:   op,
		Dest: arm.Register{Width: width, Name: dest},
		Arg1: arm.Register{Width: width, Name: arg1},
		Arg2: arm.RegisterVal(arm.Register{Width: width, Name: arg2}),
	})
}

var branchConds = map[riscv.Op]arm.Cond{
	riscv.OpBle: arm.CondLE,
	riscv.OpBge: arm.CondGE,
	riscv.OpBlt: arm.CondLT,
	riscv.OpBgt: arm.CondGT,
	riscv.OpBne: arm.CondNE,
}

func (t *Translator) translateBranch(ins riscv.Instruction) ([]arm.Instruction, error) {
	cond, ok := branchConds[ins.Op]
	if !ok {
		return nil, fmt.Errorf("branch %s: %w", ins.Op, ErrUnsupportedInstruction)
	}

	arg1, err := mapRegister(ins.Arg1)
	if err != nil {
		return nil, err
	}
	arg2, err := mapRegister(ins.Arg2)
	if err != nil {
		return nil, err
	}
	target, err := mapVal(ins.Val)
	if err != nil {
		return nil, err
	}

	return single(arm.Instruction{
		Op:     arm.OpBCond,
		Cond:   cond,
		Arg1:   arg1,
		Arg2:   arm.RegisterVal(arg2),
		Target: target,
	})
}

// mapRegister maps a register at the default double width.
func mapRegister(reg riscv.Register) (arm.Register, error) {
	name, err := mapRegisterName(reg)
	if err != nil {
		return arm.Register{}, err
	}
	return arm.Reg(name), nil
}

// mapAccessRegister maps a register at the access width of a load or store.
func mapAccessRegister(reg riscv.Register, width riscv.Width) (arm.Register, error) {
	name, err := mapRegisterName(reg)
	if err != nil {
		return arm.Register{}, err
	}
	return arm.Register{Width: mapWidth(width), Name: name}, nil
}

func mapRegisterName(reg riscv.Register) (arm.RegisterName, error) {
	name, ok := registerMap[reg]
	if !ok {
		return 0, fmt.Errorf("register %s: %w", reg, ErrUnmappedRegister)
	}
	return name, nil
}

// mapVal maps an operand value, carrying relocation kinds and offsets
// through unchanged.
func mapVal(val riscv.Value) (arm.Value, error) {
	switch val.Kind {
	case riscv.ValueRegister:
		reg, err := mapRegister(val.Reg)
		if err != nil {
			return arm.Value{}, err
		}
		return arm.RegisterVal(reg), nil
	case riscv.ValueImmediate:
		return arm.ImmediateVal(val.Imm), nil
	case riscv.ValueRegOffset:
		reg, err := mapRegister(val.Reg)
		if err != nil {
			return arm.Value{}, err
		}
		return arm.RegOffsetVal(reg, val.Offset), nil
	case riscv.ValueLabel:
		return arm.Value{
			Kind:   arm.ValueLabel,
			Label:  val.Label,
			Offset: val.Offset,
			Reloc:  mapReloc(val.Reloc),
		}, nil
	default:
		return arm.Value{}, fmt.Errorf("operand %s: %w", val, ErrUnsupportedInstruction)
	}
}

// mapDirectiveOperands rewrites RISC-V specific directive prefix tokens to
// their AArch64 assembler syntax, e.g. @function to %function.
func mapDirectiveOperands(operands string) string {
	return strings.ReplaceAll(operands, "@", "%")
}

func single(ins arm.Instruction) ([]arm.Instruction, error) {
	return []arm.Instruction{ins}, nil
}
