// Package arm contains the AArch64 instruction model and the assembly
// renderer.
package arm

import (
	"errors"
	"fmt"
	"strconv"
)

// RegisterName identifies an architectural AArch64 register.
type RegisterName int

// AArch64 registers. Lr is x30 under its role name; Zero is the dedicated
// zero register.
const (
	X0 RegisterName = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	SP
	Lr
	Pc
	Zero
)

// Width selects the access width of a register operand. The same
// architectural register renders differently per width (x0 vs w0).
type Width int

// Register operand widths.
const (
	Double Width = iota
	Word
	Half
	SignedHalf
	Byte
	SignedByte
)

// String returns the width name.
func (w Width) String() string {
	switch w {
	case Word:
		return "word"
	case Half:
		return "half"
	case SignedHalf:
		return "signed half"
	case Byte:
		return "byte"
	case SignedByte:
		return "signed byte"
	default:
		return "double"
	}
}

// Register is an architectural register at a chosen access width.
type Register struct {
	Width Width
	Name  RegisterName
}

// Reg returns a register operand at Double width.
func Reg(name RegisterName) Register {
	return Register{Width: Double, Name: name}
}

// WReg returns a register operand at Word width.
func WReg(name RegisterName) Register {
	return Register{Width: Word, Name: name}
}

// ErrInvalidRegisterWidth is returned when rendering a register at a width
// it has no textual form for, e.g. the zero register at byte width.
var ErrInvalidRegisterWidth = errors.New("invalid register width")

// Text returns the assembly spelling of the register. The Zero and Pc
// registers only admit Word and Double widths.
func (r Register) Text() (string, error) {
	switch r.Name {
	case Zero:
		switch r.Width {
		case Double:
			return "xzr", nil
		case Word:
			return "wzr", nil
		default:
			return "", fmt.Errorf("rendering zero register as %s: %w", r.Width, ErrInvalidRegisterWidth)
		}
	case Pc:
		switch r.Width {
		case Double, Word:
			return "pc", nil
		default:
			return "", fmt.Errorf("rendering pc as %s: %w", r.Width, ErrInvalidRegisterWidth)
		}
	case SP:
		if r.Width == Word {
			return "wsp", nil
		}
		return "sp", nil
	case Lr:
		if r.Width == Word {
			return "w30", nil
		}
		return "lr", nil
	default:
		if r.Width == Double {
			return "x" + strconv.Itoa(int(r.Name)), nil
		}
		// all sub-double accesses use the 32 bit alias
		return "w" + strconv.Itoa(int(r.Name)), nil
	}
}

// String returns the assembly spelling, or a ? form for invalid pairs.
func (r Register) String() string {
	text, err := r.Text()
	if err != nil {
		return fmt.Sprintf("?%d.%s", r.Name, r.Width)
	}
	return text
}
