// Package translate lowers RISC-V instructions into equivalent AArch64
// instruction sequences.
package translate

import (
	"github.com/Samir-Rashid/binary-room/internal/arm"
	"github.com/Samir-Rashid/binary-room/internal/riscv"
)

// registerMap maps every RISC-V ABI register to a fixed AArch64 register by
// role, not by index: the argument registers line up (a0-a6 to x0-x6) with a7
// going to x8 because Linux/AArch64 takes the syscall number there, ra goes
// to the link register and s0/fp to the AArch64 frame pointer. The thread
// pointer lands on x18, the platform register. AArch64 has one callee-saved
// register fewer than RISC-V, so s11 spills to x17; this is sound because
// both sides of every call are translated with the same table.
var registerMap = map[riscv.Register]arm.RegisterName{
	riscv.X0:  arm.Zero,
	riscv.RA:  arm.Lr,
	riscv.SP:  arm.SP,
	riscv.GP:  arm.X9,
	riscv.TP:  arm.X18,
	riscv.T0:  arm.X10,
	riscv.T1:  arm.X11,
	riscv.T2:  arm.X12,
	riscv.T3:  arm.X13,
	riscv.T4:  arm.X14,
	riscv.T5:  arm.X15,
	riscv.T6:  arm.X16,
	riscv.S0:  arm.X29,
	riscv.S1:  arm.X19,
	riscv.S2:  arm.X20,
	riscv.S3:  arm.X21,
	riscv.S4:  arm.X22,
	riscv.S5:  arm.X23,
	riscv.S6:  arm.X24,
	riscv.S7:  arm.X25,
	riscv.S8:  arm.X26,
	riscv.S9:  arm.X27,
	riscv.S10: arm.X28,
	riscv.S11: arm.X17,
	riscv.A0:  arm.X0,
	riscv.A1:  arm.X1,
	riscv.A2:  arm.X2,
	riscv.A3:  arm.X3,
	riscv.A4:  arm.X4,
	riscv.A5:  arm.X5,
	riscv.A6:  arm.X6,
	riscv.A7:  arm.X8,
}

// widthMap carries the access width of an operation across architectures.
var widthMap = map[riscv.Width]arm.Width{
	riscv.Word:   arm.Word,
	riscv.Double: arm.Double,
}

func mapWidth(width riscv.Width) arm.Width {
	mapped, ok := widthMap[width]
	if !ok {
		return arm.Double
	}
	return mapped
}

func mapReloc(reloc riscv.Reloc) arm.Reloc {
	switch reloc {
	case riscv.RelocHi:
		return arm.RelocHi
	case riscv.RelocLo:
		return arm.RelocLo
	default:
		return arm.RelocNone
	}
}
