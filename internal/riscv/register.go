// Package riscv contains the RISC-V instruction model and assembly parsers.
package riscv

// Register represents an architectural RISC-V integer register under its
// ABI name.
type Register int

// RISC-V integer registers (RV64I ABI names).
const (
	X0 Register = iota // hard-wired zero
	RA                 // return address
	SP                 // stack pointer
	GP                 // global pointer
	TP                 // thread pointer
	T0
	T1
	T2
	S0 // saved register / frame pointer
	S1
	A0 // function arguments / return values
	A1
	A2
	A3
	A4
	A5
	A6
	A7 // argument and syscall number register
	S2
	S3
	S4
	S5
	S6
	S7
	S8
	S9
	S10
	S11
	T3
	T4
	T5
	T6
)

var registerNames = map[Register]string{
	X0: "zero", RA: "ra", SP: "sp", GP: "gp", TP: "tp",
	T0: "t0", T1: "t1", T2: "t2",
	S0: "s0", S1: "s1",
	A0: "a0", A1: "a1", A2: "a2", A3: "a3",
	A4: "a4", A5: "a5", A6: "a6", A7: "a7",
	S2: "s2", S3: "s3", S4: "s4", S5: "s5", S6: "s6",
	S7: "s7", S8: "s8", S9: "s9", S10: "s10", S11: "s11",
	T3: "t3", T4: "t4", T5: "t5", T6: "t6",
}

// registersByName accepts both ABI names (a0) and numeric names (x10),
// plus the fp alias for s0.
var registersByName = map[string]Register{
	"zero": X0, "x0": X0,
	"ra": RA, "x1": RA,
	"sp": SP, "x2": SP,
	"gp": GP, "x3": GP,
	"tp": TP, "x4": TP,
	"t0": T0, "x5": T0,
	"t1": T1, "x6": T1,
	"t2": T2, "x7": T2,
	"s0": S0, "fp": S0, "x8": S0,
	"s1": S1, "x9": S1,
	"a0": A0, "x10": A0,
	"a1": A1, "x11": A1,
	"a2": A2, "x12": A2,
	"a3": A3, "x13": A3,
	"a4": A4, "x14": A4,
	"a5": A5, "x15": A5,
	"a6": A6, "x16": A6,
	"a7": A7, "x17": A7,
	"s2": S2, "x18": S2,
	"s3": S3, "x19": S3,
	"s4": S4, "x20": S4,
	"s5": S5, "x21": S5,
	"s6": S6, "x22": S6,
	"s7": S7, "x23": S7,
	"s8": S8, "x24": S8,
	"s9": S9, "x25": S9,
	"s10": S10, "x26": S10,
	"s11": S11, "x27": S11,
	"t3": T3, "x28": T3,
	"t4": T4, "x29": T4,
	"t5": T5, "x30": T5,
	"t6": T6, "x31": T6,
}

// RegisterByName looks up a register by its ABI or numeric name.
func RegisterByName(name string) (Register, bool) {
	reg, ok := registersByName[name]
	return reg, ok
}

// String returns the ABI name of the register.
func (r Register) String() string {
	name, ok := registerNames[r]
	if !ok {
		return "?"
	}
	return name
}

// Width selects between the 32 bit (W-suffixed) and 64 bit form of an
// operation. The default is Double.
type Width int

// Operation widths.
const (
	Double Width = iota
	Word
)

// String returns the width name.
func (w Width) String() string {
	if w == Word {
		return "word"
	}
	return "double"
}
