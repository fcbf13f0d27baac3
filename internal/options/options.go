// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string // input assembly or disassembly file
	Output string // output .s file, stdout if empty
}

// Flags contains behavior options.
type Flags struct {
	Objdump        bool // force objdump input shape instead of auto-detection
	NoSyscallRemap bool // keep RV64 syscall numbers as-is
	Debug          bool
	Quiet          bool
}

// Program options of the translator.
type Program struct {
	Parameters
	Flags
}

// Translator defines options to control the lowering engine.
type Translator struct {
	// SyscallRemap translates RV64 Linux syscall numbers loaded into a7
	// into their AArch64 equivalents.
	SyscallRemap bool
}

// NewTranslator returns a new options instance with default options.
func NewTranslator() Translator {
	return Translator{
		SyscallRemap: true,
	}
}
