// Package cli handles command line interface logic.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Samir-Rashid/binary-room/internal/config"
	"github.com/Samir-Rashid/binary-room/internal/fileprocessor"
	"github.com/Samir-Rashid/binary-room/internal/options"
)

// NewRootCommand creates the root command of the translator CLI.
func NewRootCommand(version string) *cobra.Command {
	var opts options.Program

	cmd := &cobra.Command{
		Use:   "binary-room [flags] <input file>",
		Short: "Translate RISC-V assembly to AArch64 assembly",
		Long: `binary-room statically translates RISC-V (RV64I subset) assembly or
objdump disassembly into equivalent AArch64 assembly.`,
		Example: `  binary-room program.s
  binary-room -o program.arm.s program.s
  binary-room --objdump program.objdump`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			opts.Input = args[0]
			logger := config.CreateLogger(opts.Debug, opts.Quiet)
			return fileprocessor.Process(logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "output .s file, printed on console if no name given")
	flags.BoolVar(&opts.Objdump, "objdump", false, "treat input as objdump disassembly instead of auto-detecting")
	flags.BoolVar(&opts.NoSyscallRemap, "no-syscall-remap", false, "do not translate syscall numbers between the two Linux ABIs")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")

	return cmd
}
