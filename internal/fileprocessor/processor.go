// Package fileprocessor handles file loading and processing operations.
package fileprocessor

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/Samir-Rashid/binary-room/internal/arm"
	"github.com/Samir-Rashid/binary-room/internal/options"
	"github.com/Samir-Rashid/binary-room/internal/riscv"
	"github.com/Samir-Rashid/binary-room/internal/translate"
)

// Process handles the complete translation workflow: load the input text,
// parse it into the instruction model, lower it to AArch64 and render the
// result to the output file or stdout.
func Process(logger *log.Logger, opts options.Program) error {
	input, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading input file %s: %w", opts.Input, err)
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	return Translate(logger, opts, string(input), writer)
}

// Translate runs the parse, lower and render steps on already loaded input
// text. It is split from Process for testing and programmatic use.
func Translate(logger *log.Logger, opts options.Program, input string, writer io.Writer) error {
	instructions := parseInput(logger, opts, input)

	translatorOptions := options.NewTranslator()
	translatorOptions.SyscallRemap = !opts.NoSyscallRemap

	translator := translate.New(logger, translatorOptions)
	translated, err := translator.Program(instructions)
	if err != nil {
		return fmt.Errorf("translating: %w", err)
	}
	logger.Debug("Translated program",
		log.Int("instructions", len(instructions)),
		log.Int("translated", len(translated)))

	if err := arm.NewWriter(writer).Write(translated); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

func parseInput(logger *log.Logger, opts options.Program, input string) []riscv.Instruction {
	if opts.Objdump || riscv.LooksLikeObjdump(input) {
		logger.Debug("Parsing objdump disassembly", log.String("file", opts.Input))
		return riscv.ParseObjdump(input)
	}
	logger.Debug("Parsing hand-written assembly", log.String("file", opts.Input))
	return riscv.ParseAsm(input)
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}
