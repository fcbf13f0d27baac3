// Package main implements a RISC-V to AArch64 static assembly translator.
package main

import (
	"fmt"
	"os"

	"github.com/Samir-Rashid/binary-room/internal/cli"
)

var version = "dev"

func main() {
	cmd := cli.NewRootCommand(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
