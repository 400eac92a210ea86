package main

import (
	"fmt"
	"os"

	"github.com/oisee/intel8086/pkg/sim"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "disassemble <input>",
		Short: "Disassemble an 8086 machine-code file to NASM-syntax assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	instructions, err := sim.Disassemble(program)
	if err != nil {
		return fmt.Errorf("disassembling %s: %w", path, err)
	}

	fmt.Print(sim.ToASM(instructions))
	return nil
}
