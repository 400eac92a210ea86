package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/intel8086/internal/debugger"
	"github.com/oisee/intel8086/pkg/cpu"
	"github.com/oisee/intel8086/pkg/reg"
	"github.com/oisee/intel8086/pkg/sim"
)

func main() {
	var dump bool
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "simulate <input>",
		Short: "Simulate an 8086 machine-code file and report the final CPU state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], dump, debug)
		},
	}
	rootCmd.Flags().BoolVar(&dump, "dump", false, "write final memory contents to <input-stem>.data")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "launch an interactive step debugger instead of running to completion")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, dump, debug bool) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if debug {
		return debugger.Run(program)
	}

	result, err := sim.Simulate(program)
	if err != nil {
		return fmt.Errorf("simulating %s: %w", path, err)
	}

	fmt.Printf("--- %s ---\n", filepath.Base(path))
	printRegisters(result.CPU)
	fmt.Printf("flags: Z=%v S=%v\n", result.CPU.Flags.Z, result.CPU.Flags.S)
	fmt.Printf("cycles: %d\n", result.Cycles)

	if dump {
		stem := strings.TrimSuffix(path, filepath.Ext(path))
		dumpPath := stem + ".data"
		if err := os.WriteFile(dumpPath, result.CPU.Memory(), 0o644); err != nil {
			return fmt.Errorf("writing memory dump %s: %w", dumpPath, err)
		}
		fmt.Printf("memory dumped to %s\n", dumpPath)
	}
	return nil
}

var registerOrder = []struct {
	id   reg.ID
	name string
}{
	{reg.AX, "ax"}, {reg.CX, "cx"}, {reg.DX, "dx"}, {reg.BX, "bx"},
	{reg.SP, "sp"}, {reg.BP, "bp"}, {reg.SI, "si"}, {reg.DI, "di"}, {reg.IP, "ip"},
}

func printRegisters(c *cpu.CPU) {
	for _, r := range registerOrder {
		fmt.Printf("      %-2s: 0x%04x (%d)\n", r.name, c.Register(r.id), c.Register(r.id))
	}
}
