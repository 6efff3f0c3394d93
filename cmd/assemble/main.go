// Command assemble is the CLI front end for the assembler, interpreter
// and test harness: assemble a source file to a word stream, run it to
// completion, drive the ";!" directive harness over one or more files,
// or disassemble a raw binary back to text.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/config"
	"github.com/go-arm/arm7tdmi/encoder"
	"github.com/go-arm/arm7tdmi/harness"
	"github.com/go-arm/arm7tdmi/instr"
	"github.com/go-arm/arm7tdmi/loader"
	"github.com/go-arm/arm7tdmi/parser"
	"github.com/go-arm/arm7tdmi/vm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "assemble",
		Short: "ARM7TDMI assembler, interpreter and test harness",
	}

	root.AddCommand(assembleCmd(cfg), runCmd(cfg), testCmd(cfg), disassembleCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseAndAssemble(path string, cfg *config.Config) ([]*parser.AsmLine, *assembler.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	lines, perrs := parser.NewParser(string(src), path).Parse()
	if perrs.HasErrors() {
		return lines, nil, perrs
	}
	asm := assembler.NewAssembler(lines, path, cfg.HealMode())
	asm.SetMaxPasses(cfg.Assembler.MaxPasses)
	prog, aerrs := asm.Assemble()
	if aerrs != nil {
		return lines, nil, aerrs
	}
	return lines, prog, nil
}

// assembleCmd implements the `assemble <file.s>` surface: exit zero and
// print the resolver's pass count on success, one error line per failure
// otherwise.
func assembleCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <file.s>",
		Short: "Assemble a source file and report the pass count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, prog, err := parseAndAssemble(args[0], cfg)
			if err != nil {
				return err
			}
			fmt.Printf("assembled %d words in %d passes\n", len(prog.Words), prog.PassCount)
			return nil
		},
	}
}

func runCmd(cfg *config.Config) *cobra.Command {
	var verbose bool
	var maxSteps int
	cmd := &cobra.Command{
		Use:   "run <file.s>",
		Short: "Assemble and interpret a source file to completion or a step cap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, prog, err := parseAndAssemble(args[0], cfg)
			if err != nil {
				return err
			}
			if maxSteps <= 0 {
				maxSteps = cfg.Harness.DefaultStepCap
			}
			cpu := loader.Load(prog, cfg.Memory.DefaultWord)
			steps := 0
			for steps < maxSteps && cpu.State != vm.Stopped {
				if err := cpu.Step(); err != nil {
					return fmt.Errorf("step %d: %w", steps, err)
				}
				steps++
			}
			fmt.Printf("ran %d steps, halted=%v\n", steps, cpu.State == vm.Stopped)
			if verbose {
				fmt.Println(cpu.Regs.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the final register dump")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Hard step cap (default from config)")
	return cmd
}

func testCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "test <file.s>...",
		Short: "Run the ;! directive harness over one or more source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				lines, prog, err := parseAndAssemble(path, cfg)
				if err != nil {
					fmt.Printf("FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				directives, err := harness.ParseDirectives(lines)
				if err != nil {
					fmt.Printf("FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				res, err := harness.Run(prog, directives, cfg.Memory.DefaultWord)
				if err != nil {
					fmt.Printf("FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				if len(res.Failures) > 0 {
					fmt.Printf("FAIL %s\n", path)
					for _, f := range res.Failures {
						fmt.Printf("  %s\n", f)
					}
					failed++
					continue
				}
				fmt.Printf("PASS %s (%d steps)\n", path, res.StepsRun)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func disassembleCmd() *cobra.Command {
	var base uint32
	cmd := &cobra.Command{
		Use:   "disassemble <file.bin>",
		Short: "Disassemble a flat binary of little-endian 32-bit words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data)%4 != 0 {
				return fmt.Errorf("file length %d is not a multiple of 4", len(data))
			}
			for i := 0; i < len(data); i += 4 {
				word := binary.LittleEndian.Uint32(data[i:])
				addr := base + uint32(i)
				cond, in, ok := encoder.Decode(word)
				if !ok {
					fmt.Printf("0x%08X: %08X    ???\n", addr, word)
					continue
				}
				fmt.Printf("0x%08X: %08X    %s\n", addr, word, instr.Format(cond, in))
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&base, "base", 0, "Base address of the first word")
	return cmd
}
