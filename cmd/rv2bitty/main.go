// Command rv2bitty loads an RV32EM instruction text file, translates it
// to Bitty, co-executes both programs instruction-by-instruction, and
// writes a comparison report. It follows the stdlib-flag CLI shape of
// github.com/sarchlab/m2sim's cmd/m2sim/main.go: package-level flag
// vars, a too-few-args Usage block, a verbose flag, and dispatch to a
// run function whose exit code is passed to os.Exit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/compare"
	"github.com/archsim/rv2bitty/diag"
	"github.com/archsim/rv2bitty/ioformat"
	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/rv32em"
	"github.com/archsim/rv2bitty/translate"
)

var (
	memSize         = flag.Int("mem-size", 256, "Number of 32-bit words in each interpreter's data memory")
	seed            = flag.Int64("seed", 1, "Seed for the shared initial memory generator")
	stepCap         = flag.Uint64("step-cap", 100000, "Maximum instructions either interpreter executes before halting (0 = unlimited)")
	tolerantMemory  = flag.Bool("tolerant-memory", true, "Passed to the RV32EM interpreter; memory accesses wrap modulo memory length whatever its value, and the Bitty interpreter takes no such option")
	tolerantPC      = flag.Bool("tolerant-pc", true, "Wrap out-of-range jump/branch targets modulo program length instead of halting")
	reportPath      = flag.String("report", "", "Path to write the comparison report to (default: stdout)")
	pcMapPath       = flag.String("pc-map", "", "Optional path to write the PC_R -> PC_B map to")
	verbose         = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv2bitty [options] <program.rv32em>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run(flag.Arg(0)))
}

func run(programPath string) int {
	f, err := os.Open(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening program: %v\n", err)
		return 1
	}
	defer f.Close()

	loadLog := diag.New(os.Stderr)
	prog := ioformat.LoadRV32EM(f, loadLog)

	if *verbose {
		fmt.Printf("loaded: %s (%d instructions, %d parse diagnostics)\n", programPath, len(prog), loadLog.Len())
	}

	tr := translate.New(translate.WithDiagLog(diag.New(os.Stderr)))
	tr.Translate(prog)

	if *verbose {
		fmt.Printf("translated: %d RV32EM words -> %d Bitty words\n", len(prog), len(tr.Binary()))
	}

	if *pcMapPath != "" {
		pf, err := os.Create(*pcMapPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating pc-map file: %v\n", err)
			return 1
		}
		defer pf.Close()
		if err := ioformat.WritePCMap(pf, tr.PCMap(), len(prog)); err != nil {
			fmt.Fprintf(os.Stderr, "error writing pc-map file: %v\n", err)
			return 1
		}
	}

	rvMem := mem.GenerateShared(*memSize, *seed)
	btMem := mem.GenerateShared(*memSize, *seed)

	execLog := diag.New(os.Stderr)
	rv := rv32em.NewInterpreter(prog, rvMem,
		rv32em.WithDiagLog(execLog),
		rv32em.WithStepCap(*stepCap),
		rv32em.WithTolerantMemory(*tolerantMemory),
		rv32em.WithTolerantPC(*tolerantPC),
	)
	bt := bitty.NewInterpreter(tr.Binary(), btMem,
		bitty.WithDiagLog(execLog),
		bitty.WithStepCap(*stepCap),
		bitty.WithTolerantPC(*tolerantPC),
	)

	driver := compare.New(rv, bt, tr.PCMap(), compare.WithDiagLog(execLog))

	report := os.Stdout
	if *reportPath != "" {
		rf, err := os.Create(*reportPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating report file: %v\n", err)
			return 1
		}
		defer rf.Close()
		report = rf
	}

	summary := compare.RunAll(driver, func(step ioformat.StepReport) {
		if err := ioformat.WriteStepTrace(report, step); err != nil {
			fmt.Fprintf(os.Stderr, "error writing step trace: %v\n", err)
		}
	})

	if err := ioformat.WriteSummary(report, summary); err != nil {
		fmt.Fprintf(os.Stderr, "error writing summary: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("\ndone: %d diagnostics recorded\n", execLog.Len())
		fmt.Printf("register match rate: %.4f\n", summary.MatchRate())
	}

	if summary.MatchRate() < 1.0 {
		return 2
	}
	return 0
}
