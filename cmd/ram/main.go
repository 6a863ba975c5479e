package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lookbusy1344/ram-machine/config"
	"github.com/lookbusy1344/ram-machine/debugger"
	"github.com/lookbusy1344/ram-machine/internal/cliutil"
	"github.com/lookbusy1344/ram-machine/ram"
	"github.com/lookbusy1344/ram-machine/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		noExecute   = flag.Bool("no-execute", false, "Only parse PROGRAM, don't execute it")
		tokenize    = flag.Bool("tokenize", false, "Show tokenization of PROGRAM")
		parseOnly   = flag.Bool("parse", false, "Show canonical serialization of parsed PROGRAM")
		lint        = flag.Bool("lint", false, "Report lint findings for PROGRAM")
		xref        = flag.Bool("xref", false, "Show label cross-reference for PROGRAM")
		verbose     = flag.Bool("verbose", false, "Show verbose output for debugging")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode (CLI)")
		tuiMode     = flag.Bool("tui", false, "Start in TUI debugger mode")
		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		maxSteps    = flag.Uint64("max-steps", 0, "Maximum steps before halt (0: config default)")
		readPastEnd = flag.String("read-past-end", "", "READ past end of input: zero or error (default: config)")
		configPath  = flag.String("config", "", "Config file path (default: platform config dir)")
	)
	// Short aliases in the original CLI's shape
	flag.BoolVar(noExecute, "n", false, "Alias for -no-execute")
	flag.BoolVar(tokenize, "t", false, "Alias for -tokenize")
	flag.BoolVar(parseOnly, "p", false, "Alias for -parse")
	flag.BoolVar(verbose, "v", false, "Alias for -verbose")

	flag.Parse()

	if *showVersion {
		fmt.Printf("RAM Machine %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		if *showHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := cliutil.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(flag.Arg(0)) // #nosec G304 -- program path comes from the command line
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inputTape, err := cliutil.ParseInputTape(flag.Args()[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *tokenize {
		if err := cliutil.DumpTokens(os.Stdout, ram.TokenizeString(string(source)), *verbose, cfg.Display.TokenDumpWidth); err != nil {
			fmt.Fprintf(os.Stderr, "Lex error:\n%v\n", err)
			os.Exit(1)
		}
	}

	program, err := ram.ParseString(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error:\n%v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Parsed %d instructions, %d labels\n",
			len(program.Instructions), len(program.Jumptable))
	}

	if *parseOnly {
		fmt.Println(program.Serialize())
	}

	if *lint {
		if issues := tools.Lint(program); len(issues) > 0 {
			fmt.Fprintln(os.Stderr, tools.FormatIssues(issues))
		} else if *verbose {
			fmt.Fprintln(os.Stderr, "No lint findings")
		}
	}

	if *xref {
		fmt.Println(tools.BuildCrossReference(program))
	}

	if *noExecute {
		return
	}

	machine := ram.New(program, inputTape)
	machine.MaxSteps = cfg.Execution.MaxSteps
	if *maxSteps > 0 {
		machine.MaxSteps = *maxSteps
	}

	policy := cfg.Execution.ReadPastEnd
	if *readPastEnd != "" {
		policy = *readPastEnd
	}
	switch policy {
	case "", "zero":
		machine.Policy = ram.ReadPadZero
	case "error":
		machine.Policy = ram.ReadStrict
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid read-past-end policy %q\n", policy)
		os.Exit(1)
	}

	var traceWriter io.WriteCloser
	if *enableTrace || cfg.Execution.EnableTrace {
		tracePath := *traceFile
		if tracePath == "" {
			tracePath = filepath.Join(config.GetLogPath(), cfg.Trace.OutputFile)
		}
		traceWriter, err = os.Create(tracePath) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := traceWriter.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close trace file: %v\n", err)
			}
		}()

		machine.Trace = ram.NewExecutionTrace(traceWriter)
		machine.Trace.MaxEntries = cfg.Trace.MaxEntries

		if *verbose {
			fmt.Fprintf(os.Stderr, "Execution trace enabled: %s\n", tracePath)
		}
	}

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine)
		dbg.History = debugger.NewCommandHistory(cfg.Debugger.HistorySize)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("RAM Debugger - Type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", flag.Arg(0))
			fmt.Println()

			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}

	if machine.Trace != nil {
		if err := machine.Trace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing execution trace: %v\n", err)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "%s\n", machine.Trace)
		}
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Input tape: %v\n", inputTape)
		fmt.Fprintf(os.Stderr, "# of steps: %d\n", machine.StepCounter)
		fmt.Fprintf(os.Stderr, "Halted: %t\n", machine.Halted)
		fmt.Fprintf(os.Stderr, "Output tape: %v\n", machine.OutputTape)
	}

	fmt.Println(cliutil.FormatTape(machine.OutputTape))
}

func printHelp() {
	fmt.Printf(`RAM Machine %s

Usage: ram [options] PROGRAM [INPUT...]

Run the specified RAM program on an input tape of integers. The output tape
is printed as space-separated integers.

Options:
  -help                Show this help message
  -version             Show version information
  -n, -no-execute      Only parse PROGRAM, don't execute it
  -t, -tokenize        Show tokenization of PROGRAM
  -p, -parse           Show canonical serialization of parsed PROGRAM
  -lint                Report lint findings for PROGRAM
  -xref                Show label cross-reference for PROGRAM
  -v, -verbose         Show verbose output for debugging
  -debug               Start in debugger mode (CLI)
  -tui                 Start in TUI debugger mode
  -trace               Enable execution trace
  -trace-file FILE     Trace output file (default: trace.log in log dir)
  -max-steps N         Maximum steps before halt (default from config)
  -read-past-end MODE  READ past end of input: zero or error
  -config FILE         Config file path

Examples:
  ram examples/n_pow_n.ram 5
  ram -p -n examples/n_pow_n.ram
  ram -tui examples/n_pow_n.ram 5
  ram -trace -verbose examples/n_pow_n.ram 5
`, Version)
}
