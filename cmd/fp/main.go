// Command fp is the FP combinator evaluator CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"fortio.org/log"
	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/fp/pkg/config"
	"github.com/thomasrohde/fp/pkg/diagnostics"
	"github.com/thomasrohde/fp/pkg/evaluator"
	"github.com/thomasrohde/fp/pkg/help"
	"github.com/thomasrohde/fp/pkg/runtime"
	"github.com/thomasrohde/fp/pkg/validator"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: fp <command> [options]")
		fmt.Fprintln(os.Stderr, "commands: run, check, fmt, help, config")
		os.Exit(runtime.ExitUsage)
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(runtime.ExitUsage)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(cfg, os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(cfg, os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "help", "--help", "-h":
		os.Exit(cmdHelp(os.Args[2:]))
	case "config":
		os.Exit(cmdConfig(cfg))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		os.Exit(runtime.ExitUsage)
	}
}

// loadConfig reads the config files and sets the log level from the
// config, then FP_LOG_LEVEL. log.Fatalf exits with the runtime error code.
func loadConfig() (*config.Config, error) {
	log.Config.FatalExit = func(int) { os.Exit(runtime.ExitRuntime) }
	cwd, _ := os.Getwd()
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	lvl := cfg.LogLevel
	if env := os.Getenv("FP_LOG_LEVEL"); env != "" {
		lvl = env
	}
	log.SetLogLevel(log.LevelByName(lvl))
	if cfg.Path != "" {
		log.LogVf("config loaded from %s", cfg.Path)
	}
	return cfg, nil
}

func cmdRun(cfg *config.Config, args []string) int {
	var file, fnSrc, argSrc string
	pretty := cfg.Pretty
	jsonOutput := cfg.JSON
	traceEnabled := false
	maxSteps := cfg.MaxSteps

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		case "--json":
			jsonOutput = true
		case "--trace":
			traceEnabled = true
		case "--verbose":
			log.SetLogLevel(log.Verbose)
		case "--debug":
			log.SetLogLevel(log.Debug)
		case "--max-steps":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--max-steps needs a value")
				return runtime.ExitUsage
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "bad --max-steps value %q\n", args[i])
				return runtime.ExitUsage
			}
			maxSteps = n
		case "-e":
			if i+2 >= len(args) {
				fmt.Fprintln(os.Stderr, "usage: fp run -e <function> <value>")
				return runtime.ExitUsage
			}
			fnSrc, argSrc = args[i+1], args[i+2]
			i += 2
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" && fnSrc == "" {
		fmt.Fprintln(os.Stderr, "usage: fp run <file> [--json] [--pretty] [--trace] [--verbose] [--max-steps N]")
		fmt.Fprintln(os.Stderr, "       fp run -e <function> <value>")
		return runtime.ExitUsage
	}

	opts := []runtime.Option{runtime.WithDiagOutput(os.Stderr)}
	if !jsonOutput {
		opts = append(opts, runtime.WithOutput(os.Stdout))
	}
	if traceEnabled {
		enc := json.NewEncoder(os.Stderr)
		opts = append(opts, runtime.WithTrace(func(ev evaluator.TraceEvent) {
			_ = enc.Encode(ev)
		}))
	}
	if log.Log(log.Verbose) {
		opts = append(opts, runtime.WithLogUndefined())
	}
	if maxSteps > 0 {
		opts = append(opts, runtime.WithMaxSteps(maxSteps))
	}
	rt := runtime.New(opts...)
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var outputs []runtime.Output
	var err error
	if fnSrc != "" {
		var out *runtime.Output
		out, err = rt.Apply(ctx, fnSrc, argSrc)
		if out != nil {
			outputs = append(outputs, *out)
		}
	} else {
		source, filename, code := readSource(file, pretty)
		if code != 0 {
			return code
		}
		var res *runtime.Result
		res, err = rt.Run(ctx, source, filename)
		if res != nil {
			outputs = res.Outputs
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		for _, o := range outputs {
			if encErr := enc.Encode(o); encErr != nil {
				fmt.Fprintf(os.Stderr, "error serializing result: %s\n", encErr)
				return runtime.ExitRuntime
			}
		}
	}
	return reportError(err, pretty)
}

func cmdCheck(cfg *config.Config, args []string) int {
	var file string
	pretty := cfg.Pretty

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: fp check <file> [--pretty]")
		return runtime.ExitUsage
	}

	source, filename, code := readSource(file, pretty)
	if code != 0 {
		return code
	}

	rt := runtime.New()
	defer rt.Close()
	diags := rt.Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, pretty))
	}
	if validator.HasErrors(diags) {
		return runtime.ExitDiagnostics
	}

	if pretty {
		fmt.Println("No errors found.")
	} else {
		fmt.Println("[]")
	}
	return runtime.ExitOK
}

func cmdFmt(args []string) int {
	var file string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			file = arg
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: fp fmt <file>")
		return runtime.ExitUsage
	}

	source, filename, code := readSource(file, false)
	if code != 0 {
		return code
	}

	rt := runtime.New()
	defer rt.Close()
	formatted, err := rt.Format(source, filename)
	if err != nil {
		return reportError(err, false)
	}
	fmt.Print(formatted)
	return runtime.ExitOK
}

func cmdHelp(args []string) int {
	topic := ""
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	switch topic {
	case "":
		fmt.Print(help.QUICKREF)
		return runtime.ExitOK
	case "index":
		fmt.Print(help.IntrinsicIndex())
		return runtime.ExitOK
	}

	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return runtime.ExitUsage
	}
	fmt.Print(content)
	return runtime.ExitOK
}

func cmdConfig(cfg *config.Config) int {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error serializing config: %s\n", err)
		return runtime.ExitRuntime
	}
	if cfg.Path != "" {
		fmt.Printf("# %s\n", cfg.Path)
	}
	fmt.Print(string(b))
	return runtime.ExitOK
}

// reportError prints err as diagnostics and returns the exit code. A
// corrupt function tree is fatal.
func reportError(err error, pretty bool) int {
	if err == nil {
		return runtime.ExitOK
	}
	diags := runtime.Diagnostics(err)
	if len(diags) == 1 && diags[0].Code == diagnostics.EAst {
		log.Fatalf("%s", diags[0].Message)
	}
	fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, pretty))
	return runtime.ExitCode(err)
}

func readSource(file string, pretty bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %s\n", err)
			return "", "", runtime.ExitIO
		}
		return string(data), "<stdin>", 0
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, pretty))
		return "", "", runtime.ExitIO
	}
	return string(source), file, 0
}
