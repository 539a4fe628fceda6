package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/cppgen"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/diag"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/layout"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/svd"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/version"
)

// cliFlags holds the parsed command-line values. Empty strings mean the
// flag was not given and the config file value (or default) applies.
type cliFlags struct {
	output  string
	report  string
	config  string
	verbose bool
}

// registerFlags binds the command-line surface onto fs.
func registerFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{}
	fs.StringVar(&f.output, "output", "", "Output directory for generated headers (default \"generated\")")
	fs.StringVar(&f.output, "o", "", "Shorthand for -output")
	fs.StringVar(&f.report, "report", "", "Path for a machine-readable findings report file")
	fs.StringVar(&f.config, "config", "", "Path to a YAML config file")
	fs.BoolVar(&f.verbose, "v", false, "Enable verbose output")
	return f
}

// apply layers the flags over cfg. Flags override file values.
func (f *cliFlags) apply(cfg Config) Config {
	if f.output != "" {
		cfg.Output = f.output
	}
	if f.report != "" {
		cfg.Report = f.report
	}
	if f.verbose {
		cfg.Verbose = true
	}
	return cfg
}

func main() {
	flags := registerFlags(flag.CommandLine)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: svd2cpp [-o <dir>] [-report <file>] [-config <file>] [-v] <input.svd>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = LoadConfig(flags.config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(flag.Arg(0), flags.apply(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run drives the pipeline: load, validate, plan, emit, write.
// It returns an error only for fatal problems (unreadable input, unwritable
// output); entity-local failures and warnings are reported and the run
// still succeeds.
func run(input string, cfg Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	collector := &diag.Collector{}
	reporters := []diag.Reporter{collector, diag.NewSlogReporter(logger)}
	if cfg.Report != "" {
		fileRep, err := diag.NewFileReporter(cfg.Report, version.Current)
		if err != nil {
			return fmt.Errorf("creating report %s: %w", cfg.Report, err)
		}
		defer fileRep.Close()
		reporters = append(reporters, fileRep)
	}
	rep := diag.NewMultiReporter(reporters...)

	logger.Debug("parsing SVD file", "path", input)
	dev, err := svd.Load(input, rep)
	if err != nil {
		return err
	}

	layout.NewValidator(rep).ValidateDevice(dev)

	if cfg.Verbose {
		for _, p := range dev.Peripherals {
			logger.Debug("peripheral",
				"name", p.Name,
				"base", fmt.Sprintf("0x%08X", p.BaseAddress),
				"registers", len(p.Registers))
			for _, r := range p.Registers {
				logger.Debug("register", "name", r.Name, "fields", len(r.Fields))
			}
		}
	}

	units := cppgen.NewEmitter(cppgen.Options{Tool: version.Current}).EmitDevice(dev)
	if len(units) == 0 {
		rep.Report(diag.New(diag.SeverityWarning, diag.KindNoPeripherals,
			dev.Name, "no valid peripherals found"))
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	fmt.Printf("Found %d peripheral(s)\n", len(units))
	for _, u := range units {
		outPath := filepath.Join(cfg.Output, u.FileName)
		if err := os.WriteFile(outPath, []byte(u.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", u.FileName, err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}

	if n := collector.Count(diag.SeverityWarning) + collector.Count(diag.SeverityError); n > 0 {
		logger.Info("completed with findings", "count", n)
	}
	return nil
}
