// Package main provides the CLI entry point for Vigil.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"vigil/internal/config"
	"vigil/internal/monitor"
	"vigil/internal/output"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Custom flag set to avoid os.Exit on parse error
	flags := flag.NewFlagSet("vigil", flag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "Path to configuration file")
	debounceMs := flags.Int("debounce-ms", 0, "Debounce window in milliseconds")
	graceMs := flags.Int("grace-ms", 0, "Post-resume grace window in milliseconds")
	pollSeconds := flags.Int("poll", 0, "Polling interval in seconds (0 disables)")
	limitBytes := flags.Int64("limit", 0, "Max bytes hashed per check (0 = whole file)")
	logDir := flags.String("log-dir", "", "Directory for the JSONL change log")
	verbose := flags.BoolP("verbose", "v", false, "Enable verbose output")
	noColor := flags.Bool("no-color", false, "Disable colored output")
	showVersion := flags.Bool("version", false, "Show version and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vigil [flags] PATH...\n       vigil --config FILE\n\nFlags:\n%s", flags.FlagUsages())
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 2
	}

	if *showVersion {
		fmt.Printf("vigil %s\n", version)
		return 0
	}

	outCfg := output.DefaultConfig()
	outCfg.Verbose = *verbose
	if *noColor || !outCfg.IsTTY {
		color.NoColor = true
	}
	out := output.New(outCfg)

	cfg, err := buildConfig(*configPath, flags.Args(), *debounceMs, *graceMs, *pollSeconds, *limitBytes, *logDir)
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out.Verbose("vigil %s starting", version)
	summary, err := monitor.Run(ctx, cfg, out)
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	out.Info("%s", summary.PrintSummary())
	return 0
}

// buildConfig loads the configuration file, or assembles a configuration
// from command-line paths and flags when no file is given. Flags and a
// config file are mutually exclusive to keep precedence unambiguous.
func buildConfig(configPath string, paths []string, debounceMs, graceMs, pollSeconds int, limitBytes int64, logDir string) (*config.Configuration, error) {
	if configPath != "" {
		if len(paths) > 0 {
			return nil, fmt.Errorf("--config cannot be combined with path arguments")
		}
		return config.Load(configPath)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given; pass PATH arguments or --config")
	}

	cfg := &config.Configuration{
		DebounceMs:    debounceMs,
		ResumeGraceMs: graceMs,
	}
	for _, path := range paths {
		cfg.AddWatch(config.Watch{
			Path:                path,
			PollIntervalSeconds: pollSeconds,
			ChecksumLimitBytes:  limitBytes,
		})
	}
	if logDir != "" {
		cfg.EventLog = &config.EventLogConfig{Enabled: true, Directory: logDir}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
