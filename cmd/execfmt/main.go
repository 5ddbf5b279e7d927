package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/formatkit/execfmt/internal/config"
	"github.com/formatkit/execfmt/internal/doctor"
	"github.com/formatkit/execfmt/internal/format"
	"github.com/formatkit/execfmt/internal/log"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "fmt":
		os.Exit(runFmt(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "version":
		fmt.Printf("execfmt version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	configPath := fs.String("config", "execfmt.json", "path to the configuration file")
	write := fs.Bool("write", false, "rewrite changed files in place")
	check := fs.Bool("check", false, "exit non-zero when any file would change")
	logLevel := fs.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	fs.Parse(args)
	log.Setup(*logLevel)

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "fmt requires at least one file argument")
		return 1
	}

	result, err := resolveConfigFile(*configPath)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		return 1
	}
	if !result.Config.IsValid {
		printDiagnostics(result.Diagnostics)
		return 1
	}

	// SIGINT/SIGTERM cancel in-flight formatting; cancelled files keep
	// their original content.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed := 0
	for _, file := range files {
		original, err := os.ReadFile(file)
		if err != nil {
			log.Error("failed to read file", "file", file, "error", err)
			return 1
		}

		formatted, err := format.Format(ctx, file, original, result.Config)
		if err != nil {
			log.Error("format failed", "file", file, "error", err)
			return 1
		}
		if ctx.Err() != nil {
			log.Warn("interrupted, remaining files skipped")
			return 1
		}
		if formatted == nil {
			continue
		}
		changed++

		switch {
		case *check:
			fmt.Fprintf(os.Stderr, "%s would change\n", file)
		case *write:
			if err := os.WriteFile(file, formatted, 0644); err != nil {
				log.Error("failed to write file", "file", file, "error", err)
				return 1
			}
		default:
			os.Stdout.Write(formatted)
		}
	}

	if *check && changed > 0 {
		return 1
	}
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: execfmt config <check|show> [flags]")
		return 1
	}

	switch args[0] {
	case "check":
		return runConfigCheck(args[1:])
	case "show":
		return runConfigShow(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 1
	}
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("config check", flag.ExitOnError)
	configPath := fs.String("config", "execfmt.json", "path to the configuration file")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	fs.Parse(args)
	log.Setup("ERROR")

	result, err := resolveConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	report := doctor.Check(result)

	if *asJSON {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
	} else {
		for _, issue := range report.Errors {
			fmt.Fprintf(os.Stderr, "error [%s] %s: %s\n", issue.Category, issue.Field, issue.Message)
		}
		for _, issue := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning [%s] %s: %s\n", issue.Category, issue.Field, issue.Message)
		}
		if report.Valid {
			fmt.Println("configuration OK")
		}
	}

	if !report.Valid {
		return 1
	}
	return 0
}

func runConfigShow(args []string) int {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)
	configPath := fs.String("config", "execfmt.json", "path to the configuration file")
	fs.Parse(args)
	log.Setup("ERROR")

	result, err := resolveConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	printDiagnostics(result.Diagnostics)

	out, err := yaml.Marshal(result.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Print(string(out))

	if !result.Config.IsValid {
		return 1
	}
	return 0
}

func resolveConfigFile(path string) (config.ResolveResult, error) {
	raw, err := config.LoadFile(path)
	if err != nil {
		return config.ResolveResult{}, err
	}
	return config.Resolve(raw, config.GlobalConfig{}), nil
}

func printDiagnostics(diags []config.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "config error at %s: %s\n", d.PropertyName, d.Message)
	}
}

func printUsage() {
	fmt.Println(`execfmt - run external formatting commands over files

Usage:
  execfmt fmt --config <file> [--write|--check] <files...>
  execfmt config check --config <file> [--json]
  execfmt config show --config <file>
  execfmt version

Configuration files may be JSON, JSONC, or YAML.`)
}
