// Package main implements the pygo compiler binary.
//
// Philosophy: Small programs in, plain Go out. Everything after code
// generation is the Go toolchain's job.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/execabs"

	"github.com/GriffinCanCode/pygo/pkg/compiler"
	"github.com/GriffinCanCode/pygo/pkg/config"
	"github.com/GriffinCanCode/pygo/pkg/linker"
	"github.com/GriffinCanCode/pygo/pkg/logger"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()

	cmd := os.Args[1]
	var err error
	switch cmd {
	case "compile":
		err = compile(cfg, os.Args[2:])
	case "build":
		err = build(cfg, os.Args[2:])
	case "run":
		err = run(cfg, os.Args[2:])
	case "version":
		fmt.Printf("pygo compiler version %s\n", version)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	var exitErr *execabs.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		os.Exit(exitErr.ExitCode())
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`pygo - Compile a Python subset to Go

Usage:
    pygo compile <source.py> [-o file.go]  Translate to Go source (stdout by default)
    pygo build <source.py> [-o binary]     Compile to a native binary
    pygo run <source.py>                   Compile and run with the current stdin/stdout
    pygo version                           Show compiler version
    pygo help                              Show this help message

Options:
    -o <file>   Output file (default: source name without extension)
    -v          Verbose output
    -keep       Keep the generated build directory

Environment:
    PYGO_LOG_LEVEL, PYGO_LOG_FORMAT, PYGO_LOG_FILE, PYGO_GO,
    PYGO_BUILD_DIR, PYGO_KEEP_BUILD, PYGO_VERBOSE`)
}

// parseArgs parses the options shared by every subcommand and returns the
// source file.
func parseArgs(cfg *config.Config, name string, args []string) (source, output string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&output, "o", "", "output file")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	fs.BoolVar(&cfg.KeepBuild, "keep", cfg.KeepBuild, "keep the generated build directory")

	// Allow the source file before or after the flags.
	var positional []string
	for len(args) > 0 {
		if err := fs.Parse(args); err != nil {
			return "", "", err
		}
		args = fs.Args()
		if len(args) > 0 {
			positional = append(positional, args[0])
			args = args[1:]
		}
	}
	if len(positional) != 1 {
		return "", "", errors.New("expected exactly one input file")
	}

	lc, err := cfg.Logger()
	if err != nil {
		return "", "", err
	}
	if err := logger.Init(lc); err != nil {
		return "", "", err
	}
	logger.LogCompilerStart(os.Args[1:])
	return positional[0], output, nil
}

func translate(source string) ([]byte, error) {
	logger.Debug("Reading source", "file", source)
	text, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}
	out, err := compiler.Compile(source, text)
	if err != nil {
		return nil, err
	}
	return out.Source, nil
}

func compile(cfg *config.Config, args []string) error {
	source, output, err := parseArgs(cfg, "compile", args)
	if err != nil {
		return err
	}
	code, err := translate(source)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(code)
		return err
	}
	return os.WriteFile(output, code, 0o644)
}

func build(cfg *config.Config, args []string) error {
	source, output, err := parseArgs(cfg, "build", args)
	if err != nil {
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	code, err := translate(source)
	if err != nil {
		return err
	}
	l := linker.New(cfg.GoBinary, cfg.BuildDir, cfg.KeepBuild)
	return l.Link(context.Background(), source, code, output)
}

func run(cfg *config.Config, args []string) error {
	source, _, err := parseArgs(cfg, "run", args)
	if err != nil {
		return err
	}
	code, err := translate(source)
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", "pygo-run-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)
	binary := filepath.Join(tmp, "program")

	ctx := context.Background()
	l := linker.New(cfg.GoBinary, cfg.BuildDir, cfg.KeepBuild)
	if err := l.Link(ctx, source, code, binary); err != nil {
		return err
	}
	return l.Run(ctx, binary, os.Stdin, os.Stdout, os.Stderr)
}
