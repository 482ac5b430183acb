// Package linker turns generated Go source into an executable.
//
// Design: Write the source into a directory inside the pygo module so the
// runtime import resolves without network access, then hand it to
// `go build`. Static linking comes for free from the Go toolchain.
package linker

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/execabs"

	"github.com/GriffinCanCode/pygo/pkg/logger"
)

// Linker builds generated programs with the Go toolchain
type Linker struct {
	goBinary string
	buildDir string
	keep     bool
}

func New(goBinary, buildDir string, keep bool) *Linker {
	if goBinary == "" {
		goBinary = "go"
	}
	return &Linker{
		goBinary: goBinary,
		buildDir: buildDir,
		keep:     keep,
	}
}

// Link writes source as package main under the build directory and builds
// it into output.
func (l *Linker) Link(ctx context.Context, name string, source []byte, output string) error {
	dir, err := filepath.Abs(filepath.Join(l.buildDir, sanitize(name)))
	if err != nil {
		return errors.Wrap(err, "resolve build directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create build directory")
	}
	if l.keep {
		logger.Info("Keeping build directory", "dir", dir)
	} else {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				logger.Warn("Could not remove build directory", "dir", dir, "error", err)
			}
		}()
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), source, 0o644); err != nil {
		return errors.Wrap(err, "write generated source")
	}

	output, err = filepath.Abs(output)
	if err != nil {
		return errors.Wrap(err, "resolve output path")
	}

	logger.LogBuildStart(dir)
	if _, err := l.goCommand(ctx, dir, "build", "-o", output, "."); err != nil {
		return errors.Wrapf(err, "build %s", name)
	}
	logger.LogBuildComplete(output)
	return nil
}

// Run executes a built program with the given standard streams.
func (l *Linker) Run(ctx context.Context, binary string, stdin io.Reader, stdout, stderr io.Writer) error {
	binary, err := filepath.Abs(binary)
	if err != nil {
		return errors.Wrap(err, "resolve binary path")
	}
	cmd := execabs.CommandContext(ctx, binary)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	logger.Debug("Running program", "binary", binary)
	return cmd.Run()
}

func (l *Linker) goCommand(ctx context.Context, dir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := execabs.CommandContext(ctx, l.goBinary, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.Errorf("%s %s: %s", l.goBinary, strings.Join(args, " "), msg)
		}
		// Not wrapped: a toolchain exit status must not be mistaken for the
		// program's.
		return "", errors.Errorf("%s %s: %v", l.goBinary, strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}

// sanitize turns a source file name into a directory name.
func sanitize(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "main"
	}
	return b.String()
}
