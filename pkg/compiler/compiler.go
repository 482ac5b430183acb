// Package compiler drives the pipeline from source text to formatted Go.
//
// Design: parse -> lower -> optimize -> analyze -> generate -> format, each phase a
// pure function of the previous one's output. The first error stops the
// pipeline; nothing partial is returned.
package compiler

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"

	"github.com/GriffinCanCode/pygo/pkg/analysis"
	"github.com/GriffinCanCode/pygo/pkg/codegen/golang"
	"github.com/GriffinCanCode/pygo/pkg/frontend"
	"github.com/GriffinCanCode/pygo/pkg/ir"
	"github.com/GriffinCanCode/pygo/pkg/logger"
	"github.com/GriffinCanCode/pygo/pkg/optimizer"
)

// Output is everything one compilation produced.
type Output struct {
	Program     *ir.Program
	Definitions *analysis.Definitions
	Source      []byte // formatted Go
}

// Compile translates source, read from file name, into a Go main package.
func Compile(name string, source []byte) (*Output, error) {
	start := time.Now()
	log := logger.With("file", name)

	done := logger.LogPhase("parse")
	mod, err := frontend.Parse(string(source))
	if err != nil {
		return nil, fail(name, start, errors.Wrapf(err, "%s", name))
	}
	logger.LogParsing(name, len(mod.Body))
	done()

	done = logger.LogPhase("lower")
	prog, err := ir.Build(mod)
	if err != nil {
		return nil, fail(name, start, errors.Wrapf(err, "%s", name))
	}
	logger.LogLowering(name, len(prog.Body))
	done()

	done = logger.LogPhase("optimize")
	prog = optimizer.Optimize(prog)
	done()

	done = logger.LogPhase("analyze")
	defs, err := analysis.Analyze(prog)
	if err != nil {
		return nil, fail(name, start, errors.Wrapf(err, "%s", name))
	}
	logger.LogAnalysis(name, len(defs.Scopes()))
	done()

	done = logger.LogPhase("generate")
	raw, err := golang.Generate(prog, defs)
	if err != nil {
		return nil, fail(name, start, errors.Wrapf(err, "%s", name))
	}
	done()

	formatted, err := Format(raw)
	if err != nil {
		log.Error("Generated code does not format", "error", err)
		return nil, fail(name, start, errors.Wrapf(err, "%s: internal error", name))
	}

	logger.LogCompilerComplete(true, time.Since(start))
	return &Output{Program: prog, Definitions: defs, Source: formatted}, nil
}

// Format gofmt-formats generated code and normalizes its import block.
func Format(src []byte) ([]byte, error) {
	out, err := imports.Process("main.go", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "format generated code")
	}
	return out, nil
}

func fail(name string, start time.Time, err error) error {
	line := 0
	switch e := errors.Cause(err).(type) {
	case *ir.UnsupportedError:
		line = e.Pos.Line
	case *golang.Error:
		line = e.Pos.Line
	}
	logger.LogError("compile", name, line, err.Error())
	logger.LogCompilerComplete(false, time.Since(start))
	return err
}

// IsUnsupported reports whether err was caused by a construct outside the
// compiled subset.
func IsUnsupported(err error) bool {
	_, ok := errors.Cause(err).(*ir.UnsupportedError)
	return ok
}
