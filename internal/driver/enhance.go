package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/fix"
	"pyrewrite/internal/format"
	"pyrewrite/internal/observ"
	"pyrewrite/internal/pyast"
	"pyrewrite/internal/rewrite"
	"pyrewrite/internal/source"
)

// EnhanceOptions configures Enhance.
type EnhanceOptions struct {
	Strict bool
	Raise  bool
	// Write replaces each input file with its rewritten text.
	Write bool
	// OutDir, when set, receives the rewritten files under their base
	// names instead. It takes precedence over Write.
	OutDir         string
	MaxDiagnostics int
	Logger         *zap.Logger
	Timer          *observ.Timer
	Progress       ProgressSink
}

// EnhancedFile is the outcome of rewriting one file.
type EnhancedFile struct {
	Path string
	File source.FileID
	// Source is the rewritten program, or the original one when it has no
	// assert to rewrite. Empty when Err is set.
	Source string
	// Raw is Source in the encoding of the input file, ready to be written
	// or handed to an interpreter.
	Raw     []byte
	Changed bool
	// Output is where Source was written, if anywhere.
	Output string
	Err    error
}

// EnhanceResult aggregates an Enhance run.
type EnhanceResult struct {
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Files    []EnhancedFile
	ExitCode int
}

// Enhance rewrites the asserts of every file. Files that fail to load,
// parse or rewrite are reported and skipped; ExitCode is 1 if any did.
func Enhance(ctx context.Context, opts EnhanceOptions, paths []string) (*EnhanceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := collectSourceFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("driver: no source files given")
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", opts.OutDir, err)
		}
	}

	r := newRunner(opts.Logger, opts.Timer, opts.Progress, opts.MaxDiagnostics)
	defer r.close()
	res := &EnhanceResult{FileSet: r.fs, Bag: r.bag}

	for _, path := range files {
		emit(r.sink, Event{File: path, Status: StatusQueued})
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ef, err := r.enhanceFile(ctx, path, opts)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, ef)
		if ef.Err != nil {
			res.ExitCode |= 1
		}
	}
	r.bag.Sort()
	return res, nil
}

func (r *runner) enhanceFile(ctx context.Context, path string, opts EnhanceOptions) (EnhancedFile, error) {
	ef := EnhancedFile{Path: path}
	id, err := r.load(path)
	ef.File = id
	if err != nil {
		ef.Err = err
		return ef, nil
	}
	mod, err := r.parse(ctx, path, id)
	if err != nil {
		if ctx.Err() != nil {
			return ef, err
		}
		ef.Err = err
		return ef, nil
	}

	file := r.fs.Get(id)
	enh := &rewrite.Enhancer{Path: path, Strict: opts.Strict, Raise: opts.Raise}
	var out *pyast.Module
	err = r.stage(path, StageEnhance, func() error {
		var (
			ds  []diag.Diagnostic
			err error
		)
		out, ds, err = enh.Enhance(mod)
		r.bag.AddAll(ds)
		if err != nil || out == mod {
			return err
		}
		text, err := format.Unparse(out)
		if err == nil {
			ef.Source = withPreamble(file, text)
			ef.Raw, err = file.Encode([]byte(ef.Source))
		}
		if err != nil {
			r.bag.Add(diag.NewError(diag.SynUnparseFail, source.At(id, 0), 1, 0, err.Error()))
		}
		return err
	})
	if err != nil {
		ef.Err = err
		return ef, nil
	}
	if out == mod {
		ef.Source = string(file.Content)
		if ef.Raw, err = file.Encode(file.Content); err != nil {
			ef.Err = err
			return ef, nil
		}
		r.finish(path, nil)
		return ef, nil
	}
	ef.Changed = true

	target := ""
	switch {
	case opts.OutDir != "":
		target = filepath.Join(opts.OutDir, filepath.Base(path))
	case opts.Write:
		target = path
	}
	if target != "" {
		err = r.stage(path, StageWrite, func() error {
			if target == path {
				return fix.WriteFile(file, []byte(ef.Source))
			}
			return writeCopy(target, ef.Raw)
		})
		if err != nil {
			r.bag.Add(diag.NewError(diag.IOWriteFailed, source.At(id, 0), 1, 0, ioMessage(err)))
			ef.Err = err
			return ef, nil
		}
		ef.Output = target
	}
	r.finish(path, nil)
	return ef, nil
}

// writeCopy stores raw at target.
func writeCopy(target string, raw []byte) error {
	// #nosec G306 -- rewritten scripts are ordinary source files
	if err := os.WriteFile(target, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
