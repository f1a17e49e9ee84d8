// Package driver runs the lint rules and the assert rewrite over files on
// disk, one file at a time, and collects their diagnostics.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/fix"
	"pyrewrite/internal/format"
	"pyrewrite/internal/observ"
	"pyrewrite/internal/parser"
	"pyrewrite/internal/pyast"
	"pyrewrite/internal/rules"
	"pyrewrite/internal/source"
)

// FixMode selects how fixes reach the file.
type FixMode string

const (
	// FixModeUnparse regenerates the whole file from the fixed tree.
	FixModeUnparse FixMode = "unparse"
	// FixModeEdit splices the suggested text edits into the original source,
	// leaving everything else byte for byte.
	FixModeEdit FixMode = "edit"
)

// Options configures Run.
type Options struct {
	Rules          []rules.Rule
	Fix            bool
	FixMode        FixMode
	MaxDiagnostics int
	Logger         *zap.Logger
	Timer          *observ.Timer
	Progress       ProgressSink
}

// FileResult summarises one processed file.
type FileResult struct {
	Path string
	File source.FileID
	// Found counts rule violations, fixed ones included.
	Found   int
	Fixed   int
	Written bool
	// Err is set when the file could not be read, parsed or written.
	Err error
}

// Violations is the per-file flag that feeds the exit code.
func (r FileResult) Violations() bool {
	return r.Found > 0 || r.Err != nil
}

// Result aggregates a whole run.
type Result struct {
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Files    []FileResult
	ExitCode int
}

// Files returns the paths Run would process, in order.
func Files(ctx context.Context, paths []string) ([]string, error) {
	return collectSourceFiles(ctx, paths)
}

// Run checks every file and, when opts.Fix is set, writes fixed files back
// in place. A file that cannot be read or parsed becomes a diagnostic and
// the run continues; only cancellation stops it early.
func Run(ctx context.Context, opts Options, paths []string) (*Result, error) {
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

	r := newRunner(opts.Logger, opts.Timer, opts.Progress, opts.MaxDiagnostics)
	defer r.close()
	res := &Result{FileSet: r.fs, Bag: r.bag}

	for _, path := range files {
		emit(r.sink, Event{File: path, Status: StatusQueued})
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fr, err := r.checkFile(ctx, path, opts)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, fr)
		if fr.Violations() {
			res.ExitCode |= 1
		}
	}
	r.bag.Sort()
	return res, nil
}

// runner holds what is shared between files of one run.
type runner struct {
	log    *zap.Logger
	timer  *observ.Timer
	sink   ProgressSink
	fs     *source.FileSet
	bag    *diag.Bag
	parser *parser.Parser
}

func newRunner(log *zap.Logger, timer *observ.Timer, sink ProgressSink, maxDiagnostics int) *runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &runner{
		log:    log,
		timer:  timer,
		sink:   sink,
		fs:     source.NewFileSet(),
		bag:    diag.NewBag(maxDiagnostics),
		parser: parser.New(),
	}
}

func (r *runner) close() {
	r.parser.Close()
}

// stage times fn, logs it and reports it to the progress sink.
func (r *runner) stage(path string, st Stage, fn func() error) error {
	emit(r.sink, Event{File: path, Stage: st, Status: StatusWorking})
	done := r.timer.Track(string(st))
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	done(path)
	if err != nil {
		r.log.Debug("stage failed", zap.String("file", path), zap.String("stage", string(st)), zap.Duration("elapsed", elapsed), zap.Error(err))
		emit(r.sink, Event{File: path, Stage: st, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	r.log.Debug("stage done", zap.String("file", path), zap.String("stage", string(st)), zap.Duration("elapsed", elapsed))
	return nil
}

func (r *runner) finish(path string, err error) {
	if err != nil {
		return
	}
	emit(r.sink, Event{File: path, Stage: StageWrite, Status: StatusDone})
}

// load reads path into the file set. On failure a placeholder file is
// registered so the IOE01 diagnostic still has somewhere to point.
func (r *runner) load(path string) (source.FileID, error) {
	var id source.FileID
	err := r.stage(path, StageLoad, func() error {
		var err error
		id, err = r.fs.Load(path)
		return err
	})
	if err != nil {
		id = r.fs.Add(path, nil, source.FileVirtual)
		r.bag.Add(diag.NewError(diag.IOReadFailed, source.At(id, 0), 1, 0, ioMessage(err)))
		return id, err
	}
	return id, nil
}

// parse returns the module tree or reports SYN01. A cancelled context is
// returned as is and aborts the run.
func (r *runner) parse(ctx context.Context, path string, id source.FileID) (*pyast.Module, error) {
	var mod *pyast.Module
	err := r.stage(path, StageParse, func() error {
		var err error
		mod, err = r.parser.Parse(ctx, r.fs, id)
		return err
	})
	if err == nil {
		return mod, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		r.bag.Add(diag.NewError(diag.SynInvalid, se.Span, se.Line, se.Col, se.Msg))
	} else {
		r.bag.Add(diag.NewError(diag.SynInvalid, source.At(id, 0), 1, 0, err.Error()))
	}
	return nil, err
}

func (r *runner) checkFile(ctx context.Context, path string, opts Options) (FileResult, error) {
	fr := FileResult{Path: path}
	id, err := r.load(path)
	fr.File = id
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	mod, err := r.parse(ctx, path, id)
	if err != nil {
		if ctx.Err() != nil {
			return fr, err
		}
		fr.Err = err
		return fr, nil
	}

	var found []diag.Diagnostic
	_ = r.stage(path, StageCheck, func() error {
		found = rules.Check(mod, opts.Rules)
		return nil
	})
	fr.Found = len(found)

	if !opts.Fix || len(found) == 0 {
		r.bag.AddAll(found)
		r.finish(path, nil)
		return fr, nil
	}

	switch opts.FixMode {
	case FixModeEdit:
		fr = r.fixEdits(path, fr, found)
	default:
		fr = r.fixUnparse(path, fr, mod, found, opts.Rules)
	}
	r.finish(path, fr.Err)
	return fr, nil
}

// fixUnparse rebuilds the tree with the fixers and regenerates the file.
func (r *runner) fixUnparse(path string, fr FileResult, mod *pyast.Module, found []diag.Diagnostic, rs []rules.Rule) FileResult {
	file := r.fs.Get(fr.File)
	var (
		fixedTree *pyast.Module
		fixed     []diag.Diagnostic
		text      string
	)
	err := r.stage(path, StageFix, func() error {
		fixedTree, fixed = rules.Fix(mod, rs)
		if len(fixed) == 0 {
			return nil
		}
		var err error
		if text, err = format.Unparse(fixedTree); err != nil {
			return err
		}
		text = withPreamble(file, text)
		return nil
	})
	if err != nil {
		r.bag.Add(diag.NewError(diag.SynUnparseFail, source.At(fr.File, 0), 1, 0, err.Error()))
		r.bag.AddAll(found)
		fr.Err = err
		return fr
	}
	if len(fixed) == 0 {
		r.bag.AddAll(found)
		return fr
	}

	err = r.stage(path, StageWrite, func() error {
		return fix.WriteFile(file, []byte(text))
	})
	if err != nil {
		r.bag.Add(diag.NewError(diag.IOWriteFailed, source.At(fr.File, 0), 1, 0, ioMessage(err)))
		r.bag.AddAll(found)
		fr.Err = err
		return fr
	}
	fr.Written = true
	fr.Fixed = len(fixed)
	r.bag.AddAll(fixed)
	r.bag.AddAll(rules.Remaining(found, fixed))
	return fr
}

// fixEdits applies the text edits attached to the findings.
func (r *runner) fixEdits(path string, fr FileResult, found []diag.Diagnostic) FileResult {
	var applied *fix.ApplyResult
	err := r.stage(path, StageWrite, func() error {
		var err error
		applied, err = fix.Apply(r.fs, found, fix.ApplyOptions{Mode: fix.ApplyModeAll})
		if errors.Is(err, fix.ErrNoFixes) {
			return nil
		}
		return err
	})
	if err != nil {
		r.bag.Add(diag.NewError(diag.IOWriteFailed, source.At(fr.File, 0), 1, 0, ioMessage(err)))
		r.bag.AddAll(found)
		fr.Err = err
		return fr
	}

	type key struct {
		code      diag.Code
		line, col uint32
	}
	done := make(map[key]struct{}, len(applied.Applied))
	for _, a := range applied.Applied {
		done[key{a.Code, a.Line, a.Offset}] = struct{}{}
	}
	for _, d := range found {
		if _, ok := done[key{d.Code, d.Line, d.Offset}]; ok {
			d = d.AsFixed()
			fr.Fixed++
		}
		r.bag.Add(d)
	}
	fr.Written = len(applied.FileChanges) > 0
	return fr
}

// withPreamble puts back the shebang and coding cookie that unparsing
// drops, so the text still matches the encoding it is written in.
func withPreamble(file *source.File, text string) string {
	pre := file.Preamble()
	if pre == "" || strings.HasPrefix(text, pre) {
		return text
	}
	return pre + text
}

// ioMessage drops the operation and path that *fs.PathError repeats; the
// diagnostic already names the file.
func ioMessage(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Sprintf("%s: %v", pe.Op, pe.Err)
	}
	return err.Error()
}
