package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	// TargetBase is the DRF base class every API view derives from.
	TargetBase = "APIView"
	// TargetAnnotation is the drf-spectacular decorator that documents a view.
	TargetAnnotation = "extend_schema"

	sourceExt = ".py"
)

var errInvalidUTF8 = errors.New("file is not valid UTF-8")

type Analyzer struct {
	projectPath string
	baseClass   string
	annotation  string
	logger      *slog.Logger
}

type Option func(*Analyzer)

// WithBaseClass changes the base class name views are matched on.
func WithBaseClass(name string) Option {
	return func(a *Analyzer) { a.baseClass = name }
}

// WithAnnotation changes the decorator name that marks a view as documented.
func WithAnnotation(name string) Option {
	return func(a *Analyzer) { a.annotation = name }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func New(projectPath string, opts ...Option) *Analyzer {
	a := &Analyzer{
		projectPath: projectPath,
		baseClass:   TargetBase,
		annotation:  TargetAnnotation,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze walks the project and reports every class deriving from the base
// class that lacks the documentation decorator. Files that fail to parse are
// recorded as warnings; only a failure to read the root is returned. A root
// that does not exist scans as empty.
func (a *Analyzer) Analyze(ctx context.Context) (*Analysis, error) {
	analysis := &Analysis{
		Root:     a.projectPath,
		Findings: []Finding{},
		Warnings: []ParseWarning{},
	}

	info, err := os.Stat(a.projectPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("project directory missing", "path", a.projectPath)
			return analysis, nil
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	if !info.IsDir() {
		a.logger.Debug("project path is not a directory", "path", a.projectPath)
		return analysis, nil
	}

	parser := newPythonParser()
	defer parser.Close()

	if err := a.walk(ctx, parser, a.projectPath, analysis); err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	return analysis, nil
}

// walk visits the files of dir in lexical order before descending into its
// subdirectories.
func (a *Analyzer) walk(ctx context.Context, parser *sitter.Parser, dir string, analysis *Analysis) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var subdirs []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if isSourceFile(path) {
			a.analyzeFile(ctx, parser, path, analysis)
		}
	}

	for _, subdir := range subdirs {
		if isExcludedDir(a.projectPath, subdir) {
			a.logger.Debug("skipping directory", "path", subdir)
			continue
		}
		if err := a.walk(ctx, parser, subdir, analysis); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			analysis.Warnings = append(analysis.Warnings, ParseWarning{FilePath: subdir, Err: err})
		}
	}
	return ctx.Err()
}

func (a *Analyzer) analyzeFile(ctx context.Context, parser *sitter.Parser, path string, analysis *Analysis) {
	src, err := os.ReadFile(path)
	if err == nil && !utf8.Valid(src) {
		err = errInvalidUTF8
	}
	if err != nil {
		analysis.Warnings = append(analysis.Warnings, ParseWarning{FilePath: path, Err: err})
		return
	}

	classes, err := a.parseClasses(ctx, parser, src)
	if err != nil {
		a.logger.Debug("failed to parse source file", "path", path, "error", err)
		analysis.Warnings = append(analysis.Warnings, ParseWarning{FilePath: path, Err: err})
		return
	}
	analysis.FilesScanned++

	for _, cls := range classes {
		if !IsDerivedFrom(cls, a.baseClass) {
			continue
		}
		if HasAnnotation(cls, a.annotation) {
			continue
		}
		analysis.Findings = append(analysis.Findings, Finding{
			FilePath:  path,
			ClassName: cls.Name,
			Line:      cls.Line,
		})
	}

	a.logger.Debug("parsed source file", "path", path, "classes", len(classes))
}
