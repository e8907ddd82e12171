package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrArtifactMissing means the command succeeded but did not write the file.
var ErrArtifactMissing = errors.New("generated file not found")

type Option func(*Generator)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func New(config Config, runner Runner, opts ...Option) *Generator {
	if runner == nil {
		runner = ExecRunner{}
	}
	g := &Generator{
		config: config,
		runner: runner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the schema and the Postman collection for every target
// in order. Failures are recorded in the report and never stop the run; a
// cancelled context does, and is recorded in Report.Err.
func (g *Generator) Generate(ctx context.Context, targets []Target) *Report {
	report := &Report{Projects: make([]ProjectResult, 0, len(targets))}

	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		report.Projects = append(report.Projects, g.generateProject(ctx, target))
	}

	if err := ctx.Err(); err != nil {
		report.Err = fmt.Errorf("generation interrupted: %w", err)
	}

	return report
}

func (g *Generator) generateProject(ctx context.Context, target Target) ProjectResult {
	result := ProjectResult{
		Target:    target,
		OutputDir: filepath.Join(g.config.OutputDir, target.Name),
	}

	projectDir := g.resolve(target.Path)
	if !dirExists(projectDir) {
		g.logger.Debug("project directory missing", "project", target.Name, "path", projectDir)
		result.Status = StatusSkipped
		result.Reason = fmt.Sprintf("project path '%s' not found", target.Path)
		return result
	}

	result.Status = StatusProcessed
	outputDir := g.resolve(result.OutputDir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		err = fmt.Errorf("failed to create output directory: %w", err)
		for _, artifact := range Artifacts {
			result.Artifacts = append(result.Artifacts, ArtifactResult{
				Artifact: artifact,
				Status:   StatusFailed,
				Path:     filepath.Join(result.OutputDir, artifact.FileName),
				Err:      err,
			})
		}
		return result
	}

	for _, artifact := range Artifacts {
		if ctx.Err() != nil {
			break
		}
		res := g.generateArtifact(ctx, artifact, projectDir, outputDir)
		res.Path = filepath.Join(result.OutputDir, artifact.FileName)
		result.Artifacts = append(result.Artifacts, res)
	}

	return result
}

func (g *Generator) generateArtifact(ctx context.Context, artifact Artifact, projectDir, outputDir string) ArtifactResult {
	result := ArtifactResult{Artifact: artifact}
	args := commandArgs(artifact)

	g.logger.Debug("running schema command", "dir", projectDir, "command", g.config.Python, "args", args)
	if _, err := g.runner.Run(ctx, projectDir, g.config.Python, args...); err != nil {
		result.Status = StatusFailed
		result.Err = err
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			result.Output = cmdErr.Stderr
		}
		return result
	}

	src := filepath.Join(projectDir, artifact.FileName)
	dst := filepath.Join(outputDir, artifact.FileName)
	if err := moveFile(src, dst); err != nil {
		result.Status = StatusFailed
		if errors.Is(err, fs.ErrNotExist) {
			result.Err = fmt.Errorf("%w: %s", ErrArtifactMissing, src)
		} else {
			result.Err = err
		}
		return result
	}

	g.logger.Debug("moved artifact", "from", src, "to", dst)
	result.Status = StatusOK
	return result
}
