package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-s12345/docu-gen/internal/config"
	"github.com/Aman-s12345/docu-gen/internal/generator"
)

func (a *App) newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate OpenAPI schemas and Postman collections",
		Long: `Run 'manage.py spectacular' for every configured project and move
schema.yml and postman.json into <output_dir>/<project>/.

A failing project or artifact is reported and the run carries on; the exit
status is 0 unless the config file is missing or invalid, or the run is
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.dir)
			if err != nil {
				return err
			}

			targets, err := a.generateTargets(cfg)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintf(a.stdout, "No projects found in '%s'.\n", config.FileName)
				return nil
			}

			gen := generator.New(generator.Config{
				OutputDir: cfg.OutputDir,
				BaseDir:   a.dir,
				Python:    cfg.Python,
			}, a.runner, generator.WithLogger(a.logger))

			report := gen.Generate(cmd.Context(), targets)
			a.printReport(report)

			a.logger.Debug("generation finished",
				"projects", len(report.Projects),
				"skipped", report.Skipped(),
				"failures", report.Failures())
			if report.Err != nil {
				return report.Err
			}
			fmt.Fprintln(a.stdout, "\nDocumentation generation complete.")
			return nil
		},
	}
}

// generateTargets is the current directory in per-project mode, otherwise
// every configured project in list order.
func (a *App) generateTargets(cfg *config.Config) ([]generator.Target, error) {
	if !cfg.MultiProject() {
		name, err := projectName(a.dir)
		if err != nil {
			return nil, err
		}
		return []generator.Target{{Name: name, Path: "."}}, nil
	}

	targets := make([]generator.Target, 0, len(cfg.Projects))
	for _, project := range cfg.Projects {
		targets = append(targets, generator.Target{Name: project.Name, Path: project.Path})
	}
	return targets, nil
}

func (a *App) printReport(report *generator.Report) {
	for _, project := range report.Projects {
		if project.Status == generator.StatusSkipped {
			fmt.Fprintf(a.stdout, "Project path '%s' for '%s' not found. Skipping.\n", project.Target.Path, project.Target.Name)
			continue
		}

		fmt.Fprintf(a.stdout, "Processing project: %s\n", project.Target.Name)
		for _, artifact := range project.Artifacts {
			if artifact.Status == generator.StatusOK {
				fmt.Fprintf(a.stdout, "  - Generated %s: %s\n", artifact.Artifact.Label, artifact.Path)
				continue
			}
			a.printArtifactFailure(artifact)
		}
	}
}

func (a *App) printArtifactFailure(artifact generator.ArtifactResult) {
	label := artifact.Artifact.Label

	switch {
	case errors.Is(artifact.Err, generator.ErrCommandNotFound):
		fmt.Fprintf(a.stderr, "  - Failed to generate %s. %v\n", label, artifact.Err)
	case errors.Is(artifact.Err, generator.ErrArtifactMissing):
		fmt.Fprintf(a.stderr, "  - Failed to generate %s. Is 'manage.py' in the project directory?\n", label)
	case errors.Is(artifact.Err, generator.ErrCommandFailed):
		fmt.Fprintf(a.stderr, "  - Failed to generate %s. Error from spectacular:\n", label)
		if output := strings.TrimRight(artifact.Output, "\n"); output != "" {
			fmt.Fprintln(a.stderr, output)
		}
	default:
		fmt.Fprintf(a.stderr, "  - Failed to generate %s: %v\n", label, artifact.Err)
	}
}
