package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-s12345/docu-gen/internal/analyzer"
	"github.com/Aman-s12345/docu-gen/internal/config"
)

type projectRequiredError struct {
	available []string
}

func (e *projectRequiredError) Error() string {
	return "a project name is required when 'projects' is configured"
}

func (a *App) newFindUndocumentedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find-undocumented [project_name]",
		Short: "Find APIViews without @extend_schema",
		Long: `Find APIView subclasses that have no @extend_schema decorator.

Without a project name the current directory is scanned. With a name the
project is looked up in the 'projects' list of ` + config.FileName + `.

Only @extend_schema and @extend_schema(...) are recognized; qualified forms
such as @utils.extend_schema are reported as undocumented.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, name, err := a.scanTarget(args)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Scanning '%s' for undocumented APIViews...\n", name)

			analysis, err := analyzer.New(root, analyzer.WithLogger(a.logger)).Analyze(cmd.Context())
			if err != nil {
				return err
			}

			for _, warning := range analysis.Warnings {
				fmt.Fprintf(a.stderr, "Warning: Could not parse %s. Error: %v\n", warning.FilePath, warning.Err)
			}

			if len(analysis.Findings) == 0 {
				fmt.Fprintln(a.stdout, "\nNo undocumented APIViews found. Great job!")
				return nil
			}

			fmt.Fprintln(a.stdout, "\nUndocumented APIViews found:")
			for _, finding := range analysis.Findings {
				fmt.Fprintf(a.stdout, "- %s: %s\n", finding.FilePath, finding.ClassName)
			}
			return nil
		},
	}
}

// scanTarget picks the directory to scan and the name to show for it.
func (a *App) scanTarget(args []string) (string, string, error) {
	if len(args) == 1 {
		cfg, err := config.Load(a.dir)
		if err != nil {
			return "", "", err
		}
		project, err := cfg.ResolveProject(args[0])
		if err != nil {
			return "", "", err
		}
		return project.Dir(a.dir), project.Name, nil
	}

	// the config is optional here, unless it asks for named projects
	cfg, err := config.Load(a.dir)
	switch {
	case err == nil && cfg.MultiProject():
		return "", "", &projectRequiredError{available: cfg.ProjectNames()}
	case err != nil && !errors.Is(err, config.ErrConfigNotFound):
		a.logger.Debug("ignoring unreadable config", "error", err)
	}

	name, err := projectName(a.dir)
	if err != nil {
		return "", "", err
	}
	return a.dir, name, nil
}

// projectName is the base name of the absolute directory
func projectName(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return filepath.Base(abs), nil
}
