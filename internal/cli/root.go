package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-s12345/docu-gen/internal/config"
	"github.com/Aman-s12345/docu-gen/internal/generator"
)

// Version info, injected at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// App holds what every command writes to and runs with.
type App struct {
	stdout io.Writer
	stderr io.Writer
	runner generator.Runner
	logger *slog.Logger

	dir     string
	verbose bool
}

func NewApp(stdout, stderr io.Writer, runner generator.Runner) *App {
	if runner == nil {
		runner = generator.ExecRunner{}
	}
	return &App{
		stdout: stdout,
		stderr: stderr,
		runner: runner,
		logger: slog.New(slog.NewTextHandler(stderr, nil)),
		dir:    ".",
	}
}

// Execute runs the command line against the real process streams and
// returns the exit code.
func Execute(ctx context.Context, args []string) int {
	return NewApp(os.Stdout, os.Stderr, generator.ExecRunner{}).Run(ctx, args)
}

// Run executes args and maps fatal errors to exit code 1.
func (a *App) Run(ctx context.Context, args []string) int {
	cmd := a.Command()
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

func (a *App) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docu-gen",
		Short: "Find undocumented DRF API views and generate OpenAPI/Postman docs",
		Long: `docu-gen helps keep Django REST Framework API documentation complete.

It scans a project for APIView classes missing @extend_schema and runs
drf-spectacular to write an OpenAPI schema and a Postman collection for
every configured project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
		},
	}

	cmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", ".", "Run as if started in this directory")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(a.newInitCommand())
	cmd.AddCommand(a.newFindUndocumentedCommand())
	cmd.AddCommand(a.newGenerateCommand())
	cmd.AddCommand(a.newVersionCommand())

	return cmd
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "docu-gen %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}
}

func (a *App) printError(err error) {
	var notFound *config.ProjectNotFoundError
	var required *projectRequiredError

	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		fmt.Fprintf(a.stderr, "Error: '%s' not found in the current directory.\n", config.FileName)
		fmt.Fprintln(a.stderr, "Please run 'docu-gen init' to create a configuration file.")
	case errors.Is(err, config.ErrConfigAlreadyExists):
		fmt.Fprintf(a.stderr, "'%s' already exists.\n", config.FileName)
	case errors.As(err, &notFound):
		fmt.Fprintf(a.stderr, "Error: Project '%s' not found in '%s'.\n", notFound.Name, config.FileName)
		printAvailable(a.stderr, notFound.Available)
	case errors.As(err, &required):
		fmt.Fprintln(a.stderr, "Error: A project name is required when 'projects' is configured.")
		printAvailable(a.stderr, required.available)
	default:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
}

func printAvailable(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "No projects are configured.")
		return
	}
	fmt.Fprintf(w, "Available projects: %s\n", strings.Join(names, ", "))
}
