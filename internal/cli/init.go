package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-s12345/docu-gen/internal/config"
)

func (a *App) newInitCommand() *cobra.Command {
	var workspace bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a " + config.FileName + " in the current project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(a.dir, workspace)
			if err != nil {
				return err
			}
			a.logger.Debug("wrote config file", "path", path, "workspace", workspace)

			fmt.Fprintf(a.stdout, "Successfully created '%s' in the current directory.\n", config.FileName)
			if workspace {
				fmt.Fprintln(a.stdout, "Add your projects under 'projects', then run 'docu-gen generate'.")
				return nil
			}
			fmt.Fprintln(a.stdout, "You can now run 'docu-gen find-undocumented' or 'docu-gen generate'.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&workspace, "workspace", false, "Create a multi-project config with an empty 'projects' list")
	return cmd
}
