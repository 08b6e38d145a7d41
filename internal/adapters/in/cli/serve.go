package cli

import (
	"github.com/spf13/cobra"

	"github.com/bnema/stevedore/internal/app"
)

// newServeCmd creates the serve command.
func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the API server. Configuration comes from the config file,
a .env file in the working directory and STEVEDORE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), *configPath)
		},
	}
}
