package cli

import (
	"context"

	"github.com/MatheusDev20/hcli/internal/branding"
	"github.com/MatheusDev20/hcli/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` bootstraps Zendesk Help Center theme projects from the
Copenhagen reference theme, optionally wiring in a Tailwind CSS build pipeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version
	return rootCmd.ExecuteContext(context.Background())
}
