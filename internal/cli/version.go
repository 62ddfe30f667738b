package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MatheusDev20/hcli/internal/branding"
	"github.com/MatheusDev20/hcli/internal/config"
	"github.com/spf13/cobra"
)

// versionInfo is what `hcli version` reports, including the theme archive
// new projects will be created from.
type versionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	ThemeURL string `json:"theme_url"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:  buildVersion,
		Commit:   buildCommit,
		Date:     buildDate,
		ThemeURL: config.Get(config.KeyThemeURL),
	}
}

func (v versionInfo) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s %s (commit %s, built %s)\n", branding.CLIName(), v.Version, v.Commit, v.Date)
	fmt.Fprintf(w, "theme: %s\n", v.ThemeURL)
}

func (v versionInfo) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding version info: %w", err)
	}
	return nil
}

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build and theme source as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information and the configured theme source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersion()
		out := cmd.OutOrStdout()
		switch {
		case versionShort:
			fmt.Fprintln(out, info.Version)
			return nil
		case versionJSON:
			return info.writeJSON(out)
		default:
			info.writeText(out)
			return nil
		}
	},
}
