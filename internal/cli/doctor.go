package cli

import (
	"fmt"
	"io"

	"github.com/MatheusDev20/hcli/internal/doctor"
	"github.com/MatheusDev20/hcli/internal/manifest"
	"github.com/spf13/cobra"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a theme package.json at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the theme development toolchain",
	Long: `Verify that Node.js, npm and the Zendesk CLI are installed and recent enough
to build and preview a generated theme. Missing tools are reported, never fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if checkManifest != "" {
			return runManifestCheck(out, checkManifest)
		}

		statuses := doctor.Checker{}.Check(cmd.Context(), doctor.DefaultTools)
		if !doctor.Print(out, statuses) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Some tools are missing or outdated; projects can still be created.")
		}
		return nil
	},
}

func runManifestCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Manifest validation: %s\n", path)

	doc, err := manifest.Load(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	result, err := manifest.Validate(doc)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		name, _ := doc.GetString(manifest.Key("name"))
		fmt.Fprintf(out, "  [ OK ] Valid manifest: %s\n", name)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
