package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/MatheusDev20/hcli/internal/branding"
	"github.com/MatheusDev20/hcli/internal/config"
	"github.com/MatheusDev20/hcli/internal/fetch"
	"github.com/MatheusDev20/hcli/internal/manifest"
	"github.com/MatheusDev20/hcli/internal/patcher"
	"github.com/MatheusDev20/hcli/internal/project"
	"github.com/spf13/cobra"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var (
	newTailwind     bool
	newYes          bool
	newRemoveFields []string
)

func init() {
	newCmd.Flags().BoolVar(&newTailwind, "tailwind", false, "Set up a Tailwind CSS build pipeline")
	newCmd.Flags().BoolVarP(&newYes, "yes", "y", false, "Skip the confirmation prompt")
	newCmd.Flags().StringArrayVar(&newRemoveFields, "remove-field", nil, "Extra package.json key to remove, as a JSONPath (e.g. $.bugs); repeatable")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <project-name> [output-dir]",
	Short: "Create a new Help Center theme project",
	Long: `Download the latest Copenhagen theme and turn it into a new project at
<output-dir>/<project-name>. The output directory defaults to the current one.

Examples:
  hcli new my-theme
  hcli new my-theme ~/themes --tailwind`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := validateName(name); err != nil {
		return err
	}

	output := "."
	if len(args) == 2 {
		output = args[1]
	}

	removeFields, err := parseRemoveFields(newRemoveFields)
	if err != nil {
		return err
	}

	settings, err := config.Resolve()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	out := cmd.OutOrStdout()

	if output == "." && !newYes {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		fmt.Fprintf(out, "Project '%s' will be created in the current directory, specify a custom directory if this is not desired: %s\n", name, cwd)

		ok, err := confirm(cmd.InOrStdin(), out, "Do you want to continue?", true)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Creating Help Center project: %s\n", name)

	ctx := cmd.Context()
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	opts := project.Options{
		Destination:  filepath.Join(output, name),
		ArchiveURL:   settings.ThemeURL,
		DisplayName:  settings.DisplayName,
		Tailwind:     newTailwind,
		RemoveFields: removeFields,
		Fetcher: fetch.New(
			fetch.WithUserAgent(settings.UserAgent),
			fetch.WithProgress(cmd.ErrOrStderr()),
		),
		Out: out,
	}

	report, err := project.Run(ctx, opts)
	if err != nil {
		return err
	}

	printReport(cmd, name, report)
	return nil
}

func printReport(cmd *cobra.Command, name string, report *project.Report) {
	out := cmd.OutOrStdout()

	if report.Extract != nil {
		fmt.Fprintf(out, "  Extracted %d files\n", report.Extract.Files)
		for _, s := range report.Extract.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped link %s\n", s)
		}
	}
	for _, p := range report.Pruned {
		fmt.Fprintf(out, "  Removed %s\n", p)
	}
	if report.Styling != nil {
		for _, f := range report.Styling.Files {
			fmt.Fprintf(out, "  Created %s\n", f)
		}
		switch report.Styling.Head {
		case patcher.Patched:
			fmt.Fprintln(out, "  Added Tailwind CSS to document_head.hbs")
		case patcher.AlreadyPresent:
			fmt.Fprintln(out, "  Tailwind CSS already in document_head.hbs")
		case patcher.AnchorMissing:
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: viewport meta tag not found in document_head.hbs; add the stylesheet link manually")
		case patcher.FileAbsent:
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: document_head.hbs not found")
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Project created successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  cd %s\n", name)
	fmt.Fprintln(out, "  # Start developing your Help Center theme with zcli themes:preview --logs")
	fmt.Fprintf(out, "  # Run '%s doctor' to check your toolchain\n", branding.CLIName())
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must match pattern [A-Za-z0-9][A-Za-z0-9._-]*", name)
	}
	return nil
}

func parseRemoveFields(selectors []string) ([]manifest.Path, error) {
	paths := make([]manifest.Path, 0, len(selectors))
	for _, s := range selectors {
		p, err := manifest.ParsePath(s)
		if err != nil {
			return nil, fmt.Errorf("--remove-field: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
