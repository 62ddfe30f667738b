package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/MatheusDev20/hcli/internal/archive"
	"github.com/MatheusDev20/hcli/internal/fetch"
	"github.com/MatheusDev20/hcli/internal/manifest"
	"github.com/MatheusDev20/hcli/internal/styling"
)

// DefaultManifestPath is the manifest location inside the project.
const DefaultManifestPath = "package.json"

// Fetcher retrieves the theme archive.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Source, error)
}

// Options configures one run. Destination, ArchiveURL and DisplayName are
// required; the rest fall back to defaults.
type Options struct {
	Destination string
	ArchiveURL  string
	DisplayName string
	Tailwind    bool

	// ManifestPath is relative to Destination.
	ManifestPath string
	// PrunePaths are removed after extraction. Nil means DefaultPrunePaths.
	PrunePaths []string
	// RemoveFields are extra manifest keys dropped during customization.
	RemoveFields []manifest.Path
	// StripComponents defaults to 1 when zero.
	StripComponents int
	Styling         styling.Config

	Fetcher Fetcher
	// Out receives progress lines; nil discards them.
	Out io.Writer
}

func (o *Options) setDefaults() {
	if o.ManifestPath == "" {
		o.ManifestPath = DefaultManifestPath
	}
	if o.PrunePaths == nil {
		o.PrunePaths = DefaultPrunePaths
	}
	if o.StripComponents == 0 {
		o.StripComponents = 1
	}
	o.Styling = o.Styling.WithDefaults()
	if o.Fetcher == nil {
		o.Fetcher = fetch.New()
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
}

func (o *Options) validate() error {
	if o.Destination == "" {
		return errors.New("destination must not be empty")
	}
	if o.ArchiveURL == "" {
		return errors.New("archive URL must not be empty")
	}
	if o.DisplayName == "" {
		return errors.New("display name must not be empty")
	}
	return nil
}

// Report describes how far a run got and what it produced.
type Report struct {
	State   Stage
	Source  *fetch.Source
	Extract *archive.Result
	Pruned  []string
	Styling *styling.Result
}

// Run materializes a project at opts.Destination. On failure the returned
// error is a *StageError (or ErrDestinationExists) and the report reflects
// the last completed stage.
func Run(ctx context.Context, opts Options) (*Report, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	report := &Report{State: StageStart}

	if _, err := os.Stat(opts.Destination); err == nil {
		return report, fmt.Errorf("%w: %s", ErrDestinationExists, opts.Destination)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return report, fmt.Errorf("checking destination %s: %w", opts.Destination, err)
	}

	fmt.Fprintf(opts.Out, "Downloading theme from %s\n", opts.ArchiveURL)
	src, err := opts.Fetcher.Fetch(ctx, opts.ArchiveURL)
	if err != nil {
		return report, &StageError{Stage: StageFetched, Err: err}
	}
	report.Source = src
	report.State = StageFetched

	fmt.Fprintf(opts.Out, "Extracting %s\n", src)
	extracted, err := extract(src, opts)
	if err != nil {
		return report, &StageError{Stage: StageExtracted, Err: err}
	}
	report.Extract = extracted
	report.State = StageExtracted

	fmt.Fprintln(opts.Out, "Cleaning template and removing unnecessary files")
	pruned, err := customize(opts)
	report.Pruned = pruned
	if err != nil {
		return report, &StageError{Stage: StageCustomized, Err: err}
	}
	report.State = StageCustomized

	if opts.Tailwind {
		fmt.Fprintln(opts.Out, "Setting up Tailwind CSS")
		manifestPath := filepath.Join(opts.Destination, filepath.FromSlash(opts.ManifestPath))
		result, err := styling.Integrate(opts.Destination, manifestPath, opts.Styling)
		if err != nil {
			return report, &StageError{Stage: StageStylingIntegrated, Err: err}
		}
		report.Styling = result
		report.State = StageStylingIntegrated
	}

	report.State = StageDone
	return report, nil
}

func extract(src *fetch.Source, opts Options) (*archive.Result, error) {
	if err := os.MkdirAll(opts.Destination, 0755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}
	return archive.Extract(src.Data, osfs.New(opts.Destination),
		archive.WithStripComponents(opts.StripComponents))
}

func customize(opts Options) ([]string, error) {
	pruned, err := Prune(opts.Destination, opts.PrunePaths)
	if err != nil {
		return pruned, err
	}

	steps := manifest.CustomizeSteps(opts.DisplayName)
	for _, p := range opts.RemoveFields {
		step := manifest.RemoveField(p)
		if err := manifest.Disjoint(append([]manifest.Step{step}, steps...)...); err != nil {
			fmt.Fprintf(opts.Out, "warning: not removing %s: %v\n", p, err)
			continue
		}
		steps = append(steps, step)
	}

	manifestPath := filepath.Join(opts.Destination, filepath.FromSlash(opts.ManifestPath))
	if err := manifest.Transform(manifestPath, steps...); err != nil {
		return pruned, err
	}
	return pruned, nil
}
