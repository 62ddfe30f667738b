package styling

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/MatheusDev20/hcli/internal/manifest"
	"github.com/MatheusDev20/hcli/internal/patcher"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Config holds the relative paths and inputs for the generated pipeline.
// All paths are slash-separated and relative to the project root.
type Config struct {
	StylesheetPath     string
	TailwindConfigPath string
	PostCSSConfigPath  string
	OutputCSSPath      string
	DocumentHeadPath   string
	ContentGlobs       []string
	PurgeGlobs         []string
}

// DefaultConfig returns the layout used for Copenhagen-based themes.
func DefaultConfig() Config {
	return Config{
		StylesheetPath:     "styles/tailwind.css",
		TailwindConfigPath: "tailwind.config.js",
		PostCSSConfigPath:  "postcss.config.cjs",
		OutputCSSPath:      "assets/tailwind.css",
		DocumentHeadPath:   "templates/document_head.hbs",
		ContentGlobs: []string{
			"./templates/**/*.hbs",
			"./src/**/*.{js,ts}",
			"./src/modules/**/*.tsx",
		},
		PurgeGlobs: []string{"./templates/**/*.hbs"},
	}
}

// WithDefaults fills every empty field of c from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&c.StylesheetPath, d.StylesheetPath},
		{&c.TailwindConfigPath, d.TailwindConfigPath},
		{&c.PostCSSConfigPath, d.PostCSSConfigPath},
		{&c.OutputCSSPath, d.OutputCSSPath},
		{&c.DocumentHeadPath, d.DocumentHeadPath},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	if c.ContentGlobs == nil {
		c.ContentGlobs = d.ContentGlobs
	}
	if c.PurgeGlobs == nil {
		c.PurgeGlobs = d.PurgeGlobs
	}
	return c
}

// DevDependencies pinned by the generated pipeline.
var DevDependencies = []manifest.Entry{
	{Key: "autoprefixer", Value: "^10.4.21"},
	{Key: "postcss", Value: "^8.5.3"},
	{Key: "postcss-cli", Value: "^11.0.1"},
	{Key: "tailwindcss", Value: "^3.4.17"},
}

// ViewportAnchor is the document head line the stylesheet link follows.
const ViewportAnchor = `<meta content="width=device-width, initial-scale=1.0" name="viewport" />`

// File is one rendered output.
type File struct {
	Path    string
	Content []byte
}

// Result holds the outcome of an integration.
type Result struct {
	Files []string
	Head  patcher.Outcome
}

type generated struct {
	template string
	path     func(Config) string
}

var outputs = []generated{
	{template: "tailwind.css.tmpl", path: func(c Config) string { return c.StylesheetPath }},
	{template: "tailwind.config.js.tmpl", path: func(c Config) string { return c.TailwindConfigPath }},
	{template: "postcss.config.cjs.tmpl", path: func(c Config) string { return c.PostCSSConfigPath }},
}

// Render executes every embedded template against cfg.
func Render(cfg Config) ([]File, error) {
	files := make([]File, 0, len(outputs))
	for _, out := range outputs {
		tmplBytes, err := fs.ReadFile(templateFS, path.Join("templates", out.template))
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", out.template, err)
		}

		tmpl, err := template.New(out.template).Option("missingkey=error").Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", out.template, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", out.template, err)
		}

		files = append(files, File{Path: out.path(cfg), Content: buf.Bytes()})
	}
	return files, nil
}

// WriteFiles renders the pipeline files into root. Existing files are never
// overwritten.
func WriteFiles(root string, cfg Config) ([]string, error) {
	files, err := Render(cfg)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		outPath := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return written, fmt.Errorf("creating directory for %s: %w", f.Path, err)
		}

		out, err := os.OpenFile(outPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, fs.ErrExist) {
			return written, fmt.Errorf("%s already exists; remove it first", f.Path)
		}
		if err != nil {
			return written, fmt.Errorf("creating %s: %w", f.Path, err)
		}
		if _, err := out.Write(f.Content); err != nil {
			out.Close()
			return written, fmt.Errorf("writing %s: %w", f.Path, err)
		}
		if err := out.Close(); err != nil {
			return written, fmt.Errorf("closing %s: %w", f.Path, err)
		}
		written = append(written, f.Path)
	}
	return written, nil
}

// ManifestSteps returns the package.json edits for the pipeline.
func ManifestSteps(cfg Config) ([]manifest.Step, error) {
	build := fmt.Sprintf("postcss %s -o %s", cfg.StylesheetPath, cfg.OutputCSSPath)

	scripts := manifest.InsertEntries(manifest.SectionScripts,
		manifest.Entry{Key: "build:css", Value: build},
		manifest.Entry{Key: "watch:css", Value: build + " --watch"},
		manifest.Entry{Key: "start", Value: `concurrently -k -r "rollup -c -w" "npm run watch:css" "wait-on script.js style.css && zcli themes:preview"`},
	)

	deps, err := manifest.DevDependencies(DevDependencies...)
	if err != nil {
		return nil, err
	}

	return []manifest.Step{scripts, deps}, nil
}

// HeadPatch returns the link insertion for the document head template.
func HeadPatch(cfg Config) patcher.Spec {
	asset := path.Base(cfg.OutputCSSPath)
	return patcher.Spec{
		Marker:    asset,
		Insertion: fmt.Sprintf(`<link rel="stylesheet" href="{{asset '%s'}}" />`, asset),
		Anchor:    ViewportAnchor,
	}
}

// Integrate writes the pipeline files into root, updates the manifest at
// manifestPath and patches the document head template when it exists.
func Integrate(root, manifestPath string, cfg Config) (*Result, error) {
	steps, err := ManifestSteps(cfg)
	if err != nil {
		return nil, fmt.Errorf("building manifest steps: %w", err)
	}

	if err := manifest.Transform(manifestPath, steps...); err != nil {
		return nil, err
	}

	files, err := WriteFiles(root, cfg)
	if err != nil {
		return nil, err
	}

	headPath := filepath.Join(root, filepath.FromSlash(cfg.DocumentHeadPath))
	outcome, err := patcher.Patch(headPath, HeadPatch(cfg))
	if err != nil {
		return nil, fmt.Errorf("patching %s: %w", cfg.DocumentHeadPath, err)
	}

	return &Result{Files: files, Head: outcome}, nil
}
