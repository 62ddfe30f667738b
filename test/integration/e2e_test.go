//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MatheusDev20/hcli/internal/fetch"
	"github.com/MatheusDev20/hcli/internal/manifest"
	"github.com/MatheusDev20/hcli/internal/patcher"
	"github.com/MatheusDev20/hcli/internal/project"
	"github.com/MatheusDev20/hcli/internal/styling"
)

// TestFullFlowWithTailwind runs the whole pipeline over HTTP:
// download -> extract -> prune and customize -> tailwind integration.
func TestFullFlowWithTailwind(t *testing.T) {
	env := setupTestEnv(t)
	srv, agent := serveArchive(t, buildTarGz(t, "copenhagen_theme-4.2.0", themeFiles()))

	dest := filepath.Join(env.OutputDir, "acme-help")
	var out bytes.Buffer
	report, err := project.Run(context.Background(), project.Options{
		Destination: dest,
		ArchiveURL:  srv.URL + "/archive.tar.gz",
		DisplayName: "HML v1.0.0",
		Tailwind:    true,
		Fetcher:     fetch.New(fetch.WithUserAgent("hc-cli")),
		Out:         &out,
	})
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if report.State != project.StageDone {
		t.Errorf("State = %s, want %s", report.State, project.StageDone)
	}
	if *agent != "hc-cli" {
		t.Errorf("User-Agent = %q, want hc-cli", *agent)
	}

	// Root folder stripped.
	assertFileExists(t, filepath.Join(dest, "package.json"))
	assertDirExists(t, filepath.Join(dest, "templates"))
	assertFileNotExists(t, filepath.Join(dest, "copenhagen_theme-4.2.0"))

	// Project metadata pruned.
	for _, p := range project.DefaultPrunePaths {
		assertFileNotExists(t, filepath.Join(dest, p))
	}
	assertFileExists(t, filepath.Join(dest, "manifest.json"))

	pkg := filepath.Join(dest, "package.json")
	assertFileContains(t, pkg, `"name": "HML v1.0.0"`)
	assertFileLacks(t, pkg, `"repository"`)
	assertFileLacks(t, pkg, `"prepare"`)
	assertFileContains(t, pkg, `"build:css"`)
	assertFileContains(t, pkg, `"tailwindcss": "^3.4.17"`)

	doc, err := manifest.Load(pkg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"name", "version", "private", "scripts", "devDependencies"}
	if got := doc.Keys(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("top-level keys = %v, want %v", got, want)
	}
	scripts, _ := doc.Get(manifest.Key("scripts"))
	if keys := scripts.(manifest.Document).Keys(); strings.Join(keys, ",") != "build,start,build:css,watch:css" {
		t.Errorf("script order = %v", keys)
	}

	cfg := styling.DefaultConfig()
	for _, f := range []string{cfg.StylesheetPath, cfg.TailwindConfigPath, cfg.PostCSSConfigPath} {
		assertFileExists(t, filepath.Join(dest, filepath.FromSlash(f)))
	}
	assertFileContains(t, filepath.Join(dest, "tailwind.config.js"), "./templates/**/*.hbs")

	head := filepath.Join(dest, "templates", "document_head.hbs")
	assertFileContains(t, head, `<link rel="stylesheet" href="{{asset 'tailwind.css'}}" />`)
	if report.Styling.Head != patcher.Patched {
		t.Errorf("Head = %s, want %s", report.Styling.Head, patcher.Patched)
	}

	// A second patch is a no-op.
	before, _ := os.ReadFile(head)
	outcome, err := patcher.Patch(head, styling.HeadPatch(cfg))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	after, _ := os.ReadFile(head)
	if outcome != patcher.AlreadyPresent || !bytes.Equal(before, after) {
		t.Errorf("second patch = %s, changed=%v", outcome, !bytes.Equal(before, after))
	}
}

// TestFullFlowWithoutTailwind stops after customization.
func TestFullFlowWithoutTailwind(t *testing.T) {
	env := setupTestEnv(t)
	srv, _ := serveArchive(t, buildTarGz(t, "copenhagen_theme-main", themeFiles()))

	dest := filepath.Join(env.OutputDir, "plain")
	report, err := project.Run(context.Background(), project.Options{
		Destination: dest,
		ArchiveURL:  srv.URL,
		Fetcher:     fetch.New(),
		Out:         &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Styling != nil {
		t.Error("styling ran without being requested")
	}
	assertFileNotExists(t, filepath.Join(dest, "tailwind.config.js"))
	assertFileLacks(t, filepath.Join(dest, "package.json"), "tailwindcss")
	assertFileLacks(t, filepath.Join(dest, "templates", "document_head.hbs"), "tailwind.css")
}

// TestFullFlowLocalArchive points the pipeline at an archive on disk.
func TestFullFlowLocalArchive(t *testing.T) {
	env := setupTestEnv(t)
	archivePath := filepath.Join(env.HomeDir, "theme.tar.gz")
	if err := os.WriteFile(archivePath, buildTarGz(t, "theme", themeFiles()), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(env.OutputDir, "offline")
	if _, err := project.Run(context.Background(), project.Options{
		Destination: dest,
		ArchiveURL:  "file://" + filepath.ToSlash(archivePath),
		Fetcher:     fetch.New(),
		Out:         &bytes.Buffer{},
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertFileContains(t, filepath.Join(dest, "package.json"), `"name": "HML v1.0.0"`)
}

// TestFullFlowExistingDestination must fail before any download.
func TestFullFlowExistingDestination(t *testing.T) {
	env := setupTestEnv(t)
	srv, agent := serveArchive(t, buildTarGz(t, "theme", themeFiles()))

	dest := filepath.Join(env.OutputDir, "taken")
	writeFile(t, filepath.Join(dest, "keep.txt"), "mine")

	_, err := project.Run(context.Background(), project.Options{
		Destination: dest,
		ArchiveURL:  srv.URL,
		Fetcher:     fetch.New(),
		Out:         &bytes.Buffer{},
	})
	if !errors.Is(err, project.ErrDestinationExists) {
		t.Fatalf("err = %v, want ErrDestinationExists", err)
	}
	if *agent != "" {
		t.Error("archive was downloaded despite existing destination")
	}
	assertFileContains(t, filepath.Join(dest, "keep.txt"), "mine")
}

// TestFullFlowTraversalArchive aborts without writing outside the project.
func TestFullFlowTraversalArchive(t *testing.T) {
	env := setupTestEnv(t)
	files := themeFiles()
	files["../../escaped.txt"] = "pwned"
	srv, _ := serveArchive(t, buildTarGz(t, "theme", files))

	dest := filepath.Join(env.OutputDir, "unsafe")
	report, err := project.Run(context.Background(), project.Options{
		Destination: dest,
		ArchiveURL:  srv.URL,
		Fetcher:     fetch.New(),
		Out:         &bytes.Buffer{},
	})
	var stageErr *project.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != project.StageExtracted {
		t.Fatalf("err = %v, want extract stage error", err)
	}
	if report.State != project.StageFetched {
		t.Errorf("State = %s, want %s", report.State, project.StageFetched)
	}
	assertFileNotExists(t, filepath.Join(env.OutputDir, "escaped.txt"))
	assertFileNotExists(t, filepath.Join(filepath.Dir(env.OutputDir), "escaped.txt"))
}
