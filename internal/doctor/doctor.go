// Package doctor checks that the tools a generated theme needs (Node.js,
// npm and the Zendesk CLI) are installed and recent enough.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Tool describes one external command to check.
type Tool struct {
	Name string
	Args []string
	// Constraint is a semver range the installed version must satisfy.
	// Empty means any version.
	Constraint string
	Hint       string
}

// DefaultTools are the commands used to develop and preview a theme.
var DefaultTools = []Tool{
	{Name: "node", Args: []string{"--version"}, Constraint: ">= 18.0.0", Hint: "install Node.js from https://nodejs.org"},
	{Name: "npm", Args: []string{"--version"}, Constraint: ">= 9.0.0", Hint: "npm ships with Node.js"},
	{Name: "zcli", Args: []string{"--version"}, Hint: "npm install -g @zendesk/zcli"},
}

// State is the outcome of checking one tool.
type State int

const (
	OK State = iota
	Missing
	Outdated
	Unknown
)

// Status reports a single tool check.
type Status struct {
	Tool    Tool
	State   State
	Version string
	Err     error
}

// Checker runs tool checks. The zero value uses the real PATH.
type Checker struct {
	LookPath func(string) (string, error)
	Output   func(ctx context.Context, path string, args ...string) (string, error)
}

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)`)

// Check inspects each tool and returns its status.
func (c Checker) Check(ctx context.Context, tools []Tool) []Status {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	output := c.Output
	if output == nil {
		output = commandOutput
	}

	statuses := make([]Status, 0, len(tools))
	for _, tool := range tools {
		st := Status{Tool: tool}

		bin, err := lookPath(tool.Name)
		if err != nil {
			st.State = Missing
			st.Err = err
			statuses = append(statuses, st)
			continue
		}

		out, err := output(ctx, bin, tool.Args...)
		if err != nil {
			st.State = Unknown
			st.Err = fmt.Errorf("running %s: %w", tool.Name, err)
			statuses = append(statuses, st)
			continue
		}

		st.State, st.Version, st.Err = evaluate(out, tool.Constraint)
		statuses = append(statuses, st)
	}
	return statuses
}

func evaluate(output, constraint string) (State, string, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return Unknown, "", fmt.Errorf("no version in output %q", strings.TrimSpace(output))
	}
	raw := m[1]

	if constraint == "" {
		return OK, raw, nil
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return Unknown, raw, fmt.Errorf("parsing version %q: %w", raw, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return Unknown, raw, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	if !c.Check(v) {
		return Outdated, raw, nil
	}
	return OK, raw, nil
}

func commandOutput(ctx context.Context, path string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, path, args...).Output()
	return string(out), err
}

// Print writes one line per status in the "[ OK ] name version" format and
// reports whether every tool passed.
func Print(w io.Writer, statuses []Status) bool {
	fmt.Fprintln(w, "Toolchain check:")
	healthy := true
	for _, st := range statuses {
		switch st.State {
		case OK:
			fmt.Fprintf(w, "  [ OK ] %s %s\n", st.Tool.Name, st.Version)
		case Missing:
			healthy = false
			fmt.Fprintf(w, "  [MISS] %s not found\n", st.Tool.Name)
			if st.Tool.Hint != "" {
				fmt.Fprintf(w, "         %s\n", st.Tool.Hint)
			}
		case Outdated:
			healthy = false
			fmt.Fprintf(w, "  [WARN] %s %s (want %s)\n", st.Tool.Name, st.Version, st.Tool.Constraint)
		default:
			healthy = false
			fmt.Fprintf(w, "  [WARN] %s: %v\n", st.Tool.Name, st.Err)
		}
	}
	return healthy
}
