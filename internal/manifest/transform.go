package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind classifies a transform failure.
type Kind int

const (
	// KindIO means the manifest could not be read or written.
	KindIO Kind = iota + 1
	// KindMalformed means the manifest is not a valid JSON object, or the
	// transformed result fails schema validation.
	KindMalformed
)

// Sentinels for errors.Is; each matches any *TransformError of that kind.
var (
	ErrIO        = errors.New("manifest I/O failure")
	ErrMalformed = errors.New("malformed manifest")
)

// TransformError reports why a manifest file could not be transformed.
type TransformError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *TransformError) Error() string {
	switch e.Kind {
	case KindMalformed:
		return fmt.Sprintf("malformed manifest %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
	}
}

func (e *TransformError) Unwrap() error { return e.Err }

func (e *TransformError) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// Load reads and parses the manifest at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, &TransformError{Kind: KindIO, Path: path, Err: fmt.Errorf("reading file: %w", err)}
	}
	d, err := Parse(data)
	if err != nil {
		return Document{}, &TransformError{Kind: KindMalformed, Path: path, Err: err}
	}
	return d, nil
}

// Save writes d to path, keeping the existing file mode when there is one.
func Save(path string, d Document) error {
	data, err := d.Marshal()
	if err != nil {
		return &TransformError{Kind: KindMalformed, Path: path, Err: err}
	}

	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return &TransformError{Kind: KindIO, Path: path, Err: fmt.Errorf("writing file: %w", err)}
	}
	return nil
}

// Transform loads the manifest at path, applies steps in order, validates
// the result and writes it back to the same path. Steps must not write
// overlapping keys. Only schema issues inside the top-level sections the
// steps write fail the transform; the rest of the file is left as found.
func Transform(path string, steps ...Step) error {
	if err := Disjoint(steps...); err != nil {
		return fmt.Errorf("invalid step list: %w", err)
	}

	d, err := Load(path)
	if err != nil {
		return err
	}

	out := Apply(d, steps...)

	result, err := Validate(out)
	if err != nil {
		return &TransformError{Kind: KindMalformed, Path: path, Err: err}
	}
	if issues := touchedIssues(result.Issues, steps); len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.String()
		}
		return &TransformError{Kind: KindMalformed, Path: path, Err: errors.New(strings.Join(msgs, "; "))}
	}

	return Save(path, out)
}

// touchedIssues keeps the issues located in a top-level section some step
// writes. Root-level issues are always kept.
func touchedIssues(issues []ValidationIssue, steps []Step) []ValidationIssue {
	sections := make(map[string]bool)
	for _, s := range steps {
		for _, p := range s.Writes {
			if len(p) > 0 {
				sections[p[0]] = true
			}
		}
	}

	var kept []ValidationIssue
	for _, issue := range issues {
		if len(issue.Location) == 0 || sections[issue.Location[0]] {
			kept = append(kept, issue)
		}
	}
	return kept
}
