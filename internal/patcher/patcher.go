// Package patcher performs guarded, idempotent text insertions into template
// files. A marker substring decides whether the patch is already applied; an
// anchor substring decides where it goes.
package patcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Outcome reports what Patch did.
type Outcome int

const (
	// Patched means the insertion was written.
	Patched Outcome = iota + 1
	// AlreadyPresent means the marker was found and the file left untouched.
	AlreadyPresent
	// AnchorMissing means neither marker nor anchor was found; nothing was written.
	AnchorMissing
	// FileAbsent means the target file does not exist.
	FileAbsent
)

func (o Outcome) String() string {
	switch o {
	case Patched:
		return "patched"
	case AlreadyPresent:
		return "already present"
	case AnchorMissing:
		return "anchor missing"
	case FileAbsent:
		return "file absent"
	default:
		return "unknown"
	}
}

// Spec describes one insertion.
type Spec struct {
	// Marker is a substring whose presence means the patch is applied.
	Marker string
	// Insertion is written immediately after the first Anchor occurrence.
	Insertion string
	Anchor    string
}

func (s Spec) validate() error {
	if s.Marker == "" {
		return errors.New("marker must not be empty")
	}
	if s.Anchor == "" {
		return errors.New("anchor must not be empty")
	}
	if !strings.Contains(s.Insertion, s.Marker) {
		return fmt.Errorf("insertion does not contain marker %q", s.Marker)
	}
	return nil
}

// Patch applies spec to the file at path. Only the Patched outcome writes to
// disk; the other outcomes leave the file byte-for-byte unchanged.
func Patch(path string, spec Spec) (Outcome, error) {
	if err := spec.validate(); err != nil {
		return 0, fmt.Errorf("invalid patch spec: %w", err)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FileAbsent, nil
	}
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	if strings.Contains(content, spec.Marker) {
		return AlreadyPresent, nil
	}

	idx := strings.Index(content, spec.Anchor)
	if idx < 0 {
		return AnchorMissing, nil
	}

	at := idx + len(spec.Anchor)
	updated := content[:at] + spec.Insertion + content[at:]

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return Patched, nil
}
