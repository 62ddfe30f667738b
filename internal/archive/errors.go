package archive

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind int

const (
	// KindCorrupt means the archive could not be parsed or an entry could not be read.
	KindCorrupt Kind = iota + 1
	// KindIO means writing to the destination failed.
	KindIO
	// KindUnsafePath means an entry would resolve outside the destination root.
	KindUnsafePath
)

func (k Kind) String() string {
	switch k {
	case KindCorrupt:
		return "corrupt archive"
	case KindIO:
		return "write failure"
	case KindUnsafePath:
		return "unsafe path"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; each matches any *ExtractError of that kind.
var (
	ErrCorrupt    = errors.New("corrupt archive")
	ErrIO         = errors.New("write failure")
	ErrUnsafePath = errors.New("unsafe path")
)

// ExtractError describes why extraction stopped.
type ExtractError struct {
	Kind Kind
	// Path is the raw entry name, empty for archive-level failures.
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

func (e *ExtractError) Is(target error) bool {
	switch target {
	case ErrCorrupt:
		return e.Kind == KindCorrupt
	case ErrIO:
		return e.Kind == KindIO
	case ErrUnsafePath:
		return e.Kind == KindUnsafePath
	}
	return false
}

func corrupt(path string, err error) error {
	return &ExtractError{Kind: KindCorrupt, Path: path, Err: err}
}

func ioFailure(path string, err error) error {
	return &ExtractError{Kind: KindIO, Path: path, Err: err}
}

func unsafePath(path, reason string) error {
	return &ExtractError{Kind: KindUnsafePath, Path: path, Err: errors.New(reason)}
}
