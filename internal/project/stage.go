package project

import (
	"errors"
	"fmt"
)

// Stage is a state of the materialization run. Each state is reached only
// after the previous one completed.
type Stage int

const (
	StageStart Stage = iota
	StageFetched
	StageExtracted
	StageCustomized
	StageStylingIntegrated
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageFetched:
		return "fetched"
	case StageExtracted:
		return "extracted"
	case StageCustomized:
		return "customized"
	case StageStylingIntegrated:
		return "styling integrated"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// action names the work that leads into s, used in failure messages.
func (s Stage) action() string {
	switch s {
	case StageFetched:
		return "fetch theme archive"
	case StageExtracted:
		return "extract theme archive"
	case StageCustomized:
		return "customize project"
	case StageStylingIntegrated:
		return "integrate tailwind"
	default:
		return s.String()
	}
}

// ErrDestinationExists is returned before any work when the project
// directory is already present.
var ErrDestinationExists = errors.New("destination already exists")

// StageError is the terminal failed state: Stage is the state the run was
// trying to reach and Err the underlying cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage.action(), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
