package cli

import (
	"errors"

	"github.com/nhle/task-checklist/internal/checklist"
	"github.com/nhle/task-checklist/internal/store"
)

// Exit codes returned by the checklist binary.
const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNotFound = 3
	// ExitRejected covers changes refused by checklist rules: cycles,
	// completing blocked items and invalid item input.
	ExitRejected = 4
	// ExitInvalidGraph is returned by validate when the stored graph has a cycle.
	ExitInvalidGraph = 5
)

var errGraphInvalid = errors.New("dependency graph is not valid")

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errGraphInvalid):
		return ExitInvalidGraph
	case errors.Is(err, checklist.ErrCyclicDependency),
		errors.Is(err, checklist.ErrToggleRefused),
		errors.Is(err, checklist.ErrInvalidItem):
		return ExitRejected
	case errors.Is(err, checklist.ErrTaskNotFound),
		errors.Is(err, checklist.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}
