package checklist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrItemNotFound     = errors.New("checklist item not found")
	ErrInvalidItem      = errors.New("invalid checklist item")
	ErrCyclicDependency = errors.New("cyclic checklist dependency")
	ErrToggleRefused    = errors.New("checklist item is blocked")
)

// CyclicDependencyError reports a dependency edge that was rejected because
// it would close a cycle. Titles names the items on the cycle.
type CyclicDependencyError struct {
	Titles []string
}

func (e *CyclicDependencyError) Error() string {
	if len(e.Titles) == 1 {
		return fmt.Sprintf("%q cannot depend on itself", e.Titles[0])
	}
	return "circular dependency: " + quoteJoin(e.Titles, " -> ")
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// ToggleRefusedError reports an attempt to complete an item whose
// prerequisites are still open. Blockers names those prerequisites.
type ToggleRefusedError struct {
	Title    string
	Blockers []string
}

func (e *ToggleRefusedError) Error() string {
	return fmt.Sprintf("%q is waiting on %s", e.Title, quoteJoin(e.Blockers, ", "))
}

func (e *ToggleRefusedError) Is(target error) bool {
	return target == ErrToggleRefused
}

func quoteJoin(titles []string, sep string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, sep)
}
