package checklist

import (
	"fmt"

	"github.com/nhle/task-checklist/internal/model"
)

// ValidationResult is the outcome of a full dependency-graph check.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// dependencyGraph maps an item ID to the IDs it depends on.
type dependencyGraph map[string][]string

func buildGraph(items []model.ChecklistItem) dependencyGraph {
	g := make(dependencyGraph, len(items))
	for _, item := range items {
		g[item.ID] = item.Dependencies
	}
	return g
}

// WouldCreateCycle reports whether adding the edge "toID depends on fromID"
// would make the dependency graph cyclic. Any new cycle has to pass through
// the new edge, so the search starts at toID only.
func WouldCreateCycle(items []model.ChecklistItem, fromID, toID string) bool {
	if fromID == toID {
		return true
	}

	g := buildGraph(items)
	deps := make([]string, 0, len(g[toID])+1)
	deps = append(deps, g[toID]...)
	g[toID] = append(deps, fromID)

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(g))

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visiting:
			return true
		case visited:
			return false
		}
		state[id] = visiting
		for _, dep := range g[id] {
			if visit(dep) {
				return true
			}
		}
		state[id] = visited
		return false
	}

	return visit(toID)
}

// dependencyPath returns the chain of item IDs from start to target following
// dependency edges, or nil if target is unreachable.
func dependencyPath(items []model.ChecklistItem, start, target string) []string {
	g := buildGraph(items)
	seen := make(map[string]bool, len(g))

	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		path = append(path, id)
		if id == target {
			return path
		}
		seen[id] = true
		for _, dep := range g[id] {
			if seen[dep] {
				continue
			}
			if found := walk(dep, path); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(start, nil)
}

// Validate checks every existing dependency edge and reports each item that
// sits on a cycle, in checklist order.
func Validate(items []model.ChecklistItem) ValidationResult {
	onCycle := cyclicItems(items)

	result := ValidationResult{IsValid: len(onCycle) == 0, Errors: []string{}}
	for _, item := range items {
		if onCycle[item.ID] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Checklist item %q is part of a circular dependency", item.Title))
		}
	}
	return result
}

// cyclicItems finds the items that belong to a strongly connected component
// with more than one member, or that depend on themselves.
func cyclicItems(items []model.ChecklistItem) map[string]bool {
	g := buildGraph(items)

	var (
		index   int
		stack   []string
		onStack = make(map[string]bool, len(g))
		indices = make(map[string]int, len(g))
		lowlink = make(map[string]int, len(g))
		result  = make(map[string]bool)
	)

	var connect func(id string)
	connect = func(id string) {
		indices[id] = index
		lowlink[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, dep := range g[id] {
			if _, known := g[dep]; !known {
				// Dangling reference to a deleted item.
				continue
			}
			if _, seen := indices[dep]; !seen {
				connect(dep)
				lowlink[id] = min(lowlink[id], lowlink[dep])
			} else if onStack[dep] {
				lowlink[id] = min(lowlink[id], indices[dep])
			}
		}

		if lowlink[id] != indices[id] {
			return
		}
		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 {
			for _, member := range component {
				result[member] = true
			}
		}
	}

	for _, item := range items {
		if _, seen := indices[item.ID]; !seen {
			connect(item.ID)
		}
		if item.HasDependency(item.ID) {
			result[item.ID] = true
		}
	}
	return result
}

// IsBlocked reports whether the item is open and has at least one open
// prerequisite. Unknown items, completed items and dependencies on items
// that no longer exist never block.
func IsBlocked(items []model.ChecklistItem, itemID string) bool {
	return len(openPrerequisites(items, itemID)) > 0
}

// openPrerequisites returns the open items that itemID is waiting on.
func openPrerequisites(items []model.ChecklistItem, itemID string) []model.ChecklistItem {
	idx := indexOf(items, itemID)
	if idx < 0 || items[idx].Completed {
		return nil
	}

	var open []model.ChecklistItem
	for _, depID := range items[idx].Dependencies {
		depIdx := indexOf(items, depID)
		if depIdx < 0 {
			continue
		}
		if !items[depIdx].Completed {
			open = append(open, items[depIdx])
		}
	}
	return open
}

// BlockedItems returns the blocked items in checklist order.
func BlockedItems(items []model.ChecklistItem) []model.ChecklistItem {
	blocked := []model.ChecklistItem{}
	for _, item := range items {
		if IsBlocked(items, item.ID) {
			blocked = append(blocked, item)
		}
	}
	return blocked
}

// blockedSet returns the IDs of all currently blocked items.
func blockedSet(items []model.ChecklistItem) map[string]bool {
	set := make(map[string]bool)
	for _, item := range items {
		if IsBlocked(items, item.ID) {
			set[item.ID] = true
		}
	}
	return set
}

func titlesOf(items []model.ChecklistItem, ids []string) []string {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		if idx := indexOf(items, id); idx >= 0 {
			titles = append(titles, items[idx].Title)
		} else {
			titles = append(titles, id)
		}
	}
	return titles
}
