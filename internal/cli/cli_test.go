package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-checklist/internal/checklist"
	"github.com/nhle/task-checklist/internal/model"
	"github.com/nhle/task-checklist/internal/store"
)

type harness struct {
	t          *testing.T
	configPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(dir, "checklist.db")
	cfg.Log.Level = "error"
	cfg.User = model.User{ID: "u-ada", Name: "Ada"}
	require.NoError(t, model.SaveConfig(path, cfg))

	return &harness{t: t, configPath: path}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "checklist %s", strings.Join(args, " "))
	return out
}

// lastField returns the ID printed at the end of "Created task <id>" style output.
func lastField(out string) string {
	fields := strings.Fields(out)
	return fields[len(fields)-1]
}

func TestCLI_DependencyWorkflow(t *testing.T) {
	h := newHarness(t)

	taskID := lastField(h.mustRun("task", "create", "Release 1.0"))
	a := lastField(h.mustRun("item", "add", taskID, "Write notes"))
	b := lastField(h.mustRun("item", "add", taskID, "Publish", "--assignee", "u-bob:Bob", "--hours", "2"))

	h.mustRun("dep", "add", taskID, a, b)

	out := h.mustRun("blocked", taskID)
	assert.Contains(t, out, b)
	assert.Contains(t, out, "Publish")

	_, err := h.run("item", "toggle", taskID, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, checklist.ErrToggleRefused))
	assert.Equal(t, ExitRejected, ExitCode(err))

	_, err = h.run("dep", "add", taskID, b, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, checklist.ErrCyclicDependency))
	assert.Contains(t, err.Error(), `"Write notes"`)
	assert.Equal(t, ExitRejected, ExitCode(err))

	out = h.mustRun("item", "toggle", taskID, a)
	assert.Contains(t, out, `Completed "Write notes"`)

	out = h.mustRun("blocked", taskID)
	assert.Contains(t, out, "No blocked items")

	out = h.mustRun("validate", taskID)
	assert.Contains(t, out, "valid")

	out = h.mustRun("task", "show", taskID)
	assert.Contains(t, out, "Release 1.0")
	assert.Contains(t, out, "1/2")

	out = h.mustRun("activity", taskID)
	assert.Contains(t, out, `Ada completed "Write notes"`)
	assert.Contains(t, out, `Ada made "Publish" depend on "Write notes"`)

	out = h.mustRun("notifications", "--user", "u-bob")
	assert.Contains(t, out, "Checklist item unblocked")
	assert.Contains(t, out, "/tasks/"+taskID)
}

func TestCLI_UpdateAndDelete(t *testing.T) {
	h := newHarness(t)

	taskID := lastField(h.mustRun("task", "create", "Docs"))
	a := lastField(h.mustRun("item", "add", taskID, "Outline"))
	b := lastField(h.mustRun("item", "add", taskID, "Draft"))
	h.mustRun("dep", "add", taskID, a, b)

	h.mustRun("item", "update", taskID, b, "--title", "First draft", "--assignee", "u-cy:Cy")
	out := h.mustRun("task", "show", taskID)
	assert.Contains(t, out, "First draft")
	assert.Contains(t, out, "@Cy")

	out = h.mustRun("notifications", "--user", "u-cy")
	assert.Contains(t, out, "Checklist item assigned")

	h.mustRun("item", "delete", taskID, a)
	out = h.mustRun("blocked", taskID)
	assert.Contains(t, out, "No blocked items")

	_, err := h.run("item", "delete", taskID, a)
	assert.Equal(t, ExitNotFound, ExitCode(err))
}

func TestCLI_DependencyRemove(t *testing.T) {
	h := newHarness(t)

	taskID := lastField(h.mustRun("task", "create", "Deploy"))
	a := lastField(h.mustRun("item", "add", taskID, "Build"))
	b := lastField(h.mustRun("item", "add", taskID, "Ship"))
	h.mustRun("dep", "add", taskID, a, b)
	h.mustRun("dep", "rm", taskID, a, b)

	out := h.mustRun("blocked", taskID)
	assert.Contains(t, out, "No blocked items")

	h.mustRun("dep", "add", taskID, b, a)
}

func TestCLI_TaskList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("task", "list")
	assert.Contains(t, out, "No tasks")

	h.mustRun("task", "create", "One")
	h.mustRun("task", "create", "Two")
	out = h.mustRun("task", "list")
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "Two")
}

func TestCLI_UnknownTask(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("item", "add", "missing", "Anything")
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run("task", "show", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, ExitCode(err))
}

func TestCLI_InvalidItem(t *testing.T) {
	h := newHarness(t)

	taskID := lastField(h.mustRun("task", "create", "Empty titles"))
	_, err := h.run("item", "add", taskID, "   ")
	require.Error(t, err)
	assert.Equal(t, ExitRejected, ExitCode(err))
}

func TestCLI_Config(t *testing.T) {
	h := newHarness(t)

	h.mustRun("config", "init", "--user-id", "u-zed", "--user-name", "Zed")
	out := h.mustRun("config", "show")
	assert.Contains(t, out, "user.id: u-zed")
	assert.Contains(t, out, "user.name: Zed")
	assert.Contains(t, out, "checklist.validate_full_graph: true")
}

func TestCLI_MetricsFile(t *testing.T) {
	h := newHarness(t)
	metricsPath := filepath.Join(t.TempDir(), "checklist.prom")

	taskID := lastField(h.mustRun("task", "create", "Metrics"))
	a := lastField(h.mustRun("item", "add", taskID, "A"))
	b := lastField(h.mustRun("item", "add", taskID, "B"))
	h.mustRun("dep", "add", taskID, a, b)

	_, err := h.run("--metrics-file", metricsPath, "dep", "add", taskID, b, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, checklist.ErrCyclicDependency))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "taskchecklist_cyclic_dependencies_rejected_total 1")
	assert.Contains(t, text, `taskchecklist_operations_total{operation="add_dependency",result="rejected"} 1`)

	h.mustRun("--metrics-file", metricsPath, "blocked", taskID)
	data, err = os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `taskchecklist_operations_total{operation="blocked",result="ok"} 1`)
	assert.Contains(t, string(data), "taskchecklist_cyclic_dependencies_rejected_total 0")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitError},
		{fmt.Errorf("wrapped: %w", store.ErrNotFound), ExitNotFound},
		{fmt.Errorf("%w: x", checklist.ErrItemNotFound), ExitNotFound},
		{&checklist.CyclicDependencyError{Titles: []string{"A", "B"}}, ExitRejected},
		{&checklist.ToggleRefusedError{Title: "A", Blockers: []string{"B"}}, ExitRejected},
		{errGraphInvalid, ExitInvalidGraph},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err))
	}
}

func TestParseUsers(t *testing.T) {
	assert.Nil(t, parseUsers(nil))
	assert.Equal(t, []model.User{
		{ID: "u1", Name: "u1"},
		{ID: "u2", Name: "Bob"},
	}, parseUsers([]string{"u1", "u2:Bob"}))
}
