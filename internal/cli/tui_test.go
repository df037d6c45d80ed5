package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/pypeek/pypeek/pkg/registry"
	"github.com/pypeek/pypeek/pkg/registry/pypi"
)

func newTestModel(packages ...string) ViewerModel {
	return NewViewerModel(pypi.NewClient(""), newLogger(io.Discard, log.InfoLevel), packages)
}

func apply(t *testing.T, m ViewerModel, msg tea.Msg) ViewerModel {
	t.Helper()
	next, _ := m.Update(msg)
	vm, ok := next.(ViewerModel)
	if !ok {
		t.Fatalf("Update returned unexpected model type %T", next)
	}
	return vm
}

func keyEnter() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }

func decodeFixture(t *testing.T, raw string) *pypi.PackageInfo {
	t.Helper()
	info, err := pypi.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("fixture decode failed: %v", err)
	}
	return info
}

const requestsFixture = `{
	"info": {
		"name": "requests",
		"project_urls": {"Homepage": "https://example.com"},
		"requires_dist": null
	},
	"releases": {"2.0.0": [], "2.1.0": []}
}`

func TestViewerModel_DetailsHiddenUntilSelection(t *testing.T) {
	m := newTestModel("requests", "pendulum", "numpy")

	view := m.View()
	for _, name := range []string{"requests", "pendulum", "numpy"} {
		if !strings.Contains(view, name) {
			t.Errorf("picker should list %s", name)
		}
	}
	if strings.Contains(view, "Releases") {
		t.Error("details should not render before a selection")
	}
}

func TestViewerModel_RenderPackageDetails(t *testing.T) {
	m := newTestModel("requests")
	m = apply(t, m, keyEnter())
	m = apply(t, m, fetchSucceededMsg{info: decodeFixture(t, requestsFixture)})

	view := m.View()
	for _, want := range []string{"requests", "2.0.0", "2.1.0", "https://example.com", "No dependencies"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestViewerModel_ErrorDoesNotClearPackage(t *testing.T) {
	m := newTestModel("requests")
	m = apply(t, m, keyEnter())
	m = apply(t, m, fetchSucceededMsg{info: decodeFixture(t, requestsFixture)})

	// A failed retry shows the error but keeps the earlier package stored.
	m = apply(t, m, keyEnter())
	m = apply(t, m, fetchFailedMsg{err: registry.BadStatus(404)})

	view := m.View()
	if !strings.Contains(view, "Request failed with status code: 404") {
		t.Errorf("view should show the formatted status error, got:\n%s", view)
	}
	if strings.Contains(view, "2.0.0") {
		t.Error("error must take display priority over package details")
	}
	if m.info == nil || m.info.Name != "requests" {
		t.Errorf("stored package must survive a failed fetch, got %+v", m.info)
	}

	// A later success clears the error and shows details again.
	m = apply(t, m, fetchSucceededMsg{info: decodeFixture(t, requestsFixture)})
	if m.errMsg != "" {
		t.Errorf("success should clear the error, got %q", m.errMsg)
	}
	if !strings.Contains(m.View(), "2.0.0") {
		t.Error("details should render again after a successful fetch")
	}
}

func TestViewerModel_LastResolvedWins(t *testing.T) {
	pendulumFixture := `{
		"info": {"name": "pendulum", "project_urls": {}, "requires_dist": null},
		"releases": {"3.0.0": []}
	}`

	m := newTestModel("requests", "pendulum")

	// Select "requests", then "pendulum" before the first lookup resolves.
	m = apply(t, m, keyEnter())
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = apply(t, m, keyEnter())

	// "pendulum" resolves first, "requests" second: last resolved wins.
	m = apply(t, m, fetchSucceededMsg{info: decodeFixture(t, pendulumFixture)})
	m = apply(t, m, fetchSucceededMsg{info: decodeFixture(t, requestsFixture)})

	if m.info.Name != "requests" {
		t.Errorf("expected last-resolved package requests, got %s", m.info.Name)
	}
	if !strings.Contains(m.View(), "2.1.0") {
		t.Error("view should render the last-resolved package")
	}
}

func TestViewerModel_DeclaredEmptyDependencies(t *testing.T) {
	fixture := `{
		"info": {"name": "tiny", "project_urls": {}, "requires_dist": []},
		"releases": {"1.0.0": []}
	}`

	m := newTestModel("tiny")
	m = apply(t, m, keyEnter())
	m = apply(t, m, fetchSucceededMsg{info: decodeFixture(t, fixture)})

	// A declared-but-empty list is not the same as absent dependencies.
	if strings.Contains(m.View(), "No dependencies") {
		t.Error("empty dependency list must not render the absent-dependencies literal")
	}
}

func TestViewerModel_SpinnerWhileFetching(t *testing.T) {
	m := newTestModel("requests")
	m = apply(t, m, keyEnter())

	if m.pending != 1 {
		t.Fatalf("expected one pending fetch, got %d", m.pending)
	}
	if !strings.Contains(m.View(), "fetching") {
		t.Error("view should indicate an in-flight fetch")
	}

	m = apply(t, m, fetchFailedMsg{err: registry.Network(nil)})
	if m.pending != 0 {
		t.Errorf("expected no pending fetches, got %d", m.pending)
	}
}

func TestViewerModel_EmptyPicker(t *testing.T) {
	m := newTestModel()

	m = apply(t, m, keyEnter())
	if m.detailsVisible {
		t.Error("selection on an empty picker should do nothing")
	}
	if m.pending != 0 {
		t.Errorf("expected no pending fetches, got %d", m.pending)
	}
}

func TestViewerModel_CursorBounds(t *testing.T) {
	m := newTestModel("a", "b")

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor should not move above the first entry, got %d", m.cursor)
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last entry, got %d", m.cursor)
	}
}
