package views

import (
	"fmt"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"splitmark/internal/adapters/filesystem"
	"splitmark/internal/application"
	"splitmark/internal/domain"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func testPages(n int) []domain.PageDescriptor {
	pages := make([]domain.PageDescriptor, n)
	for i := range pages {
		pages[i] = domain.PageDescriptor{Index: i, ResourceID: fmt.Sprintf("http://img/%d.jpg", i)}
	}
	return pages
}

func setupPagesModel(t *testing.T) (*PagesModel, application.State) {
	t.Helper()
	deps := Deps{
		Store:    filesystem.NewStore(t.TempDir(), ""),
		Splitter: domain.DefaultSplitterOptions(),
	}
	m := NewPagesModel(deps)
	state := application.State{
		Collection:   "gagaku",
		ManifestPath: "gagaku/volume1_manifest.json",
		Pages:        testPages(5),
	}
	m.SetState(state)
	return m, state
}

// dispatched runs cmd and returns the DispatchMsg it emits
func dispatched(t *testing.T, cmd tea.Cmd) DispatchMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg, ok := cmd().(DispatchMsg)
	if !ok {
		t.Fatalf("expected DispatchMsg, got %T", cmd())
	}
	return msg
}

// reduce applies a dispatch to a state the way the app does
func reduce(t *testing.T, s application.State, msg DispatchMsg) application.State {
	t.Helper()
	for _, a := range msg.Actions {
		var err error
		if s, err = application.Reduce(s, a); err != nil {
			t.Fatalf("Reduce(%T): %v", a, err)
		}
	}
	return s
}

func TestPagesModel_SpaceTogglesCursorPage(t *testing.T) {
	m, _ := setupPagesModel(t)
	m.Update(keyRunes("j"))

	_, cmd := m.Update(keySpace)
	msg := dispatched(t, cmd)

	if len(msg.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(msg.Actions))
	}
	if a, ok := msg.Actions[0].(application.PageToggled); !ok || a.Page != 1 {
		t.Errorf("expected PageToggled{1}, got %#v", msg.Actions[0])
	}
}

func TestPagesModel_DigitSetsTitleCount(t *testing.T) {
	m, _ := setupPagesModel(t)
	m.Update(keyRunes("G"))

	_, cmd := m.Update(keyRunes("3"))
	msg := dispatched(t, cmd)

	a, ok := msg.Actions[0].(application.PageCountSet)
	if !ok || a.Page != 4 || a.Titles != 3 {
		t.Errorf("expected PageCountSet{4, 3}, got %#v", msg.Actions[0])
	}
}

func TestPagesModel_ZeroUnmarks(t *testing.T) {
	m, _ := setupPagesModel(t)

	_, cmd := m.Update(keyRunes("0"))
	msg := dispatched(t, cmd)

	if _, ok := msg.Actions[0].(application.PageUnmarked); !ok {
		t.Errorf("expected PageUnmarked, got %#v", msg.Actions[0])
	}
}

func TestPagesModel_SplitPreviewRederivesOnMark(t *testing.T) {
	m, _ := setupPagesModel(t)

	_, cmd := m.Update(keyRunes("s"))
	if _, ok := dispatched(t, cmd).Actions[0].(application.SplitsDerived); !ok {
		t.Fatal("opening the preview should derive splits")
	}

	_, cmd = m.Update(keySpace)
	msg := dispatched(t, cmd)
	if len(msg.Actions) != 2 {
		t.Fatalf("expected mark and derive, got %d actions", len(msg.Actions))
	}
	if _, ok := msg.Actions[1].(application.SplitsDerived); !ok {
		t.Errorf("expected SplitsDerived second, got %#v", msg.Actions[1])
	}
}

func TestPagesModel_ClearAsksFirst(t *testing.T) {
	m, state := setupPagesModel(t)

	if _, cmd := m.Update(keyRunes("x")); cmd != nil {
		t.Error("clearing without marks should do nothing")
	}

	state.Marks = domain.NewMarks(domain.PageMark{Page: 2, Titles: 1})
	m.SetState(state)

	if _, cmd := m.Update(keyRunes("x")); cmd != nil {
		t.Error("clear should wait for confirmation")
	}
	if !m.confirm.Active() {
		t.Fatal("expected confirmation prompt")
	}

	_, cmd := m.Update(keyRunes("y"))
	msg := dispatched(t, cmd)
	if _, ok := msg.Actions[0].(application.MarksCleared); !ok {
		t.Errorf("expected MarksCleared, got %#v", msg.Actions[0])
	}
}

func TestPagesModel_ExportThenResume(t *testing.T) {
	m, state := setupPagesModel(t)
	state.Marks = domain.NewMarks(
		domain.PageMark{Page: 1, Titles: 1},
		domain.PageMark{Page: 3, Titles: 2},
	)
	m.SetState(state)

	_, cmd := m.Update(keyRunes("e"))
	result, ok := cmd().(pagesResultMsg)
	if !ok || result.err != nil {
		t.Fatalf("export failed: %#v", result)
	}
	if _, err := os.Stat(result.sidecar); err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}
	m.Update(result)
	if m.sidecar != result.sidecar {
		t.Errorf("exported path not remembered: %q", m.sidecar)
	}

	// Start over and resume from disk
	cleared := state
	cleared.Marks = domain.Marks{}
	m.SetState(cleared)

	_, cmd = m.Update(keyRunes("R"))
	msg := dispatched(t, cmd)
	next := reduce(t, cleared, msg)
	if next.Marks.Count(3) != 2 || next.Marks.Count(1) != 1 || next.Marks.Len() != 2 {
		t.Errorf("unexpected restored marks: %v", next.Marks.Snapshot())
	}
}

func TestPagesModel_ExportWithoutMarks(t *testing.T) {
	m, _ := setupPagesModel(t)

	_, cmd := m.Update(keyRunes("e"))
	result := cmd().(pagesResultMsg)
	if result.err == nil {
		t.Fatal("expected error exporting without marks")
	}
	m.Update(result)
	if !m.MessageErr {
		t.Error("error should be shown")
	}
}

func TestPagesModel_SplitterCommand(t *testing.T) {
	m, state := setupPagesModel(t)
	state.Marks = domain.NewMarks(domain.PageMark{Page: 0, Titles: 1})
	m.SetState(state)

	_, cmd := m.Update(keyRunes("c"))
	result := cmd().(pagesResultMsg)
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	want := `python3 iiif_manifest_splitter.py "gagaku/volume1_manifest.json" "gagaku_volume1_manifest_title_pages.json"`
	if !strings.HasPrefix(result.command, want) {
		t.Errorf("command = %q", result.command)
	}
}

func TestPagesModel_NewManifestResetsCursor(t *testing.T) {
	m, state := setupPagesModel(t)
	m.Update(keyRunes("G"))
	if m.Cursor() != 4 {
		t.Fatalf("cursor = %d", m.Cursor())
	}

	state.ManifestPath = "gagaku/volume2_manifest.json"
	m.SetState(state)
	if m.Cursor() != 0 {
		t.Errorf("cursor should reset, got %d", m.Cursor())
	}
}

func TestPagesModel_BackTargetsCollection(t *testing.T) {
	m, _ := setupPagesModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msg, ok := cmd().(SwitchToVolumesMsg)
	if !ok || msg.Collection != "gagaku" || !msg.Back {
		t.Errorf("expected SwitchToVolumesMsg{gagaku}, got %#v", msg)
	}
}

type fakeViewer struct {
	opened []domain.PageDescriptor
}

func (f *fakeViewer) Open(p domain.PageDescriptor, _ domain.SizeClass) error {
	f.opened = append(f.opened, p)
	return nil
}

func TestPagesModel_ViewOpensCursorPage(t *testing.T) {
	m, _ := setupPagesModel(t)
	if _, cmd := m.Update(keyRunes("v")); cmd != nil || !m.MessageErr {
		t.Error("viewing without a viewer should report an error")
	}

	viewer := &fakeViewer{}
	m.deps.Viewer = viewer
	m.Update(keyRunes("j"))
	m.Update(keyRunes("j"))

	_, cmd := m.Update(keyRunes("v"))
	result := cmd().(pagesResultMsg)
	if result.err != nil {
		t.Fatalf("view failed: %v", result.err)
	}
	if len(viewer.opened) != 1 || viewer.opened[0].Index != 2 {
		t.Errorf("opened %v, expected page index 2", viewer.opened)
	}
}
