package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/matzehuels/treeline/pkg/document"
)

func testPages(t *testing.T) []*document.Document {
	t.Helper()
	fsys := afero.NewMemMapFs()
	base, err := document.Parse(fsys, "build/_layouts", "base.html", []byte(baseLayout))
	if err != nil {
		t.Fatal(err)
	}
	layouts := layoutMap{"base": base}

	var pages []*document.Document
	for _, name := range []string{"a.html", "b.html", "c.html"} {
		d, err := document.Parse(fsys, "build", name, []byte(homePage))
		if err != nil {
			t.Fatal(err)
		}
		if err := d.Resolve(layouts); err != nil {
			t.Fatal(err)
		}
		pages = append(pages, d)
	}
	return pages
}

type layoutMap map[string]*document.Document

func (m layoutMap) Layout(label string) (*document.Document, bool) {
	d, ok := m[label]
	return d, ok
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m PageListModel, keys ...string) (PageListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(PageListModel)
	}
	return m, cmd
}

func TestPageListNavigation(t *testing.T) {
	pages := testPages(t)
	m := NewPageListModel(pages)

	m, _ = press(m, "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at last page)", m.Cursor)
	}
	m, _ = press(m, "up", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}

	m, cmd := press(m, "j", "enter")
	if m.Selected != pages[1] {
		t.Errorf("selected = %v, want %s", m.Selected, pages[1].Path())
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestPageListQuitWithoutSelection(t *testing.T) {
	m, cmd := press(NewPageListModel(testPages(t)), "q")
	if m.Selected != nil {
		t.Error("q should not select a page")
	}
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestPageListScrolls(t *testing.T) {
	m := NewPageListModel(testPages(t))
	m.Height = 2

	m, _ = press(m, "down", "down")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
	m, _ = press(m, "up", "up")
	if m.Offset != 0 {
		t.Errorf("offset = %d, want 0", m.Offset)
	}
}

func TestPageListView(t *testing.T) {
	view := NewPageListModel(testPages(t)).View()
	for _, want := range []string{"Select Page", "build/a.html", "base", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
