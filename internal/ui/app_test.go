package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/studydesk/internal/download"
	"github.com/five82/studydesk/internal/model"
	"github.com/five82/studydesk/internal/prefs"
	"github.com/five82/studydesk/internal/state"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *state.Store) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := state.Open(ctx, nil, state.WithEnv(state.Env{Now: func() time.Time { return testNow }}))
	engine := download.New(ctx, store, download.WithInterval(time.Hour))
	t.Cleanup(engine.Close)

	m := New(Options{
		Context: ctx,
		Store:   store,
		Engine:  engine,
		Now:     func() time.Time { return testNow },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), store
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func findMaterial(doc *model.AppState, id string) *model.Material {
	for _, s := range doc.Subjects {
		for _, t := range s.Topics {
			for _, mat := range t.Materials {
				if mat.ID == id {
					return mat
				}
			}
		}
	}
	return nil
}

func TestLibrary_DrillDownAndBack(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "enter")
	if m.library.level() != levelTopics || m.library.subjectID != "s1" {
		t.Fatalf("library = %+v, want topics of s1", m.library)
	}
	m = press(t, m, "enter")
	if m.library.level() != levelMaterials || m.library.topicID != "t1" {
		t.Fatalf("library = %+v, want materials of t1", m.library)
	}
	if got := m.libraryTitle(); got != "Library › Physics › Laws of Motion" {
		t.Fatalf("libraryTitle = %q", got)
	}

	m = press(t, m, "j", "enter")
	if m.currentView != ViewMaterial || m.materialID != "m2" {
		t.Fatalf("view/material = %v/%q, want material m2", m.currentView, m.materialID)
	}
	if recent := m.snapshot.RecentlyOpened; len(recent) == 0 || recent[0].MaterialID != "m2" {
		t.Fatalf("RecentlyOpened = %+v, want m2 first", recent)
	}

	m = press(t, m, "esc", "esc")
	if m.currentView != ViewLibrary || m.library.level() != levelTopics || m.library.row != 0 {
		t.Fatalf("after back: view=%v library=%+v", m.currentView, m.library)
	}
	m = press(t, m, "esc")
	if m.library.level() != levelSubjects || m.library.row != 0 {
		t.Fatalf("after back: library=%+v, want subjects row 0", m.library)
	}
}

func TestLibrary_RowClampsAndTopicToggles(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, "G")
	if m.library.row != 2 {
		t.Fatalf("row = %d, want 2 (last subject)", m.library.row)
	}
	m = press(t, m, "j")
	if m.library.row != 2 {
		t.Fatalf("row = %d, want clamped at 2", m.library.row)
	}

	m = press(t, m, "g", "enter", "j", "c", "p")
	doc := store.Snapshot()
	t2 := doc.Subjects[0].Topics[1]
	if !t2.IsPinned || !t2.IsCompleted {
		t.Fatalf("t2 pinned/completed = %v/%v, want both", t2.IsPinned, t2.IsCompleted)
	}
	if doc.Stats.TotalTopicsCompleted != 1 {
		t.Fatalf("TotalTopicsCompleted = %d, want 1", doc.Stats.TotalTopicsCompleted)
	}
	if topics := sortedTopics(m.currentSubject()); topics[0].ID != "t2" {
		t.Fatalf("first topic = %s, want pinned t2", topics[0].ID)
	}
}

func TestLibrary_DeletedSubjectClimbsOut(t *testing.T) {
	m, store := newTestModel(t)
	m = press(t, m, "enter", "enter")

	store.DeleteSubject("s1")
	next, _ := m.Update(changeMsg{})
	m = next.(Model)
	if m.library.level() != levelSubjects {
		t.Fatalf("library = %+v, want back at subjects", m.library)
	}
	if n := m.libraryRowCount(); n != 2 {
		t.Fatalf("rows = %d, want 2", n)
	}
}

func TestMaterial_Actions(t *testing.T) {
	m, store := newTestModel(t)
	m = press(t, m, "enter", "enter", "enter")
	if m.materialID != "m1" {
		t.Fatalf("materialID = %q, want m1", m.materialID)
	}

	m = press(t, m, "+", "+", ">", "b", "f", "s")
	mat := findMaterial(store.Snapshot(), "m1")
	if mat.Progress != 20 {
		t.Fatalf("Progress = %d, want 20", mat.Progress)
	}
	if mat.VideoPosition != videoSeekStep {
		t.Fatalf("VideoPosition = %d, want %d", mat.VideoPosition, videoSeekStep)
	}
	if len(mat.Bookmarks) != 1 || mat.Bookmarks[0] != videoSeekStep {
		t.Fatalf("Bookmarks = %v, want [%d]", mat.Bookmarks, videoSeekStep)
	}
	if !mat.IsFavorite {
		t.Fatal("IsFavorite = false, want true")
	}
	day := store.Snapshot().Stats.DailyStats[model.DateKey(testNow)]
	if day.VideoMinutes != studyMinutes || day.TotalMinutes != studyMinutes {
		t.Fatalf("day stats = %+v, want %d video minutes", day, studyMinutes)
	}
	if !strings.Contains(m.renderHeader(), "15m") {
		t.Fatalf("header does not show today's minutes: %q", m.renderHeader())
	}
}

func TestMaterial_EditNotes(t *testing.T) {
	m, store := newTestModel(t)
	m = press(t, m, "enter", "enter", "j", "enter", "n")
	if !m.editingNotes {
		t.Fatal("editingNotes = false after n")
	}
	m = press(t, m, "ok", "enter")
	if m.editingNotes {
		t.Fatal("editingNotes = true after enter")
	}
	if got := findMaterial(store.Snapshot(), "m2").Notes; got != "ok" {
		t.Fatalf("Notes = %q, want ok", got)
	}

	m = press(t, m, "n", "discard", "esc")
	if got := findMaterial(store.Snapshot(), "m2").Notes; got != "ok" {
		t.Fatalf("Notes = %q after esc, want unchanged", got)
	}
}

func TestDownloads_StartCancelClear(t *testing.T) {
	m, store := newTestModel(t)
	m = press(t, m, "enter", "enter", "d", "j", "d")

	if got := len(m.downloadItems()); got != 2 {
		t.Fatalf("download items = %d, want 2", got)
	}
	if m.engine.Active() != 2 {
		t.Fatalf("Active = %d, want 2", m.engine.Active())
	}
	m = press(t, m, "d")
	if m.flash == "" {
		t.Fatal("second download of m2 should flash a refusal")
	}

	m = press(t, m, "D", "x")
	if mat := findMaterial(store.Snapshot(), "m1"); mat.DownloadProgress != nil {
		t.Fatalf("m1 DownloadProgress = %v after cancel, want nil", *mat.DownloadProgress)
	}
	m = press(t, m, "C")
	if m.engine.Active() != 0 || len(m.downloadItems()) != 0 {
		t.Fatalf("after clear: active=%d items=%d", m.engine.Active(), len(m.downloadItems()))
	}
}

func TestSearch_TypeAndOpen(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "/")
	if m.currentView != ViewSearch || !m.search.input.Focused() {
		t.Fatalf("view = %v focused = %v, want focused search", m.currentView, m.search.input.Focused())
	}

	m = press(t, m, "N", "C", "E", "R", "T")
	if len(m.search.results) != 1 || m.search.results[0].ID != "m2" {
		t.Fatalf("results = %+v, want m2", m.search.results)
	}

	m = press(t, m, "enter", "enter")
	if m.currentView != ViewMaterial || m.materialID != "m2" {
		t.Fatalf("view/material = %v/%q, want m2 detail", m.currentView, m.materialID)
	}
	m = press(t, m, "esc")
	if m.currentView != ViewSearch {
		t.Fatalf("view = %v, want back at search", m.currentView)
	}
}

func TestSearch_RespectsVisibility(t *testing.T) {
	m, store := newTestModel(t)
	if err := store.AdminAddUser(model.NewUser{ID: "s12", Name: "Student", Password: "pw", StudentClass: "Class 12"}); err != nil {
		t.Fatalf("AdminAddUser: %v", err)
	}
	if err := store.Login("s12", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	next, _ := m.Update(changeMsg{})
	m = next.(Model)

	if n := m.libraryRowCount(); n != 1 {
		t.Fatalf("visible subjects = %d, want 1 (Mathematics)", n)
	}
	m = press(t, m, "/", "p", "h", "y")
	if len(m.search.results) != 0 {
		t.Fatalf("results = %+v, want none outside Class 12", m.search.results)
	}
}

func TestCycleTheme_SavesPrefs(t *testing.T) {
	m, _ := newTestModel(t)
	m.prefsPath = filepath.Join(t.TempDir(), "prefs.toml")

	m = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}

func TestView_RendersEveryScreen(t *testing.T) {
	m, _ := newTestModel(t)
	for _, keys := range [][]string{
		nil,
		{"enter", "enter"},
		{"enter", "enter", "enter"},
		{"D"},
		{"/", "m", "o"},
		{"?"},
	} {
		got := press(t, m, keys...).View()
		if strings.TrimSpace(got) == "" || got == "Loading..." {
			t.Fatalf("View after %v = %q", keys, got)
		}
	}
}

func TestThemeCycle(t *testing.T) {
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
	if got := GetTheme("Unknown").Name; got != DefaultThemeName {
		t.Fatalf("GetTheme(Unknown) = %q, want %q", got, DefaultThemeName)
	}
	if len(ThemeNames()) != 3 {
		t.Fatalf("ThemeNames = %v, want 3", ThemeNames())
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{formatBytes(999), "999 B"},
		{formatBytes(1024), "1.00 KiB"},
		{formatBytes(48 << 20), "48.00 MiB"},
		{formatMinutes(42), "42m"},
		{formatMinutes(65), "1h 05m"},
		{formatPosition(true, 125), "2:05"},
		{formatPosition(false, 12), "p.12"},
		{truncate("Laws of Motion", 8), "Laws ..."},
		{padRight("ab", 4), "ab  "},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("got %q, want %q", tt.got, tt.want)
		}
	}
}
