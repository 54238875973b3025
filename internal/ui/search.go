package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/studydesk/internal/search"
)

type searchState struct {
	input   textinput.Model
	query   string
	results []search.Result
	row     int
}

// runSearch refreshes results for the current query, limited to subjects
// the signed-in user can see.
func (m *Model) runSearch() {
	visible := make(map[string]bool)
	for _, sub := range m.visibleSubjects() {
		visible[sub.ID] = true
	}
	m.search.results = m.search.results[:0]
	for _, r := range search.Run(m.snapshot, m.search.query) {
		if visible[r.SubjectID] {
			m.search.results = append(m.search.results, r)
		}
	}
	m.search.row = clampRow(m.search.row, len(m.search.results))
}

func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyDown:
		m.search.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.search.input.Blur()
		if strings.TrimSpace(m.search.query) == "" {
			m.currentView = ViewLibrary
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if q := m.search.input.Value(); q != m.search.query {
		m.search.query = q
		m.search.row = 0
		m.runSearch()
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if row, ok := m.moveRow(msg, m.search.row, len(m.search.results)); ok {
		m.search.row = row
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		if m.search.row < len(m.search.results) {
			m.openResult(m.search.results[m.search.row])
		}
	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewLibrary
	}
	return m, nil
}

func (m *Model) openResult(r search.Result) {
	switch r.Kind {
	case search.KindMaterial:
		m.openMaterial(r.ID)
	case search.KindTopic:
		m.focusLibrary(r.SubjectID, r.TopicID, "")
	default:
		m.focusLibrary(r.SubjectID, "", "")
	}
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	height := m.height - 2
	inner := m.width - 2

	lines := []string{m.search.input.View(), ""}
	switch {
	case strings.TrimSpace(m.search.query) == "":
		lines = append(lines, styles.FaintText.Render("Type to search names, descriptions, titles and notes"))
	case len(m.search.results) == 0:
		lines = append(lines, styles.MutedText.Render("No matches"))
	default:
		for i, r := range m.search.results {
			lines = append(lines, m.renderRow(i, inner, resultRow(r)))
			if ctx := resultContext(r); ctx != "" {
				lines = append(lines, styles.FaintText.Render("    "+truncate(ctx, inner-4)))
			}
		}
	}

	title := "Search"
	if n := len(m.search.results); n > 0 {
		title = fmt.Sprintf("Search (%d)", n)
	}
	box := m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
	return lipgloss.NewStyle().MaxHeight(height).Render(box)
}

func resultRow(r search.Result) rowParts {
	kind := string(r.Kind)
	if r.MaterialType != "" {
		kind = string(r.MaterialType)
	}
	return rowParts{marker: strings.ToUpper(string(r.Kind)[:1]), title: r.Title, status: kind, kind: kind}
}

// resultContext shows where the result lives and, for body matches, the
// text around the hit.
func resultContext(r search.Result) string {
	var parts []string
	if crumb := r.Breadcrumb(); crumb != "" {
		parts = append(parts, crumb)
	}
	if r.Field == search.FieldDescription || r.Field == search.FieldNotes {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Field, r.Snippet))
	}
	return strings.Join(parts, "  ")
}
