package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/studydesk/internal/model"
)

// libraryState is the drill-down position: no subject selected lists
// subjects, a subject lists its topics, a topic lists its materials.
type libraryState struct {
	subjectID string
	topicID   string
	row       int
}

type libraryLevel int

const (
	levelSubjects libraryLevel = iota
	levelTopics
	levelMaterials
)

func (l libraryState) level() libraryLevel {
	switch {
	case l.subjectID == "":
		return levelSubjects
	case l.topicID == "":
		return levelTopics
	default:
		return levelMaterials
	}
}

func (m Model) visibleSubjects() []*model.Subject {
	return model.VisibleSubjects(m.snapshot, m.snapshot.CurrentUser)
}

func (m Model) currentSubject() *model.Subject {
	for _, sub := range m.visibleSubjects() {
		if sub.ID == m.library.subjectID {
			return sub
		}
	}
	return nil
}

// sortedTopics lists pinned topics first, otherwise in document order.
func sortedTopics(sub *model.Subject) []*model.Topic {
	if sub == nil {
		return nil
	}
	topics := slices.Clone(sub.Topics)
	slices.SortStableFunc(topics, func(a, b *model.Topic) int {
		switch {
		case a.IsPinned == b.IsPinned:
			return 0
		case a.IsPinned:
			return -1
		default:
			return 1
		}
	})
	return topics
}

func (m Model) currentTopic() *model.Topic {
	for _, t := range sortedTopics(m.currentSubject()) {
		if t.ID == m.library.topicID {
			return t
		}
	}
	return nil
}

func (m Model) libraryRowCount() int {
	switch m.library.level() {
	case levelSubjects:
		return len(m.visibleSubjects())
	case levelTopics:
		return len(sortedTopics(m.currentSubject()))
	default:
		if t := m.currentTopic(); t != nil {
			return len(t.Materials)
		}
		return 0
	}
}

// clampLibrary climbs out of deleted or hidden levels and keeps the row in
// range.
func (m *Model) clampLibrary() {
	if m.library.subjectID != "" && m.currentSubject() == nil {
		m.library = libraryState{}
	}
	if m.library.topicID != "" && m.currentTopic() == nil {
		m.library.topicID = ""
		m.library.row = 0
	}
	m.library.row = clampRow(m.library.row, m.libraryRowCount())
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if row, ok := m.moveRow(msg, m.library.row, m.libraryRowCount()); ok {
		m.library.row = row
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		m.drillDown()
	case key.Matches(msg, m.keys.Back):
		m.climbUp()
	case key.Matches(msg, m.keys.TogglePin):
		if t := m.selectedTopic(); t != nil {
			m.store.TogglePinTopic(t.ID)
			m.reload()
		}
	case key.Matches(msg, m.keys.ToggleComplete):
		if t := m.selectedTopic(); t != nil {
			m.store.ToggleTopicCompletion(t.ID)
			m.reload()
		}
	case key.Matches(msg, m.keys.ToggleFavorite):
		if mat := m.selectedMaterial(); mat != nil {
			m.store.ToggleFavorite(mat.ID)
			m.reload()
		}
	case key.Matches(msg, m.keys.Download):
		if mat := m.selectedMaterial(); mat != nil {
			m.startDownload(mat.ID)
		}
	case key.Matches(msg, m.keys.Cancel):
		if mat := m.selectedMaterial(); mat != nil && m.engine != nil {
			m.engine.Cancel(mat.ID)
			m.reload()
		}
	}
	return m, nil
}

// selectedTopic is the highlighted topic on the topics level, or the open
// topic on the materials level.
func (m Model) selectedTopic() *model.Topic {
	switch m.library.level() {
	case levelTopics:
		topics := sortedTopics(m.currentSubject())
		if m.library.row < len(topics) {
			return topics[m.library.row]
		}
	case levelMaterials:
		return m.currentTopic()
	}
	return nil
}

func (m Model) selectedMaterial() *model.Material {
	if m.library.level() != levelMaterials {
		return nil
	}
	t := m.currentTopic()
	if t == nil || m.library.row >= len(t.Materials) {
		return nil
	}
	return t.Materials[m.library.row]
}

func (m *Model) drillDown() {
	switch m.library.level() {
	case levelSubjects:
		subs := m.visibleSubjects()
		if m.library.row < len(subs) {
			m.library = libraryState{subjectID: subs[m.library.row].ID}
		}
	case levelTopics:
		if t := m.selectedTopic(); t != nil {
			m.library.topicID = t.ID
			m.library.row = 0
		}
	case levelMaterials:
		if mat := m.selectedMaterial(); mat != nil {
			m.openMaterial(mat.ID)
		}
	}
}

// climbUp returns to the parent level with the row on the child we left.
func (m *Model) climbUp() {
	switch m.library.level() {
	case levelMaterials:
		topicID := m.library.topicID
		m.library.topicID = ""
		m.library.row = 0
		for i, t := range sortedTopics(m.currentSubject()) {
			if t.ID == topicID {
				m.library.row = i
			}
		}
	case levelTopics:
		subjectID := m.library.subjectID
		m.library = libraryState{}
		for i, sub := range m.visibleSubjects() {
			if sub.ID == subjectID {
				m.library.row = i
			}
		}
	}
}

// focusLibrary drills straight to a subject and optional topic.
func (m *Model) focusLibrary(subjectID, topicID, itemID string) {
	m.library = libraryState{subjectID: subjectID, topicID: topicID}
	m.clampLibrary()
	switch m.library.level() {
	case levelSubjects:
		for i, sub := range m.visibleSubjects() {
			if sub.ID == itemID {
				m.library.row = i
			}
		}
	case levelTopics:
		for i, t := range sortedTopics(m.currentSubject()) {
			if t.ID == itemID {
				m.library.row = i
			}
		}
	}
	m.currentView = ViewLibrary
}

func (m Model) libraryTitle() string {
	parts := []string{"Library"}
	if sub := m.currentSubject(); sub != nil {
		parts = append(parts, sub.Name)
	}
	if t := m.currentTopic(); t != nil {
		parts = append(parts, t.Name)
	}
	return strings.Join(parts, " › ")
}

func (m Model) renderLibrary() string {
	styles := m.theme.Styles()
	height := m.height - 2
	if m.libraryRowCount() == 0 {
		msg := "No subjects available"
		switch m.library.level() {
		case levelTopics:
			msg = "No topics yet"
		case levelMaterials:
			msg = "No materials yet"
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	inner := m.width - 2
	var lines []string
	switch m.library.level() {
	case levelSubjects:
		for i, sub := range m.visibleSubjects() {
			lines = append(lines, m.renderRow(i, inner, subjectRow(sub)))
		}
	case levelTopics:
		for i, t := range sortedTopics(m.currentSubject()) {
			lines = append(lines, m.renderRow(i, inner, topicRow(t)))
		}
	default:
		for i, mat := range m.currentTopic().Materials {
			lines = append(lines, m.renderRow(i, inner, materialRow(mat)))
		}
	}
	return m.renderTitledBox(m.libraryTitle(), strings.Join(lines, "\n"), m.width, height, true)
}

// rowParts is one list line: a marker column, the title and a trailing
// status colored by kind.
type rowParts struct {
	marker string
	title  string
	status string
	kind   string
}

func subjectRow(sub *model.Subject) rowParts {
	done := 0
	for _, t := range sub.Topics {
		if t.IsCompleted {
			done++
		}
	}
	status := fmt.Sprintf("%d/%d topics", done, len(sub.Topics))
	if sub.TargetClass != "" {
		status += " · " + sub.TargetClass
	}
	return rowParts{marker: " ", title: sub.Name, status: status}
}

func topicRow(t *model.Topic) rowParts {
	r := rowParts{marker: " ", title: t.Name, status: fmt.Sprintf("%d materials", len(t.Materials))}
	switch {
	case t.IsCompleted:
		r.marker, r.kind = "✓", "completed"
	case t.IsPinned:
		r.marker, r.kind = "▲", "pinned"
	}
	return r
}

func materialRow(mat *model.Material) rowParts {
	r := rowParts{marker: " ", title: mat.Title, kind: string(mat.Type)}
	status := []string{string(mat.Type)}
	if mat.Progress > 0 {
		status = append(status, fmt.Sprintf("%d%%", mat.Progress))
	}
	switch {
	case mat.IsDownloaded:
		status = append(status, "saved")
	case mat.Downloading():
		status = append(status, fmt.Sprintf("↓%d%%", *mat.DownloadProgress))
	}
	if mat.IsFavorite {
		r.marker = "★"
	}
	r.status = strings.Join(status, " ")
	return r
}

// renderRow draws one list line, highlighted when i is the selected row.
func (m Model) renderRow(i, width int, r rowParts) string {
	selected := i == m.rowFor(m.currentView)
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	markerStyle, titleStyle, statusStyle := styles.AccentText, styles.Text, styles.KindStyle(r.kind)
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markerStyle, titleStyle, statusStyle = sel, sel, sel
	}

	titleWidth := max(width-len([]rune(r.status))-6, 10)
	content := bg.Render(r.marker, markerStyle) + bg.Space() +
		bg.Render(padRight(truncate(r.title, titleWidth), titleWidth), titleStyle) +
		bg.Render(" · ", styles.FaintText) +
		bg.Render(r.status, statusStyle)
	return bg.FillLine(content, width)
}

func (m Model) rowFor(v View) int {
	switch v {
	case ViewSearch:
		return m.search.row
	case ViewDownloads:
		return m.downloadsRow
	default:
		return m.library.row
	}
}
