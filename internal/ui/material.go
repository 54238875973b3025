package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/studydesk/internal/model"
)

const (
	progressStep  = 10
	studyMinutes  = 15
	videoSeekStep = 30 // seconds
)

func (m Model) handleMaterialKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mat := m.material()
	if mat == nil {
		m.currentView = ViewLibrary
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.currentView = m.returnView
		if m.currentView == ViewSearch {
			m.search.input.Blur()
		}
	case key.Matches(msg, m.keys.ProgressUp):
		m.store.UpdateMaterialProgress(mat.ID, mat.Progress+progressStep)
	case key.Matches(msg, m.keys.ProgressDown):
		m.store.UpdateMaterialProgress(mat.ID, mat.Progress-progressStep)
	case key.Matches(msg, m.keys.Seek):
		if mat.Type != model.MaterialNote {
			m.store.UpdateMaterialProgress(mat.ID, mat.Progress, mat.Position()+seekStep(mat.Type))
		}
	case key.Matches(msg, m.keys.Bookmark):
		if mat.Type != model.MaterialNote {
			m.store.ToggleBookmark(mat.ID, mat.Position())
		}
	case key.Matches(msg, m.keys.ToggleFavorite):
		m.store.ToggleFavorite(mat.ID)
	case key.Matches(msg, m.keys.Study):
		m.store.TrackStudyTime(studyMinutes, mat.Type)
		m.flash = fmt.Sprintf("logged %dm of %s study", studyMinutes, strings.ToLower(string(mat.Type)))
	case key.Matches(msg, m.keys.EditNotes):
		m.editingNotes = true
		m.notesInput.SetValue(mat.Notes)
		m.notesInput.CursorEnd()
		cmd := m.notesInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Download):
		m.startDownload(mat.ID)
	case key.Matches(msg, m.keys.Cancel):
		if m.engine != nil {
			m.engine.Cancel(mat.ID)
		}
	default:
		return m, nil
	}
	m.reload()
	return m, nil
}

func seekStep(t model.MaterialType) int {
	if t == model.MaterialVideo {
		return videoSeekStep
	}
	return 1
}

func (m Model) handleNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.store.SaveMaterialNotes(m.materialID, m.notesInput.Value())
		m.editingNotes = false
		m.notesInput.Blur()
		m.flash = "notes saved"
		m.reload()
		return m, nil
	case tea.KeyEsc:
		m.editingNotes = false
		m.notesInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return m, cmd
}

func (m Model) renderMaterial() string {
	mat := m.material()
	if mat == nil {
		return ""
	}
	styles := m.theme.Styles()
	video := mat.Type == model.MaterialVideo
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 11)) }

	var lines []string
	meta := []string{styles.KindStyle(string(mat.Type)).Render(string(mat.Type))}
	if mat.FileSize > 0 {
		meta = append(meta, formatBytes(mat.FileSize))
	}
	if mat.IsFavorite {
		meta = append(meta, styles.WarningText.Render("★ favorite"))
	}
	lines = append(lines, strings.Join(meta, styles.FaintText.Render(" · ")), "")

	lines = append(lines, label("Progress")+m.bar.ViewAs(float64(mat.Progress)/100)+fmt.Sprintf(" %3d%%", mat.Progress))
	if mat.Type != model.MaterialNote {
		lines = append(lines, label("Position")+styles.Text.Render(formatPosition(video, mat.Position())))
		marks := make([]string, 0, len(mat.Bookmarks))
		for _, b := range mat.Bookmarks {
			marks = append(marks, formatPosition(video, b))
		}
		if len(marks) == 0 {
			marks = append(marks, styles.FaintText.Render("none"))
		}
		lines = append(lines, label("Bookmarks")+strings.Join(marks, ", "))
	}

	switch {
	case mat.IsDownloaded:
		lines = append(lines, label("Offline")+styles.KindStyle("downloaded").Render("saved"))
	case mat.Downloading():
		p := *mat.DownloadProgress
		lines = append(lines, label("Download")+m.bar.ViewAs(float64(p)/100)+fmt.Sprintf(" %3d%%", p))
	}

	if names := m.tagNames(mat.Tags); len(names) > 0 {
		lines = append(lines, label("Tags")+styles.AccentText.Render(strings.Join(names, ", ")))
	}
	if mat.URL != "" {
		lines = append(lines, label("Source")+styles.FaintText.Render(truncate(mat.URL, m.width-16)))
	}

	lines = append(lines, "", styles.MutedText.Render("Notes"))
	if m.editingNotes {
		lines = append(lines, m.notesInput.View(), styles.FaintText.Render("enter save · esc discard"))
	} else if strings.TrimSpace(mat.Notes) == "" {
		lines = append(lines, styles.FaintText.Render("(empty) press n to write"))
	} else {
		lines = append(lines, strings.Split(mat.Notes, "\n")...)
	}

	return m.renderTitledBox(mat.Title, strings.Join(lines, "\n"), m.width, m.height-2, true)
}

func (m Model) tagNames(ids []string) []string {
	var names []string
	for _, id := range ids {
		for _, t := range m.snapshot.Tags {
			if t.ID == id {
				names = append(names, t.Name)
			}
		}
	}
	return names
}
