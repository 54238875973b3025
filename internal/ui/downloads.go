package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/studydesk/internal/model"
)

type downloadItem struct {
	material *model.Material
	subject  string
	topic    string
}

// downloadItems lists in-flight downloads first, then saved materials, each
// in document order.
func (m Model) downloadItems() []downloadItem {
	var active, saved []downloadItem
	for _, sub := range m.visibleSubjects() {
		for _, t := range sub.Topics {
			for _, mat := range t.Materials {
				item := downloadItem{material: mat, subject: sub.Name, topic: t.Name}
				switch {
				case mat.Downloading():
					active = append(active, item)
				case mat.IsDownloaded:
					saved = append(saved, item)
				}
			}
		}
	}
	return append(active, saved...)
}

func (m Model) handleDownloadsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.downloadItems()
	if row, ok := m.moveRow(msg, m.downloadsRow, len(items)); ok {
		m.downloadsRow = row
		return m, nil
	}
	if key.Matches(msg, m.keys.Back) {
		m.currentView = ViewLibrary
		return m, nil
	}
	if m.engine == nil {
		return m, nil
	}
	if key.Matches(msg, m.keys.ClearAll) {
		m.engine.ClearAll()
		m.flash = "downloads cleared"
		m.reload()
		return m, nil
	}
	if m.downloadsRow >= len(items) {
		return m, nil
	}

	mat := items[m.downloadsRow].material
	switch {
	case key.Matches(msg, m.keys.Open):
		m.openMaterial(mat.ID)
	case key.Matches(msg, m.keys.Cancel):
		m.engine.Cancel(mat.ID)
	case key.Matches(msg, m.keys.Remove):
		m.engine.Remove(mat.ID)
	default:
		return m, nil
	}
	m.reload()
	return m, nil
}

func (m Model) renderDownloads() string {
	styles := m.theme.Styles()
	height := m.height - 2
	items := m.downloadItems()
	if len(items) == 0 {
		msg := styles.MutedText.Render("No downloads. Press d on a material to save it offline.")
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	inner := m.width - 2
	var lines []string
	var total int64
	for i, item := range items {
		mat := item.material
		status := "saved"
		kind := "downloaded"
		if mat.Downloading() {
			status = fmt.Sprintf("%d%%", *mat.DownloadProgress)
			kind = "downloading"
		}
		lines = append(lines, m.renderRow(i, inner, rowParts{marker: "↓", title: mat.Title, status: status, kind: kind}))

		detail := "    " + item.subject + " › " + item.topic
		if mat.FileSize > 0 {
			detail += " · " + formatBytes(mat.FileSize)
		}
		if mat.Downloading() {
			detail = "    " + m.bar.ViewAs(float64(*mat.DownloadProgress)/100) + styles.FaintText.Render(detail)
		} else {
			total += mat.FileSize
			detail = styles.FaintText.Render(detail)
		}
		lines = append(lines, detail)
	}

	title := fmt.Sprintf("Downloads (%d active", m.activeDownloads())
	if total > 0 {
		title += ", " + formatBytes(total) + " saved"
	}
	title += ")"
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) activeDownloads() int {
	if m.engine != nil {
		return m.engine.Active()
	}
	n := 0
	for _, item := range m.downloadItems() {
		if item.material.Downloading() {
			n++
		}
	}
	return n
}
