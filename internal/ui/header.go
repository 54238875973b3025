package ui

import (
	"fmt"
	"strings"

	"github.com/five82/studydesk/internal/model"
)

// renderHeader renders the status bar: who is signed in and how the study
// habit is going today.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("studydesk", styles.Logo))

	user := m.snapshot.CurrentUser
	if user == nil {
		parts = append(parts, bg.Render("guest", styles.MutedText))
	} else {
		who := bg.Render(user.Name, styles.Text)
		if !compact {
			who += bg.Space() + bg.Render(strings.ToLower(string(user.Role)), styles.FaintText)
		}
		parts = append(parts, who)
	}

	stats := m.snapshot.Stats
	streakStyle := styles.MutedText
	if stats.CurrentStreak > 0 {
		streakStyle = styles.SuccessText
	}
	parts = append(parts,
		bg.Render("Streak:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%dd", stats.CurrentStreak), streakStyle))

	today := stats.DailyStats[model.DateKey(m.now())]
	parts = append(parts,
		bg.Render("Today:", styles.MutedText)+bg.Space()+
			bg.Render(formatMinutes(today.TotalMinutes), styles.InfoText))

	if !compact {
		parts = append(parts,
			bg.Render("Done:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", stats.TotalTopicsCompleted), styles.Text))
	}

	if n := m.activeDownloads(); n > 0 {
		parts = append(parts,
			bg.Render("↓", styles.InfoText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.InfoText))
	}

	if recent := m.snapshot.RecentlyOpened; len(recent) > 0 && !compact {
		parts = append(parts,
			bg.Render("Last:", styles.MutedText)+bg.Space()+
				bg.Render(truncate(recent[0].Title, 28), styles.Text))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewMaterial:
		if m.editingNotes {
			commands = []cmd{{"enter", "Save"}, {"esc", "Discard"}}
			break
		}
		commands = []cmd{
			{"+/-", "Progress"},
			{">", "Seek"},
			{"b", "Bookmark"},
			{"f", "Favorite"},
			{"n", "Notes"},
			{"s", "Study"},
			{"d/x", "Download"},
			{"esc", "Back"},
		}
	case ViewSearch:
		if m.search.input.Focused() {
			commands = []cmd{{"enter", "Results"}, {"esc", "Done"}}
			break
		}
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Open"}, {"/", "Edit query"}, {"esc", "Library"}}
	case ViewDownloads:
		commands = []cmd{{"j/k", "Navigate"}, {"x", "Cancel"}, {"r", "Remove"}, {"C", "Clear all"}, {"esc", "Library"}}
	default:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Open"}, {"esc", "Up"}}
		switch m.library.level() {
		case levelTopics:
			commands = append(commands, cmd{"p", "Pin"}, cmd{"c", "Complete"})
		case levelMaterials:
			commands = append(commands, cmd{"f", "Favorite"}, cmd{"d", "Download"})
		}
		commands = append(commands, cmd{"/", "Search"}, cmd{"D", "Downloads"})
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if m.flash != "" {
		segments = append(segments, bg.Render(truncate(m.flash, 48), styles.WarningText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}
