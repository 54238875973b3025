package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding

	// View switching
	ViewLibrary   key.Binding
	ViewSearch    key.Binding
	ViewDownloads key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Library and material actions
	TogglePin      key.Binding
	ToggleComplete key.Binding
	ToggleFavorite key.Binding
	Bookmark       key.Binding
	ProgressUp     key.Binding
	ProgressDown   key.Binding
	Seek           key.Binding
	Study          key.Binding
	EditNotes      key.Binding
	Download       key.Binding
	Cancel         key.Binding

	// Downloads view
	Remove   key.Binding
	ClearAll key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "Q"),
			key.WithHelp("Q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "left", "h"),
			key.WithHelp("esc/h", "Back"),
		),

		ViewLibrary: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Library"),
		),
		ViewSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ViewDownloads: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Downloads"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter/l", "Open"),
		),

		TogglePin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pin topic"),
		),
		ToggleComplete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Complete topic"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Favorite"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Bookmark position"),
		),
		ProgressUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Progress +10%"),
		),
		ProgressDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Progress -10%"),
		),
		Seek: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "Advance position"),
		),
		Study: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Log 15m study"),
		),
		EditNotes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Edit notes"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Download"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Cancel download"),
		),

		Remove: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Remove download"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear all"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.ViewSearch, k.ViewDownloads, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Back},
		{k.TogglePin, k.ToggleComplete, k.ToggleFavorite, k.Bookmark, k.EditNotes},
		{k.ProgressUp, k.ProgressDown, k.Seek, k.Study},
		{k.Download, k.Cancel, k.Remove, k.ClearAll},
		{k.ViewLibrary, k.ViewSearch, k.ViewDownloads, k.CycleTheme, k.Help, k.Quit},
	}
}
