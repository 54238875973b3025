package state

import "github.com/five82/studydesk/internal/model"

// StartDownload moves a material from idle to downloading with progress 0.
// It is a no-op when the material is already downloaded or downloading.
type StartDownload struct {
	MaterialID string
}

func (c StartDownload) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil || m.IsDownloaded || m.Downloading() {
		return Outcome{}
	}
	zero := 0
	m.DownloadProgress = &zero
	return changed()
}

// AdvanceDownload adds Delta to an active download, completing it at 100.
type AdvanceDownload struct {
	MaterialID string
	Delta      int
}

func (c AdvanceDownload) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil || !m.Downloading() {
		return Outcome{}
	}
	next := *m.DownloadProgress + max(c.Delta, 0)
	if next >= 100 {
		next = 100
		m.IsDownloaded = true
	}
	m.DownloadProgress = &next
	out := changed()
	if m.IsDownloaded {
		out.Completed = []string{m.ID}
	}
	return out
}

// CancelDownload abandons an active download.
type CancelDownload struct {
	MaterialID string
}

func (c CancelDownload) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil || !m.Downloading() {
		return Outcome{}
	}
	m.DownloadProgress = nil
	return Outcome{Changed: true, Released: []string{m.ID}}
}

// RemoveDownload discards a downloaded or downloading copy.
type RemoveDownload struct {
	MaterialID string
}

func (c RemoveDownload) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil || !resetDownload(m) {
		return Outcome{}
	}
	return Outcome{Changed: true, Released: []string{m.ID}}
}

// ClearDownloads resets the download state of every material.
type ClearDownloads struct{}

func (ClearDownloads) apply(d *Document, _ Env) Outcome {
	var out Outcome
	for _, sub := range d.state.Subjects {
		for _, t := range sub.Topics {
			for _, m := range t.Materials {
				if resetDownload(m) {
					out.Released = append(out.Released, m.ID)
				}
			}
		}
	}
	out.Changed = len(out.Released) > 0
	return out
}

func resetDownload(m *model.Material) bool {
	if !m.IsDownloaded && m.DownloadProgress == nil {
		return false
	}
	m.IsDownloaded = false
	m.DownloadProgress = nil
	return true
}

// clearInFlight drops progress of downloads that have no live timer, such
// as those persisted mid-download or carried by an imported backup.
func clearInFlight(s *model.AppState) {
	for _, sub := range s.Subjects {
		for _, t := range sub.Topics {
			for _, m := range t.Materials {
				if m.Downloading() {
					m.DownloadProgress = nil
				}
			}
		}
	}
}
