package state

import (
	"slices"

	"github.com/five82/studydesk/internal/model"
)

type ToggleTopicCompletion struct {
	TopicID string
}

func (c ToggleTopicCompletion) apply(d *Document, _ Env) Outcome {
	t := d.Topic(c.TopicID)
	if t == nil {
		return Outcome{}
	}
	stats := &d.state.Stats
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		stats.TotalTopicsCompleted++
	} else if stats.TotalTopicsCompleted > 0 {
		stats.TotalTopicsCompleted--
	}
	return changed()
}

type TogglePinTopic struct {
	TopicID string
}

func (c TogglePinTopic) apply(d *Document, _ Env) Outcome {
	t := d.Topic(c.TopicID)
	if t == nil {
		return Outcome{}
	}
	t.IsPinned = !t.IsPinned
	return changed()
}

type ToggleFavorite struct {
	MaterialID string
}

func (c ToggleFavorite) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil {
		return Outcome{}
	}
	m.IsFavorite = !m.IsFavorite
	return changed()
}

// ToggleBookmark inserts Position into the material's bookmarks, or
// removes it when already present. Bookmarks stay sorted and unique.
type ToggleBookmark struct {
	MaterialID string
	Position   int
}

func (c ToggleBookmark) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil || c.Position < 0 {
		return Outcome{}
	}
	i, found := slices.BinarySearch(m.Bookmarks, c.Position)
	if found {
		m.Bookmarks = slices.Delete(m.Bookmarks, i, i+1)
	} else {
		m.Bookmarks = slices.Insert(m.Bookmarks, i, c.Position)
	}
	return changed()
}

// UpdateMaterialProgress records reading or playback progress and promotes
// the material to the front of the recently opened list. Position is the
// video offset in seconds or the PDF page; nil leaves it untouched.
type UpdateMaterialProgress struct {
	MaterialID string
	Progress   int
	Position   *int
}

func (c UpdateMaterialProgress) apply(d *Document, env Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil {
		return Outcome{}
	}
	now := env.Now().UTC()
	m.Progress = min(max(c.Progress, 0), 100)
	if c.Position != nil && *c.Position >= 0 {
		switch m.Type {
		case model.MaterialVideo:
			m.VideoPosition = *c.Position
		case model.MaterialPDF:
			m.LastPage = *c.Position
		}
	}
	m.LastAccessed = now

	sub, t := d.MaterialOwner(m.ID)
	item := model.RecentItem{MaterialID: m.ID, Title: m.Title, Type: m.Type, OpenedAt: now}
	if t != nil {
		t.LastStudiedAt = &now
		item.TopicID = t.ID
	}
	if sub != nil {
		item.SubjectID = sub.ID
	}
	pushRecent(d.state, item)
	return changed()
}

func pushRecent(s *model.AppState, item model.RecentItem) {
	recent := slices.DeleteFunc(s.RecentlyOpened, func(r model.RecentItem) bool {
		return r.MaterialID == item.MaterialID
	})
	recent = slices.Insert(recent, 0, item)
	if len(recent) > model.MaxRecent {
		recent = recent[:model.MaxRecent]
	}
	s.RecentlyOpened = recent
}

// TrackStudyTime adds minutes to today's bucket and advances the streak on
// the first study session of a calendar day.
type TrackStudyTime struct {
	Minutes int
	Type    model.MaterialType
}

func (c TrackStudyTime) apply(d *Document, env Env) Outcome {
	if c.Minutes <= 0 {
		return Outcome{}
	}
	now := env.Now()
	today := model.DateKey(now)
	stats := &d.state.Stats

	day := stats.DailyStats[today]
	day.TotalMinutes += c.Minutes
	switch c.Type {
	case model.MaterialPDF:
		day.PDFMinutes += c.Minutes
	case model.MaterialVideo:
		day.VideoMinutes += c.Minutes
	case model.MaterialNote:
		day.NoteMinutes += c.Minutes
	}
	stats.DailyStats[today] = day

	if stats.LastStudyDate != today {
		if stats.LastStudyDate == model.DateKey(now.AddDate(0, 0, -1)) {
			stats.CurrentStreak++
		} else {
			stats.CurrentStreak = 1
		}
		stats.LastStudyDate = today
	}
	return changed()
}

type SaveMaterialNotes struct {
	MaterialID string
	Notes      string
}

func (c SaveMaterialNotes) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil {
		return Outcome{}
	}
	m.Notes = c.Notes
	return changed()
}
