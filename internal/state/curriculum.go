package state

import (
	"slices"
	"strings"

	"github.com/five82/studydesk/internal/model"
)

type AddSubject struct {
	Name        string
	Color       string
	Icon        string
	TargetClass string
}

func (AddSubject) restructures() {}

func (c AddSubject) apply(d *Document, env Env) Outcome {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Outcome{}
	}
	s := d.state
	sub := &model.Subject{
		ID:          env.NewID(),
		Name:        name,
		Color:       c.Color,
		Icon:        c.Icon,
		TargetClass: strings.TrimSpace(c.TargetClass),
		Position:    len(s.Subjects),
		Topics:      []*model.Topic{},
	}
	if s.CurrentUser != nil {
		sub.CreatedBy = s.CurrentUser.ID
	}
	s.Subjects = append(s.Subjects, sub)
	return Outcome{Changed: true, ID: sub.ID}
}

type AddTopic struct {
	SubjectID   string
	Name        string
	Description string
}

func (AddTopic) restructures() {}

func (c AddTopic) apply(d *Document, env Env) Outcome {
	sub := d.Subject(c.SubjectID)
	if sub == nil {
		return Outcome{}
	}
	t := &model.Topic{
		ID:          env.NewID(),
		SubjectID:   sub.ID,
		Name:        strings.TrimSpace(c.Name),
		Description: strings.TrimSpace(c.Description),
		Tags:        []string{},
		Materials:   []*model.Material{},
	}
	sub.Topics = append(sub.Topics, t)
	return Outcome{Changed: true, ID: t.ID}
}

type AddMaterial struct {
	TopicID string
	Title   string
	Type    model.MaterialType
	URL     string
}

func (AddMaterial) restructures() {}

func (c AddMaterial) apply(d *Document, env Env) Outcome {
	if !c.Type.Valid() {
		return rejected(model.NewValidationError(model.ErrInvalidInput,
			model.FieldError{Field: "type", Error: "must be one of PDF VIDEO NOTE"}))
	}
	t := d.Topic(c.TopicID)
	if t == nil {
		return Outcome{}
	}
	url := strings.TrimSpace(c.URL)
	if c.Type == model.MaterialNote {
		url = ""
	}
	m := &model.Material{
		ID:           env.NewID(),
		TopicID:      t.ID,
		Type:         c.Type,
		Title:        strings.TrimSpace(c.Title),
		URL:          url,
		LastAccessed: env.Now().UTC(),
		Tags:         []string{},
	}
	t.Materials = append(t.Materials, m)
	return Outcome{Changed: true, ID: m.ID}
}

type DeleteMaterial struct {
	TopicID    string
	MaterialID string
}

func (DeleteMaterial) restructures() {}

func (c DeleteMaterial) apply(d *Document, _ Env) Outcome {
	t := d.Topic(c.TopicID)
	if t == nil {
		return Outcome{}
	}
	idx := slices.IndexFunc(t.Materials, func(m *model.Material) bool { return m.ID == c.MaterialID })
	if idx < 0 {
		return Outcome{}
	}
	out := changed()
	collectMaterial(&out, t.Materials[idx])
	t.Materials = slices.Delete(t.Materials, idx, idx+1)
	dropRecent(d.state, out.Released)
	return out
}

type DeleteTopic struct {
	TopicID string
}

func (DeleteTopic) restructures() {}

func (c DeleteTopic) apply(d *Document, _ Env) Outcome {
	t := d.Topic(c.TopicID)
	if t == nil {
		return Outcome{}
	}
	sub := d.TopicOwner(t.ID)
	if sub == nil {
		return Outcome{}
	}
	idx := slices.Index(sub.Topics, t)
	if idx < 0 {
		return Outcome{}
	}
	out := changed()
	for _, m := range t.Materials {
		collectMaterial(&out, m)
	}
	sub.Topics = slices.Delete(sub.Topics, idx, idx+1)
	dropRecent(d.state, out.Released)
	return out
}

type DeleteSubject struct {
	SubjectID string
}

func (DeleteSubject) restructures() {}

func (c DeleteSubject) apply(d *Document, _ Env) Outcome {
	s := d.state
	idx := slices.IndexFunc(s.Subjects, func(sub *model.Subject) bool { return sub.ID == c.SubjectID })
	if idx < 0 {
		return Outcome{}
	}
	out := changed()
	for _, t := range s.Subjects[idx].Topics {
		for _, m := range t.Materials {
			collectMaterial(&out, m)
		}
	}
	s.Subjects = slices.Delete(s.Subjects, idx, idx+1)
	dropRecent(s, out.Released)
	return out
}

func collectMaterial(out *Outcome, m *model.Material) {
	out.Released = append(out.Released, m.ID)
	if m.LocalFileKey != "" {
		out.Orphaned = append(out.Orphaned, m.LocalFileKey)
	}
}

func dropRecent(s *model.AppState, materialIDs []string) {
	if len(materialIDs) == 0 {
		return
	}
	s.RecentlyOpened = slices.DeleteFunc(s.RecentlyOpened, func(r model.RecentItem) bool {
		return slices.Contains(materialIDs, r.MaterialID)
	})
}

// SubjectPatch lists subject fields to overwrite; nil fields are kept.
type SubjectPatch struct {
	Name        *string
	Color       *string
	Icon        *string
	TargetClass *string
	Position    *int
}

type UpdateSubject struct {
	SubjectID string
	Patch     SubjectPatch
}

func (c UpdateSubject) apply(d *Document, _ Env) Outcome {
	sub := d.Subject(c.SubjectID)
	if sub == nil {
		return Outcome{}
	}
	p := c.Patch
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return rejected(model.NewValidationError(model.ErrInvalidInput,
				model.FieldError{Field: "name", Error: "this field is required"}))
		}
		sub.Name = name
	}
	if p.Color != nil {
		sub.Color = *p.Color
	}
	if p.Icon != nil {
		sub.Icon = *p.Icon
	}
	if p.TargetClass != nil {
		sub.TargetClass = strings.TrimSpace(*p.TargetClass)
	}
	if p.Position != nil {
		sub.Position = *p.Position
	}
	return changed()
}

// TopicPatch lists topic fields to overwrite; nil fields are kept.
type TopicPatch struct {
	Name        *string
	Description *string
}

type UpdateTopic struct {
	TopicID string
	Patch   TopicPatch
}

func (c UpdateTopic) apply(d *Document, _ Env) Outcome {
	t := d.Topic(c.TopicID)
	if t == nil {
		return Outcome{}
	}
	if c.Patch.Name != nil {
		t.Name = strings.TrimSpace(*c.Patch.Name)
	}
	if c.Patch.Description != nil {
		t.Description = strings.TrimSpace(*c.Patch.Description)
	}
	return changed()
}

// MaterialPatch lists material fields to overwrite; nil fields are kept.
type MaterialPatch struct {
	Title    *string
	URL      *string
	FileSize *int64
}

type UpdateMaterial struct {
	MaterialID string
	Patch      MaterialPatch
}

func (c UpdateMaterial) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil {
		return Outcome{}
	}
	if c.Patch.Title != nil {
		m.Title = strings.TrimSpace(*c.Patch.Title)
		for i := range d.state.RecentlyOpened {
			if d.state.RecentlyOpened[i].MaterialID == m.ID {
				d.state.RecentlyOpened[i].Title = m.Title
			}
		}
	}
	if c.Patch.URL != nil && m.Type != model.MaterialNote {
		m.URL = strings.TrimSpace(*c.Patch.URL)
	}
	if c.Patch.FileSize != nil && *c.Patch.FileSize >= 0 {
		m.FileSize = *c.Patch.FileSize
	}
	return changed()
}

type AddTag struct {
	Name  string
	Color string
}

func (c AddTag) apply(d *Document, env Env) Outcome {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Outcome{}
	}
	tag := model.Tag{ID: env.NewID(), Name: name, Color: c.Color}
	d.state.Tags = append(d.state.Tags, tag)
	return Outcome{Changed: true, ID: tag.ID}
}

type ToggleTopicTag struct {
	TopicID string
	TagID   string
}

func (c ToggleTopicTag) apply(d *Document, _ Env) Outcome {
	t := d.Topic(c.TopicID)
	if t == nil || !hasTag(d.state, c.TagID) {
		return Outcome{}
	}
	t.Tags = toggleID(t.Tags, c.TagID)
	return changed()
}

type ToggleMaterialTag struct {
	MaterialID string
	TagID      string
}

func (c ToggleMaterialTag) apply(d *Document, _ Env) Outcome {
	m := d.Material(c.MaterialID)
	if m == nil || !hasTag(d.state, c.TagID) {
		return Outcome{}
	}
	m.Tags = toggleID(m.Tags, c.TagID)
	return changed()
}

func hasTag(s *model.AppState, id string) bool {
	return slices.ContainsFunc(s.Tags, func(t model.Tag) bool { return t.ID == id })
}

func toggleID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}

// SettingsPatch lists settings to overwrite; nil fields are kept.
type SettingsPatch struct {
	ReaderTheme  *model.ReaderTheme
	IsPro        *bool
	FontScale    *float64
	ReduceMotion *bool
}

type UpdateSettings struct {
	Patch SettingsPatch
}

func (c UpdateSettings) apply(d *Document, _ Env) Outcome {
	p := c.Patch
	if p.ReaderTheme != nil {
		switch *p.ReaderTheme {
		case model.ThemeLight, model.ThemeDark, model.ThemeSepia:
		default:
			return rejected(model.NewValidationError(model.ErrInvalidInput,
				model.FieldError{Field: "readerTheme", Error: "must be one of light dark sepia"}))
		}
	}
	if p.FontScale != nil && *p.FontScale <= 0 {
		return rejected(model.NewValidationError(model.ErrInvalidInput,
			model.FieldError{Field: "fontScale", Error: "must be greater than 0"}))
	}

	st := &d.state.Settings
	if p.ReaderTheme != nil {
		st.ReaderTheme = *p.ReaderTheme
	}
	if p.IsPro != nil {
		st.IsPro = *p.IsPro
	}
	if p.FontScale != nil {
		st.FontScale = *p.FontScale
	}
	if p.ReduceMotion != nil {
		st.ReduceMotion = *p.ReduceMotion
	}
	return changed()
}
