package state

import (
	"slices"

	"github.com/five82/studydesk/internal/model"
)

// Document wraps the AppState with id indexes over its nested entities.
// Indexes are rebuilt after structural changes; when an imported document
// repeats an id, the first entity in traversal order wins.
type Document struct {
	state     *model.AppState
	subjects  map[string]*model.Subject
	topics    map[string]*model.Topic
	materials map[string]*model.Material
	users     map[string]*model.RegisteredUser

	// Parents follow the nesting, not the stored back-references.
	topicParent    map[string]*model.Subject
	materialParent map[string]*model.Topic
}

// NewDocument takes ownership of s, filling nil collections.
func NewDocument(s *model.AppState) *Document {
	if s == nil {
		s = &model.AppState{}
	}
	normalize(s)
	d := &Document{state: s}
	d.reindex()
	return d
}

// State returns the wrapped document. Callers must not retain it outside the
// store lock.
func (d *Document) State() *model.AppState { return d.state }

func (d *Document) Subject(id string) *model.Subject { return d.subjects[id] }

func (d *Document) Topic(id string) *model.Topic { return d.topics[id] }

func (d *Document) Material(id string) *model.Material { return d.materials[id] }

// User looks up a registered user case-insensitively.
func (d *Document) User(id string) *model.RegisteredUser { return d.users[model.FoldID(id)] }

// MaterialOwner returns the topic and subject holding material id.
func (d *Document) MaterialOwner(id string) (*model.Subject, *model.Topic) {
	m := d.materials[id]
	if m == nil {
		return nil, nil
	}
	t := d.materialParent[id]
	if t == nil {
		return nil, nil
	}
	return d.topicParent[t.ID], t
}

// TopicOwner returns the subject holding topic id.
func (d *Document) TopicOwner(id string) *model.Subject { return d.topicParent[id] }

func (d *Document) reindex() {
	d.subjects = make(map[string]*model.Subject, len(d.state.Subjects))
	d.topics = make(map[string]*model.Topic)
	d.materials = make(map[string]*model.Material)
	d.users = make(map[string]*model.RegisteredUser, len(d.state.RegisteredUsers))
	d.topicParent = make(map[string]*model.Subject)
	d.materialParent = make(map[string]*model.Topic)

	for _, s := range d.state.Subjects {
		if _, ok := d.subjects[s.ID]; !ok {
			d.subjects[s.ID] = s
		}
		for _, t := range s.Topics {
			if _, ok := d.topics[t.ID]; !ok {
				d.topics[t.ID] = t
				d.topicParent[t.ID] = s
			}
			for _, m := range t.Materials {
				if _, ok := d.materials[m.ID]; !ok {
					d.materials[m.ID] = m
					d.materialParent[m.ID] = t
				}
			}
		}
	}
	for _, u := range d.state.RegisteredUsers {
		key := model.FoldID(u.ID)
		if _, ok := d.users[key]; !ok {
			d.users[key] = u
		}
	}
}

// normalize replaces nil collections and drops nil entries so the reducer
// never has to check for them. Back-references are rewritten from the
// nesting and bookmarks are sorted and deduplicated, since loaded and
// imported documents guarantee neither.
func normalize(s *model.AppState) {
	if s.RegisteredUsers == nil {
		s.RegisteredUsers = []*model.RegisteredUser{}
	}
	if s.Subjects == nil {
		s.Subjects = []*model.Subject{}
	}
	if s.Tags == nil {
		s.Tags = []model.Tag{}
	}
	if s.Stats.DailyStats == nil {
		s.Stats.DailyStats = map[string]model.DayStats{}
	}
	if s.Ledger == nil {
		s.Ledger = []*model.Transaction{}
	}
	if s.ClassFees == nil {
		s.ClassFees = map[string]float64{}
	}
	if s.RecentlyOpened == nil {
		s.RecentlyOpened = []model.RecentItem{}
	}
	s.RegisteredUsers = dropNil(s.RegisteredUsers)
	s.Ledger = dropNil(s.Ledger)
	s.Subjects = dropNil(s.Subjects)
	for _, sub := range s.Subjects {
		sub.Topics = dropNil(sub.Topics)
		for _, t := range sub.Topics {
			t.SubjectID = sub.ID
			if t.Tags == nil {
				t.Tags = []string{}
			}
			t.Materials = dropNil(t.Materials)
			for _, m := range t.Materials {
				m.TopicID = t.ID
				if m.Tags == nil {
					m.Tags = []string{}
				}
				slices.Sort(m.Bookmarks)
				m.Bookmarks = slices.Compact(m.Bookmarks)
			}
		}
	}
}

func dropNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	out := items[:0]
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}
