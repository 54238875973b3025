package model

import (
	"maps"
	"slices"
	"time"
)

// Clone returns a deep copy of s. Snapshots handed to readers are clones so
// they can never observe or cause later mutations.
func (s *AppState) Clone() *AppState {
	if s == nil {
		return nil
	}
	dup := &AppState{
		CurrentUser:     s.CurrentUser.Clone(),
		RegisteredUsers: make([]*RegisteredUser, 0, len(s.RegisteredUsers)),
		Subjects:        make([]*Subject, 0, len(s.Subjects)),
		Tags:            slices.Clone(s.Tags),
		Stats:           s.Stats.Clone(),
		Ledger:          make([]*Transaction, 0, len(s.Ledger)),
		ClassFees:       maps.Clone(s.ClassFees),
		RecentlyOpened:  slices.Clone(s.RecentlyOpened),
		Settings:        s.Settings,
	}
	for _, u := range s.RegisteredUsers {
		dup.RegisteredUsers = append(dup.RegisteredUsers, u.Clone())
	}
	for _, sub := range s.Subjects {
		dup.Subjects = append(dup.Subjects, sub.Clone())
	}
	for _, t := range s.Ledger {
		txn := *t
		dup.Ledger = append(dup.Ledger, &txn)
	}
	return dup
}

// Clone returns a deep copy of the subject and everything it owns.
func (s *Subject) Clone() *Subject {
	if s == nil {
		return nil
	}
	dup := *s
	dup.Topics = make([]*Topic, 0, len(s.Topics))
	for _, t := range s.Topics {
		dup.Topics = append(dup.Topics, t.Clone())
	}
	return &dup
}

// Clone returns a deep copy of the topic and its materials.
func (t *Topic) Clone() *Topic {
	if t == nil {
		return nil
	}
	dup := *t
	dup.Tags = slices.Clone(t.Tags)
	dup.LastStudiedAt = cloneTime(t.LastStudiedAt)
	dup.Materials = make([]*Material, 0, len(t.Materials))
	for _, m := range t.Materials {
		dup.Materials = append(dup.Materials, m.Clone())
	}
	return &dup
}

// Clone returns a deep copy of the material.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	dup := *m
	dup.Bookmarks = slices.Clone(m.Bookmarks)
	dup.Tags = slices.Clone(m.Tags)
	if m.DownloadProgress != nil {
		p := *m.DownloadProgress
		dup.DownloadProgress = &p
	}
	return &dup
}

// Clone returns a deep copy of the user.
func (u *RegisteredUser) Clone() *RegisteredUser {
	if u == nil {
		return nil
	}
	dup := *u
	dup.Subjects = slices.Clone(u.Subjects)
	dup.AssignedClasses = slices.Clone(u.AssignedClasses)
	dup.Documents = maps.Clone(u.Documents)
	if u.CustomFee != nil {
		fee := *u.CustomFee
		dup.CustomFee = &fee
	}
	return &dup
}

// Clone returns a deep copy of the stats.
func (s UserStats) Clone() UserStats {
	s.DailyStats = maps.Clone(s.DailyStats)
	return s
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
