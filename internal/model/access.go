package model

import (
	"cmp"
	"slices"
)

// VisibleSubjects returns the subjects u may study, in display order.
// Admins and anonymous viewers see everything; students see their class;
// teachers see the classes they are assigned to plus subjects they created.
func VisibleSubjects(s *AppState, u *RegisteredUser) []*Subject {
	if s == nil {
		return nil
	}
	visible := make([]*Subject, 0, len(s.Subjects))
	for _, sub := range s.Subjects {
		if canSee(sub, u) {
			visible = append(visible, sub)
		}
	}
	slices.SortStableFunc(visible, func(a, b *Subject) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return visible
}

func canSee(sub *Subject, u *RegisteredUser) bool {
	switch {
	case u == nil, u.IsAdmin():
		return true
	case u.IsTeacher():
		if sub.CreatedBy != "" && FoldID(sub.CreatedBy) == FoldID(u.ID) {
			return true
		}
		for _, a := range u.AssignedClasses {
			class, _, _ := ParseAssignment(a)
			if class == sub.TargetClass {
				return true
			}
		}
		return false
	default:
		return sub.TargetClass == "" || sub.TargetClass == u.StudentClass
	}
}
