package state

import (
	"slices"
	"strings"

	"github.com/five82/studydesk/internal/model"
)

// AddUser registers a new account. Admin-created accounts are approved
// immediately; self-registrations wait for approval.
type AddUser struct {
	User   model.NewUser
	Status model.UserStatus
}

func (c AddUser) apply(d *Document, env Env) Outcome {
	nu := c.User
	if err := nu.Validate(); err != nil {
		return rejected(err)
	}
	if d.User(nu.ID) != nil {
		return rejected(ErrDuplicateUser)
	}
	status := c.Status
	if status == "" {
		status = model.StatusApproved
	}
	u := nu.User(status, env.Now())
	d.state.RegisteredUsers = append(d.state.RegisteredUsers, u)
	d.users[model.FoldID(u.ID)] = u
	return Outcome{Changed: true, ID: u.ID}
}

// BulkAddUsers adds every valid user whose id is not taken, by the registry
// or by an earlier row of the same batch. Status defaults to approved.
type BulkAddUsers struct {
	Users  []model.NewUser
	Status model.UserStatus
}

func (c BulkAddUsers) apply(d *Document, env Env) Outcome {
	var out Outcome
	for _, nu := range c.Users {
		res := AddUser{User: nu, Status: c.Status}.apply(d, env)
		if res.Changed {
			out.Added++
		} else {
			out.Skipped++
		}
	}
	out.Changed = out.Added > 0
	return out
}

type DeleteUser struct {
	UserID string
}

func (c DeleteUser) apply(d *Document, _ Env) Outcome {
	u := d.User(c.UserID)
	if u == nil {
		return Outcome{}
	}
	s := d.state
	s.RegisteredUsers = slices.DeleteFunc(s.RegisteredUsers, func(r *model.RegisteredUser) bool { return r == u })
	delete(d.users, model.FoldID(u.ID))
	if s.CurrentUser != nil && model.FoldID(s.CurrentUser.ID) == model.FoldID(u.ID) {
		s.CurrentUser = nil
	}

	out := changed()
	if u.AvatarKey != "" {
		out.Orphaned = append(out.Orphaned, u.AvatarKey)
	}
	for _, key := range u.Documents {
		out.Orphaned = append(out.Orphaned, key)
	}
	slices.Sort(out.Orphaned)
	return out
}

type UpdateUserStatus struct {
	UserID string
	Status model.UserStatus
}

func (c UpdateUserStatus) apply(d *Document, _ Env) Outcome {
	switch c.Status {
	case model.StatusPending, model.StatusApproved, model.StatusBlocked:
	default:
		return rejected(model.NewValidationError(model.ErrInvalidInput,
			model.FieldError{Field: "status", Error: "must be one of PENDING APPROVED BLOCKED"}))
	}
	u := d.User(c.UserID)
	if u == nil {
		return Outcome{}
	}
	u.Status = c.Status
	syncCurrentUser(d.state, u)
	if c.Status != model.StatusApproved && isCurrent(d.state, u) {
		d.state.CurrentUser = nil
	}
	return changed()
}

// AssignTeacher replaces a teacher's subject specializations and class
// assignments ("Class - Section, Subject").
type AssignTeacher struct {
	UserID   string
	Subjects []string
	Classes  []string
}

func (c AssignTeacher) apply(d *Document, _ Env) Outcome {
	u := d.User(c.UserID)
	if u == nil {
		return Outcome{}
	}
	if !u.IsTeacher() {
		return rejected(ErrNotTeacher)
	}
	u.Subjects = cleanList(c.Subjects)
	u.AssignedClasses = cleanList(c.Classes)
	syncCurrentUser(d.state, u)
	return changed()
}

type SetStudentCustomFee struct {
	UserID string
	Fee    *float64
}

func (c SetStudentCustomFee) apply(d *Document, _ Env) Outcome {
	if c.Fee != nil && *c.Fee < 0 {
		return rejected(model.NewValidationError(model.ErrInvalidInput,
			model.FieldError{Field: "customFee", Error: "customFee must be 0 or greater"}))
	}
	u := d.User(c.UserID)
	if u == nil {
		return Outcome{}
	}
	if c.Fee == nil {
		u.CustomFee = nil
	} else {
		fee := *c.Fee
		u.CustomFee = &fee
	}
	syncCurrentUser(d.state, u)
	return changed()
}

// Login makes the matching approved user current.
type Login struct {
	UserID   string
	Password string
}

func (c Login) apply(d *Document, _ Env) Outcome {
	u := d.User(c.UserID)
	if u == nil || u.Password != c.Password {
		return rejected(ErrInvalidCredentials)
	}
	switch u.Status {
	case model.StatusPending:
		return rejected(ErrAccountPending)
	case model.StatusBlocked:
		return rejected(ErrAccountBlocked)
	}
	d.state.CurrentUser = u.Clone()
	return Outcome{Changed: true, ID: u.ID}
}

type Logout struct{}

func (Logout) apply(d *Document, _ Env) Outcome {
	if d.state.CurrentUser == nil {
		return Outcome{}
	}
	d.state.CurrentUser = nil
	return changed()
}

func isCurrent(s *model.AppState, u *model.RegisteredUser) bool {
	return s.CurrentUser != nil && model.FoldID(s.CurrentUser.ID) == model.FoldID(u.ID)
}

// syncCurrentUser refreshes the logged-in copy after u changed.
func syncCurrentUser(s *model.AppState, u *model.RegisteredUser) {
	if isCurrent(s, u) {
		s.CurrentUser = u.Clone()
	}
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" && !slices.Contains(out, it) {
			out = append(out, it)
		}
	}
	return out
}
