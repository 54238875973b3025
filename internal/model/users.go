package model

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// NewUser contains information needed to register a user.
type NewUser struct {
	ID              string   `json:"id" validate:"required,loginid"`
	Name            string   `json:"name" validate:"required"`
	Password        string   `json:"password" validate:"required"`
	Role            Role     `json:"role" validate:"required,oneof=ADMIN USER TEACHER"`
	StudentClass    string   `json:"studentClass"`
	Section         string   `json:"section"`
	Mobile          string   `json:"mobile" validate:"omitempty,mobile"`
	Subjects        []string `json:"subjects"`
	AssignedClasses []string `json:"assignedClasses"`
	CustomFee       *float64 `json:"customFee" validate:"omitempty,gte=0"`
}

// Clean trims the free-text fields in place.
func (nu *NewUser) Clean() {
	nu.ID = CleanString(nu.ID)
	nu.Name = CleanString(nu.Name)
	nu.StudentClass = CleanString(nu.StudentClass)
	nu.Section = CleanString(nu.Section)
	nu.Mobile = CleanString(nu.Mobile)
	if nu.Role == "" {
		nu.Role = RoleUser
	}
}

// Validate cleans and validates nu.
func (nu *NewUser) Validate() error {
	nu.Clean()
	return Validate(nu)
}

// User materializes nu as a registered user with the given status.
func (nu NewUser) User(status UserStatus, now time.Time) *RegisteredUser {
	u := &RegisteredUser{
		ID:              nu.ID,
		Name:            nu.Name,
		Password:        nu.Password,
		Role:            nu.Role,
		Status:          status,
		StudentClass:    nu.StudentClass,
		Section:         nu.Section,
		Mobile:          nu.Mobile,
		Subjects:        slices.Clone(nu.Subjects),
		AssignedClasses: slices.Clone(nu.AssignedClasses),
		JoinedAt:        now.UTC(),
	}
	if nu.CustomFee != nil {
		fee := *nu.CustomFee
		u.CustomFee = &fee
	}
	return u
}

var idFolder = cases.Fold()

// FoldID normalizes a login id for case-insensitive comparison.
func FoldID(id string) string {
	return idFolder.String(strings.TrimSpace(id))
}

// ClassLabel renders the "Class - Section" label used in teacher assignments.
func ClassLabel(class, section string) string {
	class = strings.TrimSpace(class)
	section = strings.TrimSpace(section)
	if section == "" {
		return class
	}
	return class + " - " + section
}

// ParseAssignment splits a "Class - Section, Subject" assignment.
func ParseAssignment(value string) (class, section, subject string) {
	head, subject, _ := strings.Cut(value, ",")
	class, section, _ = strings.Cut(head, " - ")
	return strings.TrimSpace(class), strings.TrimSpace(section), strings.TrimSpace(subject)
}
