package roster

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/five82/studydesk/internal/model"
	"github.com/five82/studydesk/internal/state"
)

func TestParse_Students(t *testing.T) {
	input := "\uFEFFid,name,password,class,section,mobile,customFee\n" +
		"s101,\"Rao, Anil\",pw1,Class 11,A,9876543210,1200\n" +
		"\n" +
		",,,,,,\n" +
		"s102,Meera,pw2,Class 12\n"

	users, err := Parse(strings.NewReader(input), Students)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	u := users[0]
	if u.ID != "s101" || u.Name != "Rao, Anil" || u.StudentClass != "Class 11" || u.Section != "A" {
		t.Fatalf("users[0] = %#v", u)
	}
	if u.CustomFee == nil || *u.CustomFee != 1200 || u.Role != model.RoleUser {
		t.Fatalf("users[0] fee/role = %v/%s", u.CustomFee, u.Role)
	}
	if users[1].Mobile != "" || users[1].CustomFee != nil {
		t.Fatalf("short row should leave trailing fields empty: %#v", users[1])
	}
}

func TestParse_NoHeader(t *testing.T) {
	users, err := Parse(strings.NewReader("s1,A,pw,Class 11,B,,\n"), Students)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(users) != 1 || users[0].ID != "s1" {
		t.Fatalf("users = %#v, want first row kept", users)
	}
}

func TestParse_Teachers(t *testing.T) {
	input := "id,name,password,mobile,subjects,assignedClasses\n" +
		"t1,Rao,pw,+919876543210,Physics; Maths,\"Class 11 - A, Physics;Class 12 - B, Maths\"\n"
	users, err := Parse(strings.NewReader(input), Teachers)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u := users[0]
	if u.Role != model.RoleTeacher || len(u.Subjects) != 2 || u.Subjects[1] != "Maths" {
		t.Fatalf("teacher = %#v", u)
	}
	if len(u.AssignedClasses) != 2 || u.AssignedClasses[0] != "Class 11 - A, Physics" {
		t.Fatalf("assigned = %#v", u.AssignedClasses)
	}
}

func TestParse_BadFee(t *testing.T) {
	_, err := Parse(strings.NewReader("id\ns1,A,pw,Class 11,B,,lots\n"), Students)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("Parse = %v, want line 2 error", err)
	}
}

func TestImport_CountsDuplicates(t *testing.T) {
	input := "id,name,password,class,section,mobile,customFee\n" +
		"s1,Asha,pw,Class 11,A,,\n" +
		"s2,Bala,pw,Class 11,A,,\n" +
		"S1,Chitra,pw,Class 11,B,,\n"

	users, err := Parse(strings.NewReader(input), Students)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	store := state.Open(context.Background(), nil)
	added, skipped := store.BulkAddUsers(users)
	if added != 2 || skipped != 1 {
		t.Fatalf("added/skipped = %d/%d, want 2/1", added, skipped)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	fee := 950.5
	users := []*model.RegisteredUser{
		{ID: "admin", Role: model.RoleAdmin},
		{ID: "s1", Name: "Asha, K", Password: "pw", Role: model.RoleUser, StudentClass: "Class 11", Section: "A", CustomFee: &fee},
		{ID: "t1", Name: "Rao", Password: "pw", Role: model.RoleTeacher, Subjects: []string{"Physics", "Maths"}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, users, Students); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Parse(&buf, Students)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Asha, K" || *got[0].CustomFee != 950.5 {
		t.Fatalf("students = %#v", got)
	}

	buf.Reset()
	if err := Write(&buf, users, Teachers); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "id,name,password,mobile,subjects,assignedClasses\n") {
		t.Fatalf("teacher header = %q", buf.String())
	}
	got, _ = Parse(&buf, Teachers)
	if len(got) != 1 || len(got[0].Subjects) != 2 {
		t.Fatalf("teachers = %#v", got)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"student": Students, "Teachers": Teachers} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("parent"); err == nil {
		t.Fatal("ParseKind(parent) should fail")
	}
}
