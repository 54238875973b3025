package model

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestSeed_HasDefaultCurriculum(t *testing.T) {
	doc := Seed(testNow)

	if len(doc.Subjects) == 0 || doc.Subjects[0].Name != "Physics" {
		t.Fatalf("first subject = %#v, want Physics", doc.Subjects)
	}
	topic := doc.Subjects[0].Topics[0]
	if topic.Name != "Laws of Motion" {
		t.Fatalf("first topic = %q, want Laws of Motion", topic.Name)
	}
	m1 := topic.Materials[0]
	if m1.ID != "m1" || m1.Type != MaterialVideo || m1.Title != "Concept Explanation" {
		t.Fatalf("m1 = %#v, want VIDEO Concept Explanation", m1)
	}
	if len(doc.RegisteredUsers) != 1 || !doc.RegisteredUsers[0].IsAdmin() {
		t.Fatalf("registered users = %#v, want one admin", doc.RegisteredUsers)
	}
	if doc.CurrentUser != nil {
		t.Fatalf("CurrentUser = %#v, want nil", doc.CurrentUser)
	}
}

func TestClone_IsDeep(t *testing.T) {
	doc := Seed(testNow)
	doc.Subjects[0].Topics[0].Materials[0].Bookmarks = []int{10, 20}
	p := 40
	doc.Subjects[0].Topics[0].Materials[0].DownloadProgress = &p
	doc.Stats.DailyStats["2026-03-14"] = DayStats{TotalMinutes: 5}

	dup := doc.Clone()
	m := dup.Subjects[0].Topics[0].Materials[0]
	m.Title = "changed"
	m.Bookmarks[0] = 99
	*m.DownloadProgress = 90
	dup.Subjects[0].Name = "changed"
	dup.Stats.DailyStats["2026-03-14"] = DayStats{TotalMinutes: 500}
	dup.ClassFees["Class 11"] = 1
	dup.RegisteredUsers[0].Name = "changed"

	orig := doc.Subjects[0].Topics[0].Materials[0]
	if orig.Title != "Concept Explanation" || orig.Bookmarks[0] != 10 || *orig.DownloadProgress != 40 {
		t.Fatalf("original material mutated through clone: %#v", orig)
	}
	if doc.Subjects[0].Name != "Physics" {
		t.Fatalf("subject name = %q, want Physics", doc.Subjects[0].Name)
	}
	if doc.Stats.DailyStats["2026-03-14"].TotalMinutes != 5 {
		t.Fatalf("daily stats mutated through clone")
	}
	if doc.ClassFees["Class 11"] != 1500 {
		t.Fatalf("class fees mutated through clone")
	}
	if doc.RegisteredUsers[0].Name != "Administrator" {
		t.Fatalf("user mutated through clone")
	}
}

func TestGST(t *testing.T) {
	tests := []struct {
		amount float64
		want   float64
	}{
		{1000, 180},
		{1500, 270},
		{99.99, 18},
		{0.05, 0.01},
	}
	for _, tt := range tests {
		if got := GST(tt.amount); got != tt.want {
			t.Fatalf("GST(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

func TestNewTransaction(t *testing.T) {
	nt := NewTransaction{Type: Income, Category: CategoryFee, Amount: 1500, PayerName: "  Asha "}
	if err := nt.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	txn := nt.Transaction("tx1", testNow)
	if txn.GST != 270 || txn.TotalWithGST != 1770 {
		t.Fatalf("gst/total = %v/%v, want 270/1770", txn.GST, txn.TotalWithGST)
	}
	if txn.Status != Paid {
		t.Fatalf("status = %q, want PAID", txn.Status)
	}
	if !txn.Date.Equal(testNow) {
		t.Fatalf("date = %v, want %v", txn.Date, testNow)
	}
	if txn.PayerName != "Asha" {
		t.Fatalf("payer = %q, want trimmed", txn.PayerName)
	}

	bad := NewTransaction{Type: "GIFT", Category: CategoryFee, Amount: -1}
	err := bad.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate error = %v, want *ValidationError", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error should wrap ErrInvalidInput")
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	if !fields["type"] || !fields["amount"] {
		t.Fatalf("fields = %#v, want type and amount", verr.Fields)
	}
}

func TestLedger(t *testing.T) {
	txns := []*Transaction{
		NewTransaction{Type: Income, Category: CategoryFee, Amount: 1000}.Transaction("a", testNow),
		NewTransaction{Type: Expense, Category: CategoryRent, Amount: 500}.Transaction("b", testNow),
		NewTransaction{Type: Income, Category: CategoryFee, Amount: 100, Status: Pending}.Transaction("c", testNow),
	}
	sum := Ledger(txns)
	if sum.Income != 1180 || sum.Expense != 590 {
		t.Fatalf("income/expense = %v/%v, want 1180/590", sum.Income, sum.Expense)
	}
	if sum.GST != 270 {
		t.Fatalf("GST = %v, want 270", sum.GST)
	}
	if sum.Pending != 118 {
		t.Fatalf("Pending = %v, want 118", sum.Pending)
	}
	if sum.Balance != 590 {
		t.Fatalf("Balance = %v, want 590", sum.Balance)
	}
}

func TestNewUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      NewUser
		wantErr bool
	}{
		{"valid student", NewUser{ID: "s.101", Name: "Ravi", Password: "x", Mobile: "+919876543210"}, false},
		{"default role", NewUser{ID: "s102", Name: "Meera", Password: "x"}, false},
		{"missing name", NewUser{ID: "s103", Password: "x"}, true},
		{"bad id", NewUser{ID: "has space", Name: "n", Password: "x"}, true},
		{"bad mobile", NewUser{ID: "s104", Name: "n", Password: "x", Mobile: "12ab"}, true},
		{"bad role", NewUser{ID: "s105", Name: "n", Password: "x", Role: "ROOT"}, true},
		{"negative fee", NewUser{ID: "s106", Name: "n", Password: "x", CustomFee: ptr(-1.0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && in.Role != RoleUser && tt.in.Role == "" {
				t.Fatalf("role = %q, want USER default", in.Role)
			}
		})
	}
}

func TestFoldID(t *testing.T) {
	if FoldID(" Admin ") != FoldID("admin") {
		t.Fatalf("FoldID should ignore case and surrounding space")
	}
}

func TestParseAssignment(t *testing.T) {
	class, section, subject := ParseAssignment("Class 11 - A, Physics")
	if class != "Class 11" || section != "A" || subject != "Physics" {
		t.Fatalf("ParseAssignment = %q %q %q", class, section, subject)
	}
	if got := ClassLabel("Class 11", ""); got != "Class 11" {
		t.Fatalf("ClassLabel = %q, want Class 11", got)
	}
}

func TestFeeFor(t *testing.T) {
	fees := map[string]float64{"Class 11": 1500}
	student := &RegisteredUser{StudentClass: "Class 11"}
	if got := FeeFor(student, fees); got != 1500 {
		t.Fatalf("FeeFor = %v, want 1500", got)
	}
	student.CustomFee = ptr(900.0)
	if got := FeeFor(student, fees); got != 900 {
		t.Fatalf("FeeFor with override = %v, want 900", got)
	}
	if got := FeeFor(nil, fees); got != 0 {
		t.Fatalf("FeeFor(nil) = %v, want 0", got)
	}
}

func TestVisibleSubjects(t *testing.T) {
	doc := Seed(testNow)

	tests := []struct {
		name string
		user *RegisteredUser
		want []string
	}{
		{"anonymous", nil, []string{"s1", "s2", "s3"}},
		{"admin", doc.RegisteredUsers[0], []string{"s1", "s2", "s3"}},
		{"class 12 student", &RegisteredUser{Role: RoleUser, StudentClass: "Class 12"}, []string{"s3"}},
		{"class 11 teacher", &RegisteredUser{ID: "t", Role: RoleTeacher, AssignedClasses: []string{"Class 11 - A, Physics"}}, []string{"s1", "s2"}},
		{"unassigned teacher", &RegisteredUser{ID: "t", Role: RoleTeacher}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleSubjects(doc, tt.user)
			if len(got) != len(tt.want) {
				t.Fatalf("VisibleSubjects = %d subjects, want %v", len(got), tt.want)
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Fatalf("subject[%d] = %s, want %s", i, s.ID, tt.want[i])
				}
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
