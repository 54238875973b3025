// Package roster reads and writes user registries as CSV.
//
// Student files use the columns
//
//	id,name,password,class,section,mobile,customFee
//
// and teacher files
//
//	id,name,password,mobile,subjects,assignedClasses
//
// where list cells are separated by ';'. A header row is optional and
// recognised by a first cell of "id". Spreadsheet exports are tolerated:
// a UTF-8 byte order mark is stripped, quoted cells may contain commas and
// rows may be short.
package roster

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/five82/studydesk/internal/model"
)

// Kind selects the column layout.
type Kind string

const (
	Students Kind = "student"
	Teachers Kind = "teacher"
)

var (
	studentHeader = []string{"id", "name", "password", "class", "section", "mobile", "customFee"}
	teacherHeader = []string{"id", "name", "password", "mobile", "subjects", "assignedClasses"}
)

const listSep = ";"

var bom = []byte{0xEF, 0xBB, 0xBF}

// ParseKind accepts "student(s)" or "teacher(s)".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "students":
		return Students, nil
	case "teacher", "teachers":
		return Teachers, nil
	}
	return "", fmt.Errorf("unknown roster kind %q (want student or teacher)", s)
}

// Role of the accounts a roster kind creates.
func (k Kind) Role() model.Role {
	if k == Teachers {
		return model.RoleTeacher
	}
	return model.RoleUser
}

// Header returns the column names for k.
func (k Kind) Header() []string {
	if k == Teachers {
		return teacherHeader
	}
	return studentHeader
}

// Parse reads users from r. Rows are not validated here; the store rejects
// invalid or duplicate accounts when they are added.
func Parse(r io.Reader, kind Kind) ([]model.NewUser, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var users []model.NewUser
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if strings.EqualFold(cell(rec, 0), "id") {
				continue
			}
		}
		if blank(rec) {
			continue
		}
		u, err := parseRow(rec, kind)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func parseRow(rec []string, kind Kind) (model.NewUser, error) {
	u := model.NewUser{
		ID:       cell(rec, 0),
		Name:     cell(rec, 1),
		Password: cell(rec, 2),
		Role:     kind.Role(),
	}
	if kind == Teachers {
		u.Mobile = cell(rec, 3)
		u.Subjects = splitList(cell(rec, 4))
		u.AssignedClasses = splitList(cell(rec, 5))
		return u, nil
	}
	u.StudentClass = cell(rec, 3)
	u.Section = cell(rec, 4)
	u.Mobile = cell(rec, 5)
	if raw := cell(rec, 6); raw != "" {
		fee, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return u, fmt.Errorf("invalid customFee %q", raw)
		}
		u.CustomFee = &fee
	}
	return u, nil
}

// Write renders users of the given kind with a header row. Users of other
// roles are skipped.
func Write(w io.Writer, users []*model.RegisteredUser, kind Kind) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(kind.Header()); err != nil {
		return fmt.Errorf("write roster header: %w", err)
	}
	for _, u := range users {
		if u.Role != kind.Role() {
			continue
		}
		var row []string
		if kind == Teachers {
			row = []string{u.ID, u.Name, u.Password, u.Mobile,
				strings.Join(u.Subjects, listSep), strings.Join(u.AssignedClasses, listSep)}
		} else {
			fee := ""
			if u.CustomFee != nil {
				fee = strconv.FormatFloat(*u.CustomFee, 'f', -1, 64)
			}
			row = []string{u.ID, u.Name, u.Password, u.StudentClass, u.Section, u.Mobile, fee}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write roster row %s: %w", u.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush roster: %w", err)
	}
	return nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, listSep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
