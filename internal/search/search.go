// Package search finds subjects, topics and materials by text.
//
// The scan is linear and unranked: results follow document order (each
// subject, then its topics, then each topic's materials). Matching is a
// Unicode case-folded substring test. An entity matching on several fields
// yields a single result naming the first field that matched.
package search

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/five82/studydesk/internal/model"
)

// Kind of entity a result points at.
type Kind string

const (
	KindSubject  Kind = "subject"
	KindTopic    Kind = "topic"
	KindMaterial Kind = "material"
)

// Field that matched the query.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldTitle       Field = "title"
	FieldNotes       Field = "notes"
)

// Result is one match with enough parent context for breadcrumbs.
type Result struct {
	Kind  Kind
	ID    string
	Title string
	Field Field
	// Snippet is the matched text around the hit.
	Snippet string

	SubjectID   string
	SubjectName string
	TopicID     string
	TopicName   string

	MaterialType model.MaterialType
	Link         string
}

// Breadcrumb renders the parent path, e.g. "Physics › Laws of Motion".
func (r Result) Breadcrumb() string {
	switch r.Kind {
	case KindTopic:
		return r.SubjectName
	case KindMaterial:
		return r.SubjectName + " › " + r.TopicName
	}
	return ""
}

const snippetRadius = 30

type matcher struct {
	fold   cases.Caser
	needle string
}

func (m *matcher) match(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	folded := m.fold.String(text)
	idx := strings.Index(folded, m.needle)
	if idx < 0 {
		return "", false
	}
	return snippet(text, folded, idx, len(m.needle)), true
}

// Run scans doc for query. A blank query matches nothing.
func Run(doc *model.AppState, query string) []Result {
	query = strings.TrimSpace(query)
	if doc == nil || query == "" {
		return nil
	}
	fold := cases.Fold()
	m := &matcher{fold: fold, needle: fold.String(query)}

	var results []Result
	for _, sub := range doc.Subjects {
		subLink := "/subjects/" + url.PathEscape(sub.ID)
		if snip, ok := m.match(sub.Name); ok {
			results = append(results, Result{
				Kind: KindSubject, ID: sub.ID, Title: sub.Name, Field: FieldName, Snippet: snip,
				SubjectID: sub.ID, SubjectName: sub.Name, Link: subLink,
			})
		}
		for _, t := range sub.Topics {
			topicLink := subLink + "/topics/" + url.PathEscape(t.ID)
			if field, snip, ok := firstMatch(m, fieldText{FieldName, t.Name}, fieldText{FieldDescription, t.Description}); ok {
				results = append(results, Result{
					Kind: KindTopic, ID: t.ID, Title: t.Name, Field: field, Snippet: snip,
					SubjectID: sub.ID, SubjectName: sub.Name, TopicID: t.ID, TopicName: t.Name,
					Link: topicLink,
				})
			}
			for _, mat := range t.Materials {
				if field, snip, ok := firstMatch(m, fieldText{FieldTitle, mat.Title}, fieldText{FieldNotes, mat.Notes}); ok {
					results = append(results, Result{
						Kind: KindMaterial, ID: mat.ID, Title: mat.Title, Field: field, Snippet: snip,
						SubjectID: sub.ID, SubjectName: sub.Name, TopicID: t.ID, TopicName: t.Name,
						MaterialType: mat.Type,
						Link:         topicLink + "?material=" + url.QueryEscape(mat.ID),
					})
				}
			}
		}
	}
	return results
}

type fieldText struct {
	field Field
	text  string
}

func firstMatch(m *matcher, fields ...fieldText) (Field, string, bool) {
	for _, f := range fields {
		if snip, ok := m.match(f.text); ok {
			return f.field, snip, true
		}
	}
	return "", "", false
}

// snippet cuts a window around the hit. Folding can change byte lengths, so
// the window is taken from the original text only when lengths agree.
func snippet(orig, folded string, idx, n int) string {
	src := orig
	if len(orig) != len(folded) {
		src = folded
	}
	start := max(idx-snippetRadius, 0)
	end := min(idx+n+snippetRadius, len(src))
	// Stay on rune boundaries.
	for start > 0 && !isRuneStart(src[start]) {
		start--
	}
	for end < len(src) && !isRuneStart(src[end]) {
		end++
	}
	out := strings.Join(strings.Fields(src[start:end]), " ")
	if start > 0 {
		out = "…" + out
	}
	if end < len(src) {
		out += "…"
	}
	return out
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
