package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/five82/studydesk/internal/roster"
	"github.com/five82/studydesk/internal/search"
)

// Export writes a backup of the whole document to w.
func (s *Services) Export(w io.Writer) error {
	data, err := s.Store.ExportData()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Import replaces the document with the backup read from r.
func (s *Services) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	return s.Store.ImportData(data)
}

// Search prints one line per match and returns the number of matches.
func (s *Services) Search(w io.Writer, query string) (int, error) {
	results := search.Run(s.Store.Snapshot(), query)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		where := r.Breadcrumb()
		if where == "" {
			where = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Kind, r.ID, r.Title, where); err != nil {
			return 0, err
		}
	}
	return len(results), tw.Flush()
}

// ImportUsers bulk-adds the roster read from r. Rows whose id is taken are
// skipped.
func (s *Services) ImportUsers(r io.Reader, kind roster.Kind) (added, skipped int, err error) {
	users, err := roster.Parse(r, kind)
	if err != nil {
		return 0, 0, err
	}
	added, skipped = s.Store.BulkAddUsers(users)
	return added, skipped, nil
}

// ExportUsers writes the accounts of one role as CSV.
func (s *Services) ExportUsers(w io.Writer, kind roster.Kind) error {
	return roster.Write(w, s.Store.Snapshot().RegisteredUsers, kind)
}

// Reset discards the stored document and reseeds it.
func (s *Services) Reset(ctx context.Context) error {
	if err := s.Store.Reset(ctx); err != nil {
		return err
	}
	s.Log.Warn("document reset to seed")
	return nil
}

// Summary describes the library in one line.
func (s *Services) Summary() string {
	doc := s.Store.Snapshot()
	topics, materials := 0, 0
	for _, sub := range doc.Subjects {
		topics += len(sub.Topics)
		for _, t := range sub.Topics {
			materials += len(t.Materials)
		}
	}
	parts := []string{
		plural(len(doc.Subjects), "subject"),
		plural(topics, "topic"),
		plural(materials, "material"),
		plural(len(doc.RegisteredUsers), "user"),
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
