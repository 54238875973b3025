package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/five82/studydesk/internal/app"
	"github.com/five82/studydesk/internal/roster"
	"github.com/five82/studydesk/internal/state"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

const usage = `usage: studydesk [-config path] [-memory] [command]

commands:
  (none)                          open the terminal UI
  export [-o file]                write a backup (default studydesk-backup-<date>.json, - for stdout)
  import -f file                  replace everything with a backup
  search QUERY                    list matching subjects, topics and materials
  users import -role R -f file    add students or teachers from CSV
  users export -role R [-o file]  write students or teachers as CSV
  reset                           discard stored data and restore the sample library
`

func run(args []string) int {
	fs := flag.NewFlagSet("studydesk", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "", "override config path (optional)")
	memory := fs.Bool("memory", false, "keep data in memory only")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, Memory: *memory}
	rest := fs.Args()
	if len(rest) == 0 {
		if err := app.Run(ctx, opts); err != nil {
			fmt.Fprintf(os.Stderr, "studydesk: %v\n", err)
			return 1
		}
		return 0
	}

	svc, err := app.Open(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "studydesk: %v\n", err)
		return 1
	}
	defer svc.Close()

	if err := dispatch(ctx, svc, rest[0], rest[1:]); err != nil {
		svc.Log.Error("command failed", "command", rest[0], "error", err)
		fmt.Fprintf(os.Stderr, "studydesk %s: %v\n", rest[0], err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, svc *app.Services, cmd string, args []string) error {
	switch cmd {
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		out := fs.String("o", "", "output file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		path := *out
		if path == "" {
			path = state.ExportFilename(time.Now())
		}
		return withOutput(path, svc.Export)

	case "import":
		fs := flag.NewFlagSet("import", flag.ContinueOnError)
		in := fs.String("f", "", "backup file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := withInput(*in, svc.Import); err != nil {
			return err
		}
		fmt.Println("imported:", svc.Summary())
		return nil

	case "search":
		if len(args) == 0 {
			return fmt.Errorf("missing query")
		}
		n, err := svc.Search(os.Stdout, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(os.Stderr, "no matches")
		}
		return nil

	case "users":
		return users(svc, args)

	case "reset":
		if err := svc.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("reset:", svc.Summary())
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func users(svc *app.Services, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("want import or export")
	}
	fs := flag.NewFlagSet("users "+args[0], flag.ContinueOnError)
	role := fs.String("role", "student", "student or teacher")
	in := fs.String("f", "", "input CSV")
	out := fs.String("o", "-", "output CSV")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	kind, err := roster.ParseKind(*role)
	if err != nil {
		return err
	}

	switch args[0] {
	case "import":
		return withInput(*in, func(r io.Reader) error {
			added, skipped, err := svc.ImportUsers(r, kind)
			if err != nil {
				return err
			}
			fmt.Printf("added %d, skipped %d\n", added, skipped)
			return nil
		})
	case "export":
		return withOutput(*out, func(w io.Writer) error {
			return svc.ExportUsers(w, kind)
		})
	}
	return fmt.Errorf("unknown users command %q", args[0])
}

func withInput(path string, fn func(io.Reader) error) error {
	if path == "" {
		return fmt.Errorf("missing -f")
	}
	if path == "-" {
		return fn(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

func withOutput(path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "wrote", path)
	return nil
}
