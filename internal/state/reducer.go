package state

import (
	"time"

	"github.com/google/uuid"
)

// Env supplies the clock and id generator commands read.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultEnv uses the wall clock and random UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: uuid.NewString}
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.NewID == nil {
		e.NewID = uuid.NewString
	}
	return e
}

// Command is one named mutation of the document.
type Command interface {
	apply(d *Document, env Env) Outcome
}

// structural commands add or remove entities and invalidate the indexes.
type structural interface {
	restructures()
}

// Outcome reports what a command did.
type Outcome struct {
	// Changed is false for no-ops and rejections; nothing is persisted or
	// broadcast then.
	Changed bool
	// Err is the rejection reason, if any.
	Err error
	// ID of the entity created by an add command.
	ID string
	// Released lists materials whose download timers must stop.
	Released []string
	// Orphaned lists blob keys no longer referenced by the document.
	Orphaned []string
	// Completed lists materials whose download finished.
	Completed []string
	// Added and Skipped count bulk user imports.
	Added, Skipped int
}

func changed() Outcome { return Outcome{Changed: true} }

func rejected(err error) Outcome { return Outcome{Err: err} }

// Reduce applies cmd to d. It touches nothing but d.
func Reduce(d *Document, cmd Command, env Env) Outcome {
	out := cmd.apply(d, env.withDefaults())
	if out.Err != nil {
		out.Changed = false
		return out
	}
	if _, ok := cmd.(structural); ok && out.Changed {
		d.reindex()
	}
	return out
}
