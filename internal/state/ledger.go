package state

import (
	"slices"
	"strings"

	"github.com/five82/studydesk/internal/model"
)

type AddTransaction struct {
	Transaction model.NewTransaction
}

func (c AddTransaction) apply(d *Document, env Env) Outcome {
	nt := c.Transaction
	if err := nt.Validate(); err != nil {
		return rejected(err)
	}
	txn := nt.Transaction(env.NewID(), env.Now())
	d.state.Ledger = append(d.state.Ledger, txn)
	return Outcome{Changed: true, ID: txn.ID}
}

type DeleteTransaction struct {
	TransactionID string
}

func (c DeleteTransaction) apply(d *Document, _ Env) Outcome {
	s := d.state
	idx := slices.IndexFunc(s.Ledger, func(t *model.Transaction) bool { return t.ID == c.TransactionID })
	if idx < 0 {
		return Outcome{}
	}
	s.Ledger = slices.Delete(s.Ledger, idx, idx+1)
	return changed()
}

type SetTransactionStatus struct {
	TransactionID string
	Status        model.PaymentStatus
}

func (c SetTransactionStatus) apply(d *Document, _ Env) Outcome {
	if c.Status != model.Paid && c.Status != model.Pending {
		return rejected(model.NewValidationError(model.ErrInvalidInput,
			model.FieldError{Field: "status", Error: "must be one of PAID PENDING"}))
	}
	for _, t := range d.state.Ledger {
		if t.ID == c.TransactionID {
			if t.Status == c.Status {
				return Outcome{}
			}
			t.Status = c.Status
			return changed()
		}
	}
	return Outcome{}
}

type SetClassFee struct {
	Class string
	Fee   float64
}

func (c SetClassFee) apply(d *Document, _ Env) Outcome {
	class := strings.TrimSpace(c.Class)
	var fields []model.FieldError
	if class == "" {
		fields = append(fields, model.FieldError{Field: "class", Error: "this field is required"})
	}
	if c.Fee < 0 {
		fields = append(fields, model.FieldError{Field: "fee", Error: "fee must be 0 or greater"})
	}
	if len(fields) > 0 {
		return rejected(model.NewValidationError(model.ErrInvalidInput, fields...))
	}
	d.state.ClassFees[class] = c.Fee
	return changed()
}
