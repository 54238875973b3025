package model

import (
	"math"
	"time"
)

// GSTRate is applied to every ledger amount.
const GSTRate = 0.18

// NewTransaction contains the information needed to record a ledger entry.
type NewTransaction struct {
	Type        TransactionType     `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Category    TransactionCategory `json:"category" validate:"required,oneof=FEE SALARY RENT UTILITIES SUPPLIES OTHER"`
	Amount      float64             `json:"amount" validate:"gt=0"`
	Date        time.Time           `json:"date"`
	PayerID     string              `json:"payerId"`
	PayerName   string              `json:"payerName"`
	PayerMobile string              `json:"payerMobile" validate:"omitempty,mobile"`
	Description string              `json:"description"`
	Status      PaymentStatus       `json:"status" validate:"omitempty,oneof=PAID PENDING"`
}

// Validate cleans and validates nt.
func (nt *NewTransaction) Validate() error {
	nt.PayerID = CleanString(nt.PayerID)
	nt.PayerName = CleanString(nt.PayerName)
	nt.PayerMobile = CleanString(nt.PayerMobile)
	nt.Description = CleanString(nt.Description)
	return Validate(nt)
}

// Transaction materializes nt with derived GST and total.
func (nt NewTransaction) Transaction(id string, now time.Time) *Transaction {
	date := nt.Date
	if date.IsZero() {
		date = now
	}
	status := nt.Status
	if status == "" {
		status = Paid
	}
	gst := GST(nt.Amount)
	return &Transaction{
		ID:           id,
		Type:         nt.Type,
		Category:     nt.Category,
		Amount:       nt.Amount,
		GST:          gst,
		TotalWithGST: roundCents(nt.Amount + gst),
		Date:         date.UTC(),
		PayerID:      nt.PayerID,
		PayerName:    nt.PayerName,
		PayerMobile:  nt.PayerMobile,
		Description:  nt.Description,
		Status:       status,
	}
}

// GST returns the tax owed on amount, rounded to cents.
func GST(amount float64) float64 {
	return roundCents(amount * GSTRate)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// LedgerSummary totals a ledger.
type LedgerSummary struct {
	Income  float64
	Expense float64
	GST     float64
	Pending float64
	Balance float64
}

// Ledger summarizes txns. Pending entries count toward Pending only.
func Ledger(txns []*Transaction) LedgerSummary {
	var sum LedgerSummary
	for _, t := range txns {
		if t.Status == Pending {
			sum.Pending += t.TotalWithGST
			continue
		}
		switch t.Type {
		case Income:
			sum.Income += t.TotalWithGST
		case Expense:
			sum.Expense += t.TotalWithGST
		}
		sum.GST += t.GST
	}
	sum.Income = roundCents(sum.Income)
	sum.Expense = roundCents(sum.Expense)
	sum.GST = roundCents(sum.GST)
	sum.Pending = roundCents(sum.Pending)
	sum.Balance = roundCents(sum.Income - sum.Expense)
	return sum
}

// FeeFor resolves the fee owed by u: a custom override wins over the
// base fee of the student's class.
func FeeFor(u *RegisteredUser, classFees map[string]float64) float64 {
	if u == nil {
		return 0
	}
	if u.CustomFee != nil {
		return *u.CustomFee
	}
	return classFees[u.StudentClass]
}
