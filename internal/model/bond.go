package model

import (
	"errors"
	"time"
)

// Bond is a short-duration instrument with terms fixed at issuance. Later rate
// changes never affect a bond already held; the yield stored here is the one
// in force on the purchase day.
type Bond struct {
	Investment   float64   // principal, immutable
	PurchaseDate time.Time
	MaturityDate time.Time
	AnnualYield  float64 // percentage points, e.g. 4.25 for 4.25%
}

// NewBond validates that maturity is strictly after purchase.
func NewBond(investment float64, purchase, maturity time.Time, annualYield float64) (*Bond, error) {
	if !maturity.After(purchase) {
		return nil, errors.New("bond maturity date must be after purchase date")
	}
	return &Bond{
		Investment:   investment,
		PurchaseDate: purchase,
		MaturityDate: maturity,
		AnnualYield:  annualYield,
	}, nil
}

// IsMatured reports whether the given day is on or after the maturity date.
func (b *Bond) IsMatured(day time.Time) bool {
	return !day.Before(b.MaturityDate)
}

// Value is the bond's carrying value before maturity: the principal.
func (b *Bond) Value() float64 {
	return b.Investment
}

// TermMonths is the whole calendar-month difference between maturity and
// purchase. Interest is not pro-rated by days.
func (b *Bond) TermMonths() int {
	return (b.MaturityDate.Year()-b.PurchaseDate.Year())*12 +
		int(b.MaturityDate.Month()) - int(b.PurchaseDate.Month())
}

// MaturedValue is principal plus simple interest over the term, rounded to
// cents: P + P * (yield/100) * (months/12).
func (b *Bond) MaturedValue() float64 {
	interest := b.Investment * (b.AnnualYield / 100) * (float64(b.TermMonths()) / 12)
	return Round2(b.Investment + interest)
}
