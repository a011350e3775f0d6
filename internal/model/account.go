package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Snapshot is one balance-history entry. Every snapshot carries a date
// (YYYY-MM-DD) and the total account balance at that date; strategies attach
// extra numeric fields (cash, bonds, options, shares, price, ...) which are
// preserved in first-seen order so chart consumers can enumerate them
// generically.
type Snapshot struct {
	Date           string
	AccountBalance float64

	keys   []string
	extras map[string]float64
}

// NewSnapshot creates a snapshot with only the base fields set.
func NewSnapshot(day time.Time, balance float64) Snapshot {
	return Snapshot{
		Date:           day.Format(DateLayout),
		AccountBalance: balance,
	}
}

// Set attaches an extra field. The first Set of a key fixes its position in
// the serialized output; later Sets overwrite the value in place.
func (s *Snapshot) Set(key string, value float64) {
	if s.extras == nil {
		s.extras = make(map[string]float64)
	}
	if _, ok := s.extras[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.extras[key] = value
}

// Get returns an extra field by name.
func (s Snapshot) Get(key string) (float64, bool) {
	v, ok := s.extras[key]
	return v, ok
}

// ExtraKeys returns the extra field names in first-seen order.
func (s Snapshot) ExtraKeys() []string {
	return s.keys
}

// MarshalJSON writes date and account_balance first, then the extra fields in
// first-seen order. Encoding by hand keeps the key order stable, which the
// rendering side relies on when deriving chart series.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	fmt.Fprintf(&buf, `"date":%q,"account_balance":%s`, s.Date, formatJSONNumber(s.AccountBalance))
	for _, k := range s.keys {
		fmt.Fprintf(&buf, `,%q:%s`, k, formatJSONNumber(s.extras[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a snapshot, treating every numeric key other than the
// two base fields as an extra. Key order within the extras is whatever the
// decoder yields, which is acceptable for cache round-trips.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["date"]; ok {
		if err := json.Unmarshal(v, &s.Date); err != nil {
			return err
		}
	}
	if v, ok := raw["account_balance"]; ok {
		if err := json.Unmarshal(v, &s.AccountBalance); err != nil {
			return err
		}
	}
	for k, v := range raw {
		if k == "date" || k == "account_balance" {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			continue // non-numeric extras are dropped
		}
		s.Set(k, f)
	}
	return nil
}

func formatJSONNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	b, _ := json.Marshal(f)
	return string(b)
}

// Account is a mutable ledger for one simulated strategy: cash balance,
// cumulative deposits, held asset quantity, and an append-only balance
// history. Accounts are created at simulation start and mutated only by the
// owning strategy loop.
type Account struct {
	Name           string     `json:"name"`
	Balance        float64    `json:"balance"`
	TotalInvested  float64    `json:"total_invested"`
	Assets         float64    `json:"assets"`
	BalanceHistory []Snapshot `json:"balance_history"`
}

// NewAccount creates an account whose first history entry is the inception
// snapshot at the given day.
func NewAccount(day time.Time, initialBalance float64, name string) *Account {
	return &Account{
		Name:           name,
		Balance:        initialBalance,
		TotalInvested:  initialBalance,
		Assets:         0,
		BalanceHistory: []Snapshot{NewSnapshot(day, initialBalance)},
	}
}

// AddFunds deposits into the account and bumps the cumulative invested total.
func (a *Account) AddFunds(amount float64) {
	a.Balance += amount
	a.TotalInvested += amount
}

// DeductFunds removes cash if enough is available.
func (a *Account) DeductFunds(amount float64) {
	if a.Balance >= amount {
		a.Balance -= amount
	}
}

// BuyAssets spends as much of the balance as possible on whole units at the
// given price and returns how many were bought.
func (a *Account) BuyAssets(price float64) int {
	if price <= 0 || a.Balance < price {
		return 0
	}
	n := int(a.Balance / price)
	a.Assets += float64(n)
	a.Balance -= float64(n) * price
	return n
}

// PortfolioValue is held assets marked at the given price plus idle cash.
func (a *Account) PortfolioValue(assetPrice float64) float64 {
	return a.Assets*assetPrice + a.Balance
}

// RecordBalance sets the balance (rounded to cents) and appends a plain
// snapshot for the given day.
func (a *Account) RecordBalance(day time.Time, balance float64) {
	a.Balance = Round2(balance)
	a.BalanceHistory = append(a.BalanceHistory, NewSnapshot(day, a.Balance))
}

// AppendSnapshot appends a pre-built snapshot. History is append-only; callers
// are responsible for feeding days in order.
func (a *Account) AppendSnapshot(s Snapshot) {
	a.BalanceHistory = append(a.BalanceHistory, s)
}

// Round2 rounds to the nearest cent.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FloorCents rounds down to the cent. The bond ladder floors cash after every
// credit and purchase so fractional-cent drift never accumulates upward.
func FloorCents(x float64) float64 {
	return math.Floor(x*100) / 100
}
