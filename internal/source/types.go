package source

import "github.com/shopspring/decimal"

// ledgerEntry is one JSONL ledger line as written on disk.
type ledgerEntry struct {
	Date     string          `json:"date"`
	Kind     string          `json:"kind"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// LedgerResult holds the output of parsing a ledger file.
type LedgerResult struct {
	Path        string
	Entries     int
	ParseErrors int
	Err         error
}
