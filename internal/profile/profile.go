// Package profile maps bank identifiers to statement format profiles.
//
// Format-specific behavior lives here as configuration, not as conditional
// branches in the parsing code: supporting a new bank means adding one
// entry to the table below and nothing else.
package profile

import "strings"

// Profile describes how one bank's statement export is laid out: which
// column names mean what, how many header lines precede the tabular body,
// which date formats the bank emits, and whether the account carries a
// sweep (MOD) sub-account whose synthetic transfers must be reconciled out.
type Profile struct {
	Bank               string
	DateColumns        []string
	DescriptionColumns []string
	DebitColumns       []string
	CreditColumns      []string
	BalanceColumns     []string
	HeaderSkip         int      // metadata lines before the column header row
	DateFormats        []string // bank-native formats, tried before the common chain
	Sweep              bool     // account has an auto-sweep sub-account
	SweepBalanceLabel  string   // header line label carrying the MOD balance
}

// Generic is the fallback profile for banks not in the table: the broadest
// synonym lists, no header skip, no bank-native date format.
var Generic = Profile{
	Bank: "Generic",
	DateColumns: []string{
		"date", "txn date", "transaction date", "value date",
		"posting date", "effective date", "trans date",
	},
	DescriptionColumns: []string{
		"description", "narration", "remarks", "transaction details",
		"particulars", "transaction description", "details",
	},
	DebitColumns: []string{
		"debit", "withdrawal amt.", "withdrawal amount", "debit amount",
		"dr amount", "withdrawal", "paid out", "debit amt",
	},
	CreditColumns: []string{
		"credit", "deposit amt.", "deposit amount", "credit amount",
		"cr amount", "deposit", "paid in", "credit amt",
	},
	BalanceColumns: []string{
		"balance", "balance amt.", "available balance", "closing balance",
		"running balance", "bal amount", "balance amount",
	},
}

// profiles is the per-bank table. Keys are upper-cased bank identifiers as
// derived from the Owner_Bank file naming convention.
var profiles = map[string]Profile{
	"SBI": {
		Bank:               "SBI",
		DateColumns:        []string{"txn date", "date", "value date"},
		DescriptionColumns: []string{"description", "narration"},
		DebitColumns:       []string{"debit", "withdrawal amt.", "debit amt"},
		CreditColumns:      []string{"credit", "deposit amt.", "credit amt"},
		BalanceColumns:     []string{"balance", "balance amt."},
		HeaderSkip:         20,
		DateFormats:        []string{"2-Jan-06"},
		Sweep:              true,
		SweepBalanceLabel:  "MOD Balance",
	},
	"HDFC": {
		Bank:               "HDFC",
		DateColumns:        []string{"date", "value date"},
		DescriptionColumns: []string{"narration", "description"},
		DebitColumns:       []string{"withdrawal amt.", "debit amount", "debit"},
		CreditColumns:      []string{"deposit amt.", "credit amount", "credit"},
		BalanceColumns:     []string{"closing balance", "balance"},
		HeaderSkip:         1,
		DateFormats:        []string{"2/1/06"},
	},
}

// Resolve returns the profile for a bank identifier, falling back to the
// generic profile for unknown banks. Unknown banks are not an error.
func Resolve(bank string) Profile {
	if p, ok := profiles[strings.ToUpper(strings.TrimSpace(bank))]; ok {
		return p
	}
	p := Generic
	p.Bank = bank
	return p
}

// Known reports whether a bank has a dedicated profile entry.
func Known(bank string) bool {
	_, ok := profiles[strings.ToUpper(strings.TrimSpace(bank))]
	return ok
}
