// Package transfer derives inter-account transfer views from the ledger.
// Nothing here is persisted: every query recomputes from stored rows.
package transfer

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/service"
	"github.com/shopspring/decimal"
)

// railTokens mark a narration as transfer-like. A row must also move money
// (debit or credit positive) to count.
var railTokens = []string{"TRANSFER", "UPI", "IMPS", "NEFT", "RTGS", "PAYTM", "PHONEPE", "GPAY"}

// Detect returns transfer records for the whole ledger. Exact matching
// (debit row paired to a same-date credit row in another account) is
// authoritative; the single-row heuristic runs only when exact matching
// finds nothing, so the two result shapes never mix.
func Detect(ctx context.Context, store service.Storage) ([]model.TransferRecord, error) {
	pairs, err := store.ExactTransfers(ctx)
	if err != nil {
		return nil, err
	}

	if len(pairs) > 0 {
		records := make([]model.TransferRecord, 0, len(pairs))
		for _, p := range pairs {
			transferType := model.TransferInterPerson
			if p.FromOwner == p.ToOwner {
				transferType = model.TransferInterBank
			}
			records = append(records, model.TransferRecord{
				Date:            p.Date,
				FromOwner:       p.FromOwner,
				FromBank:        p.FromBank,
				ToOwner:         p.ToOwner,
				ToBank:          p.ToBank,
				Amount:          p.Amount,
				FromDescription: p.FromDescription,
				ToDescription:   p.ToDescription,
				TransferType:    transferType,
				Detection:       model.DetectionExact,
			})
		}
		return records, nil
	}

	slog.Debug("no exact transfer pairs, falling back to description heuristics")
	return detectHeuristic(ctx, store)
}

func detectHeuristic(ctx context.Context, store service.Storage) ([]model.TransferRecord, error) {
	txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	var records []model.TransferRecord
	for _, txn := range txns {
		desc := strings.ToUpper(txn.Description)
		if !isTransferLike(desc) || !movesMoney(&txn) {
			continue
		}

		records = append(records, model.TransferRecord{
			Date:            txn.Date,
			FromOwner:       txn.Owner,
			FromBank:        txn.Bank,
			ToOwner:         inferCounterparty(desc, txn.Owner),
			ToBank:          inferBank(desc),
			Amount:          txn.Amount(),
			FromDescription: txn.Description,
			TransferType:    classifyHeuristic(desc),
			Detection:       model.DetectionHeuristic,
		})
	}

	// Newest first, matching the exact-phase ordering.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

func isTransferLike(upperDesc string) bool {
	for _, token := range railTokens {
		if strings.Contains(upperDesc, token) {
			return true
		}
	}
	return false
}

func movesMoney(txn *model.Transaction) bool {
	return txn.Debit.IsPositive() || txn.Credit.IsPositive()
}

// inferCounterparty guesses who received (or sent) the money from narration
// tokens alone. Sweep-style TO/BY TRANSFER rows naming the owner's own banks
// point back at the owner; rail prefixes naming an external bank point at an
// unnamed external person.
func inferCounterparty(upperDesc, owner string) string {
	isTransfer := strings.Contains(upperDesc, "TO TRANSFER") || strings.Contains(upperDesc, "BY TRANSFER")
	switch {
	case isTransfer && (strings.Contains(upperDesc, "HDFC") || strings.Contains(upperDesc, "SBI")):
		return owner
	case strings.Contains(upperDesc, "UPI") &&
		(strings.Contains(upperDesc, "/HDFC/") || strings.Contains(upperDesc, "/SBI/")):
		return "External Person"
	case strings.Contains(upperDesc, "IMPS"):
		return "External Person"
	case strings.Contains(upperDesc, "NEFT") &&
		(strings.Contains(upperDesc, "PUNB") || strings.Contains(upperDesc, "YESB")):
		return "External Person"
	default:
		return "Unknown Recipient"
	}
}

func inferBank(upperDesc string) string {
	switch {
	case strings.Contains(upperDesc, "HDFC"):
		return "HDFC"
	case strings.Contains(upperDesc, "SBI"):
		return "SBI"
	case strings.Contains(upperDesc, "PUNB"):
		return "Punjab National Bank"
	case strings.Contains(upperDesc, "YESB"):
		return "Yes Bank"
	case strings.Contains(upperDesc, "ICICI"):
		return "ICICI"
	case strings.Contains(upperDesc, "AXIS"):
		return "Axis Bank"
	default:
		return "Unknown Bank"
	}
}

func classifyHeuristic(upperDesc string) string {
	if strings.Contains(upperDesc, "TO TRANSFER") || strings.Contains(upperDesc, "BY TRANSFER") {
		if strings.Contains(upperDesc, "HDFC") || strings.Contains(upperDesc, "SBI") {
			return model.TransferInterBank
		}
		return model.TransferInterPerson
	}
	return model.TransferInterBankHeuristic
}

// MethodStat aggregates transfer-like rows by the payment rail named in the
// narration.
type MethodStat struct {
	Method  string
	Count   int
	Total   decimal.Decimal
	Average decimal.Decimal
}

// BankStat aggregates transfer-like rows by the bank named in the narration.
type BankStat struct {
	Bank  string
	Count int
	Total decimal.Decimal
}

// DirectionStat aggregates transfer-like rows by money direction.
type DirectionStat struct {
	Direction string
	Count     int
	Total     decimal.Decimal
	Average   decimal.Decimal
}

// Summary is a statistical view over every transfer-like ledger row,
// independent of whether pair matching succeeded.
type Summary struct {
	Methods    []MethodStat
	Banks      []BankStat
	Directions []DirectionStat
}

// Summarize aggregates transfer-like rows by method, bank and direction.
func Summarize(ctx context.Context, store service.Storage) (*Summary, error) {
	txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count int
		total decimal.Decimal
	}
	methods := make(map[string]*bucket)
	banks := make(map[string]*bucket)
	directions := make(map[string]*bucket)

	add := func(m map[string]*bucket, key string, amt decimal.Decimal) {
		b, ok := m[key]
		if !ok {
			b = &bucket{}
			m[key] = b
		}
		b.count++
		b.total = b.total.Add(amt)
	}

	for _, txn := range txns {
		desc := strings.ToUpper(txn.Description)
		if !isTransferLike(desc) || !movesMoney(&txn) {
			continue
		}

		amt := txn.Amount()
		add(methods, methodLabel(desc), amt)
		add(banks, bankLabel(desc), amt)
		if txn.Debit.IsPositive() {
			add(directions, "Outgoing", amt)
		} else {
			add(directions, "Incoming", amt)
		}
	}

	summary := &Summary{}
	for method, b := range methods {
		summary.Methods = append(summary.Methods, MethodStat{
			Method:  method,
			Count:   b.count,
			Total:   b.total,
			Average: b.total.Div(decimal.NewFromInt(int64(b.count))),
		})
	}
	for bank, b := range banks {
		summary.Banks = append(summary.Banks, BankStat{Bank: bank, Count: b.count, Total: b.total})
	}
	for direction, b := range directions {
		summary.Directions = append(summary.Directions, DirectionStat{
			Direction: direction,
			Count:     b.count,
			Total:     b.total,
			Average:   b.total.Div(decimal.NewFromInt(int64(b.count))),
		})
	}

	sort.Slice(summary.Methods, func(i, j int) bool {
		if summary.Methods[i].Count != summary.Methods[j].Count {
			return summary.Methods[i].Count > summary.Methods[j].Count
		}
		return summary.Methods[i].Method < summary.Methods[j].Method
	})
	sort.Slice(summary.Banks, func(i, j int) bool {
		if summary.Banks[i].Count != summary.Banks[j].Count {
			return summary.Banks[i].Count > summary.Banks[j].Count
		}
		return summary.Banks[i].Bank < summary.Banks[j].Bank
	})
	sort.Slice(summary.Directions, func(i, j int) bool {
		if summary.Directions[i].Count != summary.Directions[j].Count {
			return summary.Directions[i].Count > summary.Directions[j].Count
		}
		return summary.Directions[i].Direction < summary.Directions[j].Direction
	})
	return summary, nil
}

func methodLabel(upperDesc string) string {
	switch {
	case strings.Contains(upperDesc, "TO TRANSFER"):
		return "Outgoing Transfer"
	case strings.Contains(upperDesc, "BY TRANSFER"):
		return "Incoming Transfer"
	case strings.Contains(upperDesc, "UPI"):
		return "UPI Transfer"
	case strings.Contains(upperDesc, "IMPS"):
		return "IMPS Transfer"
	case strings.Contains(upperDesc, "NEFT"):
		return "NEFT Transfer"
	case strings.Contains(upperDesc, "RTGS"):
		return "RTGS Transfer"
	default:
		return "Other Transfer"
	}
}

func bankLabel(upperDesc string) string {
	switch {
	case strings.Contains(upperDesc, "HDFC"):
		return "HDFC Bank"
	case strings.Contains(upperDesc, "SBI"):
		return "State Bank of India"
	case strings.Contains(upperDesc, "ICICI"):
		return "ICICI Bank"
	case strings.Contains(upperDesc, "AXIS"):
		return "Axis Bank"
	case strings.Contains(upperDesc, "PUNB"):
		return "Punjab National Bank"
	case strings.Contains(upperDesc, "YESB"):
		return "Yes Bank"
	case strings.Contains(upperDesc, "KOTAK"):
		return "Kotak Bank"
	default:
		return "Other/Unknown Bank"
	}
}
