package sweep

import (
	"testing"
	"time"

	"github.com/nsharma/khata/internal/model"
	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2022, 4, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(d int, desc, debit, credit, balance string) model.Transaction {
	return model.Transaction{
		Date:        day(d),
		Owner:       "Saksham",
		Bank:        "SBI",
		Description: desc,
		Debit:       dec(debit),
		Credit:      dec(credit),
		Balance:     dec(balance),
	}
}

func TestIsSweepRow(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{desc: "TO TRANSFER-SBI MOD 1234", want: true},
		{desc: "BY TRANSFER-SBI MOD 1234", want: true},
		{desc: "to transfer mod units", want: true},
		{desc: "TO TRANSFER-UPI/JOHN", want: false},
		{desc: "BY TRANSFER-SALARY APR", want: false},
		{desc: "UPI/YESB/1234/MODERN STORE", want: false},
		{desc: "", want: false},
	}

	for _, tt := range tests {
		if got := IsSweepRow(tt.desc); got != tt.want {
			t.Errorf("IsSweepRow(%q) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestReconcileRemovesSweepRowsAndCorrectsBalances(t *testing.T) {
	rows := []model.Transaction{
		txn(1, "BY TRANSFER-SALARY APR", "0", "50000", "100000"),
		// Excess swept into the MOD sub-account: statement balance drops.
		txn(2, "TO TRANSFER-SBI MOD 9876", "30000", "0", "70000"),
		txn(3, "UPI/SWIGGY ORDER", "500", "0", "69500"),
		txn(4, "ATM WDL", "2000", "0", "67500"),
		// Sweep returns part of the money.
		txn(5, "BY TRANSFER-SBI MOD 9876", "0", "10000", "77500"),
		txn(6, "UPI/RENT APR", "15000", "0", "62500"),
	}

	kept, result := Reconcile(dec("0"), rows)

	if result.Removed != 2 {
		t.Fatalf("removed = %d, want 2", result.Removed)
	}
	if len(kept) != 4 {
		t.Fatalf("kept = %d rows, want 4", len(kept))
	}
	for _, row := range kept {
		if IsSweepRow(row.Description) {
			t.Fatalf("sweep row survived: %q", row.Description)
		}
	}

	// 30000 went to MOD, 10000 came back.
	if !result.ModBalance.Equal(dec("20000")) {
		t.Errorf("mod balance = %s, want 20000", result.ModBalance)
	}

	// The first real row after the sweep-out absorbs the +30000 correction.
	if !kept[1].Balance.Equal(dec("99500")) {
		t.Errorf("row 3 balance = %s, want 99500", kept[1].Balance)
	}
	// Delta was reset: the next row's balance is untouched.
	if !kept[2].Balance.Equal(dec("67500")) {
		t.Errorf("row 4 balance = %s, want 67500", kept[2].Balance)
	}
	// The sweep-in accumulates -10000, applied to the following row.
	if !kept[3].Balance.Equal(dec("52500")) {
		t.Errorf("row 6 balance = %s, want 52500", kept[3].Balance)
	}
}

func TestReconcileBalanceNeutrality(t *testing.T) {
	rows := []model.Transaction{
		txn(1, "BY TRANSFER-SALARY APR", "0", "80000", "120000"),
		txn(2, "TO TRANSFER-SBI MOD 111", "45000", "0", "75000"),
		txn(3, "UPI/GROCERIES", "1200", "0", "73800"),
		txn(4, "BY TRANSFER-SBI MOD 111", "0", "45000", "118800"),
		txn(5, "NEFT RENT", "20000", "0", "98800"),
	}

	_, result := Reconcile(dec("100000"), rows)

	// Sum of balance deltas removed as sweep rows plus corrections applied
	// to surviving rows nets to zero across the full history.
	net := result.RemovedBalanceDelta.Add(result.AppliedCorrection)
	if !net.IsZero() {
		t.Errorf("reconciliation not balance-neutral: net = %s", net)
	}
	if !result.PendingDelta.IsZero() {
		t.Errorf("pending delta left over: %s", result.PendingDelta)
	}
	if !result.ModBalance.Equal(dec("100000")) {
		t.Errorf("mod balance = %s, want 100000 (full round trip)", result.ModBalance)
	}
}

func TestReconcileConsecutiveSweepRowsAccumulate(t *testing.T) {
	rows := []model.Transaction{
		txn(1, "TO TRANSFER-SBI MOD 1", "10000", "0", "90000"),
		txn(2, "TO TRANSFER-SBI MOD 2", "5000", "0", "85000"),
		txn(3, "UPI/FUEL", "1000", "0", "84000"),
	}

	kept, result := Reconcile(dec("0"), rows)

	if len(kept) != 1 {
		t.Fatalf("kept = %d rows, want 1", len(kept))
	}
	// Both sweep deltas accumulate before the single real row absorbs them.
	if !kept[0].Balance.Equal(dec("99000")) {
		t.Errorf("balance = %s, want 99000", kept[0].Balance)
	}
	if !result.ModBalance.Equal(dec("15000")) {
		t.Errorf("mod balance = %s, want 15000", result.ModBalance)
	}
}

func TestReconcileNoSweepRowsIsIdentity(t *testing.T) {
	rows := []model.Transaction{
		txn(1, "UPI/SWIGGY ORDER 48213", "450", "0", "9550"),
		txn(2, "BY TRANSFER-SALARY", "0", "30000", "39550"),
	}

	kept, result := Reconcile(dec("0"), rows)

	if len(kept) != 2 || result.Removed != 0 {
		t.Fatalf("identity pass changed rows: kept=%d removed=%d", len(kept), result.Removed)
	}
	for i := range rows {
		if !kept[i].Balance.Equal(rows[i].Balance) {
			t.Errorf("row %d balance changed: %s -> %s", i, rows[i].Balance, kept[i].Balance)
		}
	}
}

func TestReconcileTrailingSweepRowLeavesPendingDelta(t *testing.T) {
	rows := []model.Transaction{
		txn(1, "UPI/SHOPPING", "700", "0", "49300"),
		txn(2, "TO TRANSFER-SBI MOD 42", "9300", "0", "40000"),
	}

	kept, result := Reconcile(dec("0"), rows)

	if len(kept) != 1 {
		t.Fatalf("kept = %d rows, want 1", len(kept))
	}
	if !result.PendingDelta.Equal(dec("9300")) {
		t.Errorf("pending delta = %s, want 9300", result.PendingDelta)
	}
}
