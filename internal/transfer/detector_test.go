package transfer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/service"
	"github.com/nsharma/khata/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger(t *testing.T, txns []model.Transaction) (service.Storage, context.Context) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "khata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	if len(txns) > 0 {
		_, err = store.InsertTransactions(ctx, txns)
		require.NoError(t, err)
	}
	return store, ctx
}

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestDetectExactInterPerson(t *testing.T) {
	store, ctx := setupLedger(t, []model.Transaction{
		{
			Date: day("2022-04-10"), Owner: "Alice", Bank: "HDFC",
			Description: "NEFT TO BOB", Debit: amount("5000"), Balance: amount("70000"),
		},
		{
			Date: day("2022-04-10"), Owner: "Bob", Bank: "SBI",
			Description: "NEFT FROM ALICE", Credit: amount("5000"), Balance: amount("23000"),
		},
	})

	records, err := Detect(ctx, store)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, model.DetectionExact, r.Detection)
	assert.Equal(t, model.TransferInterPerson, r.TransferType)
	assert.Equal(t, "Alice", r.FromOwner)
	assert.Equal(t, "Bob", r.ToOwner)
	assert.True(t, r.Amount.Equal(amount("5000")))
}

func TestDetectExactSamePersonDifferentBanks(t *testing.T) {
	store, ctx := setupLedger(t, []model.Transaction{
		{
			Date: day("2022-05-01"), Owner: "Alice", Bank: "HDFC",
			Description: "TO TRANSFER SELF", Debit: amount("10000"), Balance: amount("60000"),
		},
		{
			Date: day("2022-05-01"), Owner: "Alice", Bank: "SBI",
			Description: "BY TRANSFER SELF", Credit: amount("10000"), Balance: amount("35000"),
		},
	})

	records, err := Detect(ctx, store)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.TransferInterBank, records[0].TransferType)
	assert.Equal(t, model.DetectionExact, records[0].Detection)
}

func TestDetectHeuristicWhenNoExactPairs(t *testing.T) {
	store, ctx := setupLedger(t, []model.Transaction{
		{
			Date: day("2022-04-02"), Owner: "Alice", Bank: "SBI",
			Description: "TO TRANSFER-UPI/DR/HDFC BANK LTD MOD", Debit: amount("3000"), Balance: amount("40000"),
		},
		{
			Date: day("2022-04-05"), Owner: "Alice", Bank: "SBI",
			Description: "UPI/CR/99881/RAMESH/YESB/PAY", Credit: amount("750"), Balance: amount("40750"),
		},
		{
			Date: day("2022-04-07"), Owner: "Bob", Bank: "HDFC",
			Description: "IMPS-P2A-883412/SUMA", Debit: amount("1200"), Balance: amount("15000"),
		},
		// Not transfer-like, must be skipped.
		{
			Date: day("2022-04-08"), Owner: "Bob", Bank: "HDFC",
			Description: "POS AMAZON PAY INDIA", Debit: amount("999"), Balance: amount("14001"),
		},
	})

	records, err := Detect(ctx, store)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, r := range records {
		assert.Equal(t, model.DetectionHeuristic, r.Detection)
	}

	// Newest first.
	assert.Equal(t, "IMPS-P2A-883412/SUMA", records[0].FromDescription)
	assert.Equal(t, "External Person", records[0].ToOwner)
	assert.Equal(t, "Unknown Bank", records[0].ToBank)

	// TO TRANSFER naming the owner's own bank points back at the owner.
	last := records[2]
	assert.Equal(t, "Alice", last.ToOwner)
	assert.Equal(t, "HDFC", last.ToBank)
	assert.Equal(t, model.TransferInterBank, last.TransferType)
	assert.True(t, last.Amount.Equal(amount("3000")))
}

func TestDetectHeuristicUnknownRecipient(t *testing.T) {
	store, ctx := setupLedger(t, []model.Transaction{
		{
			Date: day("2022-04-09"), Owner: "Alice", Bank: "SBI",
			Description: "RTGS OUTWARD 88412", Debit: amount("200000"), Balance: amount("10000"),
		},
	})

	records, err := Detect(ctx, store)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Unknown Recipient", records[0].ToOwner)
	assert.Equal(t, "Unknown Bank", records[0].ToBank)
	assert.Equal(t, model.TransferInterBankHeuristic, records[0].TransferType)
}

func TestDetectEmptyLedger(t *testing.T) {
	store, ctx := setupLedger(t, nil)

	records, err := Detect(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSummarize(t *testing.T) {
	store, ctx := setupLedger(t, []model.Transaction{
		{
			Date: day("2022-04-01"), Owner: "Alice", Bank: "SBI",
			Description: "UPI/DR/1/SWIGGY/HDFC", Debit: amount("400"), Balance: amount("1000"),
		},
		{
			Date: day("2022-04-02"), Owner: "Alice", Bank: "SBI",
			Description: "UPI/CR/2/RAMESH/YESB", Credit: amount("600"), Balance: amount("1600"),
		},
		{
			Date: day("2022-04-03"), Owner: "Bob", Bank: "HDFC",
			Description: "NEFT-PUNB0123-RENT", Debit: amount("9000"), Balance: amount("5000"),
		},
		{
			Date: day("2022-04-04"), Owner: "Bob", Bank: "HDFC",
			Description: "GROCERY STORE", Debit: amount("100"), Balance: amount("4900"),
		},
	})

	summary, err := Summarize(ctx, store)
	require.NoError(t, err)

	require.Len(t, summary.Methods, 2)
	assert.Equal(t, "UPI Transfer", summary.Methods[0].Method)
	assert.Equal(t, 2, summary.Methods[0].Count)
	assert.True(t, summary.Methods[0].Total.Equal(amount("1000")))
	assert.True(t, summary.Methods[0].Average.Equal(amount("500")))
	assert.Equal(t, "NEFT Transfer", summary.Methods[1].Method)

	require.Len(t, summary.Directions, 2)
	assert.Equal(t, "Outgoing", summary.Directions[0].Direction)
	assert.Equal(t, 2, summary.Directions[0].Count)
	assert.True(t, summary.Directions[0].Total.Equal(amount("9400")))

	// Bank buckets come from narration mentions, first match wins.
	bankCounts := map[string]int{}
	for _, b := range summary.Banks {
		bankCounts[b.Bank] = b.Count
	}
	assert.Equal(t, 1, bankCounts["HDFC Bank"])
	assert.Equal(t, 1, bankCounts["Yes Bank"])
	assert.Equal(t, 1, bankCounts["Punjab National Bank"])
}
