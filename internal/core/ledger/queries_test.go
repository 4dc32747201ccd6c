package ledger_test

import (
	"testing"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportingState(t *testing.T) ledger.State {
	t.Helper()
	state := ledger.NewState()
	// Owner funds the company, earns some revenue, pays some expenses.
	state = mustPost(t, state, entry("fund", "2024-01-01", debit("bank", 100000), credit("equity", 100000)))
	state = mustPost(t, state, entry("sale1", "2024-02-10", debit("ar", 50000), credit("revenue", 50000)))
	state = mustPost(t, state, entry("sale2", "2024-03-05", debit("bank", 20000), credit("revenue", 20000)))
	state = mustPost(t, state, entry("rent", "2024-02-20", debit("expense", 30000), credit("bank", 30000)))
	state = mustPost(t, state, entry("supplies", "2024-04-01", debit("expense", 5000), credit("ap", 5000)))
	return state
}

func TestTrialBalanceBucketsBySign(t *testing.T) {
	state := reportingState(t)
	rows := ledger.TrialBalance(state, testAccounts())

	byID := make(map[string]domain.TrialBalanceRow)
	for _, r := range rows {
		byID[r.AccountID] = r
	}

	// bank: 100000 - 30000 + 20000 = 90000 debit
	assert.Equal(t, int64(90000), byID["bank"].DebitCents)
	assert.Zero(t, byID["bank"].CreditCents)
	// revenue: -70000 raw -> credit column
	assert.Equal(t, int64(70000), byID["revenue"].CreditCents)
	assert.Zero(t, byID["revenue"].DebitCents)
	// expense: 35000 debit
	assert.Equal(t, int64(35000), byID["expense"].DebitCents)

	// Sorted by code, lexicographic.
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Code, rows[i].Code)
	}

	// Total debits equal total credits across the whole trial balance.
	var debits, credits int64
	for _, r := range rows {
		debits += r.DebitCents
		credits += r.CreditCents
	}
	assert.Equal(t, debits, credits)
}

func TestProfitAndLossPeriodFilterAndSigns(t *testing.T) {
	state := reportingState(t)

	// February only: sale1 (50000 revenue) and rent (30000 expense).
	report := ledger.ProfitAndLoss(state, testAccounts(), "2024-02-01", "2024-02-29")
	require.Len(t, report.Revenue, 1)
	require.Len(t, report.Expenses, 1)
	assert.Equal(t, int64(50000), report.TotalRevenueCents)
	assert.Equal(t, int64(30000), report.TotalExpensesCents)
	assert.Equal(t, int64(20000), report.NetProfitCents)
	assert.Equal(t, int64(50000), report.Revenue[0].AmountCents, "credit-normal revenue is sign-flipped for display")

	// Full year.
	report = ledger.ProfitAndLoss(state, testAccounts(), "2024-01-01", "2024-12-31")
	assert.Equal(t, int64(70000), report.TotalRevenueCents)
	assert.Equal(t, int64(35000), report.TotalExpensesCents)
	assert.Equal(t, int64(35000), report.NetProfitCents)

	// Empty period.
	report = ledger.ProfitAndLoss(state, testAccounts(), "2023-01-01", "2023-12-31")
	assert.Empty(t, report.Revenue)
	assert.Empty(t, report.Expenses)
	assert.Zero(t, report.NetProfitCents)
}

func TestBalanceSheetIdentityHolds(t *testing.T) {
	state := reportingState(t)
	report := ledger.BalanceSheet(state, testAccounts(), "2024-12-31")

	// Assets: bank 90000 + ar 50000 = 140000
	assert.Equal(t, int64(140000), report.TotalAssetsCents)
	// Liabilities: ap 5000 (flipped positive)
	assert.Equal(t, int64(5000), report.TotalLiabilitiesCents)
	// Equity: stated 100000 + lifetime net income 35000
	assert.Equal(t, int64(35000), report.LifetimeNetIncomeCents)
	assert.Equal(t, int64(135000), report.TotalEquityCents)

	// The accounting identity, the data-integrity check report consumers rely on.
	assert.Equal(t, report.TotalAssetsCents, report.TotalLiabilitiesCents+report.TotalEquityCents)
}

func TestBalanceSheetAsOfDateFilters(t *testing.T) {
	state := reportingState(t)

	// As of Jan 31 only the funding entry exists.
	report := ledger.BalanceSheet(state, testAccounts(), "2024-01-31")
	assert.Equal(t, int64(100000), report.TotalAssetsCents)
	assert.Zero(t, report.TotalLiabilitiesCents)
	assert.Equal(t, int64(100000), report.TotalEquityCents)
	assert.Zero(t, report.LifetimeNetIncomeCents)
	assert.Equal(t, report.TotalAssetsCents, report.TotalLiabilitiesCents+report.TotalEquityCents)

	// Zero-balance accounts are omitted from the row listings.
	for _, row := range report.Liabilities {
		assert.NotZero(t, row.BalanceCents)
	}
}

func TestAccountLedgerEmptyForUnknownAccount(t *testing.T) {
	state := ledger.NewState()
	lines := ledger.AccountLedger(state, "missing")
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
	assert.Zero(t, ledger.Balance(state, "missing"))
}
