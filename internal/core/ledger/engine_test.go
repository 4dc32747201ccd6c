package ledger_test

import (
	"fmt"
	"testing"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant = "tenant-1"

func testAccounts() map[string]domain.Account {
	accounts := []domain.Account{
		{AccountID: "bank", TenantID: tenant, Code: "100", Name: "Bank", Type: domain.Asset, IsSystem: true},
		{AccountID: "ar", TenantID: tenant, Code: "110", Name: "Accounts Receivable", Type: domain.Asset, IsSystem: true},
		{AccountID: "ap", TenantID: tenant, Code: "200", Name: "Accounts Payable", Type: domain.Liability, IsSystem: true},
		{AccountID: "equity", TenantID: tenant, Code: "300", Name: "Equity", Type: domain.Equity, IsSystem: true},
		{AccountID: "revenue", TenantID: tenant, Code: "400", Name: "Revenue", Type: domain.Revenue, IsSystem: true},
		{AccountID: "expense", TenantID: tenant, Code: "500", Name: "Expense", Type: domain.Expense, IsSystem: true},
		{AccountID: "other-tenant-acc", TenantID: "tenant-2", Code: "100", Name: "Bank", Type: domain.Asset},
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}
	return byID
}

func entry(id string, date domain.Date, lines ...domain.JournalLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     id,
		TenantID:    tenant,
		Date:        date,
		Description: "entry " + id,
		Lines:       lines,
	}
}

func debit(accountID string, cents int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, DebitCents: cents}
}

func credit(accountID string, cents int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, CreditCents: cents}
}

func mustPost(t *testing.T, state ledger.State, e domain.JournalEntry) ledger.State {
	t.Helper()
	next, err := ledger.Post(e, state, testAccounts())
	require.NoError(t, err)
	return next
}

// assertChainValid checks the core balance invariant for every account:
// balance[i] == balance[i-1] + debit[i] - credit[i] under date order.
func assertChainValid(t *testing.T, state ledger.State) {
	t.Helper()
	for accountID, lines := range state {
		var running int64
		for i, line := range lines {
			running += line.DebitCents - line.CreditCents
			assert.Equal(t, running, line.BalanceCents, "account %s line %d", accountID, i)
			if i > 0 {
				assert.False(t, line.Date.Before(lines[i-1].Date), "account %s line %d out of date order", accountID, i)
			}
		}
	}
}

func TestValidateRejections(t *testing.T) {
	accounts := testAccounts()
	base := entry("e1", "2024-01-15", debit("bank", 100), credit("equity", 100))

	tests := []struct {
		name    string
		mutate  func(e *domain.JournalEntry)
		wantErr error
	}{
		{"missing tenant", func(e *domain.JournalEntry) { e.TenantID = "" }, ledger.ErrMissingField},
		{"missing id", func(e *domain.JournalEntry) { e.EntryID = "" }, ledger.ErrMissingField},
		{"missing date", func(e *domain.JournalEntry) { e.Date = "" }, ledger.ErrMissingField},
		{"malformed date", func(e *domain.JournalEntry) { e.Date = "15/01/2024" }, ledger.ErrMissingField},
		{"missing description", func(e *domain.JournalEntry) { e.Description = "" }, ledger.ErrMissingField},
		{"single line", func(e *domain.JournalEntry) { e.Lines = e.Lines[:1] }, ledger.ErrTooFewLines},
		{"no lines", func(e *domain.JournalEntry) { e.Lines = nil }, ledger.ErrTooFewLines},
		{"unknown account", func(e *domain.JournalEntry) { e.Lines[0].AccountID = "nope" }, ledger.ErrUnknownAccount},
		{"cross-tenant account", func(e *domain.JournalEntry) { e.Lines[0].AccountID = "other-tenant-acc" }, ledger.ErrTenantMismatch},
		{"negative debit", func(e *domain.JournalEntry) { e.Lines[0].DebitCents = -5 }, ledger.ErrInvalidAmount},
		{"negative credit", func(e *domain.JournalEntry) { e.Lines[1].CreditCents = -5 }, ledger.ErrInvalidAmount},
		{"both sides zero", func(e *domain.JournalEntry) { e.Lines[0].DebitCents = 0 }, ledger.ErrAmbiguousLine},
		{"both sides positive", func(e *domain.JournalEntry) { e.Lines[0].CreditCents = 7 }, ledger.ErrAmbiguousLine},
		{"unbalanced", func(e *domain.JournalEntry) { e.Lines[0].DebitCents = 150 }, ledger.ErrUnbalancedEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			e.Lines = append([]domain.JournalLine(nil), base.Lines...)
			tt.mutate(&e)
			err := ledger.Validate(e, accounts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, ledger.IsValidationError(err))
		})
	}
}

func TestValidateUnbalancedMessageCarriesTotals(t *testing.T) {
	e := entry("e1", "2024-01-15", debit("bank", 10000), credit("equity", 9999))
	err := ledger.Validate(e, testAccounts())
	require.ErrorIs(t, err, ledger.ErrUnbalancedEntry)
	assert.Contains(t, err.Error(), "debits=10000")
	assert.Contains(t, err.Error(), "credits=9999")
}

func TestPostSeedScenario(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("e1", "2024-01-01", debit("bank", 100000), credit("equity", 100000)))
	state = mustPost(t, state, entry("e2", "2024-01-02", debit("expense", 12000), credit("bank", 12000)))

	assert.Equal(t, int64(88000), ledger.Balance(state, "bank"))
	assert.Equal(t, int64(12000), ledger.Balance(state, "expense"))
	assert.Equal(t, int64(-100000), ledger.Balance(state, "equity"))
	assertChainValid(t, state)
}

func TestPostBackdatedEntryRecomputesForward(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("jan1", "2024-01-01", debit("bank", 1000), credit("equity", 1000)))
	state = mustPost(t, state, entry("jan10", "2024-01-10", debit("expense", 200), credit("bank", 200)))

	// Before the backdated insert the Jan 10 line carries balance 800.
	lines := ledger.AccountLedger(state, "bank")
	require.Len(t, lines, 2)
	assert.Equal(t, int64(800), lines[1].BalanceCents)

	// Backdate an entry to Jan 5; the Jan 10 balance must shift to 700.
	state = mustPost(t, state, entry("jan5", "2024-01-05", debit("expense", 100), credit("bank", 100)))

	lines = ledger.AccountLedger(state, "bank")
	require.Len(t, lines, 3)
	assert.Equal(t, domain.Date("2024-01-01"), lines[0].Date)
	assert.Equal(t, domain.Date("2024-01-05"), lines[1].Date)
	assert.Equal(t, domain.Date("2024-01-10"), lines[2].Date)
	assert.Equal(t, int64(1000), lines[0].BalanceCents)
	assert.Equal(t, int64(900), lines[1].BalanceCents)
	assert.Equal(t, int64(700), lines[2].BalanceCents)
	assertChainValid(t, state)
}

func TestPostSameDayOrderingIsPreserved(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("1", "2024-03-01", debit("bank", 500), credit("equity", 500)))
	state = mustPost(t, state, entry("2", "2024-03-01", debit("bank", 300), credit("equity", 300)))

	lines := ledger.AccountLedger(state, "bank")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].EntryID)
	assert.Equal(t, "2", lines[1].EntryID)
	assert.Equal(t, int64(500), lines[0].BalanceCents)
	assert.Equal(t, int64(800), lines[1].BalanceCents)
}

func TestPostDuplicateEntryIDRejected(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("dup", "2024-01-01", debit("bank", 100), credit("equity", 100)))

	// Content differs but the id is taken; the post must fail loudly, never
	// silently succeed or no-op.
	_, err := ledger.Post(entry("dup", "2024-02-01", debit("expense", 50), credit("bank", 50)), state, testAccounts())
	require.ErrorIs(t, err, ledger.ErrDuplicateEntryID)

	assert.Equal(t, int64(100), ledger.Balance(state, "bank"))
	assert.Equal(t, int64(0), ledger.Balance(state, "expense"))
}

func TestPostFailureLeavesStateUntouched(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("e1", "2024-01-01", debit("bank", 100000), credit("equity", 100000)))

	_, err := ledger.Post(entry("bad", "2024-01-02", debit("expense", 10000), credit("bank", 9999)), state, testAccounts())
	require.ErrorIs(t, err, ledger.ErrUnbalancedEntry)

	assert.Equal(t, int64(100000), ledger.Balance(state, "bank"))
	assert.Equal(t, int64(0), ledger.Balance(state, "expense"))
	assert.Len(t, ledger.AccountLedger(state, "bank"), 1)
}

func TestPostDoesNotMutateInputState(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("e1", "2024-01-01", debit("bank", 1000), credit("equity", 1000)))

	before := ledger.AccountLedger(state, "bank")[0]
	next := mustPost(t, state, entry("e2", "2023-12-01", debit("bank", 400), credit("equity", 400)))

	assert.Len(t, ledger.AccountLedger(state, "bank"), 1)
	assert.Equal(t, before, ledger.AccountLedger(state, "bank")[0])
	assert.Len(t, ledger.AccountLedger(next, "bank"), 2)
}

func TestPostMultipleLinesSameAccount(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("split", "2024-01-01",
		debit("bank", 600),
		credit("revenue", 400),
		credit("revenue", 200),
	))

	lines := ledger.AccountLedger(state, "revenue")
	require.Len(t, lines, 2)
	assert.Equal(t, int64(-400), lines[0].BalanceCents)
	assert.Equal(t, int64(-600), lines[1].BalanceCents)
	assertChainValid(t, state)
}

func TestBalanceInvariantUnderArbitraryPostSequence(t *testing.T) {
	state := ledger.NewState()
	dates := []domain.Date{"2024-06-15", "2024-02-01", "2024-09-30", "2024-02-01", "2023-11-05", "2024-06-15"}
	for i, d := range dates {
		amount := int64((i + 1) * 137)
		state = mustPost(t, state, entry(fmt.Sprintf("seq-%d", i), d,
			debit("bank", amount), credit("revenue", amount)))
	}
	assertChainValid(t, state)
	assert.Equal(t, int64(137+274+411+548+685+822), ledger.Balance(state, "bank"))
}

func TestReplayMatchesIncrementalState(t *testing.T) {
	entries := []domain.JournalEntry{
		entry("r1", "2024-01-01", debit("bank", 100000), credit("equity", 100000)),
		entry("r2", "2024-03-01", debit("expense", 12000), credit("bank", 12000)),
		entry("r3", "2024-02-01", debit("ar", 5000), credit("revenue", 5000)),
	}

	incremental := ledger.NewState()
	for _, e := range entries {
		incremental = mustPost(t, incremental, e)
	}

	replayed, err := ledger.Replay(entries, testAccounts())
	require.NoError(t, err)
	assert.Equal(t, incremental, replayed)
}

func TestBalanceAsOf(t *testing.T) {
	state := ledger.NewState()
	state = mustPost(t, state, entry("e1", "2024-01-01", debit("bank", 1000), credit("equity", 1000)))
	state = mustPost(t, state, entry("e2", "2024-01-10", debit("expense", 200), credit("bank", 200)))

	assert.Equal(t, int64(0), ledger.BalanceAsOf(state, "bank", "2023-12-31"))
	assert.Equal(t, int64(1000), ledger.BalanceAsOf(state, "bank", "2024-01-01"))
	assert.Equal(t, int64(1000), ledger.BalanceAsOf(state, "bank", "2024-01-09"))
	assert.Equal(t, int64(800), ledger.BalanceAsOf(state, "bank", "2024-01-10"))
	assert.Equal(t, int64(800), ledger.BalanceAsOf(state, "bank", "2025-01-01"))
}
