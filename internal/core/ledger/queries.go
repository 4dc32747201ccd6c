package ledger

import (
	"sort"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// TrialBalance derives the trial balance from ending balances: positive raw
// balances land in the debit column, negative in the credit column. Rows are
// sorted by account code. The report layer does not need to know an account's
// normal side; it just buckets by sign.
func TrialBalance(state State, accountsByID map[string]domain.Account) []domain.TrialBalanceRow {
	rows := make([]domain.TrialBalanceRow, 0, len(accountsByID))
	for _, account := range accountsByID {
		balance := Balance(state, account.AccountID)
		row := domain.TrialBalanceRow{
			AccountID: account.AccountID,
			Code:      account.Code,
			Name:      account.Name,
		}
		if balance > 0 {
			row.DebitCents = balance
		} else if balance < 0 {
			row.CreditCents = -balance
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows
}

// ProfitAndLoss sums debit-credit movement per revenue/expense account over
// [start, end] inclusive. Revenue accounts are credit-normal, so their net
// movement is sign-flipped for display. Accounts with no lines in the period
// are omitted.
func ProfitAndLoss(state State, accountsByID map[string]domain.Account, start, end domain.Date) *domain.PLReport {
	report := &domain.PLReport{
		Start:    start,
		End:      end,
		Revenue:  []domain.PLRow{},
		Expenses: []domain.PLRow{},
	}

	for _, account := range accountsByID {
		if account.Type != domain.Revenue && account.Type != domain.Expense {
			continue
		}
		var net int64
		touched := false
		for _, line := range state[account.AccountID] {
			if line.Date.Before(start) || line.Date.After(end) {
				continue
			}
			net += line.DebitCents - line.CreditCents
			touched = true
		}
		if !touched {
			continue
		}
		row := domain.PLRow{
			AccountID: account.AccountID,
			Code:      account.Code,
			Name:      account.Name,
		}
		if account.Type == domain.Revenue {
			row.AmountCents = -net
			report.Revenue = append(report.Revenue, row)
			report.TotalRevenueCents += row.AmountCents
		} else {
			row.AmountCents = net
			report.Expenses = append(report.Expenses, row)
			report.TotalExpensesCents += row.AmountCents
		}
	}

	sortPLRows(report.Revenue)
	sortPLRows(report.Expenses)
	report.NetProfitCents = report.TotalRevenueCents - report.TotalExpensesCents
	return report
}

func sortPLRows(rows []domain.PLRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
}

// BalanceSheet derives the statement of financial position as of a date. Each
// account's balance is that of its latest line dated on or before asOf.
// Liability and equity balances are sign-flipped for display. Lifetime net
// income is the retained-earnings plug derived from the accounting identity
// Assets = Liabilities + Equity + LifetimeNetIncome; it is included in
// TotalEquityCents so that the identity holds for report consumers, who
// should verify it as a data-integrity check rather than assume it.
func BalanceSheet(state State, accountsByID map[string]domain.Account, asOf domain.Date) *domain.BalanceSheetReport {
	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Assets:      []domain.BalanceSheetRow{},
		Liabilities: []domain.BalanceSheetRow{},
		Equity:      []domain.BalanceSheetRow{},
	}

	var rawEquity, rawPL int64
	for _, account := range accountsByID {
		balance := BalanceAsOf(state, account.AccountID, asOf)
		row := domain.BalanceSheetRow{
			AccountID: account.AccountID,
			Code:      account.Code,
			Name:      account.Name,
		}
		switch account.Type {
		case domain.Asset:
			report.TotalAssetsCents += balance
			if balance != 0 {
				row.BalanceCents = balance
				report.Assets = append(report.Assets, row)
			}
		case domain.Liability:
			report.TotalLiabilitiesCents += -balance
			if balance != 0 {
				row.BalanceCents = -balance
				report.Liabilities = append(report.Liabilities, row)
			}
		case domain.Equity:
			rawEquity += balance
			if balance != 0 {
				row.BalanceCents = -balance
				report.Equity = append(report.Equity, row)
			}
		case domain.Revenue, domain.Expense:
			rawPL += balance
		}
	}

	sortBalanceSheetRows(report.Assets)
	sortBalanceSheetRows(report.Liabilities)
	sortBalanceSheetRows(report.Equity)

	report.LifetimeNetIncomeCents = -rawPL
	report.TotalEquityCents = -rawEquity + report.LifetimeNetIncomeCents
	return report
}

func sortBalanceSheetRows(rows []domain.BalanceSheetRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
}
