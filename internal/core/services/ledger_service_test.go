package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks/internal/adapters/database/memory"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/services"
	"github.com/finbooks/finbooks/internal/dto"
)

// newTestContainer wires the full service stack over a fresh in-memory store.
func newTestContainer() (*portssvc.ServiceContainer, *memory.Store) {
	store := memory.NewStore()
	container := services.NewServiceContainer(services.RepositoryProvider{
		Tenant:  store,
		Account: store,
		Ledger:  store,
		Invoice: store,
		Bill:    store,
		Banking: store,
	})
	return container, store
}

// seedTenant creates a tenant with its system chart and returns the tenant id
// and the chart keyed by code.
func seedTenant(t *testing.T, container *portssvc.ServiceContainer) (string, map[string]domain.Account) {
	t.Helper()
	ctx := context.Background()

	tenant, err := container.Tenant.CreateTenant(ctx, dto.CreateTenantRequest{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	accounts, err := container.Account.ListAccounts(ctx, tenant.TenantID, false)
	if err != nil {
		t.Fatalf("list seeded accounts: %v", err)
	}
	byCode := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		byCode[account.Code] = account
	}
	return tenant.TenantID, byCode
}

type LedgerServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	tenantID  string
	byCode    map[string]domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.container, _ = newTestContainer()
	s.tenantID, s.byCode = seedTenant(s.T(), s.container)
}

func (s *LedgerServiceTestSuite) postEntry(req dto.PostEntryRequest) (*domain.JournalEntry, error) {
	return s.container.Ledger.PostEntry(context.Background(), s.tenantID, req)
}

func (s *LedgerServiceTestSuite) balance(code string) int64 {
	balance, err := s.container.Ledger.GetBalance(context.Background(), s.tenantID, s.byCode[code].AccountID)
	s.Require().NoError(err)
	return balance
}

func (s *LedgerServiceTestSuite) TestPostEntry_UpdatesBalances() {
	entry, err := s.postEntry(dto.PostEntryRequest{
		Date:        "2025-03-01",
		Description: "Owner investment",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitCents: 100000},
			{AccountID: s.byCode[domain.CodeEquity].AccountID, CreditCents: 100000},
		},
	})
	s.Require().NoError(err)
	s.NotEmpty(entry.EntryID)

	s.Equal(int64(100000), s.balance(domain.CodeBank))
	s.Equal(int64(-100000), s.balance(domain.CodeEquity))
}

func (s *LedgerServiceTestSuite) TestPostEntry_UnbalancedRejectedWithoutSideEffects() {
	_, err := s.postEntry(dto.PostEntryRequest{
		Date:        "2025-03-01",
		Description: "Broken",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitCents: 100},
			{AccountID: s.byCode[domain.CodeEquity].AccountID, CreditCents: 99},
		},
	})
	s.Require().Error(err)
	s.True(ledger.IsValidationError(err))
	s.ErrorIs(err, ledger.ErrUnbalancedEntry)
	s.Contains(err.Error(), "100")
	s.Contains(err.Error(), "99")

	s.Equal(int64(0), s.balance(domain.CodeBank))

	entries, err := s.container.Ledger.ListEntries(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *LedgerServiceTestSuite) TestPostEntry_UnknownAccountRejected() {
	_, err := s.postEntry(dto.PostEntryRequest{
		Date:        "2025-03-01",
		Description: "Bad account",
		Lines: []dto.EntryLineRequest{
			{AccountID: "no-such-account", DebitCents: 100},
			{AccountID: s.byCode[domain.CodeEquity].AccountID, CreditCents: 100},
		},
	})
	s.Require().Error(err)
	s.ErrorIs(err, ledger.ErrUnknownAccount)
}

func (s *LedgerServiceTestSuite) TestPostEntry_DuplicateIDRejected() {
	req := dto.PostEntryRequest{
		EntryID:     "idempotency-key-1",
		Date:        "2025-03-01",
		Description: "First",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitCents: 5000},
			{AccountID: s.byCode[domain.CodeEquity].AccountID, CreditCents: 5000},
		},
	}
	_, err := s.postEntry(req)
	s.Require().NoError(err)

	_, err = s.postEntry(req)
	s.Require().Error(err)
	s.ErrorIs(err, ledger.ErrDuplicateEntryID)

	// First post stands untouched.
	s.Equal(int64(5000), s.balance(domain.CodeBank))
}

func (s *LedgerServiceTestSuite) TestPostEntry_BackdatedRecomputesRunningBalances() {
	bank := s.byCode[domain.CodeBank].AccountID
	equity := s.byCode[domain.CodeEquity].AccountID

	_, err := s.postEntry(dto.PostEntryRequest{
		Date: "2025-01-01", Description: "Opening",
		Lines: []dto.EntryLineRequest{
			{AccountID: bank, DebitCents: 1000},
			{AccountID: equity, CreditCents: 1000},
		},
	})
	s.Require().NoError(err)

	_, err = s.postEntry(dto.PostEntryRequest{
		Date: "2025-01-10", Description: "Later withdrawal",
		Lines: []dto.EntryLineRequest{
			{AccountID: equity, DebitCents: 200},
			{AccountID: bank, CreditCents: 200},
		},
	})
	s.Require().NoError(err)

	// Backdated between the two.
	_, err = s.postEntry(dto.PostEntryRequest{
		Date: "2025-01-05", Description: "Backdated withdrawal",
		Lines: []dto.EntryLineRequest{
			{AccountID: equity, DebitCents: 100},
			{AccountID: bank, CreditCents: 100},
		},
	})
	s.Require().NoError(err)

	lines, err := s.container.Ledger.GetAccountLedger(context.Background(), s.tenantID, bank)
	s.Require().NoError(err)
	s.Require().Len(lines, 3)

	s.Equal(domain.Date("2025-01-01"), lines[0].Date)
	s.Equal(int64(1000), lines[0].BalanceCents)
	s.Equal(domain.Date("2025-01-05"), lines[1].Date)
	s.Equal(int64(900), lines[1].BalanceCents)
	s.Equal(domain.Date("2025-01-10"), lines[2].Date)
	s.Equal(int64(700), lines[2].BalanceCents)
}

func (s *LedgerServiceTestSuite) TestGetAccountLedger_OtherTenantHidden() {
	otherTenantID, otherByCode := seedTenant(s.T(), s.container)
	s.Require().NotEqual(s.tenantID, otherTenantID)

	_, err := s.container.Ledger.GetAccountLedger(context.Background(), s.tenantID, otherByCode[domain.CodeBank].AccountID)
	s.Require().Error(err)
}

func (s *LedgerServiceTestSuite) TestGetBalance_NoActivityIsZero() {
	s.Equal(int64(0), s.balance(domain.CodeRevenue))
}

func (s *LedgerServiceTestSuite) TestGetEntry_RoundTrip() {
	posted, err := s.postEntry(dto.PostEntryRequest{
		EntryID: "entry-42", Date: "2025-02-02", Description: "Round trip",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitCents: 1234, Memo: "in"},
			{AccountID: s.byCode[domain.CodeRevenue].AccountID, CreditCents: 1234},
		},
	})
	s.Require().NoError(err)

	fetched, err := s.container.Ledger.GetEntry(context.Background(), s.tenantID, posted.EntryID)
	s.Require().NoError(err)
	s.Equal("Round trip", fetched.Description)
	s.Require().Len(fetched.Lines, 2)
	s.Equal("in", fetched.Lines[0].Memo)
}

func (s *LedgerServiceTestSuite) TestPostEntry_ValidationPrecedesDuplicateCheck() {
	req := dto.PostEntryRequest{
		EntryID:     "entry-7",
		Date:        "2025-03-01",
		Description: "Original",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitCents: 1000},
			{AccountID: s.byCode[domain.CodeEquity].AccountID, CreditCents: 1000},
		},
	}
	_, err := s.postEntry(req)
	s.Require().NoError(err)

	// An unbalanced retry of the same id fails on the balance check, not the
	// idempotency check.
	req.Lines[1].CreditCents = 999
	_, err = s.postEntry(req)
	s.Require().Error(err)
	s.ErrorIs(err, ledger.ErrUnbalancedEntry)
	s.NotErrorIs(err, ledger.ErrDuplicateEntryID)
}

func (s *LedgerServiceTestSuite) TestPostEntry_ConcurrentSameAccountAllMaterialize() {
	const posts = 50
	bank := s.byCode[domain.CodeBank].AccountID
	equity := s.byCode[domain.CodeEquity].AccountID

	var wg sync.WaitGroup
	errs := make(chan error, posts)
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.postEntry(dto.PostEntryRequest{
				Date:        "2025-06-01",
				Description: fmt.Sprintf("deposit %d", i),
				Lines: []dto.EntryLineRequest{
					{AccountID: bank, DebitCents: 100},
					{AccountID: equity, CreditCents: 100},
				},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	// Every committed entry must survive in the materialized sequence: a post
	// that lost a race may never overwrite another post's ledger line.
	lines, err := s.container.Ledger.GetAccountLedger(context.Background(), s.tenantID, bank)
	s.Require().NoError(err)
	s.Len(lines, posts)
	s.Equal(int64(posts*100), s.balance(domain.CodeBank))

	entries, err := s.container.Ledger.ListEntries(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Len(entries, posts)
}

func (s *LedgerServiceTestSuite) TestPostEntry_DecimalAmounts() {
	_, err := s.postEntry(dto.PostEntryRequest{
		Date:        "2025-02-01",
		Description: "Decimal boundary",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitAmount: "1200.50"},
			{AccountID: s.byCode[domain.CodeRevenue].AccountID, CreditAmount: "1200.50"},
		},
	})
	s.Require().NoError(err)
	s.Equal(int64(120050), s.balance(domain.CodeBank))
}

func (s *LedgerServiceTestSuite) TestPostEntry_SubCentAmountRejected() {
	_, err := s.postEntry(dto.PostEntryRequest{
		Date:        "2025-02-01",
		Description: "Sub-cent",
		Lines: []dto.EntryLineRequest{
			{AccountID: s.byCode[domain.CodeBank].AccountID, DebitAmount: "10.005"},
			{AccountID: s.byCode[domain.CodeRevenue].AccountID, CreditAmount: "10.005"},
		},
	})
	s.Require().Error(err)
	s.ErrorIs(err, ledger.ErrInvalidAmount)
	s.Equal(int64(0), s.balance(domain.CodeBank))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
