package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	tenantID  string
	byCode    map[string]domain.Account
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.container, _ = newTestContainer()
	s.tenantID, s.byCode = seedTenant(s.T(), s.container)
}

func (s *AccountServiceTestSuite) TestCreateTenant_SeedsSystemChart() {
	s.Require().Len(s.byCode, 6)

	expected := map[string]domain.AccountType{
		domain.CodeBank:               domain.Asset,
		domain.CodeAccountsReceivable: domain.Asset,
		domain.CodeAccountsPayable:    domain.Liability,
		domain.CodeEquity:             domain.Equity,
		domain.CodeRevenue:            domain.Revenue,
		domain.CodeExpense:            domain.Expense,
	}
	for code, accountType := range expected {
		account, ok := s.byCode[code]
		s.Require().True(ok, "missing seeded account %s", code)
		s.Equal(accountType, account.Type)
		s.True(account.IsSystem)
	}
}

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	account, err := s.container.Account.CreateAccount(context.Background(), s.tenantID, dto.CreateAccountRequest{
		Code: "510",
		Name: "Travel",
		Type: "EXPENSE",
	})
	s.Require().NoError(err)
	s.Equal(domain.Expense, account.Type)
	s.False(account.IsSystem)
	s.NotEmpty(account.AccountID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCodeRejected() {
	_, err := s.container.Account.CreateAccount(context.Background(), s.tenantID, dto.CreateAccountRequest{
		Code: domain.CodeBank,
		Name: "Second bank",
		Type: "ASSET",
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestCreateAccount_SameCodeOtherTenantAllowed() {
	otherTenantID, _ := seedTenant(s.T(), s.container)

	// Each tenant seeds its own "100"; a fresh code is free per tenant.
	_, err := s.container.Account.CreateAccount(context.Background(), s.tenantID, dto.CreateAccountRequest{
		Code: "510", Name: "Travel", Type: "EXPENSE",
	})
	s.Require().NoError(err)
	_, err = s.container.Account.CreateAccount(context.Background(), otherTenantID, dto.CreateAccountRequest{
		Code: "510", Name: "Travel", Type: "EXPENSE",
	})
	s.Require().NoError(err)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnknownTenantRejected() {
	_, err := s.container.Account.CreateAccount(context.Background(), "no-such-tenant", dto.CreateAccountRequest{
		Code: "510", Name: "Travel", Type: "EXPENSE",
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestGetAccountByID_OtherTenantHidden() {
	otherTenantID, otherByCode := seedTenant(s.T(), s.container)
	s.Require().NotEqual(s.tenantID, otherTenantID)

	_, err := s.container.Account.GetAccountByID(context.Background(), s.tenantID, otherByCode[domain.CodeBank].AccountID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestArchiveAccount_SystemProtected() {
	err := s.container.Account.ArchiveAccount(context.Background(), s.tenantID, s.byCode[domain.CodeBank].AccountID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *AccountServiceTestSuite) TestArchiveAccount_HiddenFromDefaultListing() {
	ctx := context.Background()

	account, err := s.container.Account.CreateAccount(ctx, s.tenantID, dto.CreateAccountRequest{
		Code: "520", Name: "Meals", Type: "EXPENSE",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.container.Account.ArchiveAccount(ctx, s.tenantID, account.AccountID))
	// Archiving twice is a no-op.
	s.Require().NoError(s.container.Account.ArchiveAccount(ctx, s.tenantID, account.AccountID))

	active, err := s.container.Account.ListAccounts(ctx, s.tenantID, false)
	s.Require().NoError(err)
	for _, a := range active {
		s.NotEqual(account.AccountID, a.AccountID)
	}

	all, err := s.container.Account.ListAccounts(ctx, s.tenantID, true)
	s.Require().NoError(err)
	s.Len(all, len(active)+1)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
