package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// ledgerService orchestrates posting: it builds the entry and hands the pure
// engine run to the repository, which executes it over freshly loaded state
// inside its critical section and commits the recomputed sequences
// atomically. Validation failures abort the post before anything is written.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepository
	accountSvc portssvc.AccountSvcFacade
}

// NewLedgerService creates the posting service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		accountSvc: accountSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostEntry validates and applies a journal entry. The entry id is the
// idempotency key: a retry after an infrastructure failure is safe because a
// committed id is rejected as a duplicate rather than double-posted. The
// engine run happens inside the repository's SaveEntry critical section, so
// concurrent posts to the same account see each other's recomputed sequences
// instead of clobbering them.
func (s *ledgerService) PostEntry(ctx context.Context, tenantID string, req dto.PostEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountsByID, err := s.accountSvc.AccountsByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}

	entryID := req.EntryID
	if entryID == "" {
		entryID = uuid.NewString()
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		debitCents, creditCents, err := lineReq.Cents()
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ledger.ErrInvalidAmount, i, err)
		}
		lines[i] = domain.JournalLine{
			AccountID:   lineReq.AccountID,
			DebitCents:  debitCents,
			CreditCents: creditCents,
			Memo:        lineReq.Memo,
		}
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		Date:        domain.Date(req.Date),
		Description: req.Description,
		Lines:       lines,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.ledgerRepo.SaveEntry(ctx, entry, func(state ledger.State) (ledger.State, error) {
		return ledger.Post(entry, state, accountsByID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ledger.ErrDuplicateEntryID, entryID)
		}
		if ledger.IsValidationError(err) {
			logger.Warn("Journal entry rejected", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			return nil, err
		}
		logger.Error("Failed to save journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("tenant_id", tenantID),
		slog.String("date", string(entry.Date)),
		slog.Int("line_count", len(entry.Lines)))
	return &entry, nil
}

// GetEntry retrieves a posted entry with its lines.
func (s *ledgerService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries lists a tenant's posted entries.
func (s *ledgerService) ListEntries(ctx context.Context, tenantID string) ([]domain.JournalEntry, error) {
	entries, err := s.ledgerRepo.ListEntries(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// GetBalance returns the account's current balance in cents, 0 for an
// account with no activity.
func (s *ledgerService) GetBalance(ctx context.Context, tenantID, accountID string) (int64, error) {
	lines, err := s.GetAccountLedger(ctx, tenantID, accountID)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}
	return lines[len(lines)-1].BalanceCents, nil
}

// GetAccountLedger returns the account's materialized line sequence in
// canonical order.
func (s *ledgerService) GetAccountLedger(ctx context.Context, tenantID, accountID string) ([]domain.LedgerLine, error) {
	// Resolving through the account service enforces tenant ownership.
	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	lines, err := s.ledgerRepo.AccountLines(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for account %s: %w", accountID, err)
	}
	if lines == nil {
		lines = []domain.LedgerLine{}
	}
	return lines, nil
}
