package repositories

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/core/ledger"
)

// PostFunc runs the pure engine over the freshly loaded sequences of the
// accounts an entry touches and returns the recomputed state. SaveEntry
// implementations invoke it inside their critical section so the
// read-modify-write cannot interleave with another post on the same account.
type PostFunc func(state ledger.State) (ledger.State, error)

// LedgerRepository stores journal entries and the materialized per-account
// ledger line sequences the engine maintains.
//
// Consistency contract: SaveEntry owns the entire read-modify-write of a
// post. It serializes on the accounts named by the entry's lines, loads
// their committed sequences, runs the engine via post, and commits the entry,
// its lines, and every recomputed sequence as a single atomic unit. Posts
// touching disjoint accounts may proceed independently. Readers only ever
// observe fully committed posts.
type LedgerRepository interface {
	// SaveEntry posts the entry: under per-account serialization it loads the
	// touched accounts' sequences, calls post over them, and atomically
	// persists the entry together with the recomputed sequences (each
	// sequence replaces the stored one wholesale). Errors from post are
	// returned unchanged with nothing persisted. A duplicate entry id
	// anywhere in the tenant's history fails with apperrors.ErrDuplicate,
	// never a silent no-op; the duplicate check runs after post so
	// validation errors keep their precedence.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, post PostFunc) error

	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID string) ([]domain.JournalEntry, error)

	// AccountLines returns the materialized sequence for one account in
	// canonical order (date, then insertion order within a day).
	AccountLines(ctx context.Context, accountID string) ([]domain.LedgerLine, error)

	// StateForTenant loads the full materialized state of a tenant's books;
	// the reporting layer derives every report from this.
	StateForTenant(ctx context.Context, tenantID string) (ledger.State, error)
}
