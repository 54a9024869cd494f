// Package store persists the reservation ledger and the sales journal as
// whole-document snapshots.
package store

import (
	"context"

	"github.com/talari-hunar/boxoffice/internal/domain"
)

// Store reads and writes the ledger and journal documents. Loads on a missing
// backing resource return the zero value with a nil error; a malformed
// document is logged and degraded to the zero value, since failing to start
// is worse than starting empty. Save failures are surfaced to the caller.
type Store interface {
	LoadLedger(ctx context.Context) (map[string][]string, error)
	SaveLedger(ctx context.Context, doc map[string][]string) error
	LoadJournal(ctx context.Context) ([]domain.Sale, error)
	SaveJournal(ctx context.Context, sales []domain.Sale) error
}
