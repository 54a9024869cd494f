// Package coordinator sequences every state change of the reservation core:
// validate, mutate the ledger or journal, persist the changed document, then
// broadcast. A mutation is never announced unless it was durably saved.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/talari-hunar/boxoffice/internal/domain"
	"github.com/talari-hunar/boxoffice/internal/hub"
	"github.com/talari-hunar/boxoffice/internal/journal"
	"github.com/talari-hunar/boxoffice/internal/ledger"
	"github.com/talari-hunar/boxoffice/internal/monitoring"
	"github.com/talari-hunar/boxoffice/internal/status"
	"github.com/talari-hunar/boxoffice/internal/store"
	"github.com/talari-hunar/boxoffice/internal/venue"
)

// Event names pushed to live viewers.
const (
	EventSeatsReserved = "seatsReserved"
	EventSeatsCleared  = "seatsCleared"
	EventSeatFreed     = "seatFreed"
	EventSalesUpdated  = "salesUpdated"
)

// UseCase is the operation surface the HTTP layer drives.
type UseCase interface {
	ReservedSeats(venueID string) ([]string, error)
	ReserveSeats(ctx context.Context, venueID string, seatIDs []string) ([]string, error)
	ReleaseSeats(ctx context.Context, venueID string) error
	ListSales() []domain.Sale
	RecordSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
	DeleteTicket(ctx context.Context, saleID, ticketID string) (*domain.Sale, domain.Ticket, error)
	ResetAll(ctx context.Context) error
	Report() domain.SalesReport
}

// Publisher is the in-process fan-out (the hub).
type Publisher interface {
	Publish(event string, data any)
}

// EventProducer mirrors envelopes to an external broker, best effort.
type EventProducer interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Option func(*Coordinator)

// WithEventMirror forwards every published envelope to the given topic.
func WithEventMirror(producer EventProducer, topic string) Option {
	return func(c *Coordinator) {
		c.mirror = producer
		c.mirrorTopic = topic
	}
}

// WithVenueResolver overrides how a ticket's venue name is translated into
// the ledger's venueId key.
func WithVenueResolver(resolve func(venueName string) string) Option {
	return func(c *Coordinator) {
		c.resolveVenue = resolve
	}
}

// WithSaveTimeout bounds each document save.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.saveTimeout = d
	}
}

// Coordinator owns the ledger, journal, store and hub. The ledger and journal
// documents are independent; each has its own mutex serializing the
// mutate-then-persist sequence so a document is never written concurrently
// with itself. Operations touching both lock journal first, then ledger.
type Coordinator struct {
	ledger  *ledger.Ledger
	journal *journal.Journal
	store   store.Store
	hub     Publisher
	logger  *logrus.Logger

	mirror       EventProducer
	mirrorTopic  string
	resolveVenue func(string) string
	saveTimeout  time.Duration

	ledgerMu  sync.Mutex
	journalMu sync.Mutex
}

// New builds a coordinator and loads both documents from the store once, at
// construction, so concurrent first requests never race on initialization.
func New(ctx context.Context, st store.Store, pub Publisher, logger *logrus.Logger, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		ledger:  ledger.New(),
		journal: journal.New(),
		store:   st,
		hub:     pub,
		logger:  logger,
		resolveVenue: func(name string) string {
			return venue.Layout(name).VenueID
		},
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	ledgerDoc, err := st.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	c.ledger.Restore(ledgerDoc)

	sales, err := st.LoadJournal(ctx)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	c.journal.Restore(sales)

	logger.WithFields(logrus.Fields{
		"venues": len(ledgerDoc),
		"sales":  len(sales),
	}).Info("reservation state loaded")
	return c, nil
}

// ReservedSeats returns the current reserved set for one venue.
func (c *Coordinator) ReservedSeats(venueID string) ([]string, error) {
	if venueID == "" {
		return nil, fmt.Errorf("%w: venueId is required", status.ErrInvalidArgument)
	}
	return c.ledger.Reserved(venueID), nil
}

// ReserveSeats adds seats to a venue's reserved set and returns the updated
// set. A fully idempotent repeat (nothing newly added) skips both persistence
// and broadcast.
func (c *Coordinator) ReserveSeats(ctx context.Context, venueID string, seatIDs []string) ([]string, error) {
	if venueID == "" {
		return nil, c.track("reserveSeats", fmt.Errorf("%w: venueId is required", status.ErrInvalidArgument))
	}
	if seatIDs == nil {
		return nil, c.track("reserveSeats", fmt.Errorf("%w: seatIds array is required", status.ErrInvalidArgument))
	}

	c.ledgerMu.Lock()
	defer c.ledgerMu.Unlock()

	added, current := c.ledger.Reserve(venueID, seatIDs)
	if len(added) == 0 {
		c.track("reserveSeats", nil)
		return current, nil
	}

	if err := c.persistLedger(ctx); err != nil {
		c.ledger.Release(venueID, added)
		return nil, c.track("reserveSeats", err)
	}

	c.publish(ctx, EventSeatsReserved, map[string]any{"venueId": venueID, "seatIds": seatIDs})
	c.track("reserveSeats", nil)
	return current, nil
}

// ReleaseSeats clears one venue's reserved set, or every venue's when venueID
// is empty. Clearing something already empty is a no-op.
func (c *Coordinator) ReleaseSeats(ctx context.Context, venueID string) error {
	c.ledgerMu.Lock()
	defer c.ledgerMu.Unlock()

	prev := c.ledger.Snapshot()
	var changed bool
	var payload map[string]any
	if venueID == "" {
		changed = c.ledger.ClearAll()
		payload = map[string]any{"all": true}
	} else {
		changed = c.ledger.Clear(venueID)
		payload = map[string]any{"venueId": venueID}
	}
	if !changed {
		c.track("releaseSeats", nil)
		return nil
	}

	if err := c.persistLedger(ctx); err != nil {
		c.ledger.Restore(prev)
		return c.track("releaseSeats", err)
	}

	c.publish(ctx, EventSeatsCleared, payload)
	c.track("releaseSeats", nil)
	return nil
}

// ListSales returns the journal snapshot in insertion order.
func (c *Coordinator) ListSales() []domain.Sale {
	return c.journal.List()
}

// Report aggregates the journal into the sales report.
func (c *Coordinator) Report() domain.SalesReport {
	return c.journal.Report()
}

// RecordSale appends a completed sale and broadcasts the full sale list.
func (c *Coordinator) RecordSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if sale.ID == "" || len(sale.Tickets) == 0 || sale.ConcertID == "" {
		return domain.Sale{}, c.track("recordSale", fmt.Errorf("%w: sale id, tickets and concertId are required", status.ErrInvalidArgument))
	}

	c.journalMu.Lock()
	defer c.journalMu.Unlock()

	prev := c.journal.Snapshot()
	if err := c.journal.Record(sale); err != nil {
		return domain.Sale{}, c.track("recordSale", err)
	}

	if err := c.persistJournal(ctx); err != nil {
		c.journal.Restore(prev)
		return domain.Sale{}, c.track("recordSale", err)
	}

	c.publish(ctx, EventSalesUpdated, map[string]any{"sales": c.journal.List()})
	c.track("recordSale", nil)
	return sale, nil
}

// DeleteTicket removes one ticket from a sale, deleting the sale once its
// ticket list is empty, and releases the ticket's seat (if any) for the
// venue the ticket was sold for. It returns the remaining sale (nil when the
// sale was deleted) and the removed ticket.
func (c *Coordinator) DeleteTicket(ctx context.Context, saleID, ticketID string) (*domain.Sale, domain.Ticket, error) {
	if saleID == "" || ticketID == "" {
		return nil, domain.Ticket{}, c.track("deleteTicket", fmt.Errorf("%w: saleId and ticketId are required", status.ErrInvalidArgument))
	}

	c.journalMu.Lock()
	defer c.journalMu.Unlock()
	c.ledgerMu.Lock()
	defer c.ledgerMu.Unlock()

	prevJournal := c.journal.Snapshot()
	prevLedger := c.ledger.Snapshot()

	ticket, saleDeleted, err := c.journal.RemoveTicket(saleID, ticketID)
	if err != nil {
		return nil, domain.Ticket{}, c.track("deleteTicket", err)
	}

	seatFreed := false
	var seatVenueID string
	if ticket.Seat != nil && ticket.Seat.ID != "" {
		seatVenueID = c.resolveVenue(ticket.Concert.Venue)
		seatFreed = c.ledger.Release(seatVenueID, []string{ticket.Seat.ID}) > 0
	}

	if err := c.persistJournal(ctx); err != nil {
		c.journal.Restore(prevJournal)
		c.ledger.Restore(prevLedger)
		return nil, domain.Ticket{}, c.track("deleteTicket", err)
	}
	if seatFreed {
		if err := c.persistLedger(ctx); err != nil {
			c.journal.Restore(prevJournal)
			c.ledger.Restore(prevLedger)
			// the journal document was already written without the ticket;
			// write the restored snapshot back so disk matches memory
			if rerr := c.persistJournal(ctx); rerr != nil {
				c.logger.WithError(rerr).Error("rewrite journal after rollback")
			}
			return nil, domain.Ticket{}, c.track("deleteTicket", err)
		}
		c.publish(ctx, EventSeatFreed, map[string]any{"venueId": seatVenueID, "seatId": ticket.Seat.ID})
	}
	c.publish(ctx, EventSalesUpdated, map[string]any{"sales": c.journal.List()})

	var remaining *domain.Sale
	if !saleDeleted {
		for _, s := range c.journal.List() {
			if s.ID == saleID {
				sale := s
				remaining = &sale
				break
			}
		}
	}
	c.track("deleteTicket", nil)
	return remaining, ticket, nil
}

// ResetAll clears the journal and the ledger, persists both and announces the
// empty state.
func (c *Coordinator) ResetAll(ctx context.Context) error {
	c.journalMu.Lock()
	defer c.journalMu.Unlock()
	c.ledgerMu.Lock()
	defer c.ledgerMu.Unlock()

	prevJournal := c.journal.Snapshot()
	prevLedger := c.ledger.Snapshot()

	journalChanged := c.journal.ClearAll()
	ledgerChanged := c.ledger.ClearAll()
	if !journalChanged && !ledgerChanged {
		c.track("resetAll", nil)
		return nil
	}

	if journalChanged {
		if err := c.persistJournal(ctx); err != nil {
			c.journal.Restore(prevJournal)
			c.ledger.Restore(prevLedger)
			return c.track("resetAll", err)
		}
	}
	if ledgerChanged {
		if err := c.persistLedger(ctx); err != nil {
			c.journal.Restore(prevJournal)
			c.ledger.Restore(prevLedger)
			return c.track("resetAll", err)
		}
	}

	c.publish(ctx, EventSalesUpdated, map[string]any{"sales": []domain.Sale{}})
	c.publish(ctx, EventSeatsCleared, map[string]any{"all": true})
	c.track("resetAll", nil)
	return nil
}

// persistLedger writes the full ledger document. The save outlives the
// originating request: other sellers depend on the side effect, so a client
// disconnect must not abort it.
func (c *Coordinator) persistLedger(ctx context.Context) error {
	saveCtx, cancel := c.saveContext(ctx)
	defer cancel()
	if err := c.store.SaveLedger(saveCtx, c.ledger.Snapshot()); err != nil {
		monitoring.PersistenceFailure()
		c.logger.WithError(err).Error("save ledger")
		return fmt.Errorf("%w: %v", status.ErrPersistenceFailed, err)
	}
	return nil
}

func (c *Coordinator) persistJournal(ctx context.Context) error {
	saveCtx, cancel := c.saveContext(ctx)
	defer cancel()
	if err := c.store.SaveJournal(saveCtx, c.journal.Snapshot()); err != nil {
		monitoring.PersistenceFailure()
		c.logger.WithError(err).Error("save journal")
		return fmt.Errorf("%w: %v", status.ErrPersistenceFailed, err)
	}
	return nil
}

func (c *Coordinator) saveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.saveTimeout)
}

func (c *Coordinator) publish(ctx context.Context, event string, data any) {
	c.hub.Publish(event, data)

	if c.mirror == nil || c.mirrorTopic == "" {
		return
	}
	mirrorCtx, cancel := c.saveContext(ctx)
	defer cancel()
	envelope := hub.Envelope{Event: event, Data: data}
	if err := c.mirror.Publish(mirrorCtx, c.mirrorTopic, event, envelope); err != nil {
		c.logger.WithError(err).WithField("event", event).Warn("mirror publish failed")
	}
}

var _ UseCase = (*Coordinator)(nil)

func (c *Coordinator) track(operation string, err error) error {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, status.ErrInvalidArgument):
		outcome = "invalid_argument"
	case errors.Is(err, status.ErrDuplicateSale):
		outcome = "duplicate"
	case errors.Is(err, status.ErrSaleNotFound), errors.Is(err, status.ErrTicketNotFound):
		outcome = "not_found"
	case errors.Is(err, status.ErrPersistenceFailed):
		outcome = "persistence_failed"
	default:
		outcome = "error"
	}
	monitoring.TrackOperation(operation, outcome)
	return err
}
