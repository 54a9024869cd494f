// Package journal holds the in-memory record of completed sales. It owns the
// duplicate-sale rule and the ticket-removal bookkeeping; persistence and
// broadcast belong to the coordinator.
package journal

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/talari-hunar/boxoffice/internal/domain"
	"github.com/talari-hunar/boxoffice/internal/status"
)

// Journal is an insertion-ordered collection of sales, unique by sale id.
type Journal struct {
	mu    sync.RWMutex
	sales []domain.Sale
}

func New() *Journal {
	return &Journal{}
}

// Record appends a sale. A sale is a duplicate when an existing sale has the
// same id or the same (bookingReference, saleDate, adminId) triple; duplicates
// are rejected with ErrDuplicateSale and leave the journal unchanged.
func (j *Journal) Record(sale domain.Sale) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, existing := range j.sales {
		if existing.ID == sale.ID ||
			(existing.BookingReference == sale.BookingReference &&
				existing.SaleDate == sale.SaleDate &&
				existing.AdminID == sale.AdminID) {
			return fmt.Errorf("%w: id %s", status.ErrDuplicateSale, sale.ID)
		}
	}
	j.sales = append(j.sales, copySale(sale))
	return nil
}

// List returns a full snapshot in insertion order. Report consumers re-sort
// by timestamp themselves; the journal never reorders.
func (j *Journal) List() []domain.Sale {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return copySales(j.sales)
}

// RemoveTicket deletes one ticket from a sale, decrements the sale's total by
// that ticket's price and drops the sale entirely once its ticket list is
// empty. It returns the removed ticket and whether the parent sale was
// deleted, so the caller can decide to release the ticket's seat.
func (j *Journal) RemoveTicket(saleID, ticketID string) (domain.Ticket, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	saleIdx := -1
	for i := range j.sales {
		if j.sales[i].ID == saleID {
			saleIdx = i
			break
		}
	}
	if saleIdx == -1 {
		return domain.Ticket{}, false, fmt.Errorf("%w: %s", status.ErrSaleNotFound, saleID)
	}

	sale := &j.sales[saleIdx]
	ticketIdx := -1
	for i := range sale.Tickets {
		if sale.Tickets[i].ID == ticketID {
			ticketIdx = i
			break
		}
	}
	if ticketIdx == -1 {
		return domain.Ticket{}, false, fmt.Errorf("%w: %s", status.ErrTicketNotFound, ticketID)
	}

	ticket := copyTicket(sale.Tickets[ticketIdx])
	sale.Tickets = append(sale.Tickets[:ticketIdx], sale.Tickets[ticketIdx+1:]...)
	sale.TotalAmount = sale.TotalAmount.Sub(ticket.Price)

	if len(sale.Tickets) == 0 {
		j.sales = append(j.sales[:saleIdx], j.sales[saleIdx+1:]...)
		return ticket, true, nil
	}
	return ticket, false, nil
}

// ClearAll empties the journal and reports whether anything was removed.
func (j *Journal) ClearAll() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.sales) == 0 {
		return false
	}
	j.sales = nil
	return true
}

// Snapshot returns the journal in its persisted document form. Never nil, so
// the empty journal persists as an empty array.
func (j *Journal) Snapshot() []domain.Sale {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return copySales(j.sales)
}

// Restore replaces the journal content with a persisted document.
func (j *Journal) Restore(sales []domain.Sale) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sales = copySales(sales)
	if len(j.sales) == 0 {
		j.sales = nil
	}
}

// Report aggregates the current snapshot: ticket counts and revenue, total
// and grouped by seller location and by concert. Single pass, no mutation.
func (j *Journal) Report() domain.SalesReport {
	j.mu.RLock()
	defer j.mu.RUnlock()

	report := domain.SalesReport{
		TotalRevenue:    decimal.Zero,
		SalesByLocation: make(map[string]domain.ReportGroup),
		SalesByConcert:  make(map[string]domain.ReportGroup),
		AllSales:        copySales(j.sales),
	}

	for _, sale := range report.AllSales {
		report.TotalSales += len(sale.Tickets)
		report.TotalRevenue = report.TotalRevenue.Add(sale.TotalAmount)

		byLocation := report.SalesByLocation[sale.AdminLocation]
		byLocation.Count += len(sale.Tickets)
		byLocation.Revenue = byLocation.Revenue.Add(sale.TotalAmount)
		byLocation.Sales = append(byLocation.Sales, sale)
		report.SalesByLocation[sale.AdminLocation] = byLocation

		byConcert := report.SalesByConcert[sale.ConcertID]
		byConcert.Count += len(sale.Tickets)
		byConcert.Revenue = byConcert.Revenue.Add(sale.TotalAmount)
		byConcert.Sales = append(byConcert.Sales, sale)
		report.SalesByConcert[sale.ConcertID] = byConcert
	}
	return report
}

func copySales(sales []domain.Sale) []domain.Sale {
	out := make([]domain.Sale, len(sales))
	for i, sale := range sales {
		out[i] = copySale(sale)
	}
	return out
}

func copySale(sale domain.Sale) domain.Sale {
	out := sale
	out.Tickets = make([]domain.Ticket, len(sale.Tickets))
	for i, ticket := range sale.Tickets {
		out.Tickets[i] = copyTicket(ticket)
	}
	return out
}

func copyTicket(ticket domain.Ticket) domain.Ticket {
	out := ticket
	if ticket.Seat != nil {
		seat := *ticket.Seat
		out.Seat = &seat
	}
	return out
}
