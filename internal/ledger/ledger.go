// Package ledger holds the in-memory authoritative record of which seats are
// reserved per venue. It is the only place seat uniqueness is enforced; it
// never touches storage or the network.
package ledger

import (
	"sort"
	"sync"
)

// Ledger maps venueId to the set of reserved seat identifiers. Seat ids are
// opaque tokens; the ledger never parses them. All mutations are serialized
// behind an RWMutex so readers always see a consistent snapshot.
type Ledger struct {
	mu    sync.RWMutex
	seats map[string]map[string]struct{}
}

func New() *Ledger {
	return &Ledger{seats: make(map[string]map[string]struct{})}
}

// Reserved returns a copy of the reserved seat ids for one venue, sorted for
// stable output. Unknown venues yield an empty slice.
func (l *Ledger) Reserved(venueID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedIDs(l.seats[venueID])
}

// Reserve adds the given seat ids to the venue's set. Already-present ids are
// ignored; Reserve returns the ids that were actually added so callers can
// skip persistence and broadcast on a fully idempotent repeat, plus the
// resulting set.
func (l *Ledger) Reserve(venueID string, seatIDs []string) (added []string, current []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.seats[venueID]
	if !ok {
		set = make(map[string]struct{}, len(seatIDs))
	}
	for _, id := range seatIDs {
		if _, exists := set[id]; !exists {
			set[id] = struct{}{}
			added = append(added, id)
		}
	}
	if !ok && len(added) > 0 {
		l.seats[venueID] = set
	}
	return added, sortedIDs(set)
}

// Release removes the given seat ids where present and reports how many were
// actually removed. A venue whose set becomes empty is dropped entirely.
func (l *Ledger) Release(venueID string, seatIDs []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.seats[venueID]
	if !ok {
		return 0
	}
	removed := 0
	for _, id := range seatIDs {
		if _, exists := set[id]; exists {
			delete(set, id)
			removed++
		}
	}
	if len(set) == 0 {
		delete(l.seats, venueID)
	}
	return removed
}

// Clear drops one venue's set. Clearing an unknown venue is a no-op.
func (l *Ledger) Clear(venueID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seats[venueID]; !ok {
		return false
	}
	delete(l.seats, venueID)
	return true
}

// ClearAll drops every venue's set.
func (l *Ledger) ClearAll() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.seats) == 0 {
		return false
	}
	l.seats = make(map[string]map[string]struct{})
	return true
}

// Snapshot renders the ledger in its persisted document form: venueId to a
// sorted slice of seat ids. The result shares no memory with the ledger.
func (l *Ledger) Snapshot() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	doc := make(map[string][]string, len(l.seats))
	for venueID, set := range l.seats {
		doc[venueID] = sortedIDs(set)
	}
	return doc
}

// Restore replaces the ledger content with a persisted document. Venues with
// empty seat lists are not kept.
func (l *Ledger) Restore(doc map[string][]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seats = make(map[string]map[string]struct{}, len(doc))
	for venueID, ids := range doc {
		if len(ids) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		l.seats[venueID] = set
	}
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
