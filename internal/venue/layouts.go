// Package venue holds the static seat-map reference data. The reservation
// core only uses it to translate a human venue name into the stable venueId
// the ledger is keyed by; it never mutates or caches anything here.
package venue

import (
	"fmt"
	"strings"

	"github.com/talari-hunar/boxoffice/internal/domain"
)

// TalariHunarLayout is the Mustafa Pasha Yamulki Hall style layout:
// 1141 seats in 9 blocks over three tiers.
var TalariHunarLayout = domain.VenueLayout{
	VenueID:    "talari-hunar",
	VenueName:  "Talari Hunar",
	TotalSeats: 1141,
	Blocks: []domain.SeatBlock{
		{
			ID: "A", Name: "Block A", TotalSeats: 116, Tier: domain.TierBalcony, Price: 45850,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H"},
			SeatsPerRow: map[string]int{
				"A": 12, "B": 13, "C": 14, "D": 16, "E": 16, "F": 15, "G": 15, "H": 15,
			},
		},
		{
			ID: "B", Name: "Block B", TotalSeats: 140, Tier: domain.TierBalcony, Price: 52400,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H"},
			SeatsPerRow: map[string]int{
				"A": 16, "B": 17, "C": 18, "D": 19, "E": 20, "F": 16, "G": 16, "H": 18,
			},
		},
		{
			ID: "C", Name: "Block C", TotalSeats: 115, Tier: domain.TierBalcony, Price: 45850,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H"},
			SeatsPerRow: map[string]int{
				"A": 12, "B": 13, "C": 14, "D": 16, "E": 15, "F": 15, "G": 15, "H": 15,
			},
		},
		{
			ID: "D", Name: "Block D", TotalSeats: 223, Tier: domain.TierMain, Price: 26200,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q"},
			SeatsPerRow: map[string]int{
				"A": 16, "B": 16, "C": 15, "D": 15, "E": 15, "F": 15, "G": 15, "H": 15,
				"I": 14, "J": 14, "K": 14, "L": 14, "M": 10, "N": 9, "O": 9, "P": 8, "Q": 9,
			},
		},
		{
			ID: "E", Name: "Block E", TotalSeats: 317, Tier: domain.TierMain, Price: 26200,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q"},
			SeatsPerRow: map[string]int{
				"A": 17, "B": 17, "C": 17, "D": 18, "E": 19, "F": 19, "G": 19, "H": 20,
				"I": 21, "J": 22, "K": 21, "L": 22, "M": 15, "N": 16, "O": 17, "P": 18, "Q": 19,
			},
		},
		{
			ID: "F", Name: "Block F", TotalSeats: 230, Tier: domain.TierMain, Price: 26200,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q"},
			SeatsPerRow: map[string]int{
				"A": 16, "B": 16, "C": 15, "D": 15, "E": 15, "F": 15, "G": 15, "H": 15,
				"I": 14, "J": 14, "K": 14, "L": 14, "M": 10, "N": 9, "O": 9, "P": 8, "Q": 9,
			},
		},
		{
			ID: "G", Name: "Block G", TotalSeats: 72, Tier: domain.TierGround, Price: 19650,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G"},
			SeatsPerRow: map[string]int{
				"A": 13, "B": 12, "C": 12, "D": 8, "E": 9, "F": 9, "G": 9,
			},
		},
		{
			ID: "H", Name: "Block H", TotalSeats: 72, Tier: domain.TierGround, Price: 19650,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G"},
			SeatsPerRow: map[string]int{
				"A": 28, "B": 29, "C": 28, "D": 23, "E": 24, "F": 25, "G": 26,
			},
		},
		{
			ID: "I", Name: "Block I", TotalSeats: 21, Tier: domain.TierGround, Price: 19650,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G"},
			SeatsPerRow: map[string]int{
				"A": 13, "B": 12, "C": 12, "D": 8, "E": 9, "F": 9, "G": 9,
			},
		},
	},
}

// DefaultLayout is used for venues without a dedicated seat map.
var DefaultLayout = domain.VenueLayout{
	VenueID:    "default",
	VenueName:  "Standard Venue",
	TotalSeats: 708,
	Blocks: []domain.SeatBlock{
		{
			ID: "A", Name: "Block A", TotalSeats: 90, Tier: domain.TierGround, Price: 75000,
			Rows:        []string{"A", "B", "C", "D", "E", "F"},
			SeatsPerRow: map[string]int{"A": 15, "B": 15, "C": 15, "D": 15, "E": 15, "F": 15},
		},
		{
			ID: "B", Name: "Block B", TotalSeats: 96, Tier: domain.TierGround, Price: 75000,
			Rows:        []string{"A", "B", "C", "D", "E", "F"},
			SeatsPerRow: map[string]int{"A": 16, "B": 16, "C": 16, "D": 16, "E": 16, "F": 16},
		},
		{
			ID: "C", Name: "Block C", TotalSeats: 180, Tier: domain.TierMain, Price: 50000,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"},
			SeatsPerRow: map[string]int{
				"A": 15, "B": 15, "C": 15, "D": 15, "E": 15, "F": 15,
				"G": 15, "H": 15, "I": 15, "J": 15, "K": 15, "L": 15,
			},
		},
		{
			ID: "D", Name: "Block D", TotalSeats: 192, Tier: domain.TierMain, Price: 50000,
			Rows: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"},
			SeatsPerRow: map[string]int{
				"A": 16, "B": 16, "C": 16, "D": 16, "E": 16, "F": 16,
				"G": 16, "H": 16, "I": 16, "J": 16, "K": 16, "L": 16,
			},
		},
		{
			ID: "E", Name: "Block E", TotalSeats: 75, Tier: domain.TierBalcony, Price: 35000,
			Rows:        []string{"A", "B", "C", "D", "E"},
			SeatsPerRow: map[string]int{"A": 15, "B": 15, "C": 15, "D": 15, "E": 15},
		},
		{
			ID: "F", Name: "Block F", TotalSeats: 75, Tier: domain.TierBalcony, Price: 35000,
			Rows:        []string{"A", "B", "C", "D", "E"},
			SeatsPerRow: map[string]int{"A": 15, "B": 15, "C": 15, "D": 15, "E": 15},
		},
	},
}

var layoutsByName = map[string]domain.VenueLayout{
	"Talari Hunar":      TalariHunarLayout,
	"talari-hunar":      TalariHunarLayout,
	"Talari Hunar Hall": TalariHunarLayout,
}

// Layout resolves a venue name or id to its seat map. Lookup is exact first,
// then case-insensitive, then substring either way, falling back to
// DefaultLayout so callers never have to handle a missing venue.
func Layout(nameOrID string) domain.VenueLayout {
	name := strings.TrimSpace(nameOrID)
	if name == "" {
		// a blank name would substring-match every key
		return DefaultLayout
	}
	if layout, ok := layoutsByName[name]; ok {
		return layout
	}

	lower := strings.ToLower(name)
	for key, layout := range layoutsByName {
		if strings.ToLower(key) == lower {
			return layout
		}
	}
	for key, layout := range layoutsByName {
		keyLower := strings.ToLower(key)
		if strings.Contains(lower, keyLower) || strings.Contains(keyLower, lower) {
			return layout
		}
	}

	return DefaultLayout
}

// AllSeatIDs expands a layout into every seat identifier it contains,
// composed as block-row-number.
func AllSeatIDs(layout domain.VenueLayout) []string {
	var ids []string
	for _, block := range layout.Blocks {
		for _, row := range block.Rows {
			for n := 1; n <= block.SeatsPerRow[row]; n++ {
				ids = append(ids, fmt.Sprintf("%s-%s-%d", block.ID, row, n))
			}
		}
	}
	return ids
}
