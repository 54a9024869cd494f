package domain

type BlockTier string

const (
	TierBalcony BlockTier = "balcony"
	TierMain    BlockTier = "main"
	TierGround  BlockTier = "ground"
)

type SeatBlock struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	TotalSeats  int            `json:"totalSeats"`
	Rows        []string       `json:"rows"`
	SeatsPerRow map[string]int `json:"seatsPerRow"`
	Tier        BlockTier      `json:"tier"`
	Price       int64          `json:"price"`
}

type VenueLayout struct {
	VenueID    string      `json:"venueId"`
	VenueName  string      `json:"venueName"`
	TotalSeats int         `json:"totalSeats"`
	Blocks     []SeatBlock `json:"blocks"`
}
