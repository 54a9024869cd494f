package domain

import "github.com/shopspring/decimal"

func init() {
	// Persisted documents keep plain JSON numbers for money fields.
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// OnlineAdminID marks sales completed through the online checkout rather
// than by a box-office seller.
const OnlineAdminID = "online"

type TicketType struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

type Seat struct {
	ID     string          `json:"id"`
	Block  string          `json:"block"`
	Row    string          `json:"row"`
	Number int             `json:"number"`
	Price  decimal.Decimal `json:"price"`
}

type ConcertRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Venue    string `json:"venue"`
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
}

type UserDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Ticket is created by the booking flow and treated as an immutable payload
// by the core, which only inspects ID, Price, Seat.ID and Concert.Venue.
type Ticket struct {
	ID               string          `json:"id"`
	TicketNumber     string          `json:"ticketNumber"`
	Concert          ConcertRef      `json:"concert"`
	TicketType       TicketType      `json:"ticketType"`
	Seat             *Seat           `json:"seat,omitempty"`
	UserDetails      UserDetails     `json:"userDetails"`
	Price            decimal.Decimal `json:"price"`
	BookingReference string          `json:"bookingReference"`
	PurchaseDate     string          `json:"purchaseDate"`
}

// Sale bundles the tickets of one completed transaction. TotalAmount always
// equals the sum of the ticket prices; removing a ticket decrements it.
type Sale struct {
	ID               string          `json:"id"`
	Tickets          []Ticket        `json:"tickets"`
	ConcertID        string          `json:"concertId"`
	ConcertName      string          `json:"concertName"`
	Location         string          `json:"location"`
	AdminID          string          `json:"adminId"`
	AdminUsername    string          `json:"adminUsername"`
	AdminLocation    string          `json:"adminLocation"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	SaleDate         string          `json:"saleDate"`
	BookingReference string          `json:"bookingReference"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
}

type ReportGroup struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   []Sale          `json:"sales"`
}

type SalesReport struct {
	TotalSales      int                    `json:"totalSales"`
	TotalRevenue    decimal.Decimal        `json:"totalRevenue"`
	SalesByLocation map[string]ReportGroup `json:"salesByLocation"`
	SalesByConcert  map[string]ReportGroup `json:"salesByConcert"`
	AllSales        []Sale                 `json:"allSales"`
}
