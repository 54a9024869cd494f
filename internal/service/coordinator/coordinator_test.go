package coordinator

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/talari-hunar/boxoffice/internal/domain"
	"github.com/talari-hunar/boxoffice/internal/status"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadLedger(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockStore) SaveLedger(ctx context.Context, doc map[string][]string) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockStore) LoadJournal(ctx context.Context) ([]domain.Sale, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockStore) SaveJournal(ctx context.Context, sales []domain.Sale) error {
	args := m.Called(ctx, sales)
	return args.Error(0)
}

type capturedEvent struct {
	Event string
	Data  any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *fakePublisher) Publish(event string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Event: event, Data: data})
}

func (p *fakePublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func emptyStore() *MockStore {
	st := &MockStore{}
	st.On("LoadLedger", mock.Anything).Return(map[string][]string{}, nil)
	st.On("LoadJournal", mock.Anything).Return([]domain.Sale{}, nil)
	return st
}

func newCoordinator(t *testing.T, st *MockStore, opts ...Option) (*Coordinator, *fakePublisher) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	pub := &fakePublisher{}
	c, err := New(context.Background(), st, pub, logger, opts...)
	require.NoError(t, err)
	return c, pub
}

func saleWithSeat(id, seatID string) domain.Sale {
	return domain.Sale{
		ID: id,
		Tickets: []domain.Ticket{
			{
				ID:      "t1",
				Price:   decimal.NewFromInt(1000),
				Seat:    &domain.Seat{ID: seatID},
				Concert: domain.ConcertRef{ID: "c1", Name: "Summer Night", Venue: "Talari Hunar"},
			},
		},
		ConcertID:        "c1",
		ConcertName:      "Summer Night",
		AdminID:          "admin-1",
		AdminLocation:    "Sulaymaniyah",
		TotalAmount:      decimal.NewFromInt(1000),
		SaleDate:         "2025-06-01T10:00:00Z",
		BookingReference: "BK-" + id,
		PaymentMethod:    domain.PaymentMethodCash,
	}
}

func TestNewLoadsPersistedState(t *testing.T) {
	st := &MockStore{}
	st.On("LoadLedger", mock.Anything).Return(map[string][]string{"v1": {"A-1-1"}}, nil)
	st.On("LoadJournal", mock.Anything).Return([]domain.Sale{saleWithSeat("s1", "A-1-1")}, nil)

	c, _ := newCoordinator(t, st)

	reserved, err := c.ReservedSeats("v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1-1"}, reserved)
	assert.Len(t, c.ListSales(), 1)
}

func TestReserveSeats(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	c, pub := newCoordinator(t, st)

	current, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1", "A-1-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1-1", "A-1-2"}, current)

	reserved, err := c.ReservedSeats("v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1-1", "A-1-2"}, reserved)

	assert.Equal(t, []string{EventSeatsReserved}, pub.names())
	st.AssertNumberOfCalls(t, "SaveLedger", 1)
}

func TestReserveSeatsIdempotentRepeatSkipsPersistAndPublish(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	c, pub := newCoordinator(t, st)

	_, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1"})
	require.NoError(t, err)

	current, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1-1"}, current)

	st.AssertNumberOfCalls(t, "SaveLedger", 1)
	assert.Len(t, pub.names(), 1)
}

func TestReserveSeatsValidation(t *testing.T) {
	c, pub := newCoordinator(t, emptyStore())

	_, err := c.ReserveSeats(context.Background(), "", []string{"A-1-1"})
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	_, err = c.ReserveSeats(context.Background(), "v1", nil)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	_, err = c.ReservedSeats("")
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	assert.Empty(t, pub.names())
}

func TestReserveSeatsPersistFailureRollsBack(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	c, pub := newCoordinator(t, st)

	_, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1"})
	assert.ErrorIs(t, err, status.ErrPersistenceFailed)

	reserved, err := c.ReservedSeats("v1")
	require.NoError(t, err)
	assert.Empty(t, reserved, "failed mutation must not stick")
	assert.Empty(t, pub.names(), "no publish after failed persist")
}

func TestReleaseSeatsOneVenue(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	c, pub := newCoordinator(t, st)

	_, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1"})
	require.NoError(t, err)
	require.NoError(t, c.ReleaseSeats(context.Background(), "v1"))

	reserved, _ := c.ReservedSeats("v1")
	assert.Empty(t, reserved)
	assert.Equal(t, []string{EventSeatsReserved, EventSeatsCleared}, pub.names())
}

func TestReleaseSeatsUnknownVenueIsNoOp(t *testing.T) {
	st := emptyStore()
	c, pub := newCoordinator(t, st)

	require.NoError(t, c.ReleaseSeats(context.Background(), "never-seen"))
	st.AssertNotCalled(t, "SaveLedger", mock.Anything, mock.Anything)
	assert.Empty(t, pub.names())
}

func TestRecordSale(t *testing.T) {
	st := emptyStore()
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)
	c, pub := newCoordinator(t, st)

	sale, err := c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	require.NoError(t, err)
	assert.Equal(t, "s1", sale.ID)
	assert.Len(t, c.ListSales(), 1)
	assert.Equal(t, []string{EventSalesUpdated}, pub.names())
}

func TestRecordSaleDuplicateID(t *testing.T) {
	st := emptyStore()
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)
	c, _ := newCoordinator(t, st)

	_, err := c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	require.NoError(t, err)

	dup := saleWithSeat("s1", "A-1-2")
	dup.BookingReference = "BK-other"
	_, err = c.RecordSale(context.Background(), dup)
	assert.ErrorIs(t, err, status.ErrDuplicateSale)
	assert.Len(t, c.ListSales(), 1)
}

func TestRecordSaleValidation(t *testing.T) {
	c, _ := newCoordinator(t, emptyStore())

	invalid := saleWithSeat("s1", "A-1-1")
	invalid.Tickets = nil
	_, err := c.RecordSale(context.Background(), invalid)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	invalid = saleWithSeat("", "A-1-1")
	_, err = c.RecordSale(context.Background(), invalid)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	invalid = saleWithSeat("s1", "A-1-1")
	invalid.ConcertID = ""
	_, err = c.RecordSale(context.Background(), invalid)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
}

func TestRecordSalePersistFailureRollsBack(t *testing.T) {
	st := emptyStore()
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	c, pub := newCoordinator(t, st)

	_, err := c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	assert.ErrorIs(t, err, status.ErrPersistenceFailed)
	assert.Empty(t, c.ListSales())
	assert.Empty(t, pub.names())
}

func TestDeleteTicketFreesSeatAndDeletesEmptySale(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)
	c, pub := newCoordinator(t, st)

	_, err := c.ReserveSeats(context.Background(), "talari-hunar", []string{"A-1-1"})
	require.NoError(t, err)
	_, err = c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	require.NoError(t, err)

	remaining, removed, err := c.DeleteTicket(context.Background(), "s1", "t1")
	require.NoError(t, err)
	assert.Nil(t, remaining, "sale with no tickets left is deleted")
	assert.Equal(t, "t1", removed.ID)

	reserved, _ := c.ReservedSeats("talari-hunar")
	assert.Empty(t, reserved, "seat released for the ticket's venue")
	assert.Empty(t, c.ListSales())

	assert.Equal(t, []string{
		EventSeatsReserved, EventSalesUpdated, EventSeatFreed, EventSalesUpdated,
	}, pub.names())
}

func TestDeleteTicketKeepsSaleWithRemainingTickets(t *testing.T) {
	st := emptyStore()
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)
	c, _ := newCoordinator(t, st)

	sale := saleWithSeat("s1", "A-1-1")
	sale.Tickets = append(sale.Tickets, domain.Ticket{
		ID:      "t2",
		Price:   decimal.NewFromInt(500),
		Concert: domain.ConcertRef{ID: "c1", Venue: "Talari Hunar"},
	})
	sale.TotalAmount = decimal.NewFromInt(1500)
	_, err := c.RecordSale(context.Background(), sale)
	require.NoError(t, err)

	remaining, removed, err := c.DeleteTicket(context.Background(), "s1", "t2")
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Equal(t, "t2", removed.ID)
	assert.Len(t, remaining.Tickets, 1)
	assert.True(t, remaining.TotalAmount.Equal(decimal.NewFromInt(1000)))
}

func TestDeleteTicketErrors(t *testing.T) {
	st := emptyStore()
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)
	c, _ := newCoordinator(t, st)

	_, _, err := c.DeleteTicket(context.Background(), "", "t1")
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	_, _, err = c.DeleteTicket(context.Background(), "missing", "t1")
	assert.ErrorIs(t, err, status.ErrSaleNotFound)

	_, err = c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	require.NoError(t, err)
	_, _, err = c.DeleteTicket(context.Background(), "s1", "missing")
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestDeleteTicketPersistFailureRollsBackBothDocuments(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil).Once()
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil).Once()
	c, _ := newCoordinator(t, st)

	_, err := c.ReserveSeats(context.Background(), "talari-hunar", []string{"A-1-1"})
	require.NoError(t, err)
	_, err = c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	require.NoError(t, err)

	st.On("SaveJournal", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, _, err = c.DeleteTicket(context.Background(), "s1", "t1")
	assert.ErrorIs(t, err, status.ErrPersistenceFailed)

	assert.Len(t, c.ListSales(), 1, "journal restored")
	reserved, _ := c.ReservedSeats("talari-hunar")
	assert.Equal(t, []string{"A-1-1"}, reserved, "ledger restored")
}

func TestDeleteTicketLedgerSaveFailureRewritesJournal(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil).Once()
	var lastJournal []domain.Sale
	st.On("SaveJournal", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			lastJournal = args.Get(1).([]domain.Sale)
		}).
		Return(nil)
	c, _ := newCoordinator(t, st)

	_, err := c.ReserveSeats(context.Background(), "talari-hunar", []string{"A-1-1"})
	require.NoError(t, err)
	_, err = c.RecordSale(context.Background(), saleWithSeat("s1", "A-1-1"))
	require.NoError(t, err)

	st.On("SaveLedger", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, _, err = c.DeleteTicket(context.Background(), "s1", "t1")
	assert.ErrorIs(t, err, status.ErrPersistenceFailed)

	// the journal had been saved without the ticket before the ledger save
	// failed; the rollback must write the restored document back
	st.AssertNumberOfCalls(t, "SaveJournal", 3)
	require.Len(t, lastJournal, 1)
	assert.Equal(t, "s1", lastJournal[0].ID)
	assert.Len(t, lastJournal[0].Tickets, 1)
	assert.Len(t, c.ListSales(), 1)
}

func TestResetAll(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	st.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)
	c, pub := newCoordinator(t, st)

	for _, venueID := range []string{"v1", "v2", "v3"} {
		_, err := c.ReserveSeats(context.Background(), venueID, []string{"A-1-1"})
		require.NoError(t, err)
	}
	for i := 0; i < 5; i++ {
		sale := saleWithSeat(string(rune('a'+i)), "A-1-1")
		sale.BookingReference = sale.ID
		_, err := c.RecordSale(context.Background(), sale)
		require.NoError(t, err)
	}

	require.NoError(t, c.ResetAll(context.Background()))

	assert.Empty(t, c.ListSales())
	for _, venueID := range []string{"v1", "v2", "v3"} {
		reserved, _ := c.ReservedSeats(venueID)
		assert.Empty(t, reserved)
	}

	names := pub.names()
	assert.Equal(t, []string{EventSalesUpdated, EventSeatsCleared}, names[len(names)-2:])
}

func TestResetAllOnEmptyStateIsNoOp(t *testing.T) {
	st := emptyStore()
	c, pub := newCoordinator(t, st)

	require.NoError(t, c.ResetAll(context.Background()))
	st.AssertNotCalled(t, "SaveLedger", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "SaveJournal", mock.Anything, mock.Anything)
	assert.Empty(t, pub.names())
}

func TestEventMirrorReceivesEnvelopes(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, "reservation-events", EventSeatsReserved, mock.Anything).Return(nil)

	c, _ := newCoordinator(t, st, WithEventMirror(producer, "reservation-events"))

	_, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1"})
	require.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestEventMirrorFailureDoesNotFailOperation(t *testing.T) {
	st := emptyStore()
	st.On("SaveLedger", mock.Anything, mock.Anything).Return(nil)
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	c, pub := newCoordinator(t, st, WithEventMirror(producer, "reservation-events"))

	_, err := c.ReserveSeats(context.Background(), "v1", []string{"A-1-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{EventSeatsReserved}, pub.names())
}
