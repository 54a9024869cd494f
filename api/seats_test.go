package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/talari-hunar/boxoffice/internal/domain"
	"github.com/talari-hunar/boxoffice/internal/status"
)

// MockUseCase is a mock implementation of coordinator.UseCase
type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) ReservedSeats(venueID string) ([]string, error) {
	args := m.Called(venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUseCase) ReserveSeats(ctx context.Context, venueID string, seatIDs []string) ([]string, error) {
	args := m.Called(ctx, venueID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUseCase) ReleaseSeats(ctx context.Context, venueID string) error {
	args := m.Called(ctx, venueID)
	return args.Error(0)
}

func (m *MockUseCase) ListSales() []domain.Sale {
	args := m.Called()
	return args.Get(0).([]domain.Sale)
}

func (m *MockUseCase) RecordSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	args := m.Called(ctx, sale)
	return args.Get(0).(domain.Sale), args.Error(1)
}

func (m *MockUseCase) DeleteTicket(ctx context.Context, saleID, ticketID string) (*domain.Sale, domain.Ticket, error) {
	args := m.Called(ctx, saleID, ticketID)
	var sale *domain.Sale
	if args.Get(0) != nil {
		sale = args.Get(0).(*domain.Sale)
	}
	return sale, args.Get(1).(domain.Ticket), args.Error(2)
}

func (m *MockUseCase) ResetAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUseCase) Report() domain.SalesReport {
	args := m.Called()
	return args.Get(0).(domain.SalesReport)
}

func newSeatRouter(service *MockUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewSeatHandler(service).Register(router.Group("/api"))
	return router
}

func TestSeatHandler_get(t *testing.T) {
	service := &MockUseCase{}
	service.On("ReservedSeats", "v1").Return([]string{"A-1-1", "A-1-2"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reserved-seats?venueId=v1", nil)
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp reservedSeatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v1", resp.VenueID)
	assert.Equal(t, []string{"A-1-1", "A-1-2"}, resp.ReservedSeats)
}

func TestSeatHandler_getMissingVenueID(t *testing.T) {
	service := &MockUseCase{}
	service.On("ReservedSeats", "").Return(nil, fmt.Errorf("%w: venueId is required", status.ErrInvalidArgument))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reserved-seats", nil)
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeatHandler_reserve(t *testing.T) {
	service := &MockUseCase{}
	service.On("ReserveSeats", mock.Anything, "v1", []string{"A-1-1"}).
		Return([]string{"A-1-1"}, nil)

	body, _ := json.Marshal(reserveSeatsRequest{VenueID: "v1", SeatIDs: []string{"A-1-1"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reserved-seats", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestSeatHandler_reserveInvalidBody(t *testing.T) {
	service := &MockUseCase{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reserved-seats", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeatHandler_reservePersistenceFailure(t *testing.T) {
	service := &MockUseCase{}
	service.On("ReserveSeats", mock.Anything, "v1", []string{"A-1-1"}).
		Return(nil, fmt.Errorf("%w: disk full", status.ErrPersistenceFailed))

	body, _ := json.Marshal(reserveSeatsRequest{VenueID: "v1", SeatIDs: []string{"A-1-1"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reserved-seats", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSeatHandler_release(t *testing.T) {
	service := &MockUseCase{}
	service.On("ReleaseSeats", mock.Anything, "v1").Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/reserved-seats?venueId=v1", nil)
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestSeatHandler_releaseAll(t *testing.T) {
	service := &MockUseCase{}
	service.On("ReleaseSeats", mock.Anything, "").Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/reserved-seats", nil)
	newSeatRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}
