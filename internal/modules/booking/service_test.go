package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mentorhub/internal/config"
	"mentorhub/internal/domain"
	"mentorhub/internal/modules/payment"
	"mentorhub/internal/repository"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) InsertIfAbsent(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil && args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, mentorID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, mentorID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByMentor(ctx context.Context, mentorID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, mentorID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) PaymentHistory(ctx context.Context, column string, id int64) ([]domain.Booking, error) {
	args := m.Called(ctx, column, id)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ConditionalUpdateStatus(ctx context.Context, bookingID int64, expected, next domain.BookingStatus, fields map[string]interface{}) (bool, error) {
	args := m.Called(ctx, bookingID, expected, next, fields)
	return args.Bool(0), args.Error(1)
}

type MockServiceReader struct {
	mock.Mock
}

func (m *MockServiceReader) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

type MockPaymentCoordinator struct {
	mock.Mock
	notConfigured bool
}

func (m *MockPaymentCoordinator) Configured() bool {
	return !m.notConfigured
}

func (m *MockPaymentCoordinator) CreateOrder(ctx context.Context, b *domain.Booking) (*payment.Order, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockPaymentCoordinator) Verify(ctx context.Context, req payment.VerifyRequest) (*payment.VerifyResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.VerifyResult), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBookingCreated(b *domain.Booking) {
	m.Called(b)
}

func (m *MockEventPublisher) PublishBookingConfirmed(b *domain.Booking) {
	m.Called(b)
}

var testNow = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func newBookingService(repo *MockBookingRepository, services *MockServiceReader, payments *MockPaymentCoordinator, events *MockEventPublisher) *Service {
	var publisher EventPublisher
	if events != nil {
		publisher = events
	}
	svc := NewService(repo, services, payments, publisher, config.BookingConfig{
		LeadTime: time.Hour,
		Currency: "INR",
	}, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func activeService() *domain.Service {
	return &domain.Service{
		ID:              10,
		MentorID:        7,
		Name:            "Deep Dive Session",
		Price:           1499,
		DurationMinutes: 60,
		Active:          true,
	}
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)
	payments := new(MockPaymentCoordinator)
	events := new(MockEventPublisher)

	slot := testNow.Add(26 * time.Hour)
	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)
	repo.On("HasOverlap", mock.Anything, int64(7), slot, slot.Add(time.Hour)).Return(false, nil)
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil)
	payments.On("CreateOrder", mock.Anything, mock.Anything).Return(&payment.Order{ID: "order_abc", Amount: 149900, Currency: "INR"}, nil)
	repo.On("ConditionalUpdateStatus", mock.Anything, int64(999), domain.BookingPending, domain.BookingPending,
		map[string]interface{}{"order_id": "order_abc"}).Return(true, nil)
	events.On("PublishBookingCreated", mock.Anything).Return()

	svc := newBookingService(repo, services, payments, events)
	result, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: slot})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, result.Booking.Status)
	assert.Equal(t, "order_abc", result.Order.ID)
	// The booking carries a snapshot, not a reference.
	assert.Equal(t, "Deep Dive Session", result.Booking.ServiceName)
	assert.Equal(t, 1499.0, result.Booking.Price)
	assert.Equal(t, 60, result.Booking.DurationMinutes)
	assert.Equal(t, slot.Add(time.Hour), result.Booking.SlotEnd)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreate_SnapshotSurvivesServiceEdit(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)
	payments := new(MockPaymentCoordinator)

	svcRow := activeService()
	slot := testNow.Add(26 * time.Hour)
	services.On("GetByID", mock.Anything, int64(10)).Return(svcRow, nil)
	repo.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil)
	payments.On("CreateOrder", mock.Anything, mock.Anything).Return(&payment.Order{ID: "order_abc"}, nil)
	repo.On("ConditionalUpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	svc := newBookingService(repo, services, payments, nil)
	result, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: slot})
	require.NoError(t, err)

	// Mentor raises the price afterwards; the booking is unaffected.
	svcRow.Price = 9999
	assert.Equal(t, 1499.0, result.Booking.Price)
}

func TestCreate_InactiveService(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)

	inactive := activeService()
	inactive.Active = false
	services.On("GetByID", mock.Anything, int64(10)).Return(inactive, nil)

	svc := newBookingService(repo, services, new(MockPaymentCoordinator), nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestCreate_UnknownService(t *testing.T) {
	services := new(MockServiceReader)
	services.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	svc := newBookingService(new(MockBookingRepository), services, new(MockPaymentCoordinator), nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 404, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_SlotInsideLeadTime(t *testing.T) {
	services := new(MockServiceReader)
	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)

	svc := newBookingService(new(MockBookingRepository), services, new(MockPaymentCoordinator), nil)
	// Lead time is one hour; 30 minutes out is too soon.
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(30 * time.Minute)})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_OverlapPreCheck(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)

	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)
	repo.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(true, nil)

	svc := newBookingService(repo, services, new(MockPaymentCoordinator), nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, ErrSlotTaken)
	repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
}

func TestCreate_ConcurrentInsertLosesCleanly(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)
	payments := new(MockPaymentCoordinator)

	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)
	// Pre-check saw the slot free, but another request inserted first.
	repo.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	svc := newBookingService(repo, services, payments, nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, ErrSlotTaken)
	payments.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreate_OrderFailureLeavesBookingPending(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)
	payments := new(MockPaymentCoordinator)

	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)
	repo.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil)
	payments.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, payment.ErrGateway)

	svc := newBookingService(repo, services, payments, nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, payment.ErrGateway)
	// The booking row is not rolled back and no status transition happens.
	repo.AssertNotCalled(t, "ConditionalUpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_GatewayNotConfiguredFailsFast(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)
	payments := &MockPaymentCoordinator{notConfigured: true}

	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)

	svc := newBookingService(repo, services, payments, nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, payment.ErrNotConfigured)
	// No booking row exists, so no slot is held by an unpayable booking.
	repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
}

func TestCreate_ConfigLossAfterInsertReleasesSlot(t *testing.T) {
	repo := new(MockBookingRepository)
	services := new(MockServiceReader)
	payments := new(MockPaymentCoordinator)

	services.On("GetByID", mock.Anything, int64(10)).Return(activeService(), nil)
	repo.On("HasOverlap", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	repo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil)
	// Credentials passed the pre-check but the coordinator still reports
	// them missing when the order is opened.
	payments.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, payment.ErrNotConfigured)
	repo.On("ConditionalUpdateStatus", mock.Anything, int64(999), domain.BookingPending, domain.BookingCancelled, mock.Anything).Return(true, nil)

	svc := newBookingService(repo, services, payments, nil)
	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10, SlotStart: testNow.Add(26 * time.Hour)})

	assert.ErrorIs(t, err, payment.ErrNotConfigured)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	svc := newBookingService(new(MockBookingRepository), new(MockServiceReader), new(MockPaymentCoordinator), nil)

	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 0, SlotStart: testNow.Add(26 * time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), 1, CreateBookingRequest{ServiceID: 10})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyPayment_PublishesOnlyOnTransition(t *testing.T) {
	payments := new(MockPaymentCoordinator)
	events := new(MockEventPublisher)

	confirmed := &domain.Booking{ID: 999, Status: domain.BookingConfirmed}
	req := payment.VerifyRequest{BookingID: 999, PaymentID: "pay_1", OrderID: "order_1"}
	payments.On("Verify", mock.Anything, req).Return(&payment.VerifyResult{Booking: confirmed}, nil).Once()
	events.On("PublishBookingConfirmed", confirmed).Return().Once()

	svc := newBookingService(new(MockBookingRepository), new(MockServiceReader), payments, events)
	result, err := svc.VerifyPayment(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.AlreadyVerified)

	// Replay: coordinator reports AlreadyVerified, no event goes out.
	payments.On("Verify", mock.Anything, req).Return(&payment.VerifyResult{Booking: confirmed, AlreadyVerified: true}, nil).Once()
	result, err = svc.VerifyPayment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.AlreadyVerified)

	events.AssertNumberOfCalls(t, "PublishBookingConfirmed", 1)
}

func TestCancel_Success(t *testing.T) {
	repo := new(MockBookingRepository)

	pending := &domain.Booking{ID: 55, UserID: 1, Status: domain.BookingPending}
	cancelled := &domain.Booking{ID: 55, UserID: 1, Status: domain.BookingCancelled}
	repo.On("GetByID", mock.Anything, int64(55)).Return(pending, nil).Once()
	repo.On("ConditionalUpdateStatus", mock.Anything, int64(55), domain.BookingPending, domain.BookingCancelled, mock.Anything).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(55)).Return(cancelled, nil).Once()

	svc := newBookingService(repo, new(MockServiceReader), new(MockPaymentCoordinator), nil)
	result, err := svc.Cancel(context.Background(), 1, 55)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, result.Status)
}

func TestCancel_NotOwner(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, int64(55)).Return(&domain.Booking{ID: 55, UserID: 2}, nil)

	svc := newBookingService(repo, new(MockServiceReader), new(MockPaymentCoordinator), nil)
	_, err := svc.Cancel(context.Background(), 1, 55)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancel_AlreadyConfirmed(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, int64(55)).Return(&domain.Booking{ID: 55, UserID: 1, Status: domain.BookingConfirmed}, nil)
	repo.On("ConditionalUpdateStatus", mock.Anything, int64(55), domain.BookingPending, domain.BookingCancelled, mock.Anything).Return(false, nil)

	svc := newBookingService(repo, new(MockServiceReader), new(MockPaymentCoordinator), nil)
	_, err := svc.Cancel(context.Background(), 1, 55)

	assert.ErrorIs(t, err, ErrAlreadyFinal)
}

func TestPaymentHistory_RoleScoping(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("PaymentHistory", mock.Anything, "user_id", int64(1)).Return([]domain.Booking{}, nil)
	repo.On("PaymentHistory", mock.Anything, "mentor_id", int64(7)).Return([]domain.Booking{}, nil)

	svc := newBookingService(repo, new(MockServiceReader), new(MockPaymentCoordinator), nil)

	_, err := svc.PaymentHistory(context.Background(), 1, domain.RoleStudent)
	require.NoError(t, err)
	_, err = svc.PaymentHistory(context.Background(), 7, domain.RoleMentor)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	svc := newBookingService(repo, new(MockServiceReader), new(MockPaymentCoordinator), nil)
	_, err := svc.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, repository.ErrNotFound))
}
