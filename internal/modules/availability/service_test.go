package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mentorhub/internal/config"
	"mentorhub/internal/domain"
	"mentorhub/internal/repository"
)

type MockAvailabilityStore struct {
	mock.Mock
}

func (m *MockAvailabilityStore) GetTemplate(ctx context.Context, mentorID int64) (domain.WeeklyTemplate, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.WeeklyTemplate), args.Error(1)
}

func (m *MockAvailabilityStore) ReplaceTemplate(ctx context.Context, mentorID int64, tmpl domain.WeeklyTemplate) error {
	args := m.Called(ctx, mentorID, tmpl)
	return args.Error(0)
}

func (m *MockAvailabilityStore) GetExceptions(ctx context.Context, mentorID int64) ([]domain.ExceptionDate, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExceptionDate), args.Error(1)
}

func (m *MockAvailabilityStore) AddException(ctx context.Context, e *domain.ExceptionDate) error {
	args := m.Called(ctx, e)
	if e != nil {
		e.ID = 42
	}
	return args.Error(0)
}

func (m *MockAvailabilityStore) RemoveException(ctx context.Context, mentorID, exceptionID int64) error {
	args := m.Called(ctx, mentorID, exceptionID)
	return args.Error(0)
}

type MockBusyReader struct {
	mock.Mock
}

func (m *MockBusyReader) GetBusyIntervals(ctx context.Context, mentorID int64, from, to time.Time) ([]repository.BusyInterval, error) {
	args := m.Called(ctx, mentorID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BusyInterval), args.Error(1)
}

type MockMentorReader struct {
	mock.Mock
}

func (m *MockMentorReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		HorizonDays: 14,
		Timezone:    time.UTC,
	}
}

func newTestService(store *MockAvailabilityStore, busy *MockBusyReader, mentors *MockMentorReader) *Service {
	svc := NewService(store, busy, mentors, testBookingConfig())
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetMentorAvailability_Success(t *testing.T) {
	store := new(MockAvailabilityStore)
	busy := new(MockBusyReader)
	mentors := new(MockMentorReader)

	mentors.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleMentor}, nil)
	store.On("GetTemplate", mock.Anything, int64(7)).Return(domain.WeeklyTemplate{
		time.Monday: {{Start: "09:00", End: "11:00"}},
	}, nil)
	store.On("GetExceptions", mock.Anything, int64(7)).Return([]domain.ExceptionDate{}, nil)
	busy.On("GetBusyIntervals", mock.Anything, int64(7), mock.Anything, mock.Anything).Return([]repository.BusyInterval{}, nil)

	svc := newTestService(store, busy, mentors)
	result, err := svc.GetMentorAvailability(context.Background(), 7, 30)

	require.NoError(t, err)
	assert.Equal(t, int64(7), result.MentorID)
	require.Len(t, result.Days, 14)
	assert.Len(t, result.Days[0].Slots, 4)
}

func TestGetMentorAvailability_DefaultDuration(t *testing.T) {
	store := new(MockAvailabilityStore)
	busy := new(MockBusyReader)
	mentors := new(MockMentorReader)

	mentors.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7}, nil)
	store.On("GetTemplate", mock.Anything, int64(7)).Return(domain.WeeklyTemplate{
		time.Monday: {{Start: "09:00", End: "10:00"}},
	}, nil)
	store.On("GetExceptions", mock.Anything, int64(7)).Return([]domain.ExceptionDate{}, nil)
	busy.On("GetBusyIntervals", mock.Anything, int64(7), mock.Anything, mock.Anything).Return([]repository.BusyInterval{}, nil)

	svc := newTestService(store, busy, mentors)
	result, err := svc.GetMentorAvailability(context.Background(), 7, 0)

	require.NoError(t, err)
	// Zero duration falls back to 30 minutes: two windows in one hour.
	assert.Len(t, result.Days[0].Slots, 2)
}

func TestGetMentorAvailability_UnknownMentor(t *testing.T) {
	store := new(MockAvailabilityStore)
	busy := new(MockBusyReader)
	mentors := new(MockMentorReader)

	mentors.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	svc := newTestService(store, busy, mentors)
	_, err := svc.GetMentorAvailability(context.Background(), 404, 30)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMentorAvailability_NegativeDuration(t *testing.T) {
	svc := newTestService(new(MockAvailabilityStore), new(MockBusyReader), new(MockMentorReader))
	_, err := svc.GetMentorAvailability(context.Background(), 7, -30)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveTemplate_Success(t *testing.T) {
	store := new(MockAvailabilityStore)
	store.On("ReplaceTemplate", mock.Anything, int64(7), mock.Anything).Return(nil)

	svc := newTestService(store, new(MockBusyReader), new(MockMentorReader))
	tmpl, err := svc.SaveTemplate(context.Background(), 7, TemplateRequest{
		Monday: []domain.TimeRange{{Start: "09:00", End: "17:00"}},
		Friday: []domain.TimeRange{{Start: "10:00", End: "12:00"}},
	})

	require.NoError(t, err)
	assert.Len(t, tmpl, 2)
	assert.NotContains(t, tmpl, time.Tuesday)
	store.AssertExpectations(t)
}

func TestSaveTemplate_InvertedRangeRejected(t *testing.T) {
	svc := newTestService(new(MockAvailabilityStore), new(MockBusyReader), new(MockMentorReader))
	_, err := svc.SaveTemplate(context.Background(), 7, TemplateRequest{
		Monday: []domain.TimeRange{{Start: "17:00", End: "09:00"}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveTemplate_BadClockValueRejected(t *testing.T) {
	svc := newTestService(new(MockAvailabilityStore), new(MockBusyReader), new(MockMentorReader))
	_, err := svc.SaveTemplate(context.Background(), 7, TemplateRequest{
		Monday: []domain.TimeRange{{Start: "9am", End: "5pm"}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddException_FullDay(t *testing.T) {
	store := new(MockAvailabilityStore)
	store.On("AddException", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(store, new(MockBusyReader), new(MockMentorReader))
	e, err := svc.AddException(context.Background(), 7, ExceptionRequest{Date: "2026-02-14", Reason: "holiday"})

	require.NoError(t, err)
	assert.True(t, e.FullDay())
	assert.Equal(t, int64(42), e.ID)
}

func TestAddException_PartialNeedsBothTimes(t *testing.T) {
	svc := newTestService(new(MockAvailabilityStore), new(MockBusyReader), new(MockMentorReader))
	_, err := svc.AddException(context.Background(), 7, ExceptionRequest{
		Date:      "2026-02-14",
		StartTime: "13:00",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddException_BadDateRejected(t *testing.T) {
	svc := newTestService(new(MockAvailabilityStore), new(MockBusyReader), new(MockMentorReader))
	_, err := svc.AddException(context.Background(), 7, ExceptionRequest{Date: "14-02-2026"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveException_NotFound(t *testing.T) {
	store := new(MockAvailabilityStore)
	store.On("RemoveException", mock.Anything, int64(7), int64(99)).Return(repository.ErrNotFound)

	svc := newTestService(store, new(MockBusyReader), new(MockMentorReader))
	err := svc.RemoveException(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
