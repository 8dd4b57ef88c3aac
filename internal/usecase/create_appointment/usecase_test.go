package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/infra/lock"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	catalogClient "github.com/m04kA/SalonBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeMetrics struct{ conflicts int }

func (m *fakeMetrics) ObserveBookingConflict() { m.conflicts++ }

type passTx struct{}

func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAppointments struct {
	mu    sync.Mutex
	items []*domain.Appointment
	err   error
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	copied.ID = uuid.New()
	copied.Version = 1
	f.items = append(f.items, &copied)
	return &copied, nil
}

func (f *fakeAppointments) GetBySalonWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Appointment
	for _, a := range f.items {
		if a.SalonID == filter.SalonID && a.Date() == *filter.StartDate {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeCalendars map[int64]*domain.SalonCalendar

func (f fakeCalendars) GetCalendar(_ context.Context, salonID int64) (*domain.SalonCalendar, error) {
	c, ok := f[salonID]
	if !ok {
		return nil, salonRepo.ErrCalendarNotFound
	}
	return c, nil
}

type fakeCatalog map[int64]*catalogClient.Service

func (f fakeCatalog) GetService(_ context.Context, salonID, serviceID int64) (*catalogClient.Service, error) {
	s, ok := f[serviceID]
	if !ok || s.SalonID != salonID {
		return nil, catalogClient.ErrServiceNotFound
	}
	return s, nil
}

type setup struct {
	uc      *UseCase
	repo    *fakeAppointments
	metrics *fakeMetrics
}

// понедельник 10 марта 2025, 08:00
var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newSetup() *setup {
	repo := &fakeAppointments{}
	metrics := &fakeMetrics{}
	calendars := fakeCalendars{
		1: {SalonID: 1, OwnerID: 50, WorkingDays: []string{"Monday", "Tuesday"}, OpenTime: "09:00", CloseTime: "17:00"},
	}
	catalog := fakeCatalog{
		100: {ID: 100, SalonID: 1, Name: "Haircut", Price: 30, DiscountedPrice: ptr.Ptr(25.0), Duration: 30, IsActive: true},
		101: {ID: 101, SalonID: 1, Name: "Color", Price: 60, Duration: 45, IsActive: true},
		102: {ID: 102, SalonID: 1, Name: "Old perm", Price: 40, Duration: 60, IsActive: false},
	}
	uc := NewUseCase(repo, calendars, catalog, lock.NewLocalLocker(), passTx{}, metrics, nopLogger{}).
		WithTimeProvider(fixedTime{t: now})
	return &setup{uc: uc, repo: repo, metrics: metrics}
}

func request(at string, services ...int64) *Request {
	return &Request{
		CustomerID:      10,
		SalonID:         1,
		ServiceIDs:      services,
		AppointmentDate: "2025-03-10",
		AppointmentTime: at,
	}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	s := newSetup()

	resp, err := s.uc.Execute(context.Background(), request("14:30", 100, 101))
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, "2025-03-10T14:30", a.AppointmentDate)
	assert.Equal(t, 75, a.EstimatedDuration)
	assert.Equal(t, "15:45", a.EstimatedEndTime.String())
	assert.Equal(t, 85.0, a.TotalAmount)
	assert.Equal(t, 85.0, a.FinalAmount)
	require.Len(t, a.Services, 2)
	assert.Equal(t, 25.0, a.Services[0].Price)
	assert.Equal(t, "Color", a.Services[1].ServiceName)
}

func TestExecute_AcceptsISODate(t *testing.T) {
	s := newSetup()
	req := request("10:00", 100)
	req.AppointmentDate = "2025-03-10T00:00:00.000Z"
	req.FinalAmount = ptr.Ptr(20.0)

	resp, err := s.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10T10:00", resp.Appointment.AppointmentDate)
	assert.Equal(t, 20.0, resp.Appointment.FinalAmount)
}

func TestExecute_RejectsOverlap(t *testing.T) {
	s := newSetup()

	_, err := s.uc.Execute(context.Background(), request("10:00", 101))
	require.NoError(t, err)

	// 10:30 попадает внутрь 10:00-10:45
	_, err = s.uc.Execute(context.Background(), request("10:30", 100))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, s.metrics.conflicts)

	// стык с концом предыдущей записи допустим
	_, err = s.uc.Execute(context.Background(), request("10:45", 100))
	assert.NoError(t, err)
}

func TestExecute_IgnoresInactiveAppointments(t *testing.T) {
	s := newSetup()

	resp, err := s.uc.Execute(context.Background(), request("11:00", 100))
	require.NoError(t, err)
	resp.Appointment.Status = domain.StatusCancelled

	_, err = s.uc.Execute(context.Background(), request("11:00", 100))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	s := newSetup()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.uc.Execute(context.Background(), request("12:00", 100))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, s.repo.items, 1)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "no services", req: request("10:00"), wantErr: ErrInvalidInput},
		{name: "bad time", req: request("25:00", 100), wantErr: ErrInvalidInput},
		{
			name: "bad date",
			req: func() *Request {
				r := request("10:00", 100)
				r.AppointmentDate = "tomorrow"
				return r
			}(),
			wantErr: ErrInvalidInput,
		},
		{
			name: "past",
			req: func() *Request {
				r := request("10:00", 100)
				r.AppointmentDate = "2025-03-07"
				return r
			}(),
			wantErr: ErrDateInPast,
		},
		{
			name: "unknown salon",
			req: func() *Request {
				r := request("10:00", 100)
				r.SalonID = 2
				return r
			}(),
			wantErr: ErrSalonNotFound,
		},
		{
			name: "closed day",
			req: func() *Request {
				r := request("10:00", 100)
				r.AppointmentDate = "2025-03-12"
				return r
			}(),
			wantErr: ErrSalonClosed,
		},
		{name: "before opening", req: request("08:30", 100), wantErr: ErrOutsideBusinessHours},
		{name: "at closing", req: request("17:00", 100), wantErr: ErrOutsideBusinessHours},
		{name: "unknown service", req: request("10:00", 999), wantErr: ErrServiceNotFound},
		{name: "inactive service", req: request("10:00", 102), wantErr: ErrServiceInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSetup()
			_, err := s.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.repo.items)
		})
	}
}

func TestExecute_StoreFailure(t *testing.T) {
	s := newSetup()
	s.repo.err = errors.New("connection refused")

	_, err := s.uc.Execute(context.Background(), request("10:00", 100))
	assert.ErrorIs(t, err, ErrInternal)
}
