package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SalonBookingService/internal/domain"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/types"
	"github.com/m04kA/SalonBookingService/pkg/validation"
)

var tracer = otel.Tracer("salon-booking.usecase.get_available_slots")

// UseCase use case для получения свободных слотов салона на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "availability.day_slots")
	defer span.End()

	uc.logger.Info("GetAvailableSlots: salon=%d, date=%s, duration=%d, staff=%v", req.SalonID, req.Date, req.DurationMinutes, ptr.Value(req.StaffID))

	// 1. Валидация входных данных
	if err := validation.Struct(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Приводим дату к календарному дню
	normalized, err := types.NormalizeDateTime(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	date := types.DatePart(normalized)

	now := uc.timeProvider.Now()
	day, err := types.ParseDateTime(date+"T00:00", now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	span.SetAttributes(attribute.Int64("salon.id", req.SalonID), attribute.String("date", date))

	// 3. Получаем календарь салона
	calendar, err := uc.calendarRepo.GetCalendar(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrCalendarNotFound) {
			uc.logger.Warn("GetAvailableSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get calendar for salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	resp := &Response{
		SalonID:   req.SalonID,
		Date:      date,
		OpenTime:  calendar.OpenTime,
		CloseTime: calendar.CloseTime,
		Slots:     []domain.AvailableSlot{},
	}

	// 4. Выходной день или часы работы не заданы - слотов нет
	if !calendar.IsWorkingDay(day) || !calendar.HasBusinessHours() {
		uc.logger.Info("GetAvailableSlots: salon id=%d is closed on %s", req.SalonID, date)
		return resp, nil
	}
	resp.IsWorkingDay = true

	// 5. Прошедший день - слотов нет
	notBefore := domain.NotBeforeMinutes(day, now)
	if notBefore >= types.MinutesPerDay {
		return resp, nil
	}

	// 6. Получаем занятые записи на этот день
	filter := domain.OccupyingFilter(req.SalonID, date)
	if req.StaffID != nil {
		filter.StaffID = req.StaffID
		span.SetAttributes(attribute.Int64("staff.id", *req.StaffID))
	}
	appointments, err := uc.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Отбираем свободные слоты
	if free := domain.FreeSlots(calendar, domain.OccupiedIntervals(appointments), req.DurationMinutes, notBefore); free != nil {
		resp.Slots = free
	}

	span.SetAttributes(attribute.Int("slots.count", len(resp.Slots)))
	uc.logger.Info("GetAvailableSlots: found %d free slots for salon id=%d on %s", len(resp.Slots), req.SalonID, date)

	return resp, nil
}
