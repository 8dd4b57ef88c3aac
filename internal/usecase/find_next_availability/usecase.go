package find_next_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SalonBookingService/internal/domain"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/pkg/types"
	"github.com/m04kA/SalonBookingService/pkg/validation"
)

var tracer = otel.Tracer("salon-booking.usecase.find_next_availability")

// UseCase use case для поиска ближайшего свободного времени в салоне
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute просматривает SearchHorizonDays дней начиная с сегодняшнего
// и возвращает первый свободный слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "availability.find_next")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("salon.id", req.SalonID),
		attribute.Int("duration.minutes", req.DurationMinutes),
	)

	uc.logger.Info("FindNextAvailability: salon=%d, duration=%d", req.SalonID, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validation.Struct(req); err != nil {
		uc.logger.Warn("FindNextAvailability: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Получаем календарь салона
	calendar, err := uc.calendarRepo.GetCalendar(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrCalendarNotFound) {
			uc.logger.Warn("FindNextAvailability: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("FindNextAvailability: failed to get calendar for salon id=%d: %v", req.SalonID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	// 3. Перебираем дни горизонта, начиная с сегодняшнего
	now := uc.timeProvider.Now()
	for offset := 0; offset < domain.SearchHorizonDays; offset++ {
		day := now.AddDate(0, 0, offset)

		// 3.1. Выходной или часы работы не заданы
		if !calendar.IsWorkingDay(day) || !calendar.HasBusinessHours() {
			continue
		}

		// 3.2. Ошибка одного дня не прерывает поиск
		slot, ok, err := uc.scanDay(ctx, calendar, day, req.DurationMinutes, domain.NotBeforeMinutes(day, now))
		if err != nil {
			uc.logger.Warn("FindNextAvailability: skipping %s for salon id=%d: %v",
				day.Format(domain.DateFormat), req.SalonID, err)
			span.RecordError(err)
			continue
		}
		if !ok {
			continue
		}

		resp := &Response{
			Found:    true,
			Date:     day.Format(domain.DateFormat),
			Time:     slot.StartTime,
			DayLabel: day.Format("Mon"),
		}
		uc.metrics.ObserveAvailabilitySearch(ResultFound)
		span.SetAttributes(attribute.String("result.date", resp.Date), attribute.String("result.time", resp.Time.String()))
		uc.logger.Info("FindNextAvailability: salon id=%d next free slot %s %s", req.SalonID, resp.Date, resp.Time)
		return resp, nil
	}

	// 4. Горизонт исчерпан
	uc.metrics.ObserveAvailabilitySearch(ResultNotFound)
	uc.logger.Info("FindNextAvailability: no availability for salon id=%d within %d days", req.SalonID, domain.SearchHorizonDays)
	return &Response{Found: false}, nil
}

// scanDay ищет первый свободный слот на конкретный день
func (uc *UseCase) scanDay(
	ctx context.Context,
	calendar *domain.SalonCalendar,
	day time.Time,
	durationMinutes int,
	notBefore int,
) (domain.AvailableSlot, bool, error) {
	if notBefore >= types.MinutesPerDay {
		return domain.AvailableSlot{}, false, nil
	}

	date := day.Format(domain.DateFormat)
	appointments, err := uc.appointmentRepo.GetBySalonWithFilter(ctx, domain.OccupyingFilter(calendar.SalonID, date))
	if err != nil {
		return domain.AvailableSlot{}, false, err
	}

	slot, ok := domain.NextSlot(calendar, domain.OccupiedIntervals(appointments), durationMinutes, notBefore)
	return slot, ok, nil
}
