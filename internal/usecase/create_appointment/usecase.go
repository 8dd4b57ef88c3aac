package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/infra/lock"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	catalogClient "github.com/m04kA/SalonBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SalonBookingService/pkg/types"
	"github.com/m04kA/SalonBookingService/pkg/validation"
)

var tracer = otel.Tracer("salon-booking.usecase.create_appointment")

// UseCase use case для создания записи клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	catalogClient   CatalogClient
	locker          Locker
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	catalogClient CatalogClient,
	locker Locker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		catalogClient:   catalogClient,
		locker:          locker,
		txManager:       txManager,
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

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка выполняются под блокировкой салона
// в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "appointments.create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("salon.id", req.SalonID),
		attribute.Int64("customer.id", req.CustomerID),
		attribute.Int("services.count", len(req.ServiceIDs)),
	)

	result, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("appointment.id", result.ID.String()))
	return &Response{Appointment: result}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: customer=%d, salon=%d, services=%v, date=%s, time=%s",
		req.CustomerID, req.SalonID, req.ServiceIDs, req.AppointmentDate, req.AppointmentTime)

	// 1. Валидация входных данных
	if err := validation.Struct(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Собираем каноническую дату из даты и времени начала
	appointmentDate, err := types.CombineDateAndTime(req.AppointmentDate, types.TimeString(req.AppointmentTime))
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid date %q: %v", req.AppointmentDate, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	// 3. Запись в прошлое запрещена
	now := uc.timeProvider.Now()
	startsAt, err := types.ParseDateTime(appointmentDate, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if startsAt.Before(now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", appointmentDate)
		return nil, ErrDateInPast
	}

	// 4. Получаем календарь салона и проверяем часы работы
	calendar, err := uc.calendarRepo.GetCalendar(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrCalendarNotFound) {
			uc.logger.Warn("CreateAppointment: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get calendar for salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	if !calendar.IsWorkingDay(startsAt) {
		uc.logger.Warn("CreateAppointment: salon id=%d is closed on %s", req.SalonID, startsAt.Weekday())
		return nil, ErrSalonClosed
	}
	if calendar.HasBusinessHours() && !calendar.IsOpenAt(types.TimeString(req.AppointmentTime)) {
		uc.logger.Warn("CreateAppointment: %s is outside %s-%s", req.AppointmentTime, calendar.OpenTime, calendar.CloseTime)
		return nil, ErrOutsideBusinessHours
	}

	// 5. Снимок услуг из каталога: название, цена и длительность на момент записи
	lines, err := uc.resolveServices(ctx, req.SalonID, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	// 6. Собираем запись и пересчитываем расписание
	appointment := &domain.Appointment{
		SalonID:         req.SalonID,
		CustomerID:      req.CustomerID,
		StaffID:         req.StaffID,
		Services:        lines,
		AppointmentDate: appointmentDate,
		AppointmentTime: types.TimeString(req.AppointmentTime),
		Status:          domain.StatusPending,
		CustomerNotes:   req.CustomerNotes,
	}
	appointment.TotalAmount = appointment.ServicesTotal()
	appointment.FinalAmount = appointment.TotalAmount
	if req.FinalAmount != nil {
		appointment.FinalAmount = *req.FinalAmount
	}

	if err := appointment.RecalculateSchedule(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if err := appointment.Validate(); err != nil {
		uc.logger.Warn("CreateAppointment: invalid appointment: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	candidate, ok := appointment.Interval()
	if !ok {
		return nil, fmt.Errorf("%w: cannot compute interval", ErrInvalidInput)
	}

	// 7. Блокируем календарь салона
	unlock, err := uc.locker.Lock(ctx, lock.SalonKey(req.SalonID))
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to lock salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to lock salon: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Appointment

	// 8. Проверка пересечений и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Занятые записи на этот день (FOR UPDATE)
		existing, err := uc.appointmentRepo.GetBySalonWithFilter(txCtx, domain.OccupyingFilter(req.SalonID, appointment.Date()))
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 8.2. Проверяем пересечение с занятыми интервалами
		if domain.HasConflict(candidate.Start, candidate.End-candidate.Start, domain.OccupiedIntervals(existing)) {
			uc.metrics.ObserveBookingConflict()
			uc.logger.Warn("CreateAppointment: slot %s (%d min) is taken in salon id=%d",
				appointment.AppointmentDate, appointment.EstimatedDuration, req.SalonID)
			return ErrSlotNotAvailable
		}

		// 8.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)
	return result, nil
}

// resolveServices загружает услуги каталога в порядке запроса
func (uc *UseCase) resolveServices(ctx context.Context, salonID int64, serviceIDs []int64) ([]domain.ServiceLine, error) {
	lines := make([]domain.ServiceLine, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		service, err := uc.catalogClient.GetService(ctx, salonID, id)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found in salon id=%d", id, salonID)
				return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.IsActive {
			uc.logger.Warn("CreateAppointment: service id=%d is inactive", id)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceInactive, id)
		}

		duration := service.Duration
		if duration <= 0 {
			duration = domain.DefaultServiceDuration
		}

		lines = append(lines, domain.ServiceLine{
			ServiceID:   service.ID,
			ServiceName: service.Name,
			Price:       service.EffectivePrice(),
			Duration:    duration,
		})
	}
	return lines, nil
}
