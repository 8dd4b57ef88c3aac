package update_status

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/validation"
)

var tracer = otel.Tracer("salon-booking.usecase.update_status")

// UseCase use case для смены статуса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	revenueRepo     RevenueRepository
	calendarRepo    CalendarRepository
	metrics         Metrics
	maxAttempts     int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// maxAttempts ограничивает число попыток при конфликте версий.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	revenueRepo RevenueRepository,
	calendarRepo CalendarRepository,
	metrics Metrics,
	maxAttempts int,
	logger Logger,
) *UseCase {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		revenueRepo:     revenueRepo,
		calendarRepo:    calendarRepo,
		metrics:         metrics,
		maxAttempts:     maxAttempts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute применяет переход статуса и его побочные эффекты.
//
// Сохранение идет с проверкой версии: проигравший гонку перечитывает запись
// и применяет переход заново. Записи выручки создает только тот, чье
// сохранение перевело запись в Completed; ошибки выручки не влияют на результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "appointments.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("appointment.id", req.AppointmentID.String()),
		attribute.String("status.to", req.Status),
	)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("status.from", string(resp.From)),
		attribute.Int("revenue.created", resp.RevenueCreated),
	)
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateStatus: appointment=%s, user=%d, status=%s", req.AppointmentID, req.UserID, req.Status)

	// 1. Валидация входных данных
	if err := validation.Struct(req); err != nil {
		uc.logger.Warn("UpdateStatus: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	to := domain.Status(req.Status)

	var (
		calendar *domain.SalonCalendar
		saved    *domain.Appointment
		result   *domain.TransitionResult
	)

	// 2. Читаем, применяем переход и сохраняем с проверкой версии
	for attempt := 1; ; attempt++ {
		appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateStatus: appointment id=%s not found", req.AppointmentID)
				return nil, ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateStatus: failed to get appointment id=%s: %v", req.AppointmentID, err)
			return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.1. Менять статус может только владелец салона
		if calendar == nil {
			calendar, err = uc.loadCalendar(ctx, appointment.SalonID)
			if err != nil {
				return nil, err
			}
		}
		if !calendar.IsOwner(req.UserID) {
			uc.logger.Warn("UpdateStatus: user id=%d is not owner of salon id=%d", req.UserID, appointment.SalonID)
			return nil, ErrAccessDenied
		}

		// 2.2. Переход по таблице
		result, err = domain.ApplyStatus(appointment, to, uc.timeProvider.Now())
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrInvalidStatus) {
				uc.logger.Warn("UpdateStatus: %s -> %s rejected for appointment id=%s", appointment.Status, to, appointment.ID)
				return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, to)
			}
			uc.logger.Error("UpdateStatus: failed to apply status to appointment id=%s: %v", appointment.ID, err)
			return nil, fmt.Errorf("%w: failed to apply status: %v", ErrInternal, err)
		}

		applyNotes(appointment, req)

		// 2.3. Сохранение с проверкой версии
		err = uc.appointmentRepo.Update(ctx, appointment)
		if err == nil {
			saved = appointment
			break
		}
		if !errors.Is(err, appointmentRepo.ErrVersionConflict) {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return nil, ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateStatus: failed to update appointment id=%s: %v", appointment.ID, err)
			return nil, fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}
		if attempt >= uc.maxAttempts {
			uc.logger.Warn("UpdateStatus: giving up on appointment id=%s after %d attempts", appointment.ID, attempt)
			return nil, ErrVersionConflict
		}
		uc.logger.Warn("UpdateStatus: version conflict on appointment id=%s, attempt %d/%d",
			appointment.ID, attempt, uc.maxAttempts)
	}

	uc.metrics.ObserveStatusTransition(string(result.From), string(result.To))
	uc.logger.Info("UpdateStatus: appointment id=%s %s -> %s (effects=%v)", saved.ID, result.From, result.To, result.Effects)

	// 3. Выручка только при первом переходе в Completed
	created := 0
	if result.RevenueDue() {
		created = uc.recordRevenue(ctx, saved, calendar.OwnerID)
	}

	return &Response{
		Appointment:    saved,
		From:           result.From,
		To:             result.To,
		Effects:        result.Effects,
		RevenueCreated: created,
	}, nil
}

func (uc *UseCase) loadCalendar(ctx context.Context, salonID int64) (*domain.SalonCalendar, error) {
	calendar, err := uc.calendarRepo.GetCalendar(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrCalendarNotFound) {
			uc.logger.Warn("UpdateStatus: salon id=%d has no calendar, owner unknown", salonID)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("UpdateStatus: failed to get calendar for salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}
	return calendar, nil
}

// recordRevenue создает по записи на каждую строку услуг.
// Ошибки логируются и не возвращаются.
func (uc *UseCase) recordRevenue(ctx context.Context, a *domain.Appointment, ownerID int64) int {
	created := 0
	for _, record := range domain.NewRevenueRecords(a, ownerID, uc.timeProvider.Now()) {
		inserted, err := uc.revenueRepo.Create(ctx, record)
		switch {
		case err != nil:
			uc.metrics.ObserveRevenueRecord(RevenueFailed)
			uc.logger.Error("UpdateStatus: failed to create revenue record for appointment id=%s line=%d: %v",
				a.ID, record.LineIndex, err)
		case !inserted:
			uc.metrics.ObserveRevenueRecord(RevenueDuplicate)
			uc.logger.Warn("UpdateStatus: revenue record for appointment id=%s line=%d already exists",
				a.ID, record.LineIndex)
		default:
			created++
			uc.metrics.ObserveRevenueRecord(RevenueCreated)
			uc.logger.Info("UpdateStatus: revenue record created for appointment id=%s line=%d amount=%.2f",
				a.ID, record.LineIndex, record.Amount)
		}
	}
	return created
}

func applyNotes(a *domain.Appointment, req *Request) {
	if req.StaffNotes != nil {
		a.StaffNotes = req.StaffNotes
	}
	if req.SalonNotes != nil {
		a.SalonNotes = req.SalonNotes
	}
	if a.Status == domain.StatusCancelled && a.CancelledBy == nil {
		a.CancelledBy = ptr.Ptr(domain.CancelledBySalon)
	}
}
