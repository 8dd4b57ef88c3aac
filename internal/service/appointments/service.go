package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/types"
	"github.com/m04kA/SalonBookingService/pkg/validation"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
// Видеть запись может клиент или владелец салона
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appointment.CustomerID != userID {
		if err := s.checkOwnerAccess(ctx, appointment.SalonID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to appointment id=%s", userID, id)
			return nil, err
		}
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%s", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerAppointments: user=%d requested history of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.Status
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: fetched %d appointments for customer=%d", len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetSalonAppointments получает записи салона с фильтрацией.
// Доступно только владельцу салона.
func (s *Service) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetSalonAppointments: fetching appointments for salon=%d, user=%d", req.SalonID, req.UserID)
	if req.StartDate != nil || req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", ptr.Value(req.StartDate), ptr.Value(req.EndDate))
	}
	if len(req.Statuses) > 0 {
		logMsg += ", statuses=" + strings.Join(req.Statuses, ",")
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("GetSalonAppointments: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.StartDate != nil && req.EndDate != nil && *req.StartDate > *req.EndDate {
		return nil, fmt.Errorf("%w: startDate is after endDate", ErrInvalidInput)
	}

	if err := s.checkOwnerAccess(ctx, req.SalonID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonAppointments: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonAppointments: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonAppointments: fetched %d appointments for salon=%d", len(appointments), req.SalonID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetSalonSummary возвращает количество записей салона по статусам
func (s *Service) GetSalonSummary(ctx context.Context, salonID, userID int64) (*models.SummaryResponse, error) {
	s.logger.Info("GetSalonSummary: salon=%d, user=%d", salonID, userID)

	if err := s.checkOwnerAccess(ctx, salonID, userID); err != nil {
		return nil, err
	}

	counts, err := s.appointmentRepo.CountByStatus(ctx, salonID)
	if err != nil {
		s.logger.Error("GetSalonSummary: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetSalonSummary - repository error: %v", ErrInternal, err)
	}

	resp := &models.SummaryResponse{
		SalonID:  salonID,
		ByStatus: make(map[string]int, len(domain.AllStatuses)),
	}
	for _, status := range domain.AllStatuses {
		resp.ByStatus[string(status)] = counts[status]
		resp.Total += counts[status]
	}

	return resp, nil
}

// Cancel отменяет запись.
// Клиент может отменить свою запись не позднее чем за CancellationWindow до начала.
// Владелец салона может отменить любую незавершенную запись.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%d", id, req.UserID)

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("Cancel: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointment, err := s.getAppointment(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	// Определяем инициатора отмены
	var cancelledBy string
	if appointment.CustomerID != 0 && appointment.CustomerID == req.UserID {
		if !appointment.CanBeCancelled(now) {
			s.logger.Warn("Cancel: appointment id=%s starts within %s or is not active, status=%s",
				id, domain.CancellationWindow, appointment.Status)
			return nil, ErrCannotCancel
		}
		cancelledBy = domain.CancelledByCustomer
	} else {
		if err := s.checkOwnerAccess(ctx, appointment.SalonID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%s", req.UserID, id)
			return nil, err
		}
		cancelledBy = domain.CancelledBySalon
	}

	if appointment.Status == domain.StatusCancelled || !domain.CanTransition(appointment.Status, domain.StatusCancelled) {
		s.logger.Warn("Cancel: appointment id=%s in status %s cannot be cancelled", id, appointment.Status)
		return nil, ErrCannotCancel
	}

	result, err := domain.ApplyStatus(appointment, domain.StatusCancelled, now)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.logger.Warn("Cancel: appointment id=%s in status %s cannot be cancelled", id, appointment.Status)
			return nil, ErrCannotCancel
		}
		return nil, fmt.Errorf("%w: Cancel - apply status: %v", ErrInternal, err)
	}

	if req.CancellationReason != "" {
		appointment.CancellationReason = ptr.Ptr(req.CancellationReason)
	}
	appointment.CancelledBy = ptr.Ptr(cancelledBy)

	if err := s.save(ctx, "Cancel", appointment); err != nil {
		return nil, err
	}

	s.metrics.ObserveStatusTransition(string(result.From), string(result.To))
	s.logger.Info("Cancel: appointment id=%s cancelled by %s", id, cancelledBy)
	return models.FromDomainAppointment(appointment), nil
}

// UpdateAppointment меняет мастера и заметки записи. Доступно только владельцу салона.
// Конечные записи и блокировки времени мастера не редактируются.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *models.UpdateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateAppointment: appointment id=%s by user=%d", id, req.UserID)

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	appointment, err := s.getAppointment(ctx, "UpdateAppointment", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(ctx, appointment.SalonID, req.UserID); err != nil {
		s.logger.Warn("UpdateAppointment: access denied for user=%d to appointment id=%s", req.UserID, id)
		return nil, err
	}

	if appointment.IsTerminal() || appointment.Status == domain.StatusStaffBlocked {
		s.logger.Warn("UpdateAppointment: appointment id=%s in status %s cannot be edited", id, appointment.Status)
		return nil, ErrCannotUpdate
	}

	if req.StaffID != nil {
		s.logger.Info("UpdateAppointment: appointment id=%s staff %s -> %d",
			id, formatStaff(appointment.StaffID), *req.StaffID)
		appointment.StaffID = ptr.Ptr(*req.StaffID)
	}
	if req.SalonNotes != nil {
		appointment.SalonNotes = ptr.Ptr(*req.SalonNotes)
	}
	if req.StaffNotes != nil {
		appointment.StaffNotes = ptr.Ptr(*req.StaffNotes)
	}

	if err := s.save(ctx, "UpdateAppointment", appointment); err != nil {
		return nil, err
	}

	s.logger.Info("UpdateAppointment: appointment id=%s updated, version=%d", id, appointment.Version)
	return models.FromDomainAppointment(appointment), nil
}

// Rate сохраняет оценку и отзыв клиента. Оценить можно только завершенную запись и только один раз.
func (s *Service) Rate(ctx context.Context, id uuid.UUID, req *models.RateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Rate: appointment id=%s, user=%d, overall=%d", id, req.UserID, req.Overall)

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("Rate: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointment, err := s.getAppointment(ctx, "Rate", id)
	if err != nil {
		return nil, err
	}

	if appointment.CustomerID != req.UserID {
		s.logger.Warn("Rate: user=%d is not the customer of appointment id=%s", req.UserID, id)
		return nil, ErrAccessDenied
	}

	if !appointment.CanBeRated() {
		s.logger.Warn("Rate: appointment id=%s cannot be rated, status=%s, rated=%t",
			id, appointment.Status, appointment.Rating != nil)
		return nil, ErrCannotRate
	}

	appointment.Rating = &domain.Rating{
		Overall:  req.Overall,
		Service:  req.Service,
		Staff:    req.Staff,
		Ambiance: req.Ambiance,
	}
	appointment.Feedback = req.Feedback

	if err := appointment.RecalculateSchedule(); err != nil {
		return nil, fmt.Errorf("%w: Rate - %v", ErrInternal, err)
	}

	if err := s.save(ctx, "Rate", appointment); err != nil {
		return nil, err
	}

	s.logger.Info("Rate: appointment id=%s rated %d", id, req.Overall)
	return models.FromDomainAppointment(appointment), nil
}

// BlockStaffTime создает блокировку времени мастера.
// Блокировка хранится как запись со статусом STAFF_BLOCKED и не занимает слоты клиентов.
func (s *Service) BlockStaffTime(ctx context.Context, req *models.BlockStaffTimeRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("BlockStaffTime: salon=%d, staff=%d, date=%s, %s-%s by user=%d",
		req.SalonID, req.StaffID, req.Date, req.StartTime, req.EndTime, req.UserID)

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("BlockStaffTime: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkOwnerAccess(ctx, req.SalonID, req.UserID); err != nil {
		return nil, err
	}

	start := types.TimeToMinutes(req.StartTime)
	end := types.TimeToMinutes(req.EndTime)
	if end <= start {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	date, err := types.CombineDateAndTime(req.Date, types.TimeString(req.StartTime))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := domain.BlockedTimeServiceName
	if req.Reason != "" {
		name += " - " + req.Reason
	}

	block := &domain.Appointment{
		SalonID: req.SalonID,
		StaffID: ptr.Ptr(req.StaffID),
		Services: []domain.ServiceLine{
			{ServiceName: name, Price: 0, Duration: end - start},
		},
		AppointmentDate:   date,
		AppointmentTime:   types.TimeString(req.StartTime),
		EstimatedDuration: end - start,
		Status:            domain.StatusStaffBlocked,
	}
	if err := block.RecalculateSchedule(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := block.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.appointmentRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("BlockStaffTime: repository error: %v", err)
		return nil, fmt.Errorf("%w: BlockStaffTime - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("BlockStaffTime: created block id=%s for staff=%d", created.ID, req.StaffID)
	return models.FromDomainAppointment(created), nil
}

func (s *Service) getAppointment(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) save(ctx context.Context, op string, appointment *domain.Appointment) error {
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrVersionConflict):
			s.logger.Warn("%s: version conflict on appointment id=%s", op, appointment.ID)
			return ErrConflict
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return ErrAppointmentNotFound
		default:
			s.logger.Error("%s: repository error for appointment id=%s: %v", op, appointment.ID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}
	return nil
}

func formatStaff(staffID *int64) string {
	if staffID == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *staffID)
}

// checkOwnerAccess проверяет, что пользователь владелец салона
func (s *Service) checkOwnerAccess(ctx context.Context, salonID, userID int64) error {
	calendar, err := s.calendarRepo.GetCalendar(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrCalendarNotFound) {
			s.logger.Warn("checkOwnerAccess: salon id=%d not found", salonID)
			return ErrSalonNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get calendar for salon id=%d: %v", salonID, err)
		return fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	if !calendar.IsOwner(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not owner of salon=%d", userID, salonID)
		return ErrAccessDenied
	}
	return nil
}
