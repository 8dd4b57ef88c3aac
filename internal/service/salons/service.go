package salons

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/domain"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/internal/service/salons/models"
	"github.com/m04kA/SalonBookingService/pkg/validation"
)

// Service сервис для работы с календарями салонов
type Service struct {
	calendarRepo CalendarRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса календарей
func NewService(calendarRepo CalendarRepository, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// GetCalendar получает календарь салона
// Публичный метод - доступен всем
func (s *Service) GetCalendar(ctx context.Context, salonID int64) (*models.CalendarResponse, error) {
	s.logger.Info("GetCalendar: fetching calendar for salon=%d", salonID)

	calendar, err := s.calendarRepo.GetCalendar(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrCalendarNotFound) {
			s.logger.Warn("GetCalendar: calendar for salon=%d not found", salonID)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("GetCalendar: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCalendar(calendar), nil
}

// UpdateCalendar обновляет рабочие дни и часы салона.
// Существующий календарь может менять только владелец; новый создается
// с текущим пользователем в роли владельца.
func (s *Service) UpdateCalendar(ctx context.Context, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("UpdateCalendar: salon=%d, user=%d, days=%v, %s-%s",
		req.SalonID, req.UserID, req.WorkingDays, req.OpenTime, req.CloseTime)

	// 1. Валидация входных данных
	if err := validation.Struct(req); err != nil {
		s.logger.Warn("UpdateCalendar: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем владельца
	ownerID := req.UserID
	existing, err := s.calendarRepo.GetCalendar(ctx, req.SalonID)
	switch {
	case err == nil:
		if !existing.IsOwner(req.UserID) {
			s.logger.Warn("UpdateCalendar: user=%d is not owner of salon=%d", req.UserID, req.SalonID)
			return nil, ErrAccessDenied
		}
		ownerID = existing.OwnerID
	case errors.Is(err, salonRepo.ErrCalendarNotFound):
		s.logger.Info("UpdateCalendar: creating calendar for salon=%d with owner=%d", req.SalonID, req.UserID)
	default:
		s.logger.Error("UpdateCalendar: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: UpdateCalendar - repository error: %v", ErrInternal, err)
	}

	// 3. Бизнес-валидация (дни недели, open < close)
	calendar := req.ToDomainCalendar(ownerID)
	if err := calendar.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidCalendar) {
			s.logger.Warn("UpdateCalendar: invalid calendar: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Сохраняем
	saved, err := s.calendarRepo.UpsertCalendar(ctx, calendar)
	if err != nil {
		s.logger.Error("UpdateCalendar: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: UpdateCalendar - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateCalendar: calendar for salon=%d saved", req.SalonID)
	return models.FromDomainCalendar(saved), nil
}
