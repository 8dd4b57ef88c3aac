package models

import (
	"errors"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"-" validate:"gt=0"`
	CancellationReason string `json:"cancellationReason" validate:"max=500"`
}

// RateAppointmentRequest запрос на оценку завершенной записи
type RateAppointmentRequest struct {
	UserID   int64   `json:"-" validate:"gt=0"`
	Overall  int     `json:"overall" validate:"min=1,max=5"`
	Service  *int    `json:"service,omitempty" validate:"omitempty,min=1,max=5"`
	Staff    *int    `json:"staff,omitempty" validate:"omitempty,min=1,max=5"`
	Ambiance *int    `json:"ambiance,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback,omitempty" validate:"omitempty,max=1000"`
}

// UpdateAppointmentRequest запрос на изменение мастера и заметок салона.
// nil поле не меняется.
type UpdateAppointmentRequest struct {
	UserID     int64   `json:"-" validate:"gt=0"`
	StaffID    *int64  `json:"staffId,omitempty" validate:"omitempty,gt=0"`
	SalonNotes *string `json:"salonNotes,omitempty" validate:"omitempty,max=1000"`
	StaffNotes *string `json:"staffNotes,omitempty" validate:"omitempty,max=1000"`
}

// IsEmpty возвращает true, если запрос ничего не меняет
func (r *UpdateAppointmentRequest) IsEmpty() bool {
	return r.StaffID == nil && r.SalonNotes == nil && r.StaffNotes == nil
}

// GetCustomerAppointmentsRequest запрос на получение истории записей клиента
type GetCustomerAppointmentsRequest struct {
	UserID     int64   `json:"-"`
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetSalonAppointmentsRequest запрос на получение записей салона
type GetSalonAppointmentsRequest struct {
	UserID          int64    `json:"-"`
	SalonID         int64    `json:"salonId"`
	StartDate       *string  `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
	EndDate         *string  `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`   // YYYY-MM-DD
	Statuses        []string `json:"statuses,omitempty"`
	StaffID         *int64   `json:"staffId,omitempty" validate:"omitempty,gt=0"`
	IncludeInactive bool     `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetSalonAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		SalonID:         r.SalonID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		StaffID:         r.StaffID,
		IncludeInactive: r.IncludeInactive,
	}

	for _, s := range r.Statuses {
		status, err := ToDomainStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// BlockStaffTimeRequest запрос на блокировку времени мастера
type BlockStaffTimeRequest struct {
	UserID    int64  `json:"-" validate:"gt=0"`
	SalonID   int64  `json:"-" validate:"gt=0"`
	StaffID   int64  `json:"staffId" validate:"gt=0"`
	Date      string `json:"date" validate:"required,apptdate"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Reason    string `json:"reason" validate:"max=500"`
}

// Response модели

// RatingResponse оценка записи
type RatingResponse struct {
	Overall  int  `json:"overall"`
	Service  *int `json:"service,omitempty"`
	Staff    *int `json:"staff,omitempty"`
	Ambiance *int `json:"ambiance,omitempty"`
}

// ServiceLineResponse строка услуги
type ServiceLineResponse struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                string                `json:"id"`
	SalonID           int64                 `json:"salonId"`
	CustomerID        int64                 `json:"customerId"`
	StaffID           *int64                `json:"staffId,omitempty"`
	Services          []ServiceLineResponse `json:"services"`
	AppointmentDate   string                `json:"appointmentDate"` // "2025-03-10T14:30"
	AppointmentTime   string                `json:"appointmentTime"` // "14:30"
	EstimatedDuration int                   `json:"estimatedDuration"`
	EstimatedEndTime  string                `json:"estimatedEndTime"`
	ActualStartTime   *string               `json:"actualStartTime,omitempty"`
	ActualEndTime     *string               `json:"actualEndTime,omitempty"`
	TotalAmount       float64               `json:"totalAmount"`
	FinalAmount       float64               `json:"finalAmount"`
	Status            string                `json:"status"`

	CustomerNotes      *string         `json:"customerNotes,omitempty"`
	StaffNotes         *string         `json:"staffNotes,omitempty"`
	SalonNotes         *string         `json:"salonNotes,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CancelledBy        *string         `json:"cancelledBy,omitempty"`
	Rating             *RatingResponse `json:"rating,omitempty"`
	Feedback           *string         `json:"feedback,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// SummaryResponse количество записей салона по статусам
type SummaryResponse struct {
	SalonID  int64          `json:"salonId"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID.String(),
		SalonID:            a.SalonID,
		CustomerID:         a.CustomerID,
		StaffID:            a.StaffID,
		Services:           make([]ServiceLineResponse, len(a.Services)),
		AppointmentDate:    a.AppointmentDate,
		AppointmentTime:    a.AppointmentTime.String(),
		EstimatedDuration:  a.EstimatedDuration,
		EstimatedEndTime:   a.EstimatedEndTime.String(),
		TotalAmount:        a.TotalAmount,
		FinalAmount:        a.FinalAmount,
		Status:             string(a.Status),
		CustomerNotes:      a.CustomerNotes,
		StaffNotes:         a.StaffNotes,
		SalonNotes:         a.SalonNotes,
		CancellationReason: a.CancellationReason,
		CancelledBy:        a.CancelledBy,
		Feedback:           a.Feedback,
		Version:            a.Version,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	for i, line := range a.Services {
		resp.Services[i] = ServiceLineResponse{
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			Price:       line.Price,
			Duration:    line.Duration,
		}
	}

	if !a.ActualStartTime.IsZero() {
		s := a.ActualStartTime.String()
		resp.ActualStartTime = &s
	}
	if !a.ActualEndTime.IsZero() {
		s := a.ActualEndTime.String()
		resp.ActualEndTime = &s
	}
	if a.Rating != nil {
		resp.Rating = &RatingResponse{
			Overall:  a.Rating.Overall,
			Service:  a.Rating.Service,
			Staff:    a.Rating.Staff,
			Ambiance: a.Rating.Ambiance,
		}
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.Status с валидацией
func ToDomainStatus(status string) (domain.Status, error) {
	s := domain.Status(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
