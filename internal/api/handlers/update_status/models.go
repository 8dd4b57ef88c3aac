package update_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/service/appointments/models"
	updateStatus "github.com/m04kA/SalonBookingService/internal/usecase/update_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status     string  `json:"status"`
	StaffNotes *string `json:"staffNotes,omitempty"`
	SalonNotes *string `json:"salonNotes,omitempty"`
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	Appointment    *models.AppointmentResponse `json:"appointment"`
	PreviousStatus string                      `json:"previousStatus"`
	RevenueCreated int                         `json:"revenueRecordsCreated"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest(appointmentID uuid.UUID, userID int64) *updateStatus.Request {
	return &updateStatus.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		Status:        r.Status,
		StaffNotes:    r.StaffNotes,
		SalonNotes:    r.SalonNotes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		Appointment:    models.FromDomainAppointment(resp.Appointment),
		PreviousStatus: string(resp.From),
		RevenueCreated: resp.RevenueCreated,
	}
}
