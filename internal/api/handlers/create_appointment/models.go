package create_appointment

import (
	createAppointment "github.com/m04kA/SalonBookingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	SalonID         int64    `json:"salonId"`
	StaffID         *int64   `json:"staffId,omitempty"`
	ServiceIDs      []int64  `json:"serviceIds"`
	AppointmentDate string   `json:"appointmentDate"` // "2025-03-10"
	AppointmentTime string   `json:"appointmentTime"` // "14:30"
	FinalAmount     *float64 `json:"finalAmount,omitempty"`
	CustomerNotes   *string  `json:"customerNotes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) *createAppointment.Request {
	return &createAppointment.Request{
		CustomerID:      customerID,
		SalonID:         r.SalonID,
		StaffID:         r.StaffID,
		ServiceIDs:      r.ServiceIDs,
		AppointmentDate: r.AppointmentDate,
		AppointmentTime: r.AppointmentTime,
		FinalAmount:     r.FinalAmount,
		CustomerNotes:   r.CustomerNotes,
	}
}
