package domain

import (
	"time"

	"github.com/google/uuid"
)

// RevenueRecord is a ledger entry for one service line of a completed appointment
type RevenueRecord struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	LineIndex     int // позиция строки услуги, вместе с AppointmentID образует ключ идемпотентности
	SalonID       int64
	CustomerID    int64
	OwnerID       int64
	ServiceID     int64
	ServiceName   string
	Amount        float64
	CreatedAt     time.Time
}

// NewRevenueRecords builds one record per service line of a
func NewRevenueRecords(a *Appointment, ownerID int64, now time.Time) []*RevenueRecord {
	records := make([]*RevenueRecord, 0, len(a.Services))
	for i, line := range a.Services {
		records = append(records, &RevenueRecord{
			ID:            uuid.New(),
			AppointmentID: a.ID,
			LineIndex:     i,
			SalonID:       a.SalonID,
			CustomerID:    a.CustomerID,
			OwnerID:       ownerID,
			ServiceID:     line.ServiceID,
			ServiceName:   line.ServiceName,
			Amount:        line.Price,
			CreatedAt:     now,
		})
	}
	return records
}
