package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

func newMock(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

func appointmentRow(id uuid.UUID, status domain.Status, at string) *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id.String(),
		int64(1),
		int64(10),
		nil,
		[]byte(`[{"serviceId":100,"serviceName":"Haircut","price":25,"duration":30}]`),
		"2025-03-10T"+at,
		at,
		int64(30),
		"10:30",
		nil,
		nil,
		25.0,
		25.0,
		string(status),
		"please be on time",
		nil,
		nil,
		nil,
		nil,
		nil,
		nil,
		int64(3),
		now,
		now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newMock(t)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).AddRow(1, created, created))

	a := &domain.Appointment{
		SalonID:           1,
		CustomerID:        10,
		Services:          []domain.ServiceLine{{ServiceID: 100, ServiceName: "Haircut", Price: 25, Duration: 30}},
		AppointmentDate:   "2025-03-10T10:00",
		AppointmentTime:   "10:00",
		EstimatedDuration: 30,
		EstimatedEndTime:  "10:30",
		TotalAmount:       25,
		FinalAmount:       25,
		Status:            domain.StatusPending,
	}

	got, err := repo.Create(context.Background(), a)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(appointmentRow(id, domain.StatusApproved, "10:00"))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, types.TimeString("10:00"), got.AppointmentTime)
	assert.Equal(t, types.TimeString(""), got.ActualStartTime)
	assert.Nil(t, got.StaffID)
	assert.Nil(t, got.Rating)
	require.NotNil(t, got.CustomerNotes)
	assert.Equal(t, "please be on time", *got.CustomerNotes)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "Haircut", got.Services[0].ServiceName)
	assert.Equal(t, 3, got.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetBySalonWithFilter_LocksDayInTransaction(t *testing.T) {
	repo, db, mock := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE salon_id = \$1 AND appointment_date >= \$2 AND appointment_date <= \$3 AND status IN \(\$4,\$5,\$6\) ORDER BY appointment_time ASC FOR UPDATE`).
		WithArgs(int64(1), "2025-03-10T00:00", "2025-03-10T23:59", "Pending", "Approved", "In-Progress").
		WillReturnRows(appointmentRow(id, domain.StatusPending, "10:00"))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	got, err := repo.GetBySalonWithFilter(ctx, domain.OccupyingFilter(1, "2025-03-10"))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetBySalonWithFilter_ExcludesInactive(t *testing.T) {
	repo, _, mock := newMock(t)
	staffID := int64(7)

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE salon_id = \$1 AND staff_id = \$2 AND status NOT IN \(\$3,\$4\) ORDER BY appointment_date DESC$`).
		WithArgs(int64(1), staffID, "Cancelled", "No-Show").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.GetBySalonWithFilter(context.Background(), domain.AppointmentsFilter{SalonID: 1, StaffID: &staffID})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByCustomerID(t *testing.T) {
	repo, _, mock := newMock(t)
	status := domain.StatusCompleted

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE customer_id = \$1 AND status = \$2 ORDER BY appointment_date DESC`).
		WithArgs(int64(10), "Completed").
		WillReturnRows(appointmentRow(uuid.New(), domain.StatusCompleted, "09:00").
			AddRow(uuid.New().String(), int64(1), int64(10), int64(7), []byte(`[]`), "2025-03-09T09:00", "09:00",
				int64(30), "09:30", "09:01", "09:29", 10.0, 10.0, "Completed", nil, nil, nil, nil, nil,
				[]byte(`{"overall":5}`), "great", int64(4), time.Now(), time.Now()))

	got, err := repo.GetByCustomerID(context.Background(), 10, &status)
	require.NoError(t, err)

	require.Len(t, got, 2)
	require.NotNil(t, got[1].Rating)
	assert.Equal(t, 5, got[1].Rating.Overall)
	require.NotNil(t, got[1].StaffID)
	assert.Equal(t, int64(7), *got[1].StaffID)
	assert.Equal(t, types.TimeString("09:29"), got[1].ActualEndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, _, mock := newMock(t)
	id := uuid.New()
	updated := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE appointments SET (.+) version = version \+ 1, updated_at = NOW\(\) WHERE id = \$\d+ AND version = \$\d+ RETURNING version, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(4, updated))

	a := &domain.Appointment{ID: id, Status: domain.StatusCompleted, Version: 3}
	require.NoError(t, repo.Update(context.Background(), a))

	assert.Equal(t, 4, a.Version)
	assert.Equal(t, updated, a.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_VersionConflict(t *testing.T) {
	repo, _, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE appointments").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
	mock.ExpectQuery(`SELECT 1 FROM appointments WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	a := &domain.Appointment{ID: id, Status: domain.StatusCompleted, Version: 3}
	err := repo.Update(context.Background(), a)

	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, 3, a.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, _, mock := newMock(t)

	mock.ExpectQuery("UPDATE appointments").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
	mock.ExpectQuery("SELECT 1 FROM appointments").WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	err := repo.Update(context.Background(), &domain.Appointment{ID: uuid.New(), Version: 1})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_Update_ExecError(t *testing.T) {
	repo, _, mock := newMock(t)

	mock.ExpectQuery("UPDATE appointments").WillReturnError(errors.New("connection reset"))

	err := repo.Update(context.Background(), &domain.Appointment{ID: uuid.New(), Version: 1})
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_CountByStatus(t *testing.T) {
	repo, _, mock := newMock(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM appointments WHERE salon_id = \$1 GROUP BY status`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("Pending", 3).
			AddRow("Completed", 12))

	counts, err := repo.CountByStatus(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, map[domain.Status]int{domain.StatusPending: 3, domain.StatusCompleted: 12}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
