package revenue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

const table = "revenue_records"

// Repository репозиторий записей о выручке
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория выручки
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись о выручке.
// Пара (appointment_id, line_index) уникальна: повторная вставка игнорируется,
// и метод возвращает false без ошибки.
func (r *Repository) Create(ctx context.Context, record *domain.RevenueRecord) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"appointment_id",
			"line_index",
			"salon_id",
			"customer_id",
			"owner_id",
			"service_id",
			"service_name",
			"amount",
			"created_at",
		).
		Values(
			record.ID,
			record.AppointmentID,
			record.LineIndex,
			record.SalonID,
			record.CustomerID,
			record.OwnerID,
			record.ServiceID,
			record.ServiceName,
			record.Amount,
			record.CreatedAt,
		).
		Suffix("ON CONFLICT (appointment_id, line_index) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Create - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// ListByAppointment возвращает записи о выручке по записи в порядке строк услуг
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*domain.RevenueRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"line_index",
		"salon_id",
		"customer_id",
		"owner_id",
		"service_id",
		"service_name",
		"amount",
		"created_at",
	).
		From(table).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("line_index ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.RevenueRecord, 0)
	for rows.Next() {
		var rec domain.RevenueRecord
		var createdAt sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.AppointmentID,
			&rec.LineIndex,
			&rec.SalonID,
			&rec.CustomerID,
			&rec.OwnerID,
			&rec.ServiceID,
			&rec.ServiceName,
			&rec.Amount,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}
		rec.CreatedAt = createdAt.Time
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
