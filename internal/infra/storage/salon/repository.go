package salon

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

const table = "salon_calendars"

// Repository репозиторий календарей салонов (рабочие дни и часы работы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календарей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCalendar получает календарь салона
func (r *Repository) GetCalendar(ctx context.Context, salonID int64) (*domain.SalonCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"salon_id",
		"owner_id",
		"working_days",
		"open_time",
		"close_time",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"salon_id": salonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - build select query: %v", ErrBuildQuery, err)
	}

	var calendar domain.SalonCalendar
	var workingDays pq.StringArray
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&calendar.SalonID,
		&calendar.OwnerID,
		&workingDays,
		&calendar.OpenTime,
		&calendar.CloseTime,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - scan calendar: %v", ErrScanRow, err)
	}

	calendar.WorkingDays = []string(workingDays)
	calendar.UpdatedAt = updatedAt.Time

	return &calendar, nil
}

// UpsertCalendar создает или полностью заменяет календарь салона
func (r *Repository) UpsertCalendar(ctx context.Context, calendar *domain.SalonCalendar) (*domain.SalonCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"salon_id",
			"owner_id",
			"working_days",
			"open_time",
			"close_time",
		).
		Values(
			calendar.SalonID,
			calendar.OwnerID,
			pq.Array(calendar.WorkingDays),
			calendar.OpenTime,
			calendar.CloseTime,
		).
		Suffix("ON CONFLICT (salon_id) DO UPDATE SET " +
			"owner_id = EXCLUDED.owner_id, " +
			"working_days = EXCLUDED.working_days, " +
			"open_time = EXCLUDED.open_time, " +
			"close_time = EXCLUDED.close_time, " +
			"updated_at = NOW() " +
			"RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertCalendar - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertCalendar - execute upsert: %v", ErrExecQuery, err)
	}

	calendar.UpdatedAt = updatedAt.Time

	return calendar, nil
}
