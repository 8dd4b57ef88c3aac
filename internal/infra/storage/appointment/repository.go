package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"salon_id",
	"customer_id",
	"staff_id",
	"services",
	"appointment_date",
	"appointment_time",
	"estimated_duration",
	"estimated_end_time",
	"actual_start_time",
	"actual_end_time",
	"total_amount",
	"final_amount",
	"status",
	"customer_notes",
	"staff_notes",
	"salon_notes",
	"cancellation_reason",
	"cancelled_by",
	"rating",
	"feedback",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись с version = 1.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	services, err := encodeServices(a.Services)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - services: %v", ErrEncode, err)
	}
	rating, err := encodeRating(a.Rating)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - rating: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"salon_id",
			"customer_id",
			"staff_id",
			"services",
			"appointment_date",
			"appointment_time",
			"estimated_duration",
			"estimated_end_time",
			"actual_start_time",
			"actual_end_time",
			"total_amount",
			"final_amount",
			"status",
			"customer_notes",
			"staff_notes",
			"salon_notes",
			"cancellation_reason",
			"cancelled_by",
			"rating",
			"feedback",
			"version",
		).
		Values(
			a.ID,
			a.SalonID,
			a.CustomerID,
			a.StaffID,
			services,
			a.AppointmentDate,
			a.AppointmentTime,
			a.EstimatedDuration,
			a.EstimatedEndTime,
			a.ActualStartTime,
			a.ActualEndTime,
			a.TotalAmount,
			a.FinalAmount,
			a.Status,
			a.CustomerNotes,
			a.StaffNotes,
			a.SalonNotes,
			a.CancellationReason,
			a.CancelledBy,
			rating,
			a.Feedback,
			1,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByCustomerID получает историю записей клиента (сначала новые).
// Опционально фильтрует по статусу.
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.Status) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("appointment_date DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetBySalonWithFilter получает записи салона с фильтрацией по периоду,
// статусам и мастеру.
//
// Для одного дня внутри транзакции добавляется FOR UPDATE: так создание записи
// блокирует строки дня до вставки новой.
func (r *Repository) GetBySalonWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"salon_id": filter.SalonID})

	// appointment_date хранится строкой YYYY-MM-DDTHH:mm, поэтому сравнение лексикографическое
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate + "T00:00"})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate + "T23:59"})
	}

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && *filter.StartDate == *filter.EndDate
	if singleDay {
		selectBuilder = selectBuilder.OrderBy("appointment_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC")
	}

	if singleDay && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Update сохраняет изменяемые поля записи, если версия в БД совпадает с a.Version.
// При успехе a.Version увеличивается. Если запись изменили параллельно,
// возвращает ErrVersionConflict.
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	services, err := encodeServices(a.Services)
	if err != nil {
		return fmt.Errorf("%w: Update - services: %v", ErrEncode, err)
	}
	rating, err := encodeRating(a.Rating)
	if err != nil {
		return fmt.Errorf("%w: Update - rating: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("staff_id", a.StaffID).
		Set("services", services).
		Set("appointment_date", a.AppointmentDate).
		Set("appointment_time", a.AppointmentTime).
		Set("estimated_duration", a.EstimatedDuration).
		Set("estimated_end_time", a.EstimatedEndTime).
		Set("actual_start_time", a.ActualStartTime).
		Set("actual_end_time", a.ActualEndTime).
		Set("total_amount", a.TotalAmount).
		Set("final_amount", a.FinalAmount).
		Set("status", a.Status).
		Set("customer_notes", a.CustomerNotes).
		Set("staff_notes", a.StaffNotes).
		Set("salon_notes", a.SalonNotes).
		Set("cancellation_reason", a.CancellationReason).
		Set("cancelled_by", a.CancelledBy).
		Set("rating", rating).
		Set("feedback", a.Feedback).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "version": a.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	var version int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&version, &updatedAt)
	if err == sql.ErrNoRows {
		exists, existsErr := r.exists(ctx, a.ID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return ErrAppointmentNotFound
		}
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	a.Version = version
	a.UpdatedAt = updatedAt.Time

	return nil
}

// CountByStatus возвращает количество записей салона по статусам
func (r *Repository) CountByStatus(ctx context.Context, salonID int64) (map[domain.Status]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(table).
		Where(squirrel.Eq{"salon_id": salonID}).
		GroupBy("status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByStatus - scan row: %v", ErrScanRow, err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

func (r *Repository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - execute query: %v", ErrExecQuery, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var services, rating []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.SalonID,
		&a.CustomerID,
		&a.StaffID,
		&services,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.EstimatedDuration,
		&a.EstimatedEndTime,
		&a.ActualStartTime,
		&a.ActualEndTime,
		&a.TotalAmount,
		&a.FinalAmount,
		&a.Status,
		&a.CustomerNotes,
		&a.StaffNotes,
		&a.SalonNotes,
		&a.CancellationReason,
		&a.CancelledBy,
		&rating,
		&a.Feedback,
		&a.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(services) > 0 {
		if err := json.Unmarshal(services, &a.Services); err != nil {
			return nil, fmt.Errorf("decode services: %v", err)
		}
	}
	if len(rating) > 0 {
		a.Rating = &domain.Rating{}
		if err := json.Unmarshal(rating, a.Rating); err != nil {
			return nil, fmt.Errorf("decode rating: %v", err)
		}
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// encodeServices и encodeRating отдают JSON строкой: lib/pq передает
// параметры текстом, и postgres сам приводит их к jsonb
func encodeServices(services []domain.ServiceLine) (string, error) {
	if services == nil {
		services = []domain.ServiceLine{}
	}
	data, err := json.Marshal(services)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeRating(rating *domain.Rating) (interface{}, error) {
	if rating == nil {
		return nil, nil
	}
	data, err := json.Marshal(rating)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func statusStrings(statuses []domain.Status) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
