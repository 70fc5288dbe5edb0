package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arogyalabs/diagnostics-platform/internal/notify"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads appointment rows for the reminder scan.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const dueForReminderSQL = `
SELECT a.id,
       p.name, p.email, COALESCE(p.phone, ''),
       d.name, d.specialization,
       a.scheduled_at, a.consultation_fee
FROM appointments a
JOIN patients p ON p.id = a.patient_id
JOIN doctors d ON d.id = a.doctor_id
WHERE a.status = 'CONFIRMED'
  AND a.payment_status = 'PAID'
  AND a.scheduled_at >= $1
  AND a.scheduled_at <= $2
ORDER BY a.scheduled_at`

// ListDueForReminder returns confirmed, paid appointments scheduled inside
// [start, end].
func (r *Repository) ListDueForReminder(ctx context.Context, start, end time.Time) ([]notify.AppointmentEvent, error) {
	rows, err := r.db.Query(ctx, dueForReminderSQL, start, end)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var events []notify.AppointmentEvent
	for rows.Next() {
		var evt notify.AppointmentEvent
		var scheduledAt time.Time
		if err := rows.Scan(
			&evt.AppointmentID,
			&evt.PatientName, &evt.PatientEmail, &evt.PatientPhone,
			&evt.DoctorName, &evt.DoctorSpecialization,
			&scheduledAt, &evt.ConsultationFee,
		); err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		evt.AppointmentDate = scheduledAt
		evt.TimeSlot = scheduledAt.Format("3:04 PM")
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due reminders: %w", err)
	}
	return events, nil
}
