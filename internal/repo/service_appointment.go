package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const appointmentColumns = `id, service_id, service_name, service_image_url, service_image_key,
	patient_name, mobile, age, gender, email,
	to_char(date, 'YYYY-MM-DD'), hour, minute, ampm, rescheduled_date, rescheduled_time,
	fees, payment_method, payment_status, payment_amount, payment_session_id, payment_provider_id,
	payment_paid_at, payment_meta, status, notes, created_by, created_at, updated_at`

func scanAppointment(row pgx.Row) (*ServiceAppointment, error) {
	var (
		a                         ServiceAppointment
		reDate, reTime            *string
		sessionID, providerID     *string
		method, payStatus, status string
	)
	err := row.Scan(
		&a.ID, &a.ServiceID, &a.ServiceName, &a.ServiceImage.URL, &a.ServiceImage.Key,
		&a.PatientName, &a.Mobile, &a.Age, &a.Gender, &a.Email,
		&a.Date, &a.Hour, &a.Minute, &a.AmPm, &reDate, &reTime,
		&a.Fees, &method, &payStatus, &a.Payment.Amount, &sessionID, &providerID,
		&a.Payment.PaidAt, &a.Payment.Meta, &status, &a.Notes, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	a.Payment.Method = PaymentMethod(method)
	a.Payment.Status = PaymentStatus(payStatus)
	a.Status = AppointmentStatus(status)
	if sessionID != nil {
		a.Payment.SessionID = *sessionID
	}
	if providerID != nil {
		a.Payment.ProviderID = *providerID
	}
	if reDate != nil || reTime != nil {
		a.RescheduledTo = &Reschedule{Date: deref(reDate), Time: deref(reTime)}
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]ServiceAppointment, error) {
	defer rows.Close()
	var out []ServiceAppointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// FindActiveDuplicate reports whether a non-canceled booking already holds the slot.
func (c *Client) FindActiveDuplicate(ctx context.Context, k SlotKey) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM service_appointments
		WHERE service_id = $1 AND created_by = $2 AND date = $3::date
		  AND hour = $4 AND minute = $5 AND ampm = $6 AND status <> 'Canceled')`

	var exists bool
	if err := c.db.QueryRow(ctx, q, k.ServiceID, k.CreatedBy, k.Date, k.Hour, k.Minute, k.AmPm).Scan(&exists); err != nil {
		return false, fmt.Errorf("duplicate lookup: %w", err)
	}
	return exists, nil
}

// CreateAppointment inserts a and returns the stored row. A slot or session
// collision surfaces as a unique violation (see IsUniqueViolation).
func (c *Client) CreateAppointment(ctx context.Context, a *ServiceAppointment) (*ServiceAppointment, error) {
	q := `INSERT INTO service_appointments (
		id, service_id, service_name, service_image_url, service_image_key,
		patient_name, mobile, age, gender, email,
		date, hour, minute, ampm, fees,
		payment_method, payment_status, payment_amount, payment_session_id, payment_paid_at, payment_meta,
		status, notes, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24)
	RETURNING ` + appointmentColumns

	id := a.ID
	if id == uuid.Nil {
		id = uuid.Must(uuid.NewV7())
	}

	row := c.db.QueryRow(ctx, q,
		id, a.ServiceID, a.ServiceName, a.ServiceImage.URL, a.ServiceImage.Key,
		a.PatientName, a.Mobile, a.Age, a.Gender, a.Email,
		a.Date, a.Hour, a.Minute, a.AmPm, a.Fees,
		string(a.Payment.Method), string(a.Payment.Status), a.Payment.Amount,
		nullString(a.Payment.SessionID), a.Payment.PaidAt, a.Payment.Meta,
		string(a.Status), a.Notes, a.CreatedBy,
	)
	out, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return out, nil
}

func (c *Client) GetAppointment(ctx context.Context, id uuid.UUID) (*ServiceAppointment, error) {
	q := `SELECT ` + appointmentColumns + ` FROM service_appointments WHERE id = $1`
	return scanAppointment(c.db.QueryRow(ctx, q, id))
}

// ListAppointments returns one page of appointments, newest first, and the
// total number of rows matching f.
func (c *Client) ListAppointments(ctx context.Context, f AppointmentFilter) ([]ServiceAppointment, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.ServiceID != nil {
		add("service_id = $%d", *f.ServiceID)
	}
	if f.Mobile != "" {
		add("mobile = $%d", f.Mobile)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("(patient_name ILIKE '%%' || $%[1]d || '%%' OR mobile ILIKE '%%' || $%[1]d || '%%' OR notes ILIKE '%%' || $%[1]d || '%%' OR service_name ILIKE '%%' || $%[1]d || '%%')", s)
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := c.db.QueryRow(ctx, `SELECT count(*) FROM service_appointments`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	q := fmt.Sprintf(`SELECT %s FROM service_appointments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		appointmentColumns, cond, len(args)+1, len(args)+2)
	rows, err := c.db.Query(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	items, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return items, total, nil
}

// ListAppointmentsByOwner filters on the booking owner and the mobile number;
// an empty argument does not constrain. Callers must pass at least one.
func (c *Client) ListAppointmentsByOwner(ctx context.Context, createdBy, mobile string) ([]ServiceAppointment, error) {
	q := `SELECT ` + appointmentColumns + ` FROM service_appointments
		WHERE ($1 = '' OR created_by = $1) AND ($2 = '' OR mobile = $2)
		ORDER BY created_at DESC`
	rows, err := c.db.Query(ctx, q, createdBy, mobile)
	if err != nil {
		return nil, fmt.Errorf("list own appointments: %w", err)
	}
	return collectAppointments(rows)
}

// MarkPaidBySession settles the payment of the appointment holding sessionID.
// The status moves to Confirmed only when the current status is in confirmFrom.
// updated is false when the payment was already settled; the row is returned as is.
func (c *Client) MarkPaidBySession(ctx context.Context, sessionID, providerID string, paidAt time.Time, confirmFrom []AppointmentStatus) (*ServiceAppointment, bool, error) {
	return c.markPaid(ctx, "payment_session_id", sessionID, providerID, paidAt, confirmFrom)
}

func (c *Client) MarkPaidByID(ctx context.Context, id uuid.UUID, providerID string, paidAt time.Time, confirmFrom []AppointmentStatus) (*ServiceAppointment, bool, error) {
	return c.markPaid(ctx, "id", id, providerID, paidAt, confirmFrom)
}

func (c *Client) markPaid(ctx context.Context, column string, key any, providerID string, paidAt time.Time, confirmFrom []AppointmentStatus) (*ServiceAppointment, bool, error) {
	from := make([]string, len(confirmFrom))
	for i, s := range confirmFrom {
		from[i] = string(s)
	}

	q := `UPDATE service_appointments SET
			payment_status = 'Paid',
			payment_provider_id = $2,
			payment_paid_at = $3,
			status = CASE WHEN status = ANY($4) THEN 'Confirmed' ELSE status END,
			updated_at = now()
		WHERE ` + column + ` = $1 AND payment_status <> 'Paid'
		RETURNING ` + appointmentColumns

	a, err := scanAppointment(c.db.QueryRow(ctx, q, key, nullString(providerID), paidAt, from))
	if err == nil {
		return a, true, nil
	}
	if !IsNotFound(err) {
		return nil, false, fmt.Errorf("mark paid: %w", err)
	}

	// Nothing updated: either the row is missing or it was already paid.
	a, err = scanAppointment(c.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM service_appointments WHERE `+column+` = $1`, key))
	if err != nil {
		return nil, false, err
	}
	return a, false, nil
}

// UpdateAppointment writes the mutable fields of a. The write only applies
// when the row still carries a.UpdatedAt; otherwise ErrStale is returned.
func (c *Client) UpdateAppointment(ctx context.Context, a *ServiceAppointment) (*ServiceAppointment, error) {
	var reDate, reTime any
	if a.RescheduledTo != nil {
		reDate, reTime = nullString(a.RescheduledTo.Date), nullString(a.RescheduledTo.Time)
	}

	q := `UPDATE service_appointments SET
			date = $2::date, hour = $3, minute = $4, ampm = $5,
			rescheduled_date = $6, rescheduled_time = $7,
			fees = $8, status = $9, notes = $10,
			payment_method = $11, payment_status = $12, payment_amount = $13,
			payment_paid_at = $14, payment_meta = $15,
			updated_at = now()
		WHERE id = $1 AND updated_at = $16
		RETURNING ` + appointmentColumns

	out, err := scanAppointment(c.db.QueryRow(ctx, q,
		a.ID, a.Date, a.Hour, a.Minute, a.AmPm,
		reDate, reTime,
		a.Fees, string(a.Status), a.Notes,
		string(a.Payment.Method), string(a.Payment.Status), a.Payment.Amount,
		a.Payment.PaidAt, a.Payment.Meta,
		a.UpdatedAt,
	))
	if err == nil {
		return out, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	var exists bool
	if err := c.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM service_appointments WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	if exists {
		return nil, ErrStale
	}
	return nil, ErrNotFound
}

// ServiceStats aggregates appointment counts per service. Services without
// appointments are included with zero counts.
func (c *Client) ServiceStats(ctx context.Context) ([]ServiceStat, error) {
	const q = `SELECT s.id, s.name, s.price, COALESCE(s.image_url, ''),
			count(a.id),
			count(a.id) FILTER (WHERE a.status = 'Completed'),
			count(a.id) FILTER (WHERE a.status = 'Canceled')
		FROM services s
		LEFT JOIN service_appointments a ON a.service_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC`

	rows, err := c.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service stats: %w", err)
	}
	defer rows.Close()

	out := []ServiceStat{}
	for rows.Next() {
		var s ServiceStat
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Image, &s.TotalAppointments, &s.Completed, &s.Canceled); err != nil {
			return nil, fmt.Errorf("service stats: %w", err)
		}
		s.Earning = float64(s.Completed) * s.Price
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
