package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	tableAppointments  = "appointments"
	tableCustomers     = "customers"
	tableSubscriptions = "subscriptions"
)

// pq error code for unique_violation.
const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS appointments (
		id         uuid PRIMARY KEY,
		data       jsonb NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS appointments_date_idx ON appointments ((data->>'dateString'))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_booked_slot_uniq
		ON appointments ((data->>'pitchId'), (data->>'dateString'), (data->>'timeSlot'))
		WHERE data->>'status' = 'booked'`,
	`CREATE TABLE IF NOT EXISTS customers (
		id         uuid PRIMARY KEY,
		data       jsonb NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id         uuid PRIMARY KEY,
		data       jsonb NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
}

// PostgresStore keeps each collection in its own jsonb table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// ---------------------------------------------------------------------------
// Generic document helpers
// ---------------------------------------------------------------------------

type row struct {
	id   string
	data []byte
}

func (p *PostgresStore) query(ctx context.Context, q string, args ...any) ([]row, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.data); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) get(ctx context.Context, table, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM `+table+` WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *PostgresStore) insert(ctx context.Context, table string, createdAt time.Time, data []byte) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, data, created_at) VALUES ($1, $2, $3)`,
		id.String(), string(data), createdAt)
	if err != nil {
		return "", mapError(err)
	}
	return id.String(), nil
}

func (p *PostgresStore) exec(ctx context.Context, q, id string, args ...any) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := p.db.ExecContext(ctx, q, append([]any{id}, args...)...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func decodeAppointments(rows []row) ([]Appointment, error) {
	out := make([]Appointment, 0, len(rows))
	for _, r := range rows {
		var a Appointment
		if err := json.Unmarshal(r.data, &a); err != nil {
			return nil, fmt.Errorf("decode appointment %s: %w", r.id, err)
		}
		a.ID = r.id
		out = append(out, a)
	}
	return out, nil
}

func (p *PostgresStore) ListAppointments(ctx context.Context, dateString string) ([]Appointment, error) {
	rows, err := p.query(ctx,
		`SELECT id, data FROM appointments WHERE data->>'dateString' = $1 ORDER BY data->>'timeSlot'`,
		dateString)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return decodeAppointments(rows)
}

func (p *PostgresStore) ListAllAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := p.query(ctx, `SELECT id, data FROM appointments ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list all appointments: %w", err)
	}
	return decodeAppointments(rows)
}

func (p *PostgresStore) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	data, err := p.get(ctx, tableAppointments, id)
	if err != nil {
		return nil, err
	}
	var a Appointment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode appointment %s: %w", id, err)
	}
	a.ID = id
	return &a, nil
}

func (p *PostgresStore) CreateAppointment(ctx context.Context, a Appointment) (string, error) {
	a.ID = ""
	a.CreatedAt = stamp(a.CreatedAt)
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return p.insert(ctx, tableAppointments, a.CreatedAt, data)
}

func (p *PostgresStore) UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	return p.exec(ctx, `UPDATE appointments SET data = data || $2::jsonb WHERE id = $1`, id, string(data))
}

func (p *PostgresStore) DeleteAppointment(ctx context.Context, id string) error {
	return p.exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

func (p *PostgresStore) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := p.query(ctx, `SELECT id, data FROM customers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]Customer, 0, len(rows))
	for _, r := range rows {
		var c Customer
		if err := json.Unmarshal(r.data, &c); err != nil {
			return nil, fmt.Errorf("decode customer %s: %w", r.id, err)
		}
		c.ID = r.id
		out = append(out, c)
	}
	return out, nil
}

func (p *PostgresStore) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	data, err := p.get(ctx, tableCustomers, id)
	if err != nil {
		return nil, err
	}
	var c Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode customer %s: %w", id, err)
	}
	c.ID = id
	return &c, nil
}

func (p *PostgresStore) CreateCustomer(ctx context.Context, c Customer) (string, error) {
	c.ID = ""
	c.CreatedAt = stamp(c.CreatedAt)
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return p.insert(ctx, tableCustomers, c.CreatedAt, data)
}

func (p *PostgresStore) UpdateCustomer(ctx context.Context, id string, c Customer) error {
	c.ID = ""
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	// createdAt is owned by the row, not the caller.
	return p.exec(ctx,
		`UPDATE customers SET data = $2::jsonb || jsonb_build_object('createdAt', data->'createdAt') WHERE id = $1`,
		id, string(data))
}

func (p *PostgresStore) DeleteCustomer(ctx context.Context, id string) error {
	return p.exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

func (p *PostgresStore) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	rows, err := p.query(ctx, `SELECT id, data FROM subscriptions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	out := make([]Subscription, 0, len(rows))
	for _, r := range rows {
		s, err := DecodeSubscription(r.data)
		if err != nil {
			return nil, fmt.Errorf("decode subscription %s: %w", r.id, err)
		}
		s.ID = r.id
		out = append(out, s)
	}
	return out, nil
}

func (p *PostgresStore) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	data, err := p.get(ctx, tableSubscriptions, id)
	if err != nil {
		return nil, err
	}
	s, err := DecodeSubscription(data)
	if err != nil {
		return nil, fmt.Errorf("decode subscription %s: %w", id, err)
	}
	s.ID = id
	return &s, nil
}

func (p *PostgresStore) CreateSubscription(ctx context.Context, s Subscription) (string, error) {
	s.CreatedAt = stamp(s.CreatedAt)
	data, err := EncodeSubscription(s)
	if err != nil {
		return "", err
	}
	return p.insert(ctx, tableSubscriptions, s.CreatedAt, data)
}

func (p *PostgresStore) UpdateSubscription(ctx context.Context, id string, s Subscription) error {
	data, err := EncodeSubscription(s)
	if err != nil {
		return err
	}
	// Replacing the whole body drops any legacy dayOfWeek/month keys.
	return p.exec(ctx,
		`UPDATE subscriptions SET data = $2::jsonb || jsonb_build_object('createdAt', data->'createdAt') WHERE id = $1`,
		id, string(data))
}

func (p *PostgresStore) DeleteSubscription(ctx context.Context, id string) error {
	return p.exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
