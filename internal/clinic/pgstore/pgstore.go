// Package pgstore provides a PostgreSQL implementation of clinic.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/carebridge/internal/clinic"
	"github.com/carebridge/carebridge/internal/triage"
)

var tracer = otel.Tracer("github.com/carebridge/carebridge/internal/clinic/pgstore")

//go:embed schema.sql
var schema string

// Store persists clinic entities in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", op),
	))
}

func spanErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Profiles

const profileColumns = `id, name, email, phone, language, medical_history, created_at, updated_at`

// CreateProfile inserts a new profile row.
func (s *Store) CreateProfile(ctx context.Context, p *clinic.Profile) error {
	ctx, span := startSpan(ctx, "pgstore.CreateProfile", "INSERT")
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.Email, p.Phone, p.Language, p.MedicalHistory, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID.
func (s *Store) GetProfile(ctx context.Context, id string) (*clinic.Profile, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.GetProfile", "SELECT")
	defer span.End()

	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		spanErr(span, err)
		return nil, false, err
	}
	return p, true, nil
}

// ListProfiles returns all profiles, newest first.
func (s *Store) ListProfiles(ctx context.Context) ([]*clinic.Profile, error) {
	ctx, span := startSpan(ctx, "pgstore.ListProfiles", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var out []*clinic.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			spanErr(span, err)
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

// UpdateProfile replaces a profile row.
func (s *Store) UpdateProfile(ctx context.Context, p *clinic.Profile) error {
	ctx, span := startSpan(ctx, "pgstore.UpdateProfile", "UPDATE")
	defer span.End()

	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET name=$2, email=$3, phone=$4, language=$5, medical_history=$6, updated_at=$7 WHERE id=$1`,
		p.ID, p.Name, p.Email, p.Phone, p.Language, p.MedicalHistory, p.UpdatedAt,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeleteProfile removes a profile row.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	ctx, span := startSpan(ctx, "pgstore.DeleteProfile", "DELETE")
	defer span.End()

	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// Doctors

const doctorColumns = `id, name, hospital, department, biography, is_available, years_of_experience, created_at, updated_at`

// CreateDoctor inserts a new doctor row.
func (s *Store) CreateDoctor(ctx context.Context, d *clinic.Doctor) error {
	ctx, span := startSpan(ctx, "pgstore.CreateDoctor", "INSERT")
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO doctors (`+doctorColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.Name, d.Hospital, d.Department, d.Biography, d.Available, d.YearsOfExperience, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

// GetDoctor retrieves a doctor by ID.
func (s *Store) GetDoctor(ctx context.Context, id string) (*clinic.Doctor, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.GetDoctor", "SELECT")
	defer span.End()

	row := s.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
	d, err := scanDoctor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		spanErr(span, err)
		return nil, false, err
	}
	return d, true, nil
}

// ListDoctors returns doctors matching the filter, ordered by department
// then name.
func (s *Store) ListDoctors(ctx context.Context, f clinic.DoctorFilter) ([]*clinic.Doctor, error) {
	ctx, span := startSpan(ctx, "pgstore.ListDoctors", "SELECT")
	defer span.End()

	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE 1=1`
	var args []any
	if f.Department != "" {
		args = append(args, f.Department)
		query += fmt.Sprintf(` AND department = $%d`, len(args))
	}
	if f.Available != nil {
		args = append(args, *f.Available)
		query += fmt.Sprintf(` AND is_available = $%d`, len(args))
	}
	query += ` ORDER BY department, name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	var out []*clinic.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			spanErr(span, err)
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}
	return out, nil
}

// Consultations

const consultationColumns = `id, profile_id, doctor_id, symptoms, triage_suggestion, status, scheduled_at, notes, created_at, updated_at`

// CreateConsultation inserts a new consultation row.
func (s *Store) CreateConsultation(ctx context.Context, c *clinic.Consultation) error {
	ctx, span := startSpan(ctx, "pgstore.CreateConsultation", "INSERT")
	defer span.End()

	suggestion, err := marshalSuggestion(c.TriageSuggestion)
	if err != nil {
		spanErr(span, err)
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO consultations (`+consultationColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.ProfileID, c.DoctorID, c.Symptoms, suggestion, string(c.Status), c.ScheduledAt, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

// GetConsultation retrieves a consultation by ID.
func (s *Store) GetConsultation(ctx context.Context, id string) (*clinic.Consultation, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.GetConsultation", "SELECT")
	defer span.End()

	row := s.pool.QueryRow(ctx, `SELECT `+consultationColumns+` FROM consultations WHERE id = $1`, id)
	c, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		spanErr(span, err)
		return nil, false, err
	}
	return c, true, nil
}

// ListConsultationsByProfile returns a profile's consultations, newest first.
func (s *Store) ListConsultationsByProfile(ctx context.Context, profileID string) ([]*clinic.Consultation, error) {
	ctx, span := startSpan(ctx, "pgstore.ListConsultationsByProfile", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT `+consultationColumns+` FROM consultations WHERE profile_id = $1 ORDER BY created_at DESC`,
		profileID,
	)
	if err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("query consultations: %w", err)
	}
	defer rows.Close()

	var out []*clinic.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			spanErr(span, err)
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("iterate consultations: %w", err)
	}
	return out, nil
}

// UpdateConsultation replaces the mutable consultation columns.
func (s *Store) UpdateConsultation(ctx context.Context, c *clinic.Consultation) error {
	ctx, span := startSpan(ctx, "pgstore.UpdateConsultation", "UPDATE")
	defer span.End()

	tag, err := s.pool.Exec(ctx,
		`UPDATE consultations SET status=$2, scheduled_at=$3, notes=$4, updated_at=$5 WHERE id=$1`,
		c.ID, string(c.Status), c.ScheduledAt, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("update consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// DeleteConsultation removes a consultation row.
func (s *Store) DeleteConsultation(ctx context.Context, id string) error {
	ctx, span := startSpan(ctx, "pgstore.DeleteConsultation", "DELETE")
	defer span.End()

	tag, err := s.pool.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("delete consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

func marshalSuggestion(r *triage.Result) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal triage suggestion: %w", err)
	}
	return b, nil
}

func scanProfile(row pgx.Row) (*clinic.Profile, error) {
	var p clinic.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Language, &p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func scanDoctor(row pgx.Row) (*clinic.Doctor, error) {
	var d clinic.Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Hospital, &d.Department, &d.Biography, &d.Available, &d.YearsOfExperience, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan doctor: %w", err)
	}
	return &d, nil
}

func scanConsultation(row pgx.Row) (*clinic.Consultation, error) {
	var (
		c           clinic.Consultation
		status      string
		suggestion  []byte
		scheduledAt *time.Time
	)
	err := row.Scan(&c.ID, &c.ProfileID, &c.DoctorID, &c.Symptoms, &suggestion, &status, &scheduledAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan consultation: %w", err)
	}

	c.Status = clinic.ConsultationStatus(status)
	c.ScheduledAt = scheduledAt

	if len(suggestion) > 0 {
		var r triage.Result
		if err := json.Unmarshal(suggestion, &r); err != nil {
			return nil, fmt.Errorf("unmarshal triage suggestion: %w", err)
		}
		c.TriageSuggestion = &r
	}
	return &c, nil
}
