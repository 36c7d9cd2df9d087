package clinic

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/carebridge/carebridge/internal/triage"
)

// minSymptomLen is the minimum trimmed length of a consultation's symptom
// description. Triage itself accepts anything; a booking needs enough text
// for the doctor to prepare.
const minSymptomLen = 10

// phoneRe accepts international numbers with a leading country code.
var phoneRe = regexp.MustCompile(`^\+\d{9,15}$`)

// Analyzer produces a triage suggestion for a symptom description.
// triage.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, symptoms string) triage.Result
}

// Notifier is told about newly booked consultations. Dispatch is best-effort
// and asynchronous; failures are logged, never surfaced to the caller.
type Notifier interface {
	ConsultationBooked(ctx context.Context, c *Consultation, d *Doctor, p *Profile) error
}

// Service is the business boundary for clinic operations.
type Service struct {
	store    Store
	analyzer Analyzer
	notifier Notifier
	logger   log.Logger
	metrics  *Metrics
}

// NewService creates a clinic service. notifier and metrics may be nil.
func NewService(store Store, analyzer Analyzer, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		analyzer: analyzer,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Profiles

// CreateProfile validates and stores a new patient profile.
func (s *Service) CreateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	if p.Language == "" {
		p.Language = "en"
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.ID = ulid.Make().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.CreateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.logger.Info(ctx, "profile created", "profile_id", p.ID)
	return p, nil
}

// GetProfile retrieves a profile by ID.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, bool, error) {
	return s.store.GetProfile(ctx, id)
}

// ListProfiles returns all profiles.
func (s *Service) ListProfiles(ctx context.Context) ([]*Profile, error) {
	return s.store.ListProfiles(ctx)
}

// UpdateProfile validates and stores changes to an existing profile.
// Immutable fields (ID, CreatedAt) are taken from the stored record.
func (s *Service) UpdateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	existing, ok, err := s.store.GetProfile(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", p.ID, ErrNotFound)
	}

	if p.Language == "" {
		p.Language = existing.Language
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// DeleteProfile removes a profile.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	return s.store.DeleteProfile(ctx, id)
}

// Doctors

// CreateDoctor validates and stores a new doctor record.
func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	if err := validateDoctor(d); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d.ID = ulid.Make().String()
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.store.CreateDoctor(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	s.logger.Info(ctx, "doctor created", "doctor_id", d.ID, "department", d.Department)
	return d, nil
}

// GetDoctor retrieves a doctor by ID.
func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, bool, error) {
	return s.store.GetDoctor(ctx, id)
}

// ListDoctors returns doctors matching the filter.
func (s *Service) ListDoctors(ctx context.Context, f DoctorFilter) ([]*Doctor, error) {
	if f.Department != "" && !slices.Contains(Departments, f.Department) {
		return nil, fmt.Errorf("%w: unknown department %q", ErrInvalid, f.Department)
	}
	return s.store.ListDoctors(ctx, f)
}

// Consultations

// BookingRequest carries the caller-supplied fields for a new consultation.
type BookingRequest struct {
	ProfileID   string
	DoctorID    string
	Symptoms    string
	ScheduledAt *time.Time
	Notes       string
}

// BookConsultation validates the booking, runs triage over the symptom
// description, stores the consultation as pending, and dispatches the
// care-team notification asynchronously.
func (s *Service) BookConsultation(ctx context.Context, req *BookingRequest) (*Consultation, error) {
	if len(strings.TrimSpace(req.Symptoms)) < minSymptomLen {
		return nil, fmt.Errorf("%w: symptom description must be at least %d characters", ErrInvalid, minSymptomLen)
	}

	profile, ok, err := s.store.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", req.ProfileID, ErrNotFound)
	}

	doctor, ok, err := s.store.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("doctor %s: %w", req.DoctorID, ErrNotFound)
	}
	if !doctor.Available {
		return nil, fmt.Errorf("%w: doctor %s is not accepting consultations", ErrConflict, req.DoctorID)
	}

	now := time.Now().UTC()
	c := &Consultation{
		ID:          ulid.Make().String(),
		ProfileID:   req.ProfileID,
		DoctorID:    req.DoctorID,
		Symptoms:    req.Symptoms,
		Status:      StatusPending,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.analyzer != nil {
		suggestion := s.analyzer.Analyze(ctx, req.Symptoms)
		c.TriageSuggestion = &suggestion
	}

	if err := s.store.CreateConsultation(ctx, c); err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(doctor.Department).Inc()
	}
	s.logger.Info(ctx, "consultation booked",
		"consultation_id", c.ID,
		"profile_id", c.ProfileID,
		"doctor_id", c.DoctorID,
		"department", doctor.Department,
	)

	if s.notifier != nil {
		// detach from the request lifetime, same as async triage dispatch
		go s.notify(context.WithoutCancel(ctx), c, doctor, profile)
	}

	return c, nil
}

// GetConsultation retrieves a consultation by ID.
func (s *Service) GetConsultation(ctx context.Context, id string) (*Consultation, bool, error) {
	return s.store.GetConsultation(ctx, id)
}

// ListConsultations returns the consultations belonging to a profile.
func (s *Service) ListConsultations(ctx context.Context, profileID string) ([]*Consultation, error) {
	return s.store.ListConsultationsByProfile(ctx, profileID)
}

// ConsultationUpdate carries the mutable consultation fields. Nil means
// leave unchanged.
type ConsultationUpdate struct {
	Notes       *string
	ScheduledAt *time.Time
}

// UpdateConsultation applies notes/schedule changes.
func (s *Service) UpdateConsultation(ctx context.Context, id string, upd *ConsultationUpdate) (*Consultation, error) {
	c, ok, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("consultation %s: %w", id, ErrNotFound)
	}

	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
	if upd.ScheduledAt != nil {
		c.ScheduledAt = upd.ScheduledAt
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateConsultation(ctx, c); err != nil {
		return nil, fmt.Errorf("update consultation: %w", err)
	}
	return c, nil
}

// UpdateConsultationStatus moves a consultation through its lifecycle,
// rejecting illegal transitions.
func (s *Service) UpdateConsultationStatus(ctx context.Context, id string, to ConsultationStatus) (*Consultation, error) {
	switch to {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, to)
	}

	c, ok, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("consultation %s: %w", id, ErrNotFound)
	}

	if !CanTransition(c.Status, to) {
		return nil, fmt.Errorf("%w: cannot move consultation from %s to %s", ErrConflict, c.Status, to)
	}

	c.Status = to
	c.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateConsultation(ctx, c); err != nil {
		return nil, fmt.Errorf("update consultation status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.StatusTotal.WithLabelValues(string(to)).Inc()
	}
	s.logger.Info(ctx, "consultation status changed", "consultation_id", id, "status", to)
	return c, nil
}

// DeleteConsultation removes a consultation.
func (s *Service) DeleteConsultation(ctx context.Context, id string) error {
	return s.store.DeleteConsultation(ctx, id)
}

func (s *Service) notify(ctx context.Context, c *Consultation, d *Doctor, p *Profile) {
	err := s.notifier.ConsultationBooked(ctx, c, d, p)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.NotifyTotal.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.logger.Error(ctx, err, "consultation notification failed", "consultation_id", c.ID)
	}
}

func validateProfile(p *Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if p.Phone != "" && !phoneRe.MatchString(p.Phone) {
		return fmt.Errorf("%w: phone must include a country code, e.g. +12345678900", ErrInvalid)
	}
	if !slices.Contains(Languages, p.Language) {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalid, p.Language)
	}
	return nil
}

func validateDoctor(d *Doctor) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(d.Hospital) == "" {
		return fmt.Errorf("%w: hospital is required", ErrInvalid)
	}
	if !slices.Contains(Departments, d.Department) {
		return fmt.Errorf("%w: unknown department %q", ErrInvalid, d.Department)
	}
	if d.YearsOfExperience < 0 || d.YearsOfExperience > 70 {
		return fmt.Errorf("%w: years of experience must be 0..70", ErrInvalid)
	}
	return nil
}
