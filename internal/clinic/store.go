package clinic

import "context"

// DoctorFilter narrows ListDoctors results. Zero values mean no filtering.
type DoctorFilter struct {
	Department string
	Available  *bool
}

// Store is the persistence interface for the clinic domain. Implementations
// must return ErrNotFound from Update*/Delete* when the entity is missing.
type Store interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, id string) (*Profile, bool, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	DeleteProfile(ctx context.Context, id string) error

	CreateDoctor(ctx context.Context, d *Doctor) error
	GetDoctor(ctx context.Context, id string) (*Doctor, bool, error)
	ListDoctors(ctx context.Context, f DoctorFilter) ([]*Doctor, error)

	CreateConsultation(ctx context.Context, c *Consultation) error
	GetConsultation(ctx context.Context, id string) (*Consultation, bool, error)
	ListConsultationsByProfile(ctx context.Context, profileID string) ([]*Consultation, error)
	UpdateConsultation(ctx context.Context, c *Consultation) error
	DeleteConsultation(ctx context.Context, id string) error
}
