// Package memstore provides an in-memory implementation of clinic.Store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/carebridge/carebridge/internal/clinic"
)

// Store holds clinic entities in memory. Suitable for dev/testing.
type Store struct {
	mu            sync.RWMutex
	profiles      map[string]*clinic.Profile
	doctors       map[string]*clinic.Doctor
	consultations map[string]*clinic.Consultation
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		profiles:      make(map[string]*clinic.Profile),
		doctors:       make(map[string]*clinic.Doctor),
		consultations: make(map[string]*clinic.Consultation),
	}
}

// CreateProfile stores a copy of the profile.
func (s *Store) CreateProfile(_ context.Context, p *clinic.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

// GetProfile retrieves a profile by ID. Returns a copy.
func (s *Store) GetProfile(_ context.Context, id string) (*clinic.Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

// ListProfiles returns all profiles ordered by creation time, newest first.
func (s *Store) ListProfiles(_ context.Context) ([]*clinic.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*clinic.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateProfile replaces a stored profile.
func (s *Store) UpdateProfile(_ context.Context, p *clinic.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return clinic.ErrNotFound
	}
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

// DeleteProfile removes a profile.
func (s *Store) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return clinic.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

// CreateDoctor stores a copy of the doctor.
func (s *Store) CreateDoctor(_ context.Context, d *clinic.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.doctors[d.ID] = &cp
	return nil
}

// GetDoctor retrieves a doctor by ID. Returns a copy.
func (s *Store) GetDoctor(_ context.Context, id string) (*clinic.Doctor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, false, nil
	}
	cp := *d
	return &cp, true, nil
}

// ListDoctors returns doctors matching the filter, ordered by department
// then name.
func (s *Store) ListDoctors(_ context.Context, f clinic.DoctorFilter) ([]*clinic.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*clinic.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		if f.Department != "" && d.Department != f.Department {
			continue
		}
		if f.Available != nil && d.Available != *f.Available {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CreateConsultation stores a copy of the consultation.
func (s *Store) CreateConsultation(_ context.Context, c *clinic.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.consultations[c.ID] = &cp
	return nil
}

// GetConsultation retrieves a consultation by ID. Returns a copy.
func (s *Store) GetConsultation(_ context.Context, id string) (*clinic.Consultation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.consultations[id]
	if !ok {
		return nil, false, nil
	}
	cp := *c
	return &cp, true, nil
}

// ListConsultationsByProfile returns a profile's consultations, newest first.
func (s *Store) ListConsultationsByProfile(_ context.Context, profileID string) ([]*clinic.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*clinic.Consultation
	for _, c := range s.consultations {
		if c.ProfileID != profileID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateConsultation replaces a stored consultation.
func (s *Store) UpdateConsultation(_ context.Context, c *clinic.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[c.ID]; !ok {
		return clinic.ErrNotFound
	}
	cp := *c
	s.consultations[c.ID] = &cp
	return nil
}

// DeleteConsultation removes a consultation.
func (s *Store) DeleteConsultation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[id]; !ok {
		return clinic.ErrNotFound
	}
	delete(s.consultations, id)
	return nil
}
