package clinic

import (
	"time"

	"github.com/carebridge/carebridge/internal/triage"
)

// Departments is the canonical department set doctors can belong to. It is a
// superset of the triage rule table's departments.
var Departments = []string{
	"Cardiology",
	"Neurology",
	"Orthopedics",
	"Oncology",
	"Gastroenterology",
	"Endocrinology",
	"Dermatology",
	"Ophthalmology",
	"ENT",
	"General Medicine",
}

// Languages a patient can select for communication.
var Languages = []string{"en", "zh-cn", "zh-tw"}

// Profile is a patient profile.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Language       string    `json:"language_preference"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Doctor is a hospital specialist available for tele-consultation.
type Doctor struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Hospital          string    `json:"hospital"`
	Department        string    `json:"department"`
	Biography         string    `json:"biography,omitempty"`
	Available         bool      `json:"is_available"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ConsultationStatus tracks where a consultation is in its lifecycle.
type ConsultationStatus string

const (
	// StatusPending means booked, awaiting confirmation
	StatusPending ConsultationStatus = "pending"

	// StatusConfirmed means confirmed by the care team
	StatusConfirmed ConsultationStatus = "confirmed"

	// StatusCompleted means the consultation took place
	StatusCompleted ConsultationStatus = "completed"

	// StatusCancelled means cancelled before completion
	StatusCancelled ConsultationStatus = "cancelled"
)

// legalTransitions defines the allowed status moves.
var legalTransitions = map[ConsultationStatus][]ConsultationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a consultation may move from one status to
// another. Completed and cancelled are terminal.
func CanTransition(from, to ConsultationStatus) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Consultation is a booking between a patient profile and a doctor. The
// triage suggestion is captured at creation time and never recomputed.
type Consultation struct {
	ID               string             `json:"id"`
	ProfileID        string             `json:"profile_id"`
	DoctorID         string             `json:"doctor_id"`
	Symptoms         string             `json:"symptoms_description"`
	TriageSuggestion *triage.Result     `json:"triage_suggestion,omitempty"`
	Status           ConsultationStatus `json:"status"`
	ScheduledAt      *time.Time         `json:"scheduled_at,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
