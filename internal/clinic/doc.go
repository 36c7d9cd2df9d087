// Package clinic provides the business boundary for carebridge's
// tele-consultation domain. It defines the domain models (patient profiles,
// doctors, consultations), the Store persistence interface, and the Service
// (validation, doctor availability checks, status lifecycle, triage
// attachment, notification dispatch).
package clinic
