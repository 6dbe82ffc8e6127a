package dtos

import "time"

// PatientEventType names a store mutation.
type PatientEventType string

const (
	PatientCreated PatientEventType = "created"
	PatientUpdated PatientEventType = "updated"
	PatientDeleted PatientEventType = "deleted"
)

// PatientEvent is published on every successful mutation.
type PatientEvent struct {
	Type      PatientEventType `json:"type"`
	PatientID string           `json:"patient_id"`
	At        time.Time        `json:"at"`
}
