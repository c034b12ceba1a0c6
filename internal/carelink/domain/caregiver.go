package domain

import "time"

// CaregiverLink records that a caregiver may follow a patient's data.
// It is created when the caregiver redeems one of the patient's invite codes.
type CaregiverLink struct {
	ID           string
	PatientID    string
	CaregiverID  string
	InviteCodeID string
	CreatedAt    time.Time
}
