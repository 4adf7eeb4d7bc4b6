package models

import (
	"time"
)

// AppointmentStatus represents the lifecycle status of an appointment request
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// IsTerminal reports whether no further status transitions are allowed.
// Terminal records are retained for audit and feedback linkage, never deleted.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// statusTransitions is the full set of legal transitions. Anything not
// listed here fails with InvalidTransitionError.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// ValidateTransition checks whether from -> to is a legal status transition.
func ValidateTransition(from, to AppointmentStatus) error {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// UrgencyLevel classifies how soon a patient should be seen.
type UrgencyLevel string

const (
	UrgencyRoutine   UrgencyLevel = "Routine"
	UrgencyNonUrgent UrgencyLevel = "Non-Urgent"
	UrgencySameDay   UrgencyLevel = "Same Day"
	UrgencyUrgent    UrgencyLevel = "Urgent"
	UrgencyEmergency UrgencyLevel = "Emergency"
)

// Valid reports whether l is a known urgency level.
func (l UrgencyLevel) Valid() bool {
	switch l {
	case UrgencyRoutine, UrgencyNonUrgent, UrgencySameDay, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// MeetingType represents how the appointment is held.
type MeetingType string

const (
	MeetingOnline  MeetingType = "online"
	MeetingOffline MeetingType = "offline"
)

// AppointmentRequest is the aggregate root for the booking workflow.
// Party display names and emails are denormalized at creation time and
// never re-synced from the user records afterwards.
type AppointmentRequest struct {
	BaseModel
	DoctorMedicalID  string `gorm:"size:20;index;not null" json:"doctorMedicalId"`
	PatientMedicalID string `gorm:"size:20;index;not null" json:"patientMedicalId"`
	DoctorName       string `gorm:"size:200" json:"doctorName"`
	DoctorEmail      string `gorm:"size:255" json:"doctorEmail"`
	PatientName      string `gorm:"size:200" json:"patientName"`
	PatientEmail     string `gorm:"size:255" json:"patientEmail"`

	PreferredDate string      `gorm:"size:10" json:"preferredDate"`
	PreferredTime string      `gorm:"size:5" json:"preferredTime"`
	ScheduledDate string      `gorm:"size:10" json:"scheduledDate,omitempty"`
	ScheduledTime string      `gorm:"size:5" json:"scheduledTime,omitempty"`
	MeetingType   MeetingType `gorm:"size:10;default:'offline'" json:"meetingType"`
	VideoCallLink string      `gorm:"size:512" json:"videoCallLink,omitempty"`

	Symptoms string `gorm:"type:text;not null" json:"symptoms"`

	UrgencyLevel       UrgencyLevel `gorm:"size:20;default:'Routine'" json:"urgencyLevel"`
	UrgencyScore       float64      `gorm:"default:0" json:"urgencyScore"`
	FromSymptomChecker bool         `gorm:"default:false" json:"fromSymptomChecker"`

	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	ResponseMessage string            `gorm:"type:text" json:"responseMessage,omitempty"`
	RespondedAt     *time.Time        `json:"respondedAt,omitempty"`
	CancelledBy     string            `gorm:"size:20" json:"cancelledBy,omitempty"`

	// Relations
	Thread []AppointmentMessage `gorm:"foreignKey:AppointmentID" json:"thread,omitempty"`
}

// AppointmentMessage is one entry in the negotiation thread between the
// doctor and the patient. Entries are append-only: no edit, no delete.
type AppointmentMessage struct {
	BaseModel
	AppointmentID   string `gorm:"size:36;index;not null" json:"appointmentId"`
	SenderMedicalID string `gorm:"size:20;not null" json:"senderMedicalId"`
	SenderName      string `gorm:"size:200" json:"senderName"`
	Message         string `gorm:"type:text;not null" json:"message"`
}

// CoerceUrgency returns the urgency fields to actually store for a creation
// request. A record that did not go through the symptom checker gets
// Routine/0 regardless of what the client submitted.
func CoerceUrgency(level UrgencyLevel, score float64, fromSymptomChecker bool) (UrgencyLevel, float64) {
	if !fromSymptomChecker {
		return UrgencyRoutine, 0
	}
	if level == "" {
		level = UrgencyRoutine
	}
	return level, score
}

// ValidateUrgencyWrite enforces the urgency gate against proposed post-write
// values: any urgency other than Routine is legal only when the fields came
// from the symptom checker. Also bounds the score to [0,10].
func ValidateUrgencyWrite(level UrgencyLevel, score float64, fromSymptomChecker bool) error {
	if !level.Valid() {
		return &ValidationError{Field: "urgencyLevel", Reason: "unknown urgency level " + string(level)}
	}
	if score < 0 || score > 10 {
		return &ValidationError{Field: "urgencyScore", Reason: "must be between 0 and 10"}
	}
	if level != UrgencyRoutine && !fromSymptomChecker {
		return &ValidationError{Field: "urgencyLevel", Reason: "non-routine urgency requires symptom checker provenance"}
	}
	return nil
}

// ValidateForSave re-checks field invariants against the record's current
// values. Invoked before every persist so the urgency gate holds regardless
// of which path mutated the record.
func (a *AppointmentRequest) ValidateForSave() error {
	return ValidateUrgencyWrite(a.UrgencyLevel, a.UrgencyScore, a.FromSymptomChecker)
}

// Approve moves a pending request to approved, recording the doctor's
// response and the confirmed schedule. Empty date/time fall back to the
// patient's preferred slot.
func (a *AppointmentRequest) Approve(message, scheduledDate, scheduledTime string) error {
	if err := ValidateTransition(a.Status, StatusApproved); err != nil {
		return err
	}
	if scheduledDate == "" {
		scheduledDate = a.PreferredDate
	}
	if scheduledTime == "" {
		scheduledTime = a.PreferredTime
	}
	now := time.Now()
	a.Status = StatusApproved
	a.ScheduledDate = scheduledDate
	a.ScheduledTime = scheduledTime
	a.ResponseMessage = message
	a.RespondedAt = &now
	return nil
}

// Reject moves a pending request to rejected with the doctor's message.
func (a *AppointmentRequest) Reject(message string) error {
	if message == "" {
		return &ValidationError{Field: "message", Reason: "a rejection message is required"}
	}
	if err := ValidateTransition(a.Status, StatusRejected); err != nil {
		return err
	}
	now := time.Now()
	a.Status = StatusRejected
	a.ResponseMessage = message
	a.RespondedAt = &now
	return nil
}

// Cancel moves a pending or approved request to cancelled, recording the
// medical ID of the cancelling party.
func (a *AppointmentRequest) Cancel(byMedicalID string) error {
	if err := ValidateTransition(a.Status, StatusCancelled); err != nil {
		return err
	}
	a.Status = StatusCancelled
	a.CancelledBy = byMedicalID
	return nil
}

// Complete moves an approved request to completed, which makes the
// appointment eligible for feedback.
func (a *AppointmentRequest) Complete() error {
	if err := ValidateTransition(a.Status, StatusCompleted); err != nil {
		return err
	}
	a.Status = StatusCompleted
	return nil
}

// NewThreadMessage validates a thread append against the current status and
// returns the entry to persist. Appending never changes the status itself.
func (a *AppointmentRequest) NewThreadMessage(senderMedicalID, senderName, message string) (*AppointmentMessage, error) {
	if message == "" {
		return nil, &ValidationError{Field: "message", Reason: "message text is required"}
	}
	if a.Status.IsTerminal() {
		return nil, &ValidationError{Field: "status", Reason: "cannot message on a " + string(a.Status) + " appointment"}
	}
	return &AppointmentMessage{
		AppointmentID:   a.ID,
		SenderMedicalID: senderMedicalID,
		SenderName:      senderName,
		Message:         message,
	}, nil
}

// InvolvesMedicalID reports whether the given medical ID is one of the
// appointment's parties.
func (a *AppointmentRequest) InvolvesMedicalID(medicalID string) bool {
	return medicalID == a.DoctorMedicalID || medicalID == a.PatientMedicalID
}
