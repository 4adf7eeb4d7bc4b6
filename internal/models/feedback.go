package models

// Feedback is the patient's review of a completed appointment.
// At most one per appointment.
type Feedback struct {
	BaseModel
	AppointmentID    string  `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	PatientMedicalID string  `gorm:"size:20;index;not null" json:"patientMedicalId"`
	Rating           int     `gorm:"not null" json:"rating"`
	Comment          string  `gorm:"type:text" json:"comment,omitempty"`
	WouldRecommend   bool    `gorm:"default:true" json:"wouldRecommend"`

	// Relations
	Appointment AppointmentRequest `gorm:"foreignKey:AppointmentID" json:"-"`
}

// ValidateFeedback checks the rating bounds and appointment eligibility.
// Feedback may only be left once the appointment is completed.
func ValidateFeedback(appointment *AppointmentRequest, rating int) error {
	if rating < 1 || rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if appointment.Status != StatusCompleted {
		return &ValidationError{Field: "appointment", Reason: "feedback is only allowed on completed appointments"}
	}
	return nil
}
