package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingAppointment() *AppointmentRequest {
	return &AppointmentRequest{
		BaseModel:        BaseModel{ID: "apt-1"},
		DoctorMedicalID:  "DOC001",
		PatientMedicalID: "PAT001",
		PreferredDate:    "2026-09-01",
		PreferredTime:    "10:30",
		Symptoms:         "persistent cough",
		UrgencyLevel:     UrgencyRoutine,
		Status:           StatusPending,
	}
}

func TestCoerceUrgencyWithoutProvenance(t *testing.T) {
	level, score := CoerceUrgency(UrgencyEmergency, 9, false)
	assert.Equal(t, UrgencyRoutine, level)
	assert.Equal(t, float64(0), score)
}

func TestCoerceUrgencyWithProvenance(t *testing.T) {
	level, score := CoerceUrgency(UrgencySameDay, 5, true)
	assert.Equal(t, UrgencySameDay, level)
	assert.Equal(t, float64(5), score)

	// Empty level from the checker still defaults to Routine.
	level, _ = CoerceUrgency("", 0, true)
	assert.Equal(t, UrgencyRoutine, level)
}

func TestValidateUrgencyWrite(t *testing.T) {
	assert.NoError(t, ValidateUrgencyWrite(UrgencyRoutine, 0, false))
	assert.NoError(t, ValidateUrgencyWrite(UrgencyUrgent, 8, true))

	err := ValidateUrgencyWrite(UrgencyUrgent, 8, false)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	assert.True(t, IsValidationError(ValidateUrgencyWrite(UrgencyRoutine, 11, false)))
	assert.True(t, IsValidationError(ValidateUrgencyWrite(UrgencyRoutine, -1, false)))
	assert.True(t, IsValidationError(ValidateUrgencyWrite("Critical", 5, true)))
}

func TestValidateForSaveEnforcesGate(t *testing.T) {
	// The gate holds on every persist, not just at creation: a record whose
	// urgency fields were mutated without provenance fails the pre-save check.
	a := pendingAppointment()
	assert.NoError(t, a.ValidateForSave())

	a.UrgencyLevel = UrgencyUrgent
	a.UrgencyScore = 8
	a.FromSymptomChecker = false
	err := a.ValidateForSave()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	a.FromSymptomChecker = true
	assert.NoError(t, a.ValidateForSave())
}

func TestValidateTransitionTable(t *testing.T) {
	legal := []struct{ from, to AppointmentStatus }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCancelled},
		{StatusApproved, StatusCompleted},
	}
	for _, tc := range legal {
		assert.NoError(t, ValidateTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	illegal := []struct{ from, to AppointmentStatus }{
		{StatusCompleted, StatusApproved},
		{StatusCompleted, StatusCancelled},
		{StatusRejected, StatusApproved},
		{StatusCancelled, StatusPending},
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusRejected},
	}
	for _, tc := range illegal {
		err := ValidateTransition(tc.from, tc.to)
		require.Error(t, err, "%s -> %s should be illegal", tc.from, tc.to)
		assert.True(t, IsInvalidTransition(err))
	}
}

func TestApproveSetsResponseAndSchedule(t *testing.T) {
	a := pendingAppointment()
	err := a.Approve("See you then", "2026-09-02", "11:00")
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, a.Status)
	assert.Equal(t, "2026-09-02", a.ScheduledDate)
	assert.Equal(t, "11:00", a.ScheduledTime)
	assert.Equal(t, "See you then", a.ResponseMessage)
	require.NotNil(t, a.RespondedAt)
}

func TestApproveDefaultsToPreferredSlot(t *testing.T) {
	a := pendingAppointment()
	require.NoError(t, a.Approve("Confirmed", "", ""))
	assert.Equal(t, "2026-09-01", a.ScheduledDate)
	assert.Equal(t, "10:30", a.ScheduledTime)
}

func TestApproveFromCompletedFails(t *testing.T) {
	a := pendingAppointment()
	a.Status = StatusCompleted

	err := a.Approve("again", "2026-09-03", "09:00")
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))

	// Record untouched on a failed transition.
	assert.Equal(t, StatusCompleted, a.Status)
	assert.Empty(t, a.ScheduledDate)
	assert.Nil(t, a.RespondedAt)
}

func TestRejectRequiresMessage(t *testing.T) {
	a := pendingAppointment()
	err := a.Reject("")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, StatusPending, a.Status)

	require.NoError(t, a.Reject("No availability this week"))
	assert.Equal(t, StatusRejected, a.Status)
	assert.NotNil(t, a.RespondedAt)
}

func TestCancelRecordsParty(t *testing.T) {
	a := pendingAppointment()
	require.NoError(t, a.Cancel("PAT001"))
	assert.Equal(t, StatusCancelled, a.Status)
	assert.Equal(t, "PAT001", a.CancelledBy)

	approved := pendingAppointment()
	require.NoError(t, approved.Approve("ok", "", ""))
	require.NoError(t, approved.Cancel("DOC001"))
	assert.Equal(t, "DOC001", approved.CancelledBy)
}

func TestCompleteOnlyFromApproved(t *testing.T) {
	a := pendingAppointment()
	err := a.Complete()
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))

	require.NoError(t, a.Approve("ok", "", ""))
	require.NoError(t, a.Complete())
	assert.Equal(t, StatusCompleted, a.Status)
}

func TestNewThreadMessage(t *testing.T) {
	a := pendingAppointment()
	msg, err := a.NewThreadMessage("DOC001", "Dr. Sarah Smith", "Can we move this to the afternoon?")
	require.NoError(t, err)
	assert.Equal(t, "apt-1", msg.AppointmentID)
	assert.Equal(t, "DOC001", msg.SenderMedicalID)
	assert.Equal(t, "Dr. Sarah Smith", msg.SenderName)

	_, err = a.NewThreadMessage("DOC001", "Dr. Sarah Smith", "")
	assert.True(t, IsValidationError(err))
}

func TestNewThreadMessageOnTerminalStatus(t *testing.T) {
	for _, status := range []AppointmentStatus{StatusRejected, StatusCancelled, StatusCompleted} {
		a := pendingAppointment()
		a.Status = status
		_, err := a.NewThreadMessage("PAT001", "Jane Doe", "hello?")
		require.Error(t, err, "append on %s should fail", status)
		assert.True(t, IsValidationError(err))
	}
}

func TestInvolvesMedicalID(t *testing.T) {
	a := pendingAppointment()
	assert.True(t, a.InvolvesMedicalID("DOC001"))
	assert.True(t, a.InvolvesMedicalID("PAT001"))
	assert.False(t, a.InvolvesMedicalID("PAT999"))
}
