package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthconnect-server/internal/middleware"
	"healthconnect-server/internal/models"
	"healthconnect-server/internal/utils"
)

// AppointmentHandler handles the appointment request workflow.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case models.IsInvalidTransition(err):
		utils.Conflict(c, err.Error())
	case models.IsValidationError(err):
		utils.UnprocessableEntity(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// loadAppointment fetches an appointment by path param and writes the error
// response itself when it cannot.
func (h *AppointmentHandler) loadAppointment(c *gin.Context) (*models.AppointmentRequest, bool) {
	var appointment models.AppointmentRequest
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &appointment, true
}

// saveAppointment re-runs the field invariants and persists the record.
// Writes the error response itself on failure. Every mutation path goes
// through here so the urgency gate is checked before each persist, not just
// at creation.
func (h *AppointmentHandler) saveAppointment(c *gin.Context, appointment *models.AppointmentRequest) bool {
	if err := appointment.ValidateForSave(); err != nil {
		writeDomainError(c, err)
		return false
	}
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return false
	}
	return true
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorMedicalID    string              `json:"doctorMedicalId" binding:"required"`
	PreferredDate      string              `json:"preferredDate" binding:"required"`
	PreferredTime      string              `json:"preferredTime" binding:"required"`
	Symptoms           string              `json:"symptoms" binding:"required,max=2000"`
	MeetingType        models.MeetingType  `json:"meetingType" binding:"required,oneof=online offline"`
	VideoCallLink      string              `json:"videoCallLink"`
	UrgencyLevel       models.UrgencyLevel `json:"urgencyLevel"`
	UrgencyScore       float64             `json:"urgencyScore"`
	FromSymptomChecker bool                `json:"fromSymptomChecker"`
}

// CreateAppointment handles a patient booking a new appointment request.
// Client-supplied urgency fields are silently coerced to Routine/0 unless the
// submission went through the symptom checker.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var patient models.User
	if err := h.DB.First(&patient, "id = ?", userID).Error; err != nil {
		utils.Unauthorized(c, "Authenticated user no longer exists")
		return
	}

	var doctor models.User
	if err := h.DB.Where("medical_id = ? AND role = ?", req.DoctorMedicalID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	if req.MeetingType == models.MeetingOnline && req.VideoCallLink == "" {
		utils.BadRequest(c, "videoCallLink is required for online appointments")
		return
	}
	if req.MeetingType == models.MeetingOffline {
		req.VideoCallLink = ""
	}

	urgencyLevel, urgencyScore := models.CoerceUrgency(req.UrgencyLevel, req.UrgencyScore, req.FromSymptomChecker)
	if err := models.ValidateUrgencyWrite(urgencyLevel, urgencyScore, req.FromSymptomChecker); err != nil {
		writeDomainError(c, err)
		return
	}

	// Display names and emails are captured here once and never re-synced
	// from the user records.
	appointment := models.AppointmentRequest{
		DoctorMedicalID:    doctor.MedicalID,
		PatientMedicalID:   patient.MedicalID,
		DoctorName:         doctor.FullName(),
		DoctorEmail:        doctor.Email,
		PatientName:        patient.FullName(),
		PatientEmail:       patient.Email,
		PreferredDate:      req.PreferredDate,
		PreferredTime:      req.PreferredTime,
		MeetingType:        req.MeetingType,
		VideoCallLink:      req.VideoCallLink,
		Symptoms:           req.Symptoms,
		UrgencyLevel:       urgencyLevel,
		UrgencyScore:       urgencyScore,
		FromSymptomChecker: req.FromSymptomChecker,
		Status:             models.StatusPending,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	medicalID, exists := middleware.GetMedicalIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.AppointmentRequest
	query := h.DB.Preload("Thread", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc")
	}).Order("created_at desc")

	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_medical_id = ?", medicalID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_medical_id = ?", medicalID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.AppointmentRequest
	err := h.DB.Preload("Thread", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc")
	}).First(&appointment, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	medicalID, _ := middleware.GetMedicalIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && !appointment.InvolvesMedicalID(medicalID) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// ApproveAppointmentRequest represents the doctor's approval payload.
// Empty schedule fields confirm the patient's preferred slot.
type ApproveAppointmentRequest struct {
	Message       string `json:"message"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
}

// ApproveAppointment handles a doctor approving a pending appointment.
func (h *AppointmentHandler) ApproveAppointment(c *gin.Context) {
	var req ApproveAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}
	if !h.authorizeDoctorAction(c, appointment) {
		return
	}

	if err := appointment.Approve(req.Message, req.ScheduledDate, req.ScheduledTime); err != nil {
		writeDomainError(c, err)
		return
	}

	if !h.saveAppointment(c, appointment) {
		return
	}

	utils.Success(c, "Appointment approved", appointment)
}

// RejectAppointmentRequest represents the doctor's rejection payload.
type RejectAppointmentRequest struct {
	Message string `json:"message" binding:"required"`
}

// RejectAppointment handles a doctor rejecting a pending appointment.
func (h *AppointmentHandler) RejectAppointment(c *gin.Context) {
	var req RejectAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}
	if !h.authorizeDoctorAction(c, appointment) {
		return
	}

	if err := appointment.Reject(req.Message); err != nil {
		writeDomainError(c, err)
		return
	}

	if !h.saveAppointment(c, appointment) {
		return
	}

	utils.Success(c, "Appointment rejected", appointment)
}

// CancelAppointment handles either party cancelling a pending or approved
// appointment. The cancelling party's medical ID is recorded.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	medicalID, _ := middleware.GetMedicalIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && !appointment.InvolvesMedicalID(medicalID) {
		utils.Forbidden(c, "You are not authorized to cancel this appointment")
		return
	}

	if err := appointment.Cancel(medicalID); err != nil {
		writeDomainError(c, err)
		return
	}

	if !h.saveAppointment(c, appointment) {
		return
	}

	utils.Success(c, "Appointment cancelled", appointment)
}

// CompleteAppointment handles the doctor marking an approved appointment as
// completed, which makes it eligible for patient feedback.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}
	if !h.authorizeDoctorAction(c, appointment) {
		return
	}

	if err := appointment.Complete(); err != nil {
		writeDomainError(c, err)
		return
	}

	if !h.saveAppointment(c, appointment) {
		return
	}

	utils.Success(c, "Appointment completed", appointment)
}

// authorizeDoctorAction ensures the caller is the appointment's doctor (or an
// admin). Writes the error response itself on failure.
func (h *AppointmentHandler) authorizeDoctorAction(c *gin.Context, appointment *models.AppointmentRequest) bool {
	medicalID, _ := middleware.GetMedicalIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleAdmin {
		return true
	}
	if userRole != models.RoleDoctor || medicalID != appointment.DoctorMedicalID {
		utils.Forbidden(c, "Only the appointment's doctor can perform this action")
		return false
	}
	return true
}

// AppendMessageRequest represents a new negotiation thread message.
type AppendMessageRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// AppendThreadMessage handles either party adding a message to the
// appointment's negotiation thread. Appending never changes the status, but
// it does advance the appointment's updatedAt.
func (h *AppointmentHandler) AppendThreadMessage(c *gin.Context) {
	var req AppendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	medicalID, _ := middleware.GetMedicalIDFromContext(c)
	if !appointment.InvolvesMedicalID(medicalID) {
		utils.Forbidden(c, "You are not a party to this appointment")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	var sender models.User
	if err := h.DB.First(&sender, "id = ?", userID).Error; err != nil {
		utils.Unauthorized(c, "Authenticated user no longer exists")
		return
	}

	message, err := appointment.NewThreadMessage(sender.MedicalID, sender.FullName(), req.Message)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	if err := h.DB.Create(message).Error; err != nil {
		utils.InternalServerError(c, "Failed to append message: "+err.Error())
		return
	}
	if err := h.DB.Model(appointment).Update("updated_at", time.Now()).Error; err != nil {
		utils.InternalServerError(c, "Failed to touch appointment: "+err.Error())
		return
	}

	utils.Created(c, "Message appended", message)
}

// GetThreadMessages handles fetching the negotiation thread in append order.
func (h *AppointmentHandler) GetThreadMessages(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	medicalID, _ := middleware.GetMedicalIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && !appointment.InvolvesMedicalID(medicalID) {
		utils.Forbidden(c, "You are not a party to this appointment")
		return
	}

	var messages []models.AppointmentMessage
	if err := h.DB.Where("appointment_id = ?", appointment.ID).Order("created_at asc").Find(&messages).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}

	utils.Success(c, "Messages fetched successfully", messages)
}
