package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthconnect-server/internal/middleware"
	"healthconnect-server/internal/models"
	"healthconnect-server/internal/utils"
)

// FeedbackHandler handles patient feedback on completed appointments.
type FeedbackHandler struct {
	DB *gorm.DB
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{DB: db}
}

// SubmitFeedbackRequest represents the request body for leaving feedback.
type SubmitFeedbackRequest struct {
	Rating         int    `json:"rating" binding:"required"`
	Comment        string `json:"comment" binding:"max=2000"`
	WouldRecommend bool   `json:"wouldRecommend"`
}

// SubmitFeedback handles the appointment's patient leaving feedback.
// Allowed at most once per appointment, and only once it is completed.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.AppointmentRequest
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	medicalID, _ := middleware.GetMedicalIDFromContext(c)
	if medicalID != appointment.PatientMedicalID {
		utils.Forbidden(c, "Only the appointment's patient can leave feedback")
		return
	}

	if err := models.ValidateFeedback(&appointment, req.Rating); err != nil {
		writeDomainError(c, err)
		return
	}

	var existing models.Feedback
	if err := h.DB.Where("appointment_id = ?", appointment.ID).First(&existing).Error; err == nil {
		utils.Conflict(c, "Feedback already submitted for this appointment")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	feedback := models.Feedback{
		AppointmentID:    appointment.ID,
		PatientMedicalID: medicalID,
		Rating:           req.Rating,
		Comment:          req.Comment,
		WouldRecommend:   req.WouldRecommend,
	}

	if err := h.DB.Create(&feedback).Error; err != nil {
		utils.InternalServerError(c, "Failed to save feedback: "+err.Error())
		return
	}

	utils.Created(c, "Feedback submitted successfully", feedback)
}

// GetFeedback handles fetching the feedback left on an appointment.
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	var appointment models.AppointmentRequest
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
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
		utils.Forbidden(c, "You are not a party to this appointment")
		return
	}

	var feedback models.Feedback
	if err := h.DB.Where("appointment_id = ?", appointment.ID).First(&feedback).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "No feedback for this appointment")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Feedback fetched successfully", feedback)
}
