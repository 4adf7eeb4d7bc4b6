package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthconnect-server/internal/middleware"
	"healthconnect-server/internal/models"
	"healthconnect-server/internal/utils"
)

// UserHandler handles user directory lookups.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetDoctors handles fetching all doctors. Patients use this list when
// booking appointments.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Where("role = ?", models.RoleDoctor).Order("medical_id asc").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, doctor := range doctors {
		sanitized[i] = doctor.Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// GetDoctorPatients handles fetching the patients who have an appointment
// with the calling doctor.
func (h *UserHandler) GetDoctorPatients(c *gin.Context) {
	medicalID, exists := middleware.GetMedicalIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleDoctor && userRole != models.RoleAdmin {
		utils.Forbidden(c, "Only doctors and admins can view patient lists")
		return
	}

	var patients []models.User
	query := h.DB.Where("role = ?", models.RolePatient)
	if userRole == models.RoleDoctor {
		query = query.Where("medical_id IN (?)",
			h.DB.Model(&models.AppointmentRequest{}).
				Select("patient_medical_id").
				Where("doctor_medical_id = ?", medicalID))
	}
	if err := query.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(patients))
	for i, patient := range patients {
		sanitized[i] = patient.Sanitize()
	}

	utils.Success(c, "Patients fetched successfully", sanitized)
}
