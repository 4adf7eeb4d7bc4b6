package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// User represents a patient, doctor or admin account.
// MedicalID is the human-readable business key (e.g. "DOC001", "PAT014")
// used everywhere outside of storage; the BaseModel UUID stays internal.
type User struct {
	BaseModel
	MedicalID      string `gorm:"uniqueIndex;size:20;not null" json:"medicalId"`
	Email          string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password       string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName      string `gorm:"size:100" json:"firstName"`
	LastName       string `gorm:"size:100" json:"lastName"`
	Role           Role   `gorm:"size:20;default:'patient'" json:"role"`
	Specialization string `gorm:"size:100" json:"specialization,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID             string    `json:"id"`
	MedicalID      string    `json:"medicalId"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Role           Role      `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FullName returns the display name captured on appointment records.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:             u.ID,
		MedicalID:      u.MedicalID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Specialization: u.Specialization,
		PhoneNumber:    u.PhoneNumber,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
