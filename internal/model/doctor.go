package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the doctors table row.
type Doctor struct {
	ID          uuid.UUID `json:"doctor_id" db:"doctor_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	Password    string    `json:"-" db:"password"`
	PhoneNo     string    `json:"phone_no" db:"phone_no"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender      string    `json:"gender" db:"gender"`
	Address     string    `json:"address" db:"address"`
	Photo       string    `json:"photo" db:"photo"`

	Specialization        string `json:"specialization" db:"specialization"`
	Qualification         string `json:"qualification" db:"qualification"`
	LicenseNo             string `json:"license_no" db:"license_no"`
	ExperienceYears       int    `json:"experience_years" db:"experience_years"`
	HospitalName          string `json:"hospital_name" db:"hospital_name"`
	VerificationDocuments string `json:"verification_documents" db:"verification_documents"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DoctorProfile is the summary field set.
type DoctorProfile struct {
	FullName       string `json:"full_name" db:"full_name"`
	Email          string `json:"email" db:"email"`
	Photo          string `json:"photo" db:"photo"`
	Specialization string `json:"specialization" db:"specialization"`
}

// DoctorCredentials is the verification bundle.
type DoctorCredentials struct {
	Specialization        string `json:"specialization" db:"specialization"`
	Qualification         string `json:"qualification" db:"qualification"`
	LicenseNo             string `json:"license_no" db:"license_no"`
	ExperienceYears       int    `json:"experience_years" db:"experience_years"`
	HospitalName          string `json:"hospital_name" db:"hospital_name"`
	VerificationDocuments string `json:"verification_documents" db:"verification_documents"`
}

// DoctorBasicDetails is the minimal contact bundle.
type DoctorBasicDetails struct {
	Email   string `json:"email" db:"email"`
	PhoneNo string `json:"phone_no" db:"phone_no"`
	Photo   string `json:"photo" db:"photo"`
}

// SignupDoctorRequest is the doctor branch of the signup body.
type SignupDoctorRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PhoneNo         string `json:"phone_no" binding:"required"`
	DateOfBirth     string `json:"date_of_birth" binding:"required,dateonly"`
	Gender          string `json:"gender"`
	Address         string `json:"address"`
	Photo           string `json:"photo"`
	Specialization  string `json:"specialization" binding:"required"`
	Qualification   string `json:"qualification"`
	LicenseNo       string `json:"license_no" binding:"required"`
	ExperienceYears int    `json:"experience_years"`
	HospitalName    string `json:"hospital_name"`
}
