package model

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is the hospitals table row.
type Hospital struct {
	ID       uuid.UUID `json:"hospital_id" db:"hospital_id"`
	Name     string    `json:"name" db:"name"`
	Email    string    `json:"email" db:"email"`
	Password string    `json:"-" db:"password"`
	PhoneNo  string    `json:"phone_no" db:"phone_no"`
	Photo    string    `json:"photo" db:"photo"`

	Address               string    `json:"address" db:"address"`
	Website               string    `json:"website" db:"website"`
	Type                  string    `json:"type" db:"type"`
	LicenseNo             string    `json:"license_no" db:"license_no"`
	LicenseValidTill      time.Time `json:"license_valid_till" db:"license_valid_till"`
	FoundedOn             time.Time `json:"founded_on" db:"founded_on"`
	VerificationDocuments string    `json:"verification_documents" db:"verification_documents"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HospitalProfile is the summary field set.
type HospitalProfile struct {
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	Photo string `json:"photo" db:"photo"`
}

// HospitalCredentials is the verification bundle.
type HospitalCredentials struct {
	LicenseNo             string    `json:"license_no" db:"license_no"`
	Address               string    `json:"address" db:"address"`
	PhoneNo               string    `json:"phone_no" db:"phone_no"`
	Website               string    `json:"website" db:"website"`
	LicenseValidTill      time.Time `json:"license_valid_till" db:"license_valid_till"`
	Type                  string    `json:"type" db:"type"`
	FoundedOn             time.Time `json:"founded_on" db:"founded_on"`
	VerificationDocuments string    `json:"verification_documents" db:"verification_documents"`
}

// UpdateHospitalCredentialsRequest is the explicitly named credentials bundle;
// the only multi-field update path a hospital has.
type UpdateHospitalCredentialsRequest struct {
	LicenseNo        string `json:"license_no" binding:"required"`
	Address          string `json:"address" binding:"required"`
	PhoneNo          string `json:"phone_no" binding:"required"`
	Website          string `json:"website"`
	LicenseValidTill string `json:"license_valid_till" binding:"required,dateonly"`
	Type             string `json:"type" binding:"required"`
	FoundedOn        string `json:"founded_on" binding:"required,dateonly"`
}

// SignupHospitalRequest is the hospital branch of the signup body.
type SignupHospitalRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	PhoneNo          string `json:"phone_no" binding:"required"`
	Address          string `json:"address"`
	Website          string `json:"website"`
	Photo            string `json:"photo"`
	Type             string `json:"type"`
	LicenseNo        string `json:"license_no" binding:"required"`
	LicenseValidTill string `json:"license_valid_till" binding:"required,dateonly"`
	FoundedOn        string `json:"founded_on" binding:"required,dateonly"`
}
