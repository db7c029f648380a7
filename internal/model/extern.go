package model

import (
	"time"

	"github.com/google/uuid"
)

// ExternalViewer is the external_viewers table row: a non-clinical third
// party granted read access to patient data via SHC/QR code.
type ExternalViewer struct {
	ID       uuid.UUID `json:"viewer_id" db:"viewer_id"`
	FullName string    `json:"full_name" db:"full_name"`
	Email    string    `json:"email" db:"email"`
	Password string    `json:"-" db:"password"`
	PhoneNo  string    `json:"phone_no" db:"phone_no"`
	Photo    string    `json:"photo" db:"photo"`

	OrgType             string     `json:"org_type" db:"org_type"`
	OrgName             string     `json:"org_name" db:"org_name"`
	OrgDescription      string     `json:"org_description" db:"org_description"`
	OrgFoundedOn        *time.Time `json:"org_founded_on,omitempty" db:"org_founded_on"`
	OrgLicenseNo        string     `json:"org_license_no" db:"org_license_no"`
	OrgLicenseValidTill *time.Time `json:"org_license_valid_till,omitempty" db:"org_license_valid_till"`
	OrgAddress          string     `json:"org_address" db:"org_address"`
	OrgWebsite          string     `json:"org_website" db:"org_website"`

	VerificationDocuments string `json:"verification_documents" db:"verification_documents"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ExternProfile is the summary field set.
type ExternProfile struct {
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
	Photo    string `json:"photo" db:"photo"`
	OrgName  string `json:"org_name" db:"org_name"`
}

// ExternPersonalDetails is the personal contact bundle.
type ExternPersonalDetails struct {
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
	PhoneNo  string `json:"phone_no" db:"phone_no"`
	Photo    string `json:"photo" db:"photo"`
}

// ExternOrganizationCredentials is the organization bundle.
type ExternOrganizationCredentials struct {
	OrgType             string     `json:"org_type" db:"org_type"`
	OrgName             string     `json:"org_name" db:"org_name"`
	OrgDescription      string     `json:"org_description" db:"org_description"`
	OrgFoundedOn        *time.Time `json:"org_founded_on" db:"org_founded_on"`
	OrgLicenseNo        string     `json:"org_license_no" db:"org_license_no"`
	OrgLicenseValidTill *time.Time `json:"org_license_valid_till" db:"org_license_valid_till"`
	OrgAddress          string     `json:"org_address" db:"org_address"`
	OrgWebsite          string     `json:"org_website" db:"org_website"`
}

// UpdateExternOrganizationRequest replaces the organization bundle.
type UpdateExternOrganizationRequest struct {
	Type             string `json:"type" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	FoundedOn        string `json:"founded_on" binding:"omitempty,dateonly"`
	LicenseNo        string `json:"license_no"`
	LicenseValidTill string `json:"license_valid_till" binding:"omitempty,dateonly"`
	Address          string `json:"address"`
	Website          string `json:"website"`
}

// OrganizationDetails is the nested section of the extern signup body.
type OrganizationDetails struct {
	Type             string `json:"type" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	FoundedOn        string `json:"founded_on" binding:"omitempty,dateonly"`
	LicenseNo        string `json:"license_no"`
	LicenseValidTill string `json:"license_valid_till" binding:"omitempty,dateonly"`
	Address          string `json:"address"`
	Website          string `json:"website"`
}

// SignupExternRequest is the external-viewer branch of the signup body.
type SignupExternRequest struct {
	FullName            string              `json:"full_name" binding:"required"`
	Email               string              `json:"email" binding:"required,email"`
	Password            string              `json:"password" binding:"required,min=8"`
	PhoneNo             string              `json:"phone_no" binding:"required"`
	Photo               string              `json:"photo"`
	OrganizationDetails OrganizationDetails `json:"organization_details" binding:"required"`
}
