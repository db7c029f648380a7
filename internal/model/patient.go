package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/pkg/errors"
)

// DataLogCap is the number of activity-log entries retained per patient.
const DataLogCap = 50

// AppendDataLog prepends entry to the comma-joined activity log, dropping
// blanks and keeping only the newest DataLogCap entries.
func AppendDataLog(logs, entry string) string {
	entries := []string{entry}
	for _, e := range strings.Split(logs, ",") {
		if e != "" {
			entries = append(entries, e)
		}
	}
	if len(entries) > DataLogCap {
		entries = entries[:DataLogCap]
	}
	return strings.Join(entries, ",")
}

// SplitDataLog returns the log entries newest-first, dropping blanks.
func SplitDataLog(logs string) []string {
	var entries []string
	for _, e := range strings.Split(logs, ",") {
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// Patient is the patients table row.
type Patient struct {
	ID          uuid.UUID `json:"patient_id" db:"patient_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	Password    string    `json:"-" db:"password"`
	PhoneNo     string    `json:"phone_no" db:"phone_no"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender      string    `json:"gender" db:"gender"`
	Address     string    `json:"address" db:"address"`
	Photo       string    `json:"photo" db:"photo"`
	SHCCode     string    `json:"shc_code" db:"shc_code"`
	QRCode      string    `json:"qr_code" db:"qr_code"`
	Visibility  bool      `json:"visibility" db:"visibility"`

	Smoking    bool   `json:"smoking" db:"smoking"`
	Alcoholism bool   `json:"alcoholism" db:"alcoholism"`
	Tobacco    bool   `json:"tobacco" db:"tobacco"`
	Pregnancy  bool   `json:"pregnancy" db:"pregnancy"`
	Exercise   bool   `json:"exercise" db:"exercise"`
	Allergy    string `json:"allergy" db:"allergy"`
	Others     string `json:"others" db:"others"`

	// DataLogs is a comma-joined, newest-first activity trail capped at 50 entries.
	DataLogs string `json:"data_logs" db:"data_logs"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PatientRef addresses a patient by exactly one of three identifier forms:
// internal id (self access), SHC code or QR code (third-party access).
type PatientRef struct {
	ID      uuid.UUID
	SHCCode string
	QRCode  string
}

func RefByID(id uuid.UUID) PatientRef { return PatientRef{ID: id} }
func RefBySHC(code string) PatientRef { return PatientRef{SHCCode: code} }
func RefByQR(code string) PatientRef  { return PatientRef{QRCode: code} }

// RefByCodes picks the SHC code when present, else the QR code.
func RefByCodes(shc, qr string) PatientRef {
	if shc != "" {
		return RefBySHC(shc)
	}
	return RefByQR(qr)
}

// Validate rejects a ref with no identifier. The three forms are never
// combined in one query; Column below picks a single key.
func (r PatientRef) Validate() error {
	if r.ID == uuid.Nil && r.SHCCode == "" && r.QRCode == "" {
		return errors.Validation("an identifier (patient_id, shc_code, or qr_code) must be provided")
	}
	return nil
}

// Column returns the single column and value the ref resolves through.
func (r PatientRef) Column() (string, interface{}, error) {
	if err := r.Validate(); err != nil {
		return "", nil, err
	}
	switch {
	case r.ID != uuid.Nil:
		return "patient_id", r.ID, nil
	case r.SHCCode != "":
		return "shc_code", r.SHCCode, nil
	default:
		return "qr_code", r.QRCode, nil
	}
}

// Lifestyle is the updatable habit bundle.
type Lifestyle struct {
	Smoking    bool   `json:"smoking"`
	Alcoholism bool   `json:"alcoholism"`
	Tobacco    bool   `json:"tobacco"`
	Exercise   bool   `json:"exercise"`
	Pregnancy  bool   `json:"pregnancy"`
	Others     string `json:"others"`
	Allergy    string `json:"allergy"`
}

// EmergencyContact belongs to exactly one patient; at most 3 per patient.
type EmergencyContact struct {
	ID        uuid.UUID `json:"emg_id" db:"emg_id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	PhoneNo   string    `json:"phone_no" db:"phone_no"`
	Relation  string    `json:"relation" db:"relation"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PatientProfile is the summary field set returned by GET /patient/profile.
type PatientProfile struct {
	FullName    string    `json:"full_name" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	PhoneNo     string    `json:"phone_no" db:"phone_no"`
	Visibility  bool      `json:"visibility" db:"visibility"`
	SHCCode     string    `json:"shc_code" db:"shc_code"`
	QRCode      string    `json:"qr_code" db:"qr_code"`
	Photo       string    `json:"photo" db:"photo"`
	Role        string    `json:"role"`
}

// PatientPersonalDetails is the lifestyle-heavy bundle.
type PatientPersonalDetails struct {
	FullName    string    `json:"full_name" db:"full_name"`
	Photo       string    `json:"photo" db:"photo"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender      string    `json:"gender" db:"gender"`
	Address     string    `json:"address" db:"address"`
	Smoking     bool      `json:"smoking" db:"smoking"`
	Alcoholism  bool      `json:"alcoholism" db:"alcoholism"`
	Tobacco     bool      `json:"tobacco" db:"tobacco"`
	Pregnancy   bool      `json:"pregnancy" db:"pregnancy"`
	Exercise    bool      `json:"exercise" db:"exercise"`
	Others      string    `json:"others" db:"others"`
	Allergy     string    `json:"allergy" db:"allergy"`
}

// PatientBasicDetails is the minimal contact bundle.
type PatientBasicDetails struct {
	Email   string `json:"email" db:"email"`
	PhoneNo string `json:"phone_no" db:"phone_no"`
	Photo   string `json:"photo" db:"photo"`
}

// SignupPatientRequest is the patient branch of the signup body.
type SignupPatientRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNo     string `json:"phone_no" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required,dateonly"`
	Gender      string `json:"gender" binding:"required"`
	Address     string `json:"address"`
	Photo       string `json:"photo"`
	Allergy     string `json:"allergy"`
	Smoking     bool   `json:"smoking"`
	Alcoholism  bool   `json:"alcoholism"`
	Tobacco     bool   `json:"tobacco"`
	Pregnancy   bool   `json:"pregnancy"`
	Exercise    bool   `json:"exercise"`
}
