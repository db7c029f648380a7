package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryType is the provenance tag on a medical record. It is derived from the
// creator's token role, never from the request body.
type EntryType string

const (
	EntrySelf     EntryType = "Self"
	EntryDoctor   EntryType = "Doctor"
	EntryHospital EntryType = "Hospital"
)

// EntryTypeForRole maps a creator role to the record provenance tag.
func EntryTypeForRole(r Role) (EntryType, error) {
	switch r {
	case RolePatient:
		return EntrySelf, nil
	case RoleDoctor:
		return EntryDoctor, nil
	case RoleHospital:
		return EntryHospital, nil
	default:
		return "", fmt.Errorf("role %q cannot create records", r)
	}
}

// SortBy enumerates record list orderings.
type SortBy string

const (
	SortNone      SortBy = "None"
	SortDiagnosis SortBy = "Diagnosis"
	SortTimeAsc   SortBy = "Time Asc"
	SortTimeDesc  SortBy = "Time Desc"
)

// MedicalRecord is the patient_medical_records table row. DoctorName and
// HospitalName are denormalized snapshots taken at creation time; they may
// diverge from the live doctor/hospital rows and are kept as an audit trail.
type MedicalRecord struct {
	ID         uuid.UUID  `json:"record_id" db:"record_id"`
	PatientID  uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID   *uuid.UUID `json:"doctor_id,omitempty" db:"doctor_id"`
	HospitalID *uuid.UUID `json:"hospital_id,omitempty" db:"hospital_id"`

	EntryType    EntryType `json:"entry_type" db:"entry_type"`
	DoctorName   string    `json:"doctor_name" db:"doctor_name"`
	HospitalName string    `json:"hospital_name" db:"hospital_name"`

	DiagnosisName           string     `json:"diagnosis_name" db:"diagnosis_name"`
	TreatmentUndergone      string     `json:"treatment_undergone" db:"treatment_undergone"`
	HistoryOfPresentIllness string     `json:"history_of_present_illness" db:"history_of_present_illness"`
	AppointmentDate         *time.Time `json:"appointment_date,omitempty" db:"appointment_date"`
	RegNo                   string     `json:"reg_no" db:"reg_no"`

	Visibility bool      `json:"visibility" db:"visibility"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Hospitalization is the at-most-one-per-record hospitalization sub-document.
type Hospitalization struct {
	ID             uuid.UUID  `json:"hosp_id" db:"hosp_id"`
	RecordID       uuid.UUID  `json:"record_id" db:"record_id"`
	Reason         string     `json:"reason" db:"reason"`
	Ward           string     `json:"ward" db:"ward"`
	BedNo          string     `json:"bed_no" db:"bed_no"`
	AdmittedOn     *time.Time `json:"admitted_on,omitempty" db:"admitted_on"`
	DischargedOn   *time.Time `json:"discharged_on,omitempty" db:"discharged_on"`
	AttendingStaff string     `json:"attending_staff" db:"attending_staff"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Surgery is the at-most-one-per-record surgery sub-document.
type Surgery struct {
	ID          uuid.UUID  `json:"surgery_id" db:"surgery_id"`
	RecordID    uuid.UUID  `json:"record_id" db:"record_id"`
	Type        string     `json:"type" db:"type"`
	SurgeonName string     `json:"surgeon_name" db:"surgeon_name"`
	PerformedOn *time.Time `json:"performed_on,omitempty" db:"performed_on"`
	Outcome     string     `json:"outcome" db:"outcome"`
	Notes       string     `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Documents is the single per-record documents row with independently
// nullable URL fields. Removing a field nulls it; the row is never deleted.
type Documents struct {
	ID            uuid.UUID `json:"doc_id" db:"doc_id"`
	RecordID      uuid.UUID `json:"record_id" db:"record_id"`
	Prescriptions *string   `json:"prescriptions" db:"prescriptions"`
	LabResults    *string   `json:"lab_results" db:"lab_results"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// RecordFilter narrows and orders a record listing.
type RecordFilter struct {
	// VisibleOnly is forced for every caller other than the owning patient.
	VisibleOnly bool
	// EntryType filters by provenance; empty or "All" means no filter.
	EntryType string
	// Search is a case-insensitive substring over diagnosis, doctor name and
	// hospital name.
	Search string
	SortBy SortBy
}

// RecordSummary is the flattened listing row.
type RecordSummary struct {
	RecordID     uuid.UUID  `json:"record_id" db:"record_id"`
	DoctorID     *uuid.UUID `json:"doctor_id" db:"doctor_id"`
	DoctorName   string     `json:"doctor_name" db:"doctor_name"`
	HospitalID   *uuid.UUID `json:"hospital_id" db:"hospital_id"`
	HospitalName string     `json:"hospital_name" db:"hospital_name"`

	EntryType               EntryType  `json:"entry_type" db:"entry_type"`
	DiagnosisName           string     `json:"diagnosis_name" db:"diagnosis_name"`
	TreatmentUndergone      string     `json:"treatment_undergone" db:"treatment_undergone"`
	HistoryOfPresentIllness string     `json:"history_of_present_illness" db:"history_of_present_illness"`
	Visibility              bool       `json:"visibility" db:"visibility"`
	AppointmentDate         *time.Time `json:"appointment_date" db:"appointment_date"`
	RegNo                   string     `json:"reg_no" db:"reg_no"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`

	IsHospitalized bool `json:"is_hospitalized" db:"is_hospitalized"`
	IsSurgery      bool `json:"is_surgery" db:"is_surgery"`
	DocumentCount  int  `json:"document_count" db:"document_count"`
}

// CreateRecordInput is the payload for full record creation. The sub-document
// sections are optional and inserted in the same transaction when present.
type CreateRecordInput struct {
	BasicDetails    *RecordBasicDetails  `json:"basicDetails" binding:"required"`
	Hospitalization *HospitalizationBody `json:"hospitalizationDetails"`
	Surgery         *SurgeryBody         `json:"surgeryDetails"`
	Documents       *DocumentsBody       `json:"documents"`
}

type RecordBasicDetails struct {
	DiagnosisName           string     `json:"diagnosis_name" binding:"required"`
	TreatmentUndergone      string     `json:"treatment_undergone"`
	HistoryOfPresentIllness string     `json:"history_of_present_illness"`
	DoctorName              string     `json:"doctor_name"`
	HospitalName            string     `json:"hospital_name"`
	AppointmentDate         *time.Time `json:"appointment_date"`
	RegNo                   string     `json:"reg_no"`
	Visibility              bool       `json:"visibility"`
}

type HospitalizationBody struct {
	Reason         string     `json:"reason" binding:"required"`
	Ward           string     `json:"ward"`
	BedNo          string     `json:"bed_no"`
	AdmittedOn     *time.Time `json:"admitted_on"`
	DischargedOn   *time.Time `json:"discharged_on"`
	AttendingStaff string     `json:"attending_staff"`
}

type SurgeryBody struct {
	Type        string     `json:"type" binding:"required"`
	SurgeonName string     `json:"surgeon_name"`
	PerformedOn *time.Time `json:"performed_on"`
	Outcome     string     `json:"outcome"`
	Notes       string     `json:"notes"`
}

type DocumentsBody struct {
	Prescription string `json:"prescription"`
	LabResults   string `json:"lab_results"`
}
