package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
)

// PatientRepository persists patients, their emergency contacts and the
// per-patient activity log. All ref-keyed lookups resolve through exactly
// one identifier column.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	GetByRef(ctx context.Context, ref model.PatientRef) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	ResolveID(ctx context.Context, ref model.PatientRef) (uuid.UUID, error)

	UpdateVisibility(ctx context.Context, id uuid.UUID, visible bool) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error
	UpdateLifestyle(ctx context.Context, id uuid.UUID, lifestyle model.Lifestyle) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	GetDataLogs(ctx context.Context, ref model.PatientRef) (string, error)
	SetDataLogs(ctx context.Context, ref model.PatientRef, logs string) error

	CountEmergencyContacts(ctx context.Context, patientID uuid.UUID) (int, error)
	CreateEmergencyContact(ctx context.Context, contact *model.EmergencyContact) error
	GetEmergencyContact(ctx context.Context, emgID uuid.UUID) (*model.EmergencyContact, error)
	DeleteEmergencyContact(ctx context.Context, emgID uuid.UUID) error
	ListEmergencyContacts(ctx context.Context, patientID uuid.UUID) ([]*model.EmergencyContact, error)
}

// RecordRepository persists medical records and their sub-documents.
type RecordRepository interface {
	// CreateFull inserts the record and any present sub-documents in one
	// transaction; nothing persists if any step fails.
	CreateFull(ctx context.Context, record *model.MedicalRecord, hosp *model.Hospitalization, surg *model.Surgery, docs *model.Documents) error

	Get(ctx context.Context, recordID uuid.UUID) (*model.MedicalRecord, error)
	SetVisibility(ctx context.Context, recordID uuid.UUID, visible bool) error
	List(ctx context.Context, patientID uuid.UUID, filter model.RecordFilter) ([]*model.RecordSummary, error)

	// AddHospitalization and AddSurgery enforce at-most-one sub-record per
	// medical record with a check-then-insert inside a transaction.
	AddHospitalization(ctx context.Context, hosp *model.Hospitalization) error
	AddSurgery(ctx context.Context, surg *model.Surgery) error
	GetHospitalization(ctx context.Context, recordID uuid.UUID) (*model.Hospitalization, error)
	GetSurgery(ctx context.Context, recordID uuid.UUID) (*model.Surgery, error)

	UpsertPrescription(ctx context.Context, recordID uuid.UUID, url string) (*model.Documents, error)
	ClearPrescription(ctx context.Context, recordID uuid.UUID) (*model.Documents, error)
	UpsertLabResults(ctx context.Context, recordID uuid.UUID, url string) (*model.Documents, error)
	ClearLabResults(ctx context.Context, recordID uuid.UUID) (*model.Documents, error)
	GetDocuments(ctx context.Context, recordID uuid.UUID) (*model.Documents, error)

	// Chatbot point lookups and filtered searches.
	LastRecord(ctx context.Context, patientID uuid.UUID) (*model.MedicalRecord, error)
	LastHospitalVisit(ctx context.Context, patientID uuid.UUID) (*model.MedicalRecord, error)
	LastHospitalization(ctx context.Context, patientID uuid.UUID) (*model.Hospitalization, *model.MedicalRecord, error)
	LastSurgery(ctx context.Context, patientID uuid.UUID) (*model.Surgery, *model.MedicalRecord, error)
	HospitalVisits(ctx context.Context, patientID uuid.UUID, hospitalName string, from, to *time.Time) ([]*model.MedicalRecord, error)
	DoctorVisits(ctx context.Context, patientID uuid.UUID, doctorName string) ([]*model.MedicalRecord, error)
	PastDiagnoses(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
	LatestPrescription(ctx context.Context, patientID uuid.UUID) (*model.Documents, *model.MedicalRecord, error)
	LabResultsBetween(ctx context.Context, patientID uuid.UUID, from, to *time.Time) ([]*model.Documents, error)
}

// DoctorRepository persists doctor credential rows.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	UpdateCredentials(ctx context.Context, id uuid.UUID, creds model.DoctorCredentials) error
	UpdateVerificationDocuments(ctx context.Context, id uuid.UUID, url string) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SearchBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error)
}

// HospitalRepository persists hospital credential rows.
type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital) error
	Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
	UpdateCredentials(ctx context.Context, id uuid.UUID, creds model.HospitalCredentials) error
	UpdateVerificationDocuments(ctx context.Context, id uuid.UUID, url string) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SearchByName(ctx context.Context, name string) ([]*model.Hospital, error)
}

// ExternRepository persists external-viewer credential rows.
type ExternRepository interface {
	Create(ctx context.Context, viewer *model.ExternalViewer) error
	Get(ctx context.Context, id uuid.UUID) (*model.ExternalViewer, error)
	GetByEmail(ctx context.Context, email string) (*model.ExternalViewer, error)
	UpdateOrganization(ctx context.Context, id uuid.UUID, org model.ExternOrganizationCredentials) error
	UpdateVerificationDocuments(ctx context.Context, id uuid.UUID, url string) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// HealthTipRepository reads the health-tip catalog.
type HealthTipRepository interface {
	Count(ctx context.Context) (int, error)
	GetByOffset(ctx context.Context, offset int) (*model.HealthTip, error)
	ListByCategory(ctx context.Context, category string) ([]*model.HealthTip, error)
}
