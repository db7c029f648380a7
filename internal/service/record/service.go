package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/logger"
)

// RecordService manages medical records and their sub-documents. Record
// provenance (entry_type, doctor/hospital linkage) always derives from the
// creator's verified claims, never from the request body.
type RecordService interface {
	CreateRecord(ctx context.Context, claims model.TokenClaims, shc, qr string, input *model.CreateRecordInput) (*model.MedicalRecord, error)
	ListRecords(ctx context.Context, claims model.TokenClaims, shc, qr string, filter model.RecordFilter) ([]*model.RecordSummary, error)
	ToggleVisibility(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, current bool) (bool, error)

	AddHospitalization(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, body *model.HospitalizationBody) (*model.Hospitalization, error)
	AddSurgery(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, body *model.SurgeryBody) (*model.Surgery, error)
	GetHospitalization(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Hospitalization, error)
	GetSurgery(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Surgery, error)
	GetDocuments(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Documents, error)

	AddPrescription(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, url string) (*model.Documents, error)
	RemovePrescription(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Documents, error)
	AddLabResults(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, url string) (*model.Documents, error)
	RemoveLabResults(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Documents, error)
}

type Service struct {
	records  repository.RecordRepository
	patients repository.PatientRepository
	log      *logger.Logger
}

func NewService(records repository.RecordRepository, patients repository.PatientRepository, log *logger.Logger) *Service {
	return &Service{records: records, patients: patients, log: log}
}

// resolveRef picks the target-patient access path for a record operation.
func resolveRef(claims model.TokenClaims, shc, qr string) (model.PatientRef, error) {
	switch claims.Role {
	case model.RolePatient:
		return model.RefByID(claims.ID), nil
	case model.RoleDoctor, model.RoleHospital, model.RoleExtern:
		if shc == "" && qr == "" {
			return model.PatientRef{}, errors.Validation("an identifier (shc_code or qr_code) must be provided")
		}
		return model.RefByCodes(shc, qr), nil
	default:
		return model.PatientRef{}, errors.Forbidden("role cannot access patient records")
	}
}

// requireWriter rejects roles that cannot author record content.
func requireWriter(claims model.TokenClaims) error {
	switch claims.Role {
	case model.RolePatient, model.RoleDoctor, model.RoleHospital:
		return nil
	default:
		return errors.Forbidden("role cannot modify patient records")
	}
}

func (s *Service) CreateRecord(ctx context.Context, claims model.TokenClaims, shc, qr string, input *model.CreateRecordInput) (*model.MedicalRecord, error) {
	if err := requireWriter(claims); err != nil {
		return nil, err
	}
	if input == nil || input.BasicDetails == nil {
		return nil, errors.Validation("basic record details must be provided")
	}

	entryType, err := model.EntryTypeForRole(claims.Role)
	if err != nil {
		return nil, errors.Forbidden("role cannot create records")
	}

	ref, err := resolveRef(claims, shc, qr)
	if err != nil {
		return nil, err
	}
	patientID, err := s.patients.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}

	basic := input.BasicDetails
	record := &model.MedicalRecord{
		ID:                      uuid.New(),
		PatientID:               patientID,
		EntryType:               entryType,
		DoctorName:              basic.DoctorName,
		HospitalName:            basic.HospitalName,
		DiagnosisName:           basic.DiagnosisName,
		TreatmentUndergone:      basic.TreatmentUndergone,
		HistoryOfPresentIllness: basic.HistoryOfPresentIllness,
		AppointmentDate:         basic.AppointmentDate,
		RegNo:                   basic.RegNo,
		Visibility:              basic.Visibility,
	}
	switch claims.Role {
	case model.RoleDoctor:
		id := claims.ID
		record.DoctorID = &id
	case model.RoleHospital:
		id := claims.ID
		record.HospitalID = &id
	}

	var hosp *model.Hospitalization
	if input.Hospitalization != nil {
		hosp = hospitalizationFromBody(input.Hospitalization)
	}
	var surg *model.Surgery
	if input.Surgery != nil {
		surg = surgeryFromBody(input.Surgery)
	}
	var docs *model.Documents
	if input.Documents != nil && (input.Documents.Prescription != "" || input.Documents.LabResults != "") {
		docs = &model.Documents{ID: uuid.New()}
		if input.Documents.Prescription != "" {
			p := input.Documents.Prescription
			docs.Prescriptions = &p
		}
		if input.Documents.LabResults != "" {
			l := input.Documents.LabResults
			docs.LabResults = &l
		}
	}

	if err := s.records.CreateFull(ctx, record, hosp, surg, docs); err != nil {
		return nil, err
	}

	s.logActivity(ctx, model.RefByID(patientID), claims,
		fmt.Sprintf("created a new record [%s]", record.ID))
	return record, nil
}

func hospitalizationFromBody(body *model.HospitalizationBody) *model.Hospitalization {
	return &model.Hospitalization{
		ID:             uuid.New(),
		Reason:         body.Reason,
		Ward:           body.Ward,
		BedNo:          body.BedNo,
		AdmittedOn:     body.AdmittedOn,
		DischargedOn:   body.DischargedOn,
		AttendingStaff: body.AttendingStaff,
	}
}

func surgeryFromBody(body *model.SurgeryBody) *model.Surgery {
	return &model.Surgery{
		ID:          uuid.New(),
		Type:        body.Type,
		SurgeonName: body.SurgeonName,
		PerformedOn: body.PerformedOn,
		Outcome:     body.Outcome,
		Notes:       body.Notes,
	}
}

func (s *Service) ListRecords(ctx context.Context, claims model.TokenClaims, shc, qr string, filter model.RecordFilter) ([]*model.RecordSummary, error) {
	ref, err := resolveRef(claims, shc, qr)
	if err != nil {
		return nil, err
	}
	patientID, err := s.patients.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	// Only the owning patient sees hidden records.
	if claims.Role != model.RolePatient {
		filter.VisibleOnly = true
	}
	return s.records.List(ctx, patientID, filter)
}

func (s *Service) ToggleVisibility(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, current bool) (bool, error) {
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return false, err
	}
	next := !current
	if err := s.records.SetVisibility(ctx, record.ID, next); err != nil {
		return false, err
	}
	return next, nil
}

// authorizeRecord loads the record and checks the caller may touch it: the
// owning patient by token id, doctors and hospitals unconditionally (they
// reached the record through a code-gated listing).
func (s *Service) authorizeRecord(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.MedicalRecord, error) {
	if err := requireWriter(claims); err != nil {
		return nil, err
	}
	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if claims.Role == model.RolePatient && record.PatientID != claims.ID {
		return nil, errors.Forbidden("record does not belong to this patient")
	}
	return record, nil
}

func (s *Service) AddHospitalization(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, body *model.HospitalizationBody) (*model.Hospitalization, error) {
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return nil, err
	}
	hosp := hospitalizationFromBody(body)
	hosp.RecordID = recordID
	if err := s.records.AddHospitalization(ctx, hosp); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, &errors.AppError{
				Code:    errors.ErrConflict,
				Message: "hospitalization details already exist for this record",
			}
		}
		return nil, err
	}
	s.logActivity(ctx, model.RefByID(record.PatientID), claims,
		fmt.Sprintf("added hospitalization details to record [%s]", recordID))
	return hosp, nil
}

func (s *Service) AddSurgery(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, body *model.SurgeryBody) (*model.Surgery, error) {
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return nil, err
	}
	surg := surgeryFromBody(body)
	surg.RecordID = recordID
	if err := s.records.AddSurgery(ctx, surg); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, &errors.AppError{
				Code:    errors.ErrConflict,
				Message: "surgery details already exist for this record",
			}
		}
		return nil, err
	}
	s.logActivity(ctx, model.RefByID(record.PatientID), claims,
		fmt.Sprintf("added surgery details to record [%s]", recordID))
	return surg, nil
}

func (s *Service) GetHospitalization(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Hospitalization, error) {
	if _, err := s.authorizeRecord(ctx, claims, recordID); err != nil {
		return nil, err
	}
	return s.records.GetHospitalization(ctx, recordID)
}

func (s *Service) GetSurgery(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Surgery, error) {
	if _, err := s.authorizeRecord(ctx, claims, recordID); err != nil {
		return nil, err
	}
	return s.records.GetSurgery(ctx, recordID)
}

func (s *Service) GetDocuments(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Documents, error) {
	if _, err := s.authorizeRecord(ctx, claims, recordID); err != nil {
		return nil, err
	}
	return s.records.GetDocuments(ctx, recordID)
}

func (s *Service) AddPrescription(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, url string) (*model.Documents, error) {
	if url == "" {
		return nil, errors.Validation("prescription url must be provided")
	}
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return nil, err
	}
	docs, err := s.records.UpsertPrescription(ctx, recordID, url)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, model.RefByID(record.PatientID), claims,
		fmt.Sprintf("added prescription to record [%s]", recordID))
	return docs, nil
}

func (s *Service) RemovePrescription(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Documents, error) {
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return nil, err
	}
	docs, err := s.records.ClearPrescription(ctx, recordID)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, model.RefByID(record.PatientID), claims,
		fmt.Sprintf("removed prescription from record [%s]", recordID))
	return docs, nil
}

func (s *Service) AddLabResults(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID, url string) (*model.Documents, error) {
	if url == "" {
		return nil, errors.Validation("lab results url must be provided")
	}
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return nil, err
	}
	docs, err := s.records.UpsertLabResults(ctx, recordID, url)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, model.RefByID(record.PatientID), claims,
		fmt.Sprintf("added lab results to record [%s]", recordID))
	return docs, nil
}

func (s *Service) RemoveLabResults(ctx context.Context, claims model.TokenClaims, recordID uuid.UUID) (*model.Documents, error) {
	record, err := s.authorizeRecord(ctx, claims, recordID)
	if err != nil {
		return nil, err
	}
	docs, err := s.records.ClearLabResults(ctx, recordID)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, model.RefByID(record.PatientID), claims,
		fmt.Sprintf("removed lab results from record [%s]", recordID))
	return docs, nil
}

// logActivity appends an entry to the patient's data log after a successful
// write. Best effort: failures are logged server-side only.
func (s *Service) logActivity(ctx context.Context, ref model.PatientRef, claims model.TokenClaims, action string) {
	entry := fmt.Sprintf("%s - %s [%s] %s",
		time.Now().UTC().Format(time.RFC3339),
		strings.ToUpper(claims.Role.String()),
		claims.ID,
		action,
	)
	logs, err := s.patients.GetDataLogs(ctx, ref)
	if err == nil {
		err = s.patients.SetDataLogs(ctx, ref, model.AppendDataLog(logs, entry))
	}
	if err != nil {
		s.log.Error(err, "failed to append record activity to data log")
	}
}
