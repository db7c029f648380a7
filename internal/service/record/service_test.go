package record

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/logger"
)

type fakeRecordRepo struct {
	records          map[uuid.UUID]*model.MedicalRecord
	hospitalizations map[uuid.UUID]*model.Hospitalization
	surgeries        map[uuid.UUID]*model.Surgery
	documents        map[uuid.UUID]*model.Documents

	lastFilter model.RecordFilter
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{
		records:          make(map[uuid.UUID]*model.MedicalRecord),
		hospitalizations: make(map[uuid.UUID]*model.Hospitalization),
		surgeries:        make(map[uuid.UUID]*model.Surgery),
		documents:        make(map[uuid.UUID]*model.Documents),
	}
}

func (f *fakeRecordRepo) CreateFull(_ context.Context, record *model.MedicalRecord, hosp *model.Hospitalization, surg *model.Surgery, docs *model.Documents) error {
	f.records[record.ID] = record
	if hosp != nil {
		hosp.RecordID = record.ID
		f.hospitalizations[record.ID] = hosp
	}
	if surg != nil {
		surg.RecordID = record.ID
		f.surgeries[record.ID] = surg
	}
	if docs != nil {
		docs.RecordID = record.ID
		f.documents[record.ID] = docs
	}
	return nil
}

func (f *fakeRecordRepo) Get(_ context.Context, recordID uuid.UUID) (*model.MedicalRecord, error) {
	r, ok := f.records[recordID]
	if !ok {
		return nil, errors.NotFound("record", nil)
	}
	return r, nil
}

func (f *fakeRecordRepo) SetVisibility(_ context.Context, recordID uuid.UUID, visible bool) error {
	r, ok := f.records[recordID]
	if !ok {
		return errors.NotFound("record", nil)
	}
	r.Visibility = visible
	return nil
}

func (f *fakeRecordRepo) List(_ context.Context, patientID uuid.UUID, filter model.RecordFilter) ([]*model.RecordSummary, error) {
	f.lastFilter = filter
	var out []*model.RecordSummary
	for _, r := range f.records {
		if r.PatientID != patientID {
			continue
		}
		if filter.VisibleOnly && !r.Visibility {
			continue
		}
		out = append(out, &model.RecordSummary{RecordID: r.ID, DiagnosisName: r.DiagnosisName})
	}
	return out, nil
}

func (f *fakeRecordRepo) AddHospitalization(_ context.Context, hosp *model.Hospitalization) error {
	if _, exists := f.hospitalizations[hosp.RecordID]; exists {
		return errors.Conflict("hospitalization", nil)
	}
	f.hospitalizations[hosp.RecordID] = hosp
	return nil
}

func (f *fakeRecordRepo) AddSurgery(_ context.Context, surg *model.Surgery) error {
	if _, exists := f.surgeries[surg.RecordID]; exists {
		return errors.Conflict("surgery", nil)
	}
	f.surgeries[surg.RecordID] = surg
	return nil
}

func (f *fakeRecordRepo) GetHospitalization(_ context.Context, recordID uuid.UUID) (*model.Hospitalization, error) {
	h, ok := f.hospitalizations[recordID]
	if !ok {
		return nil, errors.NotFound("hospitalization", nil)
	}
	return h, nil
}

func (f *fakeRecordRepo) GetSurgery(_ context.Context, recordID uuid.UUID) (*model.Surgery, error) {
	s, ok := f.surgeries[recordID]
	if !ok {
		return nil, errors.NotFound("surgery", nil)
	}
	return s, nil
}

func (f *fakeRecordRepo) docsFor(recordID uuid.UUID) *model.Documents {
	docs, ok := f.documents[recordID]
	if !ok {
		docs = &model.Documents{ID: uuid.New(), RecordID: recordID}
		f.documents[recordID] = docs
	}
	return docs
}

func (f *fakeRecordRepo) UpsertPrescription(_ context.Context, recordID uuid.UUID, url string) (*model.Documents, error) {
	docs := f.docsFor(recordID)
	docs.Prescriptions = &url
	return docs, nil
}

func (f *fakeRecordRepo) ClearPrescription(_ context.Context, recordID uuid.UUID) (*model.Documents, error) {
	docs := f.docsFor(recordID)
	docs.Prescriptions = nil
	return docs, nil
}

func (f *fakeRecordRepo) UpsertLabResults(_ context.Context, recordID uuid.UUID, url string) (*model.Documents, error) {
	docs := f.docsFor(recordID)
	docs.LabResults = &url
	return docs, nil
}

func (f *fakeRecordRepo) ClearLabResults(_ context.Context, recordID uuid.UUID) (*model.Documents, error) {
	docs := f.docsFor(recordID)
	docs.LabResults = nil
	return docs, nil
}

func (f *fakeRecordRepo) GetDocuments(_ context.Context, recordID uuid.UUID) (*model.Documents, error) {
	docs, ok := f.documents[recordID]
	if !ok {
		return nil, errors.NotFound("documents", nil)
	}
	return docs, nil
}

func (f *fakeRecordRepo) LastRecord(_ context.Context, _ uuid.UUID) (*model.MedicalRecord, error) {
	return nil, errors.NotFound("record", nil)
}

func (f *fakeRecordRepo) LastHospitalVisit(_ context.Context, _ uuid.UUID) (*model.MedicalRecord, error) {
	return nil, errors.NotFound("hospital visit", nil)
}

func (f *fakeRecordRepo) LastHospitalization(_ context.Context, _ uuid.UUID) (*model.Hospitalization, *model.MedicalRecord, error) {
	return nil, nil, errors.NotFound("hospitalization", nil)
}

func (f *fakeRecordRepo) LastSurgery(_ context.Context, _ uuid.UUID) (*model.Surgery, *model.MedicalRecord, error) {
	return nil, nil, errors.NotFound("surgery", nil)
}

func (f *fakeRecordRepo) HospitalVisits(_ context.Context, _ uuid.UUID, _ string, _, _ *time.Time) ([]*model.MedicalRecord, error) {
	return nil, nil
}

func (f *fakeRecordRepo) DoctorVisits(_ context.Context, _ uuid.UUID, _ string) ([]*model.MedicalRecord, error) {
	return nil, nil
}

func (f *fakeRecordRepo) PastDiagnoses(_ context.Context, _ uuid.UUID) ([]*model.MedicalRecord, error) {
	return nil, nil
}

func (f *fakeRecordRepo) LatestPrescription(_ context.Context, _ uuid.UUID) (*model.Documents, *model.MedicalRecord, error) {
	return nil, nil, errors.NotFound("prescription", nil)
}

func (f *fakeRecordRepo) LabResultsBetween(_ context.Context, _ uuid.UUID, _, _ *time.Time) ([]*model.Documents, error) {
	return nil, nil
}

type fakePatientStore struct {
	id       uuid.UUID
	shc, qr  string
	dataLogs string
}

func (f *fakePatientStore) ResolveID(_ context.Context, ref model.PatientRef) (uuid.UUID, error) {
	if _, _, err := ref.Column(); err != nil {
		return uuid.Nil, err
	}
	if ref.ID == f.id || (ref.SHCCode != "" && ref.SHCCode == f.shc) || (ref.QRCode != "" && ref.QRCode == f.qr) {
		return f.id, nil
	}
	return uuid.Nil, errors.NotFound("patient", nil)
}

func (f *fakePatientStore) GetDataLogs(_ context.Context, _ model.PatientRef) (string, error) {
	return f.dataLogs, nil
}

func (f *fakePatientStore) SetDataLogs(_ context.Context, _ model.PatientRef, logs string) error {
	f.dataLogs = logs
	return nil
}

func (f *fakePatientStore) Create(_ context.Context, _ *model.Patient) error { return nil }
func (f *fakePatientStore) GetByRef(_ context.Context, _ model.PatientRef) (*model.Patient, error) {
	return nil, errors.NotFound("patient", nil)
}
func (f *fakePatientStore) GetByEmail(_ context.Context, _ string) (*model.Patient, error) {
	return nil, errors.NotFound("patient", nil)
}
func (f *fakePatientStore) UpdateVisibility(_ context.Context, _ uuid.UUID, _ bool) error { return nil }
func (f *fakePatientStore) UpdatePhoto(_ context.Context, _ uuid.UUID, _ string) error    { return nil }
func (f *fakePatientStore) UpdateLifestyle(_ context.Context, _ uuid.UUID, _ model.Lifestyle) error {
	return nil
}
func (f *fakePatientStore) UpdateEmail(_ context.Context, _ uuid.UUID, _ string) error    { return nil }
func (f *fakePatientStore) UpdatePhone(_ context.Context, _ uuid.UUID, _ string) error    { return nil }
func (f *fakePatientStore) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakePatientStore) CountEmergencyContacts(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}
func (f *fakePatientStore) CreateEmergencyContact(_ context.Context, _ *model.EmergencyContact) error {
	return nil
}
func (f *fakePatientStore) GetEmergencyContact(_ context.Context, _ uuid.UUID) (*model.EmergencyContact, error) {
	return nil, errors.NotFound("emergency contact", nil)
}
func (f *fakePatientStore) DeleteEmergencyContact(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakePatientStore) ListEmergencyContacts(_ context.Context, _ uuid.UUID) ([]*model.EmergencyContact, error) {
	return nil, nil
}

func setup() (*Service, *fakeRecordRepo, *fakePatientStore) {
	records := newFakeRecordRepo()
	patients := &fakePatientStore{id: uuid.New(), shc: "SHC-1", qr: "QR-1"}
	return NewService(records, patients, logger.NewLogger(nil)), records, patients
}

func basicInput() *model.CreateRecordInput {
	return &model.CreateRecordInput{
		BasicDetails: &model.RecordBasicDetails{DiagnosisName: "Migraine"},
	}
}

func TestCreateRecordDerivesEntryTypeFromRole(t *testing.T) {
	svc, records, patients := setup()

	created, err := svc.CreateRecord(context.Background(),
		model.TokenClaims{ID: patients.id, Role: model.RolePatient}, "", "", basicInput())
	require.NoError(t, err)
	assert.Equal(t, model.EntrySelf, created.EntryType)
	assert.Nil(t, created.DoctorID)

	doctorID := uuid.New()
	created, err = svc.CreateRecord(context.Background(),
		model.TokenClaims{ID: doctorID, Role: model.RoleDoctor}, "SHC-1", "", basicInput())
	require.NoError(t, err)
	assert.Equal(t, model.EntryDoctor, created.EntryType)
	require.NotNil(t, created.DoctorID)
	assert.Equal(t, doctorID, *created.DoctorID)
	assert.Equal(t, patients.id, created.PatientID)

	assert.Len(t, records.records, 2)
}

func TestCreateRecordRejectsExtern(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.CreateRecord(context.Background(),
		model.TokenClaims{ID: uuid.New(), Role: model.RoleExtern}, "SHC-1", "", basicInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCreateRecordThirdPartyRequiresCode(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.CreateRecord(context.Background(),
		model.TokenClaims{ID: uuid.New(), Role: model.RoleDoctor}, "", "", basicInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCreateRecordInsertsSubDocuments(t *testing.T) {
	svc, records, patients := setup()

	input := basicInput()
	input.Hospitalization = &model.HospitalizationBody{Reason: "Observation"}
	input.Surgery = &model.SurgeryBody{Type: "Appendectomy"}
	input.Documents = &model.DocumentsBody{Prescription: "https://cdn/rx.pdf"}

	created, err := svc.CreateRecord(context.Background(),
		model.TokenClaims{ID: patients.id, Role: model.RolePatient}, "", "", input)
	require.NoError(t, err)

	assert.Contains(t, records.hospitalizations, created.ID)
	assert.Contains(t, records.surgeries, created.ID)
	docs := records.documents[created.ID]
	require.NotNil(t, docs)
	require.NotNil(t, docs.Prescriptions)
	assert.Equal(t, "https://cdn/rx.pdf", *docs.Prescriptions)
	assert.Nil(t, docs.LabResults)
}

func TestCreateRecordLogsActivity(t *testing.T) {
	svc, _, patients := setup()

	_, err := svc.CreateRecord(context.Background(),
		model.TokenClaims{ID: uuid.New(), Role: model.RoleHospital}, "", "QR-1", basicInput())
	require.NoError(t, err)

	entries := model.SplitDataLog(patients.dataLogs)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "HOSPITAL")
	assert.Contains(t, entries[0], "created a new record")
}

func TestListRecordsForcesVisibleOnlyForThirdParties(t *testing.T) {
	svc, records, patients := setup()

	hidden := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id, Visibility: false}
	visible := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id, Visibility: true}
	records.records[hidden.ID] = hidden
	records.records[visible.ID] = visible

	own, err := svc.ListRecords(context.Background(),
		model.TokenClaims{ID: patients.id, Role: model.RolePatient}, "", "", model.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2)
	assert.False(t, records.lastFilter.VisibleOnly)

	shared, err := svc.ListRecords(context.Background(),
		model.TokenClaims{ID: uuid.New(), Role: model.RoleExtern}, "SHC-1", "", model.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, shared, 1)
	assert.True(t, records.lastFilter.VisibleOnly)
}

func TestAddHospitalizationConflictsOnSecondInsert(t *testing.T) {
	svc, records, patients := setup()
	record := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id}
	records.records[record.ID] = record
	claims := model.TokenClaims{ID: patients.id, Role: model.RolePatient}

	_, err := svc.AddHospitalization(context.Background(), claims, record.ID,
		&model.HospitalizationBody{Reason: "Observation"})
	require.NoError(t, err)

	_, err = svc.AddHospitalization(context.Background(), claims, record.ID,
		&model.HospitalizationBody{Reason: "Again"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
	assert.Contains(t, err.Error(), "hospitalization details already exist")
}

func TestAddSurgeryConflictsOnSecondInsert(t *testing.T) {
	svc, records, patients := setup()
	record := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id}
	records.records[record.ID] = record
	claims := model.TokenClaims{ID: patients.id, Role: model.RolePatient}

	_, err := svc.AddSurgery(context.Background(), claims, record.ID,
		&model.SurgeryBody{Type: "Appendectomy"})
	require.NoError(t, err)

	_, err = svc.AddSurgery(context.Background(), claims, record.ID,
		&model.SurgeryBody{Type: "Appendectomy"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestPatientCannotTouchForeignRecord(t *testing.T) {
	svc, records, patients := setup()
	foreign := &model.MedicalRecord{ID: uuid.New(), PatientID: uuid.New()}
	records.records[foreign.ID] = foreign

	claims := model.TokenClaims{ID: patients.id, Role: model.RolePatient}
	_, err := svc.AddPrescription(context.Background(), claims, foreign.ID, "https://cdn/rx.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestExternCannotModifyRecords(t *testing.T) {
	svc, records, patients := setup()
	record := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id}
	records.records[record.ID] = record

	claims := model.TokenClaims{ID: uuid.New(), Role: model.RoleExtern}
	_, err := svc.AddPrescription(context.Background(), claims, record.ID, "https://cdn/rx.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	_, err = svc.RemoveLabResults(context.Background(), claims, record.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestPrescriptionRoundTrip(t *testing.T) {
	svc, records, patients := setup()
	record := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id}
	records.records[record.ID] = record
	claims := model.TokenClaims{ID: patients.id, Role: model.RolePatient}

	docs, err := svc.AddPrescription(context.Background(), claims, record.ID, "https://cdn/rx.pdf")
	require.NoError(t, err)
	require.NotNil(t, docs.Prescriptions)

	docs, err = svc.RemovePrescription(context.Background(), claims, record.ID)
	require.NoError(t, err)
	assert.Nil(t, docs.Prescriptions)

	// Removing again is idempotent.
	_, err = svc.RemovePrescription(context.Background(), claims, record.ID)
	assert.NoError(t, err)
}

func TestToggleRecordVisibility(t *testing.T) {
	svc, records, patients := setup()
	record := &model.MedicalRecord{ID: uuid.New(), PatientID: patients.id, Visibility: true}
	records.records[record.ID] = record

	next, err := svc.ToggleVisibility(context.Background(),
		model.TokenClaims{ID: patients.id, Role: model.RolePatient}, record.ID, true)
	require.NoError(t, err)
	assert.False(t, next)
	assert.False(t, record.Visibility)
}
