package chatbot

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/logger"
)

// The fakes embed the repository interfaces; only the methods a test path
// touches are overridden.

type fakePatients struct {
	repository.PatientRepository
	patient  *model.Patient
	contacts []*model.EmergencyContact
}

func (f *fakePatients) match(ref model.PatientRef) bool {
	if f.patient == nil {
		return false
	}
	return ref.SHCCode == f.patient.SHCCode || (ref.QRCode != "" && ref.QRCode == f.patient.QRCode)
}

func (f *fakePatients) ResolveID(_ context.Context, ref model.PatientRef) (uuid.UUID, error) {
	if !f.match(ref) {
		return uuid.Nil, errors.NotFound("patient", nil)
	}
	return f.patient.ID, nil
}

func (f *fakePatients) GetByRef(_ context.Context, ref model.PatientRef) (*model.Patient, error) {
	if !f.match(ref) {
		return nil, errors.NotFound("patient", nil)
	}
	return f.patient, nil
}

func (f *fakePatients) ListEmergencyContacts(_ context.Context, _ uuid.UUID) ([]*model.EmergencyContact, error) {
	return f.contacts, nil
}

type fakeRecords struct {
	repository.RecordRepository
	lastRecord *model.MedicalRecord
	visits     []*model.MedicalRecord
	err        error
}

func (f *fakeRecords) LastRecord(_ context.Context, _ uuid.UUID) (*model.MedicalRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.lastRecord == nil {
		return nil, errors.NotFound("record", nil)
	}
	return f.lastRecord, nil
}

func (f *fakeRecords) HospitalVisits(_ context.Context, _ uuid.UUID, _ string, _, _ *time.Time) ([]*model.MedicalRecord, error) {
	return f.visits, nil
}

type fakeTips struct {
	tip *model.HealthTip
}

func (f *fakeTips) Random(_ context.Context) (*model.HealthTip, error) { return f.tip, nil }

func (f *fakeTips) ByCategory(_ context.Context, category string) ([]*model.HealthTip, error) {
	if f.tip != nil && f.tip.Category == category {
		return []*model.HealthTip{f.tip}, nil
	}
	return nil, nil
}

func newTestService(patients *fakePatients, records *fakeRecords, tips *fakeTips) *Service {
	if tips == nil {
		tips = &fakeTips{tip: &model.HealthTip{Category: "Hydration", TipText: "Drink water."}}
	}
	return NewService(patients, records, nil, nil, tips, logger.NewLogger(nil))
}

func webhook(action, shc string, entities ...model.Entity) *model.WebhookRequest {
	req := &model.WebhookRequest{NextAction: action}
	req.Tracker.LatestMessage.Metadata.SHCCode = shc
	req.Tracker.LatestMessage.Entities = entities
	return req
}

func seededPatient() *model.Patient {
	return &model.Patient{
		ID:      uuid.New(),
		SHCCode: "SHC-1",
		QRCode:  "QR-1",
		Gender:  "female",
	}
}

func botText(t *testing.T, resp *model.WebhookResponse) string {
	t.Helper()
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "bot", resp.Events[0].Event)
	return resp.Events[0].Text
}

func TestHandleUnknownIntent(t *testing.T) {
	svc := newTestService(&fakePatients{}, &fakeRecords{}, nil)

	resp := svc.Handle(context.Background(), webhook("action_launch_rockets", "SHC-1"))
	assert.Equal(t, "Sorry, I can't handle that action right now.", botText(t, resp))
}

func TestHandleSwallowsHandlerErrors(t *testing.T) {
	patients := &fakePatients{patient: seededPatient()}
	records := &fakeRecords{err: errors.Internal(nil)}
	svc := newTestService(patients, records, nil)

	resp := svc.Handle(context.Background(), webhook("action_find_last_record", "SHC-1"))
	assert.Equal(t, "I'm sorry, but I encountered an error while processing your request.", botText(t, resp))
}

func TestHandleUnknownPatient(t *testing.T) {
	svc := newTestService(&fakePatients{patient: seededPatient()}, &fakeRecords{}, nil)

	resp := svc.Handle(context.Background(), webhook("action_find_last_record", "SHC-other"))
	assert.Equal(t, "Patient not found.", botText(t, resp))
}

func TestFindLastRecordFormatsReply(t *testing.T) {
	patients := &fakePatients{patient: seededPatient()}
	records := &fakeRecords{lastRecord: &model.MedicalRecord{
		DiagnosisName: "Migraine",
		CreatedAt:     time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC),
	}}
	svc := newTestService(patients, records, nil)

	resp := svc.Handle(context.Background(), webhook("action_find_last_record", "SHC-1"))
	assert.Equal(t, "The last record added was for 'Migraine' on 09/03/2025.", botText(t, resp))
}

func TestFindLastRecordNoRecords(t *testing.T) {
	svc := newTestService(&fakePatients{patient: seededPatient()}, &fakeRecords{}, nil)

	resp := svc.Handle(context.Background(), webhook("action_find_last_record", "SHC-1"))
	assert.Equal(t, "No records were found.", botText(t, resp))
}

func TestFindHospitalVisitRequiresName(t *testing.T) {
	svc := newTestService(&fakePatients{patient: seededPatient()}, &fakeRecords{}, nil)

	resp := svc.Handle(context.Background(), webhook("action_find_hospital_visit", "SHC-1"))
	assert.Equal(t, "Please specify a hospital name.", botText(t, resp))
}

func TestFindHospitalVisitListsDates(t *testing.T) {
	when := time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC)
	patients := &fakePatients{patient: seededPatient()}
	records := &fakeRecords{visits: []*model.MedicalRecord{{AppointmentDate: &when}}}
	svc := newTestService(patients, records, nil)

	resp := svc.Handle(context.Background(),
		webhook("action_find_hospital_visit", "SHC-1", model.Entity{Entity: "hospital_name", Value: "City Care"}))
	assert.Equal(t, "Records show visits to City Care on the following dates: 02/12/2024.", botText(t, resp))
}

func TestCheckPregnancyIsGenderGated(t *testing.T) {
	patient := seededPatient()
	patient.Gender = "male"
	svc := newTestService(&fakePatients{patient: patient}, &fakeRecords{}, nil)

	resp := svc.Handle(context.Background(), webhook("action_check_pregnancy", "SHC-1"))
	assert.Equal(t,
		"The patient's record indicates they are not female, so pregnancy status is not applicable.",
		botText(t, resp))

	patient.Gender = "female"
	patient.Pregnancy = true
	resp = svc.Handle(context.Background(), webhook("action_check_pregnancy", "SHC-1"))
	assert.Equal(t, "The patient's record indicates they are pregnant.", botText(t, resp))
}

func TestGetOverviewBlock(t *testing.T) {
	patient := seededPatient()
	patient.FullName = "Asha Rao"
	patient.Allergy = "Penicillin"
	patient.DateOfBirth = time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(&fakePatients{patient: patient}, &fakeRecords{}, nil)

	text := botText(t, svc.Handle(context.Background(), webhook("action_get_overview", "SHC-1")))
	assert.Contains(t, text, "Patient Overview:<br>-------------------<br>")
	assert.Contains(t, text, "Name: Asha Rao<br>")
	assert.Contains(t, text, "Allergies: Penicillin")
}

func TestGetHealthTipPrefersCategory(t *testing.T) {
	tips := &fakeTips{tip: &model.HealthTip{Category: "Sleep", TipText: "Avoid screens before bed."}}
	svc := newTestService(&fakePatients{patient: seededPatient()}, &fakeRecords{}, tips)

	resp := svc.Handle(context.Background(),
		webhook("action_get_health_tip", "SHC-1", model.Entity{Entity: "category", Value: "Sleep"}))
	assert.Equal(t, "Health Tip (Sleep): Avoid screens before bed.", botText(t, resp))

	// Unknown category falls back to the random pick.
	resp = svc.Handle(context.Background(),
		webhook("action_get_health_tip", "SHC-1", model.Entity{Entity: "category", Value: "Nope"}))
	assert.Equal(t, "Health Tip (Sleep): Avoid screens before bed.", botText(t, resp))
}

func TestFindEmergencyContactFilters(t *testing.T) {
	patients := &fakePatients{
		patient: seededPatient(),
		contacts: []*model.EmergencyContact{
			{FullName: "Ravi Rao", Relation: "father", PhoneNo: "111"},
			{FullName: "Mina Rao", Relation: "mother", PhoneNo: "222"},
		},
	}
	svc := newTestService(patients, &fakeRecords{}, nil)

	text := botText(t, svc.Handle(context.Background(),
		webhook("action_find_emergency_contact", "SHC-1", model.Entity{Entity: "relation", Value: "mother"})))
	assert.Contains(t, text, "Mina Rao (mother): 222<br>")
	assert.NotContains(t, text, "Ravi Rao")
}
