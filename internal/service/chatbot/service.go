package chatbot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/internal/service/healthtip"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/logger"
)

// Fallback sentences. Handler failures are logged server-side and never
// surfaced to the chat caller.
const (
	unknownIntentReply = "Sorry, I can't handle that action right now."
	handlerErrorReply  = "I'm sorry, but I encountered an error while processing your request."
	patientNotFound    = "Patient not found."
)

const dateLayout = "02/01/2006"

// ChatbotService maps classified intents to read-only store lookups and
// formats a plain-text reply. Stateless; the patient is resolved fresh on
// every call from the payload metadata codes.
type ChatbotService interface {
	Handle(ctx context.Context, req *model.WebhookRequest) *model.WebhookResponse
}

type intentHandler func(ctx context.Context, ref model.PatientRef, entities []model.Entity) (string, error)

type Service struct {
	patients  repository.PatientRepository
	records   repository.RecordRepository
	doctors   repository.DoctorRepository
	hospitals repository.HospitalRepository
	tips      healthtip.HealthTipService
	log       *logger.Logger
	handlers  map[string]intentHandler
}

func NewService(
	patients repository.PatientRepository,
	records repository.RecordRepository,
	doctors repository.DoctorRepository,
	hospitals repository.HospitalRepository,
	tips healthtip.HealthTipService,
	log *logger.Logger,
) *Service {
	s := &Service{
		patients:  patients,
		records:   records,
		doctors:   doctors,
		hospitals: hospitals,
		tips:      tips,
		log:       log,
	}
	s.handlers = map[string]intentHandler{
		"action_find_hospital_visit":       s.findHospitalVisit,
		"action_find_doctor_visit":         s.findDoctorVisit,
		"action_find_last_record":          s.findLastRecord,
		"action_find_last_hospital_visit":  s.findLastHospitalVisit,
		"action_find_last_hospitalization": s.findLastHospitalization,
		"action_find_last_surgery":         s.findLastSurgery,
		"action_find_last_activity":        s.findLastRecord,
		"action_find_past_diagnoses":       s.findPastDiagnoses,
		"action_find_current_medications":  s.findCurrentMedications,
		"action_find_lab_results":          s.findLabResults,
		"action_find_emergency_contact":    s.findEmergencyContact,
		"action_check_allergy":             s.checkAllergy,
		"action_check_habits":              s.checkHabits,
		"action_check_pregnancy":           s.checkPregnancy,
		"action_get_overview":              s.getOverview,
		"action_get_contact_info":          s.getContactInfo,
		"action_find_specialist":           s.findSpecialist,
		"action_find_hospital":             s.findHospital,
		"action_get_health_tip":            s.getHealthTip,
	}
	return s
}

func (s *Service) Handle(ctx context.Context, req *model.WebhookRequest) *model.WebhookResponse {
	text := unknownIntentReply
	if handler, ok := s.handlers[req.NextAction]; ok {
		msg := req.Tracker.LatestMessage
		ref := model.RefByCodes(msg.Metadata.SHCCode, msg.Metadata.QRCode)
		reply, err := handler(ctx, ref, msg.Entities)
		if err != nil {
			s.log.Error(err, "chatbot intent handler failed", "intent", req.NextAction)
			text = handlerErrorReply
		} else {
			text = reply
		}
	}
	return &model.WebhookResponse{
		Events: []model.WebhookEvent{{Event: "bot", Text: text}},
	}
}

func entityValue(entities []model.Entity, name string) string {
	for _, e := range entities {
		if e.Entity == name {
			return e.Value
		}
	}
	return ""
}

// yearRange turns a date_range entity holding a year into a [Jan 1, Jan 1)
// window. Anything non-numeric is ignored.
func yearRange(entities []model.Entity) (*time.Time, *time.Time) {
	value := entityValue(entities, "date_range")
	year, err := strconv.Atoi(value)
	if err != nil {
		return nil, nil
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &from, &to
}

// patientID resolves the metadata codes to a patient, distinguishing
// not-found (friendly reply) from real failures.
func (s *Service) patientID(ctx context.Context, ref model.PatientRef) (uuid.UUID, bool, error) {
	if err := ref.Validate(); err != nil {
		return uuid.Nil, false, nil
	}
	id, err := s.patients.ResolveID(ctx, ref)
	if err != nil {
		if isNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (s *Service) findHospitalVisit(ctx context.Context, ref model.PatientRef, entities []model.Entity) (string, error) {
	hospitalName := entityValue(entities, "hospital_name")
	if hospitalName == "" {
		return "Please specify a hospital name.", nil
	}
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Sorry, I couldn't find a patient with those details.", nil
	}

	from, to := yearRange(entities)
	visits, err := s.records.HospitalVisits(ctx, id, hospitalName, from, to)
	if err != nil {
		return "", err
	}
	if len(visits) == 0 {
		return fmt.Sprintf("I found no records of visits to %s.", hospitalName), nil
	}

	var dates []string
	for _, visit := range visits {
		if visit.AppointmentDate != nil {
			dates = append(dates, visit.AppointmentDate.Format(dateLayout))
		}
	}
	if len(dates) == 0 {
		return fmt.Sprintf("I found records for %s, but they do not have specific dates.", hospitalName), nil
	}
	return fmt.Sprintf("Records show visits to %s on the following dates: %s.", hospitalName, strings.Join(dates, ", ")), nil
}

func (s *Service) findDoctorVisit(ctx context.Context, ref model.PatientRef, entities []model.Entity) (string, error) {
	doctorName := entityValue(entities, "doctor_name")
	if doctorName == "" {
		return "Please specify a doctor name.", nil
	}
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	visits, err := s.records.DoctorVisits(ctx, id, doctorName)
	if err != nil {
		return "", err
	}
	if len(visits) == 0 {
		return fmt.Sprintf("I found no records of visits to %s.", doctorName), nil
	}

	var dates []string
	for _, visit := range visits {
		if visit.AppointmentDate != nil {
			dates = append(dates, visit.AppointmentDate.Format(dateLayout))
		}
	}
	if len(dates) == 0 {
		return fmt.Sprintf("I found records for %s, but they do not have specific dates.", doctorName), nil
	}
	return fmt.Sprintf("Records show visits to %s on the following dates: %s.", doctorName, strings.Join(dates, ", ")), nil
}

func (s *Service) findLastRecord(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	record, err := s.records.LastRecord(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "No records were found.", nil
		}
		return "", err
	}
	return fmt.Sprintf("The last record added was for '%s' on %s.",
		record.DiagnosisName, record.CreatedAt.Format(dateLayout)), nil
}

func (s *Service) findLastHospitalVisit(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	visit, err := s.records.LastHospitalVisit(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "No hospital visits were found.", nil
		}
		return "", err
	}
	when := visit.CreatedAt
	if visit.AppointmentDate != nil {
		when = *visit.AppointmentDate
	}
	return fmt.Sprintf("The last hospital visit was to %s on %s.",
		visit.HospitalName, when.Format(dateLayout)), nil
}

func (s *Service) findLastHospitalization(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	hosp, record, err := s.records.LastHospitalization(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "No hospitalization records were found.", nil
		}
		return "", err
	}
	return fmt.Sprintf("The last hospitalization was at %s for '%s'.",
		record.HospitalName, hosp.Reason), nil
}

func (s *Service) findLastSurgery(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	surg, record, err := s.records.LastSurgery(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "No surgery records were found.", nil
		}
		return "", err
	}
	return fmt.Sprintf("The last surgery was a '%s' at %s.",
		surg.Type, record.HospitalName), nil
}

func (s *Service) findPastDiagnoses(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	records, err := s.records.PastDiagnoses(ctx, id)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "No past diagnoses were found.", nil
	}

	var b strings.Builder
	b.WriteString("Past Diagnoses:<br>-------------------<br>")
	for _, record := range records {
		when := record.CreatedAt
		if record.AppointmentDate != nil {
			when = *record.AppointmentDate
		}
		fmt.Fprintf(&b, "%s: %s<br>", when.Format(dateLayout), record.DiagnosisName)
	}
	return b.String(), nil
}

func (s *Service) findCurrentMedications(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	docs, record, err := s.records.LatestPrescription(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "No prescription documents were found for the latest record.", nil
		}
		return "", err
	}
	when := docs.UpdatedAt
	if record.AppointmentDate != nil {
		when = *record.AppointmentDate
	}
	return fmt.Sprintf("Current Medications (as of %s):<br>-------------------<br>%s",
		when.Format(dateLayout), *docs.Prescriptions), nil
}

func (s *Service) findLabResults(ctx context.Context, ref model.PatientRef, entities []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	from, to := yearRange(entities)
	results, err := s.records.LabResultsBetween(ctx, id, from, to)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No lab results were found.", nil
	}

	var b strings.Builder
	b.WriteString("Lab Results:<br>-------------------<br>")
	for _, docs := range results {
		fmt.Fprintf(&b, "%s: %s<br>", docs.UpdatedAt.Format(dateLayout), *docs.LabResults)
	}
	return b.String(), nil
}

func (s *Service) findEmergencyContact(ctx context.Context, ref model.PatientRef, entities []model.Entity) (string, error) {
	id, ok, err := s.patientID(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	contacts, err := s.patients.ListEmergencyContacts(ctx, id)
	if err != nil {
		return "", err
	}

	name := entityValue(entities, "contact_name")
	relation := entityValue(entities, "relation")
	var matched []*model.EmergencyContact
	for _, contact := range contacts {
		if name != "" && !strings.Contains(strings.ToLower(contact.FullName), strings.ToLower(name)) {
			continue
		}
		if relation != "" && !strings.EqualFold(contact.Relation, relation) {
			continue
		}
		matched = append(matched, contact)
	}
	if len(matched) == 0 {
		return "No emergency contacts are recorded for this patient.", nil
	}

	var b strings.Builder
	b.WriteString("Emergency Contacts:<br>-------------------<br>")
	for _, contact := range matched {
		fmt.Fprintf(&b, "%s (%s): %s<br>", contact.FullName, contact.Relation, contact.PhoneNo)
	}
	return b.String(), nil
}

func (s *Service) checkAllergy(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	patient, ok, err := s.fetchPatient(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}
	if strings.TrimSpace(patient.Allergy) != "" {
		return fmt.Sprintf("The patient has a recorded allergy to: %s.", patient.Allergy), nil
	}
	return "No allergies are recorded for this patient.", nil
}

func (s *Service) checkHabits(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	patient, ok, err := s.fetchPatient(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}

	var habits []string
	if patient.Smoking {
		habits = append(habits, "smoking")
	}
	if patient.Alcoholism {
		habits = append(habits, "alcoholism")
	}
	if patient.Tobacco {
		habits = append(habits, "tobacco use")
	}
	if patient.Others != "" {
		habits = append(habits, patient.Others)
	}
	if len(habits) == 0 {
		return "No specific lifestyle habits are recorded for this patient.", nil
	}
	return fmt.Sprintf("Recorded habits include: %s.", strings.Join(habits, ", ")), nil
}

func (s *Service) checkPregnancy(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	patient, ok, err := s.fetchPatient(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}
	if !strings.EqualFold(patient.Gender, "female") {
		return "The patient's record indicates they are not female, so pregnancy status is not applicable.", nil
	}
	if patient.Pregnancy {
		return "The patient's record indicates they are pregnant.", nil
	}
	return "The patient's record indicates they are not pregnant.", nil
}

func (s *Service) getOverview(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	patient, ok, err := s.fetchPatient(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Sorry, I couldn't find a patient with those details.", nil
	}

	age := "N/A"
	if !patient.DateOfBirth.IsZero() {
		age = strconv.Itoa(time.Now().Year() - patient.DateOfBirth.Year())
	}
	allergies := patient.Allergy
	if allergies == "" {
		allergies = "None recorded"
	}

	var b strings.Builder
	b.WriteString("Patient Overview:<br>-------------------<br>")
	fmt.Fprintf(&b, "Name: %s<br>", patient.FullName)
	fmt.Fprintf(&b, "Age: %s<br>", age)
	fmt.Fprintf(&b, "Gender: %s<br>", patient.Gender)
	fmt.Fprintf(&b, "Allergies: %s", allergies)
	return b.String(), nil
}

func (s *Service) getContactInfo(ctx context.Context, ref model.PatientRef, _ []model.Entity) (string, error) {
	patient, ok, err := s.fetchPatient(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return patientNotFound, nil
	}
	return fmt.Sprintf("Phone: %s<br>Email: %s<br>Address: %s",
		orNA(patient.PhoneNo), orNA(patient.Email), orNA(patient.Address)), nil
}

func (s *Service) findSpecialist(ctx context.Context, _ model.PatientRef, entities []model.Entity) (string, error) {
	specialization := entityValue(entities, "specialization")
	if specialization == "" {
		return "Please specify a specialization.", nil
	}
	doctors, err := s.doctors.SearchBySpecialization(ctx, specialization)
	if err != nil {
		return "", err
	}
	if len(doctors) == 0 {
		return fmt.Sprintf("I couldn't find any specialists for %s.", specialization), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are some %s specialists:<br>-------------------<br>", specialization)
	for _, doctor := range doctors {
		line := fmt.Sprintf("Dr. %s", doctor.FullName)
		if doctor.HospitalName != "" {
			line += fmt.Sprintf(" (%s)", doctor.HospitalName)
		}
		b.WriteString(line + "<br>")
	}
	return b.String(), nil
}

func (s *Service) findHospital(ctx context.Context, _ model.PatientRef, entities []model.Entity) (string, error) {
	name := entityValue(entities, "hospital_name")
	if name == "" {
		return "Please specify a hospital name.", nil
	}
	hospitals, err := s.hospitals.SearchByName(ctx, name)
	if err != nil {
		return "", err
	}
	if len(hospitals) == 0 {
		return "I couldn't find any matching hospitals.", nil
	}

	var b strings.Builder
	b.WriteString("Here are the hospitals I found:<br>-------------------<br>")
	for _, hospital := range hospitals {
		line := hospital.Name
		if hospital.Address != "" {
			line += fmt.Sprintf(" - %s", hospital.Address)
		}
		b.WriteString(line + "<br>")
	}
	return b.String(), nil
}

func (s *Service) getHealthTip(ctx context.Context, _ model.PatientRef, entities []model.Entity) (string, error) {
	category := entityValue(entities, "category")
	if category != "" {
		tips, err := s.tips.ByCategory(ctx, category)
		if err != nil {
			return "", err
		}
		if len(tips) > 0 {
			tip := tips[0]
			return fmt.Sprintf("Health Tip (%s): %s", tip.Category, tip.TipText), nil
		}
	}
	tip, err := s.tips.Random(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Health Tip (%s): %s", tip.Category, tip.TipText), nil
}

func (s *Service) fetchPatient(ctx context.Context, ref model.PatientRef) (*model.Patient, bool, error) {
	if err := ref.Validate(); err != nil {
		return nil, false, nil
	}
	patient, err := s.patients.GetByRef(ctx, ref)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return patient, true, nil
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func isNotFound(err error) bool {
	return errors.Is(err, errors.ErrNotFound)
}
