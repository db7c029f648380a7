package patient

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
	"github.com/swasthya/medrec-api/pkg/security"
)

// MaxEmergencyContacts caps the contacts stored per patient.
const MaxEmergencyContacts = 3

// PatientService serves patient profile reads and self-service updates.
// Reads resolve the target patient through the caller's access path: a
// patient reads their own row by token id, clinical and external roles
// must present an shc_code or qr_code.
type PatientService interface {
	Profile(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.PatientProfile, error)
	PersonalDetails(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.PatientPersonalDetails, error)
	BasicDetails(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.PatientBasicDetails, error)
	EmergencyContacts(ctx context.Context, claims model.TokenClaims, shc, qr string) ([]*model.EmergencyContact, error)
	DataLogs(ctx context.Context, claims model.TokenClaims, shc, qr string) ([]string, error)

	ToggleVisibility(ctx context.Context, claims model.TokenClaims, current bool) (bool, error)
	UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error
	UpdateLifestyle(ctx context.Context, claims model.TokenClaims, lifestyle model.Lifestyle) error
	UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error
	UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error
	UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error

	AddEmergencyContact(ctx context.Context, claims model.TokenClaims, contact *model.EmergencyContact) (*model.EmergencyContact, error)
	RemoveEmergencyContact(ctx context.Context, claims model.TokenClaims, emgID uuid.UUID) error
}

type Service struct {
	repo   repository.PatientRepository
	hasher security.PasswordHasher
	log    *logger.Logger
}

func NewService(repo repository.PatientRepository, hasher security.PasswordHasher, log *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, log: log}
}

// resolveRef picks the access path for a profile read. Patients always read
// their own row; third parties must present a code and other roles are
// rejected outright.
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
		return model.PatientRef{}, errors.Forbidden("role cannot access patient profiles")
	}
}

func (s *Service) Profile(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.PatientProfile, error) {
	patient, ref, err := s.fetch(ctx, claims, shc, qr)
	if err != nil {
		return nil, err
	}
	s.logVisit(ctx, ref, claims)
	return &model.PatientProfile{
		FullName:    patient.FullName,
		Email:       patient.Email,
		DateOfBirth: patient.DateOfBirth,
		PhoneNo:     patient.PhoneNo,
		Visibility:  patient.Visibility,
		SHCCode:     patient.SHCCode,
		QRCode:      patient.QRCode,
		Photo:       patient.Photo,
		Role:        model.RolePatient.String(),
	}, nil
}

func (s *Service) PersonalDetails(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.PatientPersonalDetails, error) {
	patient, ref, err := s.fetch(ctx, claims, shc, qr)
	if err != nil {
		return nil, err
	}
	s.logVisit(ctx, ref, claims)
	return &model.PatientPersonalDetails{
		FullName:    patient.FullName,
		Photo:       patient.Photo,
		DateOfBirth: patient.DateOfBirth,
		Gender:      patient.Gender,
		Address:     patient.Address,
		Smoking:     patient.Smoking,
		Alcoholism:  patient.Alcoholism,
		Tobacco:     patient.Tobacco,
		Pregnancy:   patient.Pregnancy,
		Exercise:    patient.Exercise,
		Others:      patient.Others,
		Allergy:     patient.Allergy,
	}, nil
}

func (s *Service) BasicDetails(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.PatientBasicDetails, error) {
	patient, ref, err := s.fetch(ctx, claims, shc, qr)
	if err != nil {
		return nil, err
	}
	s.logVisit(ctx, ref, claims)
	return &model.PatientBasicDetails{
		Email:   patient.Email,
		PhoneNo: patient.PhoneNo,
		Photo:   patient.Photo,
	}, nil
}

func (s *Service) EmergencyContacts(ctx context.Context, claims model.TokenClaims, shc, qr string) ([]*model.EmergencyContact, error) {
	ref, err := resolveRef(claims, shc, qr)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEmergencyContacts(ctx, id)
}

func (s *Service) DataLogs(ctx context.Context, claims model.TokenClaims, shc, qr string) ([]string, error) {
	ref, err := resolveRef(claims, shc, qr)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.GetDataLogs(ctx, ref)
	if err != nil {
		return nil, err
	}
	return model.SplitDataLog(logs), nil
}

func (s *Service) fetch(ctx context.Context, claims model.TokenClaims, shc, qr string) (*model.Patient, model.PatientRef, error) {
	ref, err := resolveRef(claims, shc, qr)
	if err != nil {
		return nil, model.PatientRef{}, err
	}
	patient, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		return nil, model.PatientRef{}, err
	}
	return patient, ref, nil
}

// logVisit records a third-party profile view in the patient's activity log.
// Best effort: a logging failure never fails the read.
func (s *Service) logVisit(ctx context.Context, ref model.PatientRef, claims model.TokenClaims) {
	if claims.Role == model.RolePatient {
		return
	}
	entry := fmt.Sprintf("%s - %s [%s] visited your profile",
		time.Now().UTC().Format(time.RFC3339),
		strings.ToUpper(claims.Role.String()),
		claims.ID,
	)
	if err := s.appendDataLog(ctx, ref, entry); err != nil {
		s.log.Error(err, "failed to append profile visit to data log")
	}
}

func (s *Service) appendDataLog(ctx context.Context, ref model.PatientRef, entry string) error {
	logs, err := s.repo.GetDataLogs(ctx, ref)
	if err != nil {
		return err
	}
	return s.repo.SetDataLogs(ctx, ref, model.AppendDataLog(logs, entry))
}

func requirePatient(claims model.TokenClaims) error {
	if claims.Role != model.RolePatient {
		return errors.Forbidden("only patients can update their profile")
	}
	return nil
}

func (s *Service) ToggleVisibility(ctx context.Context, claims model.TokenClaims, current bool) (bool, error) {
	if err := requirePatient(claims); err != nil {
		return false, err
	}
	next := !current
	if err := s.repo.UpdateVisibility(ctx, claims.ID, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *Service) UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error {
	if err := requirePatient(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhoto(ctx, claims.ID, photo)
}

func (s *Service) UpdateLifestyle(ctx context.Context, claims model.TokenClaims, lifestyle model.Lifestyle) error {
	if err := requirePatient(claims); err != nil {
		return err
	}
	return s.repo.UpdateLifestyle(ctx, claims.ID, lifestyle)
}

func (s *Service) UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error {
	if err := requirePatient(claims); err != nil {
		return err
	}
	return s.repo.UpdateEmail(ctx, claims.ID, email)
}

func (s *Service) UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error {
	if err := requirePatient(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhone(ctx, claims.ID, phone)
}

func (s *Service) UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error {
	if err := requirePatient(claims); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, claims.ID, hash)
}

func (s *Service) AddEmergencyContact(ctx context.Context, claims model.TokenClaims, contact *model.EmergencyContact) (*model.EmergencyContact, error) {
	if err := requirePatient(claims); err != nil {
		return nil, err
	}
	count, err := s.repo.CountEmergencyContacts(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if count >= MaxEmergencyContacts {
		return nil, errors.Validation(fmt.Sprintf("a patient can have at most %d emergency contacts", MaxEmergencyContacts))
	}

	contact.ID = uuid.New()
	contact.PatientID = claims.ID
	if err := s.repo.CreateEmergencyContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) RemoveEmergencyContact(ctx context.Context, claims model.TokenClaims, emgID uuid.UUID) error {
	if err := requirePatient(claims); err != nil {
		return err
	}
	contact, err := s.repo.GetEmergencyContact(ctx, emgID)
	if err != nil {
		return err
	}
	if contact.PatientID != claims.ID {
		return errors.Forbidden("contact does not belong to this patient")
	}
	return s.repo.DeleteEmergencyContact(ctx, emgID)
}
