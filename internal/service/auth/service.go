package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/auth"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/security"
)

// AuthService signs users of every role in and up. Login dispatches to the
// role-specific credential table; signup creates the entity, hashes the
// password and issues a session token in one step.
type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	SignupPatient(ctx context.Context, req *model.SignupPatientRequest) (*model.TokenResponse, error)
	SignupDoctor(ctx context.Context, req *model.SignupDoctorRequest) (*model.TokenResponse, error)
	SignupHospital(ctx context.Context, req *model.SignupHospitalRequest) (*model.TokenResponse, error)
	SignupExtern(ctx context.Context, req *model.SignupExternRequest) (*model.TokenResponse, error)
}

type Service struct {
	patients  repository.PatientRepository
	doctors   repository.DoctorRepository
	hospitals repository.HospitalRepository
	externs   repository.ExternRepository
	hasher    security.PasswordHasher
	tokens    auth.JWTService
}

func NewService(
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	hospitals repository.HospitalRepository,
	externs repository.ExternRepository,
	hasher security.PasswordHasher,
	tokens auth.JWTService,
) *Service {
	return &Service{
		patients:  patients,
		doctors:   doctors,
		hospitals: hospitals,
		externs:   externs,
		hasher:    hasher,
		tokens:    tokens,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, errors.Validation("invalid role specified")
	}

	var (
		id           uuid.UUID
		passwordHash string
		user         interface{}
	)

	switch role {
	case model.RolePatient:
		p, err := s.patients.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		id, passwordHash, user = p.ID, p.Password, p
	case model.RoleDoctor:
		d, err := s.doctors.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		id, passwordHash, user = d.ID, d.Password, d
	case model.RoleHospital:
		h, err := s.hospitals.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		id, passwordHash, user = h.ID, h.Password, h
	case model.RoleExtern:
		v, err := s.externs.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		id, passwordHash, user = v.ID, v.Password, v
	default:
		return nil, errors.Validation("invalid role specified")
	}

	if err := s.hasher.Compare(passwordHash, req.Password); err != nil {
		return nil, errors.Unauthenticated("invalid credentials", err)
	}

	token, err := s.tokens.Generate(id, role)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to issue token: %w", err))
	}
	return &model.TokenResponse{Token: token, User: user}, nil
}

func loginLookupError(err error) error {
	if errors.Is(err, errors.ErrNotFound) {
		return &errors.AppError{Code: errors.ErrNotFound, Message: "invalid user specified", Err: err}
	}
	return err
}

func (s *Service) SignupPatient(ctx context.Context, req *model.SignupPatientRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	dob, err := parseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	patient := &model.Patient{
		ID:          id,
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    hash,
		PhoneNo:     req.PhoneNo,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
		Photo:       req.Photo,
		SHCCode:     newAccessCode("SHC"),
		QRCode:      newAccessCode("QR"),
		Visibility:  true,
		Smoking:     req.Smoking,
		Alcoholism:  req.Alcoholism,
		Tobacco:     req.Tobacco,
		Pregnancy:   req.Pregnancy,
		Exercise:    req.Exercise,
		Allergy:     req.Allergy,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return s.issue(id, model.RolePatient, patient)
}

func (s *Service) SignupDoctor(ctx context.Context, req *model.SignupDoctorRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	dob, err := parseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	doctor := &model.Doctor{
		ID:              id,
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        hash,
		PhoneNo:         req.PhoneNo,
		DateOfBirth:     dob,
		Gender:          req.Gender,
		Address:         req.Address,
		Photo:           req.Photo,
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		LicenseNo:       req.LicenseNo,
		ExperienceYears: req.ExperienceYears,
		HospitalName:    req.HospitalName,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return s.issue(id, model.RoleDoctor, doctor)
}

func (s *Service) SignupHospital(ctx context.Context, req *model.SignupHospitalRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	validTill, err := parseDate(req.LicenseValidTill, "license_valid_till")
	if err != nil {
		return nil, err
	}
	foundedOn, err := parseDate(req.FoundedOn, "founded_on")
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	hospital := &model.Hospital{
		ID:               id,
		Name:             req.Name,
		Email:            req.Email,
		Password:         hash,
		PhoneNo:          req.PhoneNo,
		Address:          req.Address,
		Website:          req.Website,
		Photo:            req.Photo,
		Type:             req.Type,
		LicenseNo:        req.LicenseNo,
		LicenseValidTill: validTill,
		FoundedOn:        foundedOn,
	}
	if err := s.hospitals.Create(ctx, hospital); err != nil {
		return nil, err
	}
	return s.issue(id, model.RoleHospital, hospital)
}

func (s *Service) SignupExtern(ctx context.Context, req *model.SignupExternRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	org := req.OrganizationDetails
	foundedOn, err := parseOptionalDate(org.FoundedOn, "founded_on")
	if err != nil {
		return nil, err
	}
	validTill, err := parseOptionalDate(org.LicenseValidTill, "license_valid_till")
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	viewer := &model.ExternalViewer{
		ID:                  id,
		FullName:            req.FullName,
		Email:               req.Email,
		Password:            hash,
		PhoneNo:             req.PhoneNo,
		Photo:               req.Photo,
		OrgType:             org.Type,
		OrgName:             org.Name,
		OrgDescription:      org.Description,
		OrgFoundedOn:        foundedOn,
		OrgLicenseNo:        org.LicenseNo,
		OrgLicenseValidTill: validTill,
		OrgAddress:          org.Address,
		OrgWebsite:          org.Website,
	}
	if err := s.externs.Create(ctx, viewer); err != nil {
		return nil, err
	}
	return s.issue(id, model.RoleExtern, viewer)
}

func (s *Service) issue(id uuid.UUID, role model.Role, user interface{}) (*model.TokenResponse, error) {
	token, err := s.tokens.Generate(id, role)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to issue token: %w", err))
	}
	return &model.TokenResponse{Token: token, User: user}, nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.Validation(fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field))
	}
	return t, nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// newAccessCode mints a patient access code. SHC and QR codes are opaque
// unique strings; the QR payload rendering happens client-side.
func newAccessCode(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
