package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/security"
)

// DoctorService serves doctor profile reads and self-service updates.
// Summary reads are open to any authenticated role when a target id is
// supplied; everything else is doctor-only, keyed by token id.
type DoctorService interface {
	Profile(ctx context.Context, claims model.TokenClaims, targetID *uuid.UUID) (*model.DoctorProfile, error)
	Credentials(ctx context.Context, claims model.TokenClaims) (*model.DoctorCredentials, error)
	BasicDetails(ctx context.Context, claims model.TokenClaims) (*model.DoctorBasicDetails, error)

	UpdateCredentials(ctx context.Context, claims model.TokenClaims, creds model.DoctorCredentials) error
	UpdateVerificationDocuments(ctx context.Context, claims model.TokenClaims, url string) error
	UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error
	UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error
	UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error
	UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error
}

type Service struct {
	repo   repository.DoctorRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.DoctorRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func requireDoctor(claims model.TokenClaims) error {
	if claims.Role != model.RoleDoctor {
		return errors.Forbidden("only doctors can access this resource")
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, claims model.TokenClaims, targetID *uuid.UUID) (*model.DoctorProfile, error) {
	id := claims.ID
	if targetID != nil {
		id = *targetID
	} else if err := requireDoctor(claims); err != nil {
		return nil, err
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.DoctorProfile{
		FullName:       doctor.FullName,
		Email:          doctor.Email,
		Photo:          doctor.Photo,
		Specialization: doctor.Specialization,
	}, nil
}

func (s *Service) Credentials(ctx context.Context, claims model.TokenClaims) (*model.DoctorCredentials, error) {
	if err := requireDoctor(claims); err != nil {
		return nil, err
	}
	doctor, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return &model.DoctorCredentials{
		Specialization:        doctor.Specialization,
		Qualification:         doctor.Qualification,
		LicenseNo:             doctor.LicenseNo,
		ExperienceYears:       doctor.ExperienceYears,
		HospitalName:          doctor.HospitalName,
		VerificationDocuments: doctor.VerificationDocuments,
	}, nil
}

func (s *Service) BasicDetails(ctx context.Context, claims model.TokenClaims) (*model.DoctorBasicDetails, error) {
	if err := requireDoctor(claims); err != nil {
		return nil, err
	}
	doctor, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return &model.DoctorBasicDetails{
		Email:   doctor.Email,
		PhoneNo: doctor.PhoneNo,
		Photo:   doctor.Photo,
	}, nil
}

func (s *Service) UpdateCredentials(ctx context.Context, claims model.TokenClaims, creds model.DoctorCredentials) error {
	if err := requireDoctor(claims); err != nil {
		return err
	}
	return s.repo.UpdateCredentials(ctx, claims.ID, creds)
}

func (s *Service) UpdateVerificationDocuments(ctx context.Context, claims model.TokenClaims, url string) error {
	if err := requireDoctor(claims); err != nil {
		return err
	}
	return s.repo.UpdateVerificationDocuments(ctx, claims.ID, url)
}

func (s *Service) UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error {
	if err := requireDoctor(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhoto(ctx, claims.ID, photo)
}

func (s *Service) UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error {
	if err := requireDoctor(claims); err != nil {
		return err
	}
	return s.repo.UpdateEmail(ctx, claims.ID, email)
}

func (s *Service) UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error {
	if err := requireDoctor(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhone(ctx, claims.ID, phone)
}

func (s *Service) UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error {
	if err := requireDoctor(claims); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, claims.ID, hash)
}
