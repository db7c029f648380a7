package hospital

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/security"
)

// HospitalService serves hospital profile reads and self-service updates.
type HospitalService interface {
	Profile(ctx context.Context, claims model.TokenClaims, targetID *uuid.UUID) (*model.HospitalProfile, error)
	Credentials(ctx context.Context, claims model.TokenClaims) (*model.HospitalCredentials, error)

	UpdateCredentials(ctx context.Context, claims model.TokenClaims, req *model.UpdateHospitalCredentialsRequest) error
	UpdateVerificationDocuments(ctx context.Context, claims model.TokenClaims, url string) error
	UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error
	UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error
	UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error
	UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error
}

type Service struct {
	repo   repository.HospitalRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.HospitalRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func requireHospital(claims model.TokenClaims) error {
	if claims.Role != model.RoleHospital {
		return errors.Forbidden("only hospitals can access this resource")
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, claims model.TokenClaims, targetID *uuid.UUID) (*model.HospitalProfile, error) {
	id := claims.ID
	if targetID != nil {
		id = *targetID
	} else if err := requireHospital(claims); err != nil {
		return nil, err
	}

	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.HospitalProfile{
		Name:  hospital.Name,
		Email: hospital.Email,
		Photo: hospital.Photo,
	}, nil
}

func (s *Service) Credentials(ctx context.Context, claims model.TokenClaims) (*model.HospitalCredentials, error) {
	if err := requireHospital(claims); err != nil {
		return nil, err
	}
	hospital, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return &model.HospitalCredentials{
		LicenseNo:             hospital.LicenseNo,
		Address:               hospital.Address,
		PhoneNo:               hospital.PhoneNo,
		Website:               hospital.Website,
		LicenseValidTill:      hospital.LicenseValidTill,
		Type:                  hospital.Type,
		FoundedOn:             hospital.FoundedOn,
		VerificationDocuments: hospital.VerificationDocuments,
	}, nil
}

func (s *Service) UpdateCredentials(ctx context.Context, claims model.TokenClaims, req *model.UpdateHospitalCredentialsRequest) error {
	if err := requireHospital(claims); err != nil {
		return err
	}
	validTill, err := parseDate(req.LicenseValidTill, "license_valid_till")
	if err != nil {
		return err
	}
	foundedOn, err := parseDate(req.FoundedOn, "founded_on")
	if err != nil {
		return err
	}
	return s.repo.UpdateCredentials(ctx, claims.ID, model.HospitalCredentials{
		LicenseNo:        req.LicenseNo,
		Address:          req.Address,
		PhoneNo:          req.PhoneNo,
		Website:          req.Website,
		LicenseValidTill: validTill,
		Type:             req.Type,
		FoundedOn:        foundedOn,
	})
}

func (s *Service) UpdateVerificationDocuments(ctx context.Context, claims model.TokenClaims, url string) error {
	if err := requireHospital(claims); err != nil {
		return err
	}
	return s.repo.UpdateVerificationDocuments(ctx, claims.ID, url)
}

func (s *Service) UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error {
	if err := requireHospital(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhoto(ctx, claims.ID, photo)
}

func (s *Service) UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error {
	if err := requireHospital(claims); err != nil {
		return err
	}
	return s.repo.UpdateEmail(ctx, claims.ID, email)
}

func (s *Service) UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error {
	if err := requireHospital(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhone(ctx, claims.ID, phone)
}

func (s *Service) UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error {
	if err := requireHospital(claims); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, claims.ID, hash)
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.Validation(fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field))
	}
	return t, nil
}
