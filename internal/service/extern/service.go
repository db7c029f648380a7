package extern

import (
	"context"
	"fmt"
	"time"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/security"
)

// ExternService serves external-viewer profile reads and self-service updates.
type ExternService interface {
	Profile(ctx context.Context, claims model.TokenClaims) (*model.ExternProfile, error)
	PersonalDetails(ctx context.Context, claims model.TokenClaims) (*model.ExternPersonalDetails, error)
	Organization(ctx context.Context, claims model.TokenClaims) (*model.ExternOrganizationCredentials, error)

	UpdateOrganization(ctx context.Context, claims model.TokenClaims, req *model.UpdateExternOrganizationRequest) error
	UpdateVerificationDocuments(ctx context.Context, claims model.TokenClaims, url string) error
	UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error
	UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error
	UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error
	UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error
}

type Service struct {
	repo   repository.ExternRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.ExternRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func requireExtern(claims model.TokenClaims) error {
	if claims.Role != model.RoleExtern {
		return errors.Forbidden("only external viewers can access this resource")
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, claims model.TokenClaims) (*model.ExternProfile, error) {
	if err := requireExtern(claims); err != nil {
		return nil, err
	}
	viewer, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return &model.ExternProfile{
		FullName: viewer.FullName,
		Email:    viewer.Email,
		Photo:    viewer.Photo,
		OrgName:  viewer.OrgName,
	}, nil
}

func (s *Service) PersonalDetails(ctx context.Context, claims model.TokenClaims) (*model.ExternPersonalDetails, error) {
	if err := requireExtern(claims); err != nil {
		return nil, err
	}
	viewer, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return &model.ExternPersonalDetails{
		FullName: viewer.FullName,
		Email:    viewer.Email,
		PhoneNo:  viewer.PhoneNo,
		Photo:    viewer.Photo,
	}, nil
}

func (s *Service) Organization(ctx context.Context, claims model.TokenClaims) (*model.ExternOrganizationCredentials, error) {
	if err := requireExtern(claims); err != nil {
		return nil, err
	}
	viewer, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return &model.ExternOrganizationCredentials{
		OrgType:             viewer.OrgType,
		OrgName:             viewer.OrgName,
		OrgDescription:      viewer.OrgDescription,
		OrgFoundedOn:        viewer.OrgFoundedOn,
		OrgLicenseNo:        viewer.OrgLicenseNo,
		OrgLicenseValidTill: viewer.OrgLicenseValidTill,
		OrgAddress:          viewer.OrgAddress,
		OrgWebsite:          viewer.OrgWebsite,
	}, nil
}

func (s *Service) UpdateOrganization(ctx context.Context, claims model.TokenClaims, req *model.UpdateExternOrganizationRequest) error {
	if err := requireExtern(claims); err != nil {
		return err
	}
	foundedOn, err := parseOptionalDate(req.FoundedOn, "founded_on")
	if err != nil {
		return err
	}
	validTill, err := parseOptionalDate(req.LicenseValidTill, "license_valid_till")
	if err != nil {
		return err
	}
	return s.repo.UpdateOrganization(ctx, claims.ID, model.ExternOrganizationCredentials{
		OrgType:             req.Type,
		OrgName:             req.Name,
		OrgDescription:      req.Description,
		OrgFoundedOn:        foundedOn,
		OrgLicenseNo:        req.LicenseNo,
		OrgLicenseValidTill: validTill,
		OrgAddress:          req.Address,
		OrgWebsite:          req.Website,
	})
}

func (s *Service) UpdateVerificationDocuments(ctx context.Context, claims model.TokenClaims, url string) error {
	if err := requireExtern(claims); err != nil {
		return err
	}
	return s.repo.UpdateVerificationDocuments(ctx, claims.ID, url)
}

func (s *Service) UpdatePhoto(ctx context.Context, claims model.TokenClaims, photo string) error {
	if err := requireExtern(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhoto(ctx, claims.ID, photo)
}

func (s *Service) UpdateEmail(ctx context.Context, claims model.TokenClaims, email string) error {
	if err := requireExtern(claims); err != nil {
		return err
	}
	return s.repo.UpdateEmail(ctx, claims.ID, email)
}

func (s *Service) UpdatePhone(ctx context.Context, claims model.TokenClaims, phone string) error {
	if err := requireExtern(claims); err != nil {
		return err
	}
	return s.repo.UpdatePhone(ctx, claims.ID, phone)
}

func (s *Service) UpdatePassword(ctx context.Context, claims model.TokenClaims, password string) error {
	if err := requireExtern(claims); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, claims.ID, hash)
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field))
	}
	return &t, nil
}
