package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type externRepository struct {
	db *sqlx.DB
}

func NewExternRepository(db *sqlx.DB) repository.ExternRepository {
	return &externRepository{db: db}
}

func (r *externRepository) Create(ctx context.Context, viewer *model.ExternalViewer) error {
	query := `
		INSERT INTO external_viewers (
			viewer_id, full_name, email, password, phone_no, photo,
			org_type, org_name, org_description, org_founded_on,
			org_license_no, org_license_valid_till, org_address, org_website,
			verification_documents, created_at, updated_at
		) VALUES (
			:viewer_id, :full_name, :email, :password, :phone_no, :photo,
			:org_type, :org_name, :org_description, :org_founded_on,
			:org_license_no, :org_license_valid_till, :org_address, :org_website,
			:verification_documents, :created_at, :updated_at
		)
	`
	viewer.CreatedAt = time.Now()
	viewer.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, query, viewer)
	if err != nil {
		return mapWriteError(err, "viewer")
	}
	return nil
}

func (r *externRepository) Get(ctx context.Context, id uuid.UUID) (*model.ExternalViewer, error) {
	var viewer model.ExternalViewer
	err := r.db.GetContext(ctx, &viewer, `SELECT * FROM external_viewers WHERE viewer_id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("viewer", err)
		}
		return nil, fmt.Errorf("failed to get viewer: %w", err)
	}
	return &viewer, nil
}

func (r *externRepository) GetByEmail(ctx context.Context, email string) (*model.ExternalViewer, error) {
	var viewer model.ExternalViewer
	err := r.db.GetContext(ctx, &viewer, `SELECT * FROM external_viewers WHERE email = $1`, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("viewer", err)
		}
		return nil, fmt.Errorf("failed to get viewer by email: %w", err)
	}
	return &viewer, nil
}

func (r *externRepository) UpdateOrganization(ctx context.Context, id uuid.UUID, org model.ExternOrganizationCredentials) error {
	query := `
		UPDATE external_viewers SET
			org_type = $1, org_name = $2, org_description = $3,
			org_founded_on = $4, org_license_no = $5, org_license_valid_till = $6,
			org_address = $7, org_website = $8, updated_at = $9
		WHERE viewer_id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		org.OrgType,
		org.OrgName,
		org.OrgDescription,
		org.OrgFoundedOn,
		org.OrgLicenseNo,
		org.OrgLicenseValidTill,
		org.OrgAddress,
		org.OrgWebsite,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update viewer organization: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("viewer", nil)
	}
	return nil
}

func (r *externRepository) UpdateVerificationDocuments(ctx context.Context, id uuid.UUID, url string) error {
	return r.updateField(ctx, id, "verification_documents", url)
}

func (r *externRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.updateField(ctx, id, "photo", photo)
}

func (r *externRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.updateField(ctx, id, "email", email)
}

func (r *externRepository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	return r.updateField(ctx, id, "phone_no", phone)
}

func (r *externRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateField(ctx, id, "password", passwordHash)
}

func (r *externRepository) updateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	query := fmt.Sprintf(`UPDATE external_viewers SET %s = $1, updated_at = $2 WHERE viewer_id = $3`, column)
	res, err := r.db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return mapWriteError(err, "viewer")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("viewer", nil)
	}
	return nil
}
