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

type hospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (
			hospital_id, name, email, password, phone_no, photo, address,
			website, type, license_no, license_valid_till, founded_on,
			verification_documents, created_at, updated_at
		) VALUES (
			:hospital_id, :name, :email, :password, :phone_no, :photo, :address,
			:website, :type, :license_no, :license_valid_till, :founded_on,
			:verification_documents, :created_at, :updated_at
		)
	`
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, query, hospital)
	if err != nil {
		return mapWriteError(err, "hospital")
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, `SELECT * FROM hospitals WHERE hospital_id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("hospital", err)
		}
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, `SELECT * FROM hospitals WHERE email = $1`, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("hospital", err)
		}
		return nil, fmt.Errorf("failed to get hospital by email: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, creds model.HospitalCredentials) error {
	query := `
		UPDATE hospitals SET
			license_no = $1, address = $2, phone_no = $3, website = $4,
			license_valid_till = $5, type = $6, founded_on = $7, updated_at = $8
		WHERE hospital_id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		creds.LicenseNo,
		creds.Address,
		creds.PhoneNo,
		creds.Website,
		creds.LicenseValidTill,
		creds.Type,
		creds.FoundedOn,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital credentials: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("hospital", nil)
	}
	return nil
}

func (r *hospitalRepository) UpdateVerificationDocuments(ctx context.Context, id uuid.UUID, url string) error {
	return r.updateField(ctx, id, "verification_documents", url)
}

func (r *hospitalRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.updateField(ctx, id, "photo", photo)
}

func (r *hospitalRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.updateField(ctx, id, "email", email)
}

func (r *hospitalRepository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	return r.updateField(ctx, id, "phone_no", phone)
}

func (r *hospitalRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateField(ctx, id, "password", passwordHash)
}

func (r *hospitalRepository) updateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	query := fmt.Sprintf(`UPDATE hospitals SET %s = $1, updated_at = $2 WHERE hospital_id = $3`, column)
	res, err := r.db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return mapWriteError(err, "hospital")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("hospital", nil)
	}
	return nil
}

func (r *hospitalRepository) SearchByName(ctx context.Context, name string) ([]*model.Hospital, error) {
	var hospitals []*model.Hospital
	query := `SELECT * FROM hospitals WHERE name ILIKE $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &hospitals, query, "%"+name+"%"); err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}
	return hospitals, nil
}
