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

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			doctor_id, full_name, email, password, phone_no, date_of_birth,
			gender, address, photo, specialization, qualification, license_no,
			experience_years, hospital_name, verification_documents,
			created_at, updated_at
		) VALUES (
			:doctor_id, :full_name, :email, :password, :phone_no, :date_of_birth,
			:gender, :address, :photo, :specialization, :qualification, :license_no,
			:experience_years, :hospital_name, :verification_documents,
			:created_at, :updated_at
		)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, query, doctor)
	if err != nil {
		return mapWriteError(err, "doctor")
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE doctor_id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE email = $1`, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, creds model.DoctorCredentials) error {
	query := `
		UPDATE doctors SET
			specialization = $1, qualification = $2, license_no = $3,
			experience_years = $4, hospital_name = $5, updated_at = $6
		WHERE doctor_id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		creds.Specialization,
		creds.Qualification,
		creds.LicenseNo,
		creds.ExperienceYears,
		creds.HospitalName,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor credentials: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) UpdateVerificationDocuments(ctx context.Context, id uuid.UUID, url string) error {
	return r.updateField(ctx, id, "verification_documents", url)
}

func (r *doctorRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.updateField(ctx, id, "photo", photo)
}

func (r *doctorRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.updateField(ctx, id, "email", email)
}

func (r *doctorRepository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	return r.updateField(ctx, id, "phone_no", phone)
}

func (r *doctorRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateField(ctx, id, "password", passwordHash)
}

func (r *doctorRepository) updateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	query := fmt.Sprintf(`UPDATE doctors SET %s = $1, updated_at = $2 WHERE doctor_id = $3`, column)
	res, err := r.db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return mapWriteError(err, "doctor")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) SearchBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error) {
	var doctors []*model.Doctor
	query := `SELECT * FROM doctors WHERE specialization ILIKE $1 ORDER BY full_name`
	if err := r.db.SelectContext(ctx, &doctors, query, "%"+specialization+"%"); err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	return doctors, nil
}
