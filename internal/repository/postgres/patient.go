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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			patient_id, full_name, email, password, phone_no, date_of_birth,
			gender, address, photo, shc_code, qr_code, visibility,
			smoking, alcoholism, tobacco, pregnancy, exercise, allergy, others,
			data_logs, created_at, updated_at
		) VALUES (
			:patient_id, :full_name, :email, :password, :phone_no, :date_of_birth,
			:gender, :address, :photo, :shc_code, :qr_code, :visibility,
			:smoking, :alcoholism, :tobacco, :pregnancy, :exercise, :allergy, :others,
			:data_logs, :created_at, :updated_at
		)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return mapWriteError(err, "patient")
	}
	return nil
}

func (r *patientRepository) GetByRef(ctx context.Context, ref model.PatientRef) (*model.Patient, error) {
	column, value, err := ref.Column()
	if err != nil {
		return nil, err
	}

	var patient model.Patient
	query := fmt.Sprintf(`SELECT * FROM patients WHERE %s = $1`, column)
	if err := r.db.GetContext(ctx, &patient, query, value); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE email = $1`, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) ResolveID(ctx context.Context, ref model.PatientRef) (uuid.UUID, error) {
	column, value, err := ref.Column()
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	query := fmt.Sprintf(`SELECT patient_id FROM patients WHERE %s = $1`, column)
	if err := r.db.GetContext(ctx, &id, query, value); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, errors.NotFound("patient", err)
		}
		return uuid.Nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	return id, nil
}

func (r *patientRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	return r.updateField(ctx, id, "visibility", visible)
}

func (r *patientRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.updateField(ctx, id, "photo", photo)
}

func (r *patientRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.updateField(ctx, id, "email", email)
}

func (r *patientRepository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	return r.updateField(ctx, id, "phone_no", phone)
}

func (r *patientRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateField(ctx, id, "password", passwordHash)
}

func (r *patientRepository) updateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	query := fmt.Sprintf(`UPDATE patients SET %s = $1, updated_at = $2 WHERE patient_id = $3`, column)
	res, err := r.db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return mapWriteError(err, "patient")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) UpdateLifestyle(ctx context.Context, id uuid.UUID, lifestyle model.Lifestyle) error {
	query := `
		UPDATE patients SET
			smoking = $1, alcoholism = $2, tobacco = $3, exercise = $4,
			pregnancy = $5, others = $6, allergy = $7, updated_at = $8
		WHERE patient_id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		lifestyle.Smoking,
		lifestyle.Alcoholism,
		lifestyle.Tobacco,
		lifestyle.Exercise,
		lifestyle.Pregnancy,
		lifestyle.Others,
		lifestyle.Allergy,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lifestyle: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) GetDataLogs(ctx context.Context, ref model.PatientRef) (string, error) {
	column, value, err := ref.Column()
	if err != nil {
		return "", err
	}

	var logs string
	query := fmt.Sprintf(`SELECT data_logs FROM patients WHERE %s = $1`, column)
	if err := r.db.GetContext(ctx, &logs, query, value); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", errors.NotFound("patient", err)
		}
		return "", fmt.Errorf("failed to get data logs: %w", err)
	}
	return logs, nil
}

func (r *patientRepository) SetDataLogs(ctx context.Context, ref model.PatientRef, logs string) error {
	column, value, err := ref.Column()
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE patients SET data_logs = $1, updated_at = $2 WHERE %s = $3`, column)
	res, err := r.db.ExecContext(ctx, query, logs, time.Now(), value)
	if err != nil {
		return fmt.Errorf("failed to set data logs: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) CountEmergencyContacts(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM patient_emergency_contacts WHERE patient_id = $1`
	if err := r.db.GetContext(ctx, &count, query, patientID); err != nil {
		return 0, fmt.Errorf("failed to count emergency contacts: %w", err)
	}
	return count, nil
}

func (r *patientRepository) CreateEmergencyContact(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		INSERT INTO patient_emergency_contacts (emg_id, patient_id, full_name, phone_no, relation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	contact.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.PatientID,
		contact.FullName,
		contact.PhoneNo,
		contact.Relation,
		contact.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "emergency contact")
	}
	return nil
}

func (r *patientRepository) GetEmergencyContact(ctx context.Context, emgID uuid.UUID) (*model.EmergencyContact, error) {
	var contact model.EmergencyContact
	query := `SELECT * FROM patient_emergency_contacts WHERE emg_id = $1`
	if err := r.db.GetContext(ctx, &contact, query, emgID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("emergency contact", err)
		}
		return nil, fmt.Errorf("failed to get emergency contact: %w", err)
	}
	return &contact, nil
}

func (r *patientRepository) DeleteEmergencyContact(ctx context.Context, emgID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patient_emergency_contacts WHERE emg_id = $1`, emgID)
	if err != nil {
		return fmt.Errorf("failed to delete emergency contact: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("emergency contact", nil)
	}
	return nil
}

func (r *patientRepository) ListEmergencyContacts(ctx context.Context, patientID uuid.UUID) ([]*model.EmergencyContact, error) {
	var contacts []*model.EmergencyContact
	query := `SELECT * FROM patient_emergency_contacts WHERE patient_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &contacts, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list emergency contacts: %w", err)
	}
	return contacts, nil
}
