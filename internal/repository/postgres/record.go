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

type recordRepository struct {
	BaseRepository
}

func NewRecordRepository(db *sqlx.DB) repository.RecordRepository {
	return &recordRepository{BaseRepository: NewBaseRepository(db)}
}

const insertRecordQuery = `
	INSERT INTO patient_medical_records (
		record_id, patient_id, doctor_id, hospital_id, entry_type,
		doctor_name, hospital_name, diagnosis_name, treatment_undergone,
		history_of_present_illness, appointment_date, reg_no, visibility,
		created_at, updated_at
	) VALUES (
		:record_id, :patient_id, :doctor_id, :hospital_id, :entry_type,
		:doctor_name, :hospital_name, :diagnosis_name, :treatment_undergone,
		:history_of_present_illness, :appointment_date, :reg_no, :visibility,
		:created_at, :updated_at
	)
`

const insertHospitalizationQuery = `
	INSERT INTO record_hospitalizations (
		hosp_id, record_id, reason, ward, bed_no, admitted_on,
		discharged_on, attending_staff, created_at
	) VALUES (
		:hosp_id, :record_id, :reason, :ward, :bed_no, :admitted_on,
		:discharged_on, :attending_staff, :created_at
	)
`

const insertSurgeryQuery = `
	INSERT INTO record_surgeries (
		surgery_id, record_id, type, surgeon_name, performed_on,
		outcome, notes, created_at
	) VALUES (
		:surgery_id, :record_id, :type, :surgeon_name, :performed_on,
		:outcome, :notes, :created_at
	)
`

const insertDocumentsQuery = `
	INSERT INTO record_documents (
		doc_id, record_id, prescriptions, lab_results, created_at, updated_at
	) VALUES (
		:doc_id, :record_id, :prescriptions, :lab_results, :created_at, :updated_at
	)
`

func (r *recordRepository) CreateFull(ctx context.Context, record *model.MedicalRecord, hosp *model.Hospitalization, surg *model.Surgery, docs *model.Documents) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertRecordQuery, record); err != nil {
			return mapWriteError(err, "record")
		}
		if hosp != nil {
			hosp.RecordID = record.ID
			hosp.CreatedAt = now
			if _, err := tx.NamedExecContext(ctx, insertHospitalizationQuery, hosp); err != nil {
				return mapWriteError(err, "hospitalization")
			}
		}
		if surg != nil {
			surg.RecordID = record.ID
			surg.CreatedAt = now
			if _, err := tx.NamedExecContext(ctx, insertSurgeryQuery, surg); err != nil {
				return mapWriteError(err, "surgery")
			}
		}
		if docs != nil {
			docs.RecordID = record.ID
			docs.CreatedAt = now
			docs.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, insertDocumentsQuery, docs); err != nil {
				return mapWriteError(err, "documents")
			}
		}
		return nil
	})
}

func (r *recordRepository) Get(ctx context.Context, recordID uuid.UUID) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	query := `SELECT * FROM patient_medical_records WHERE record_id = $1`
	if err := r.db.GetContext(ctx, &record, query, recordID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("record", err)
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) SetVisibility(ctx context.Context, recordID uuid.UUID, visible bool) error {
	query := `UPDATE patient_medical_records SET visibility = $1, updated_at = $2 WHERE record_id = $3`
	res, err := r.db.ExecContext(ctx, query, visible, time.Now(), recordID)
	if err != nil {
		return fmt.Errorf("failed to update record visibility: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("record", nil)
	}
	return nil
}

func (r *recordRepository) List(ctx context.Context, patientID uuid.UUID, filter model.RecordFilter) ([]*model.RecordSummary, error) {
	query := `
		SELECT
			r.record_id, r.doctor_id, r.hospital_id,
			COALESCE(NULLIF(r.doctor_name, ''), doc.full_name, 'Unknown Doctor') AS doctor_name,
			COALESCE(NULLIF(r.hospital_name, ''), hos.name, 'Unknown Hospital') AS hospital_name,
			r.entry_type, r.diagnosis_name, r.treatment_undergone,
			r.history_of_present_illness, r.visibility, r.appointment_date,
			r.reg_no, r.created_at, r.updated_at,
			h.hosp_id IS NOT NULL AS is_hospitalized,
			s.surgery_id IS NOT NULL AS is_surgery,
			COALESCE(
				(d.prescriptions IS NOT NULL)::int + (d.lab_results IS NOT NULL)::int,
				0
			) AS document_count
		FROM patient_medical_records r
		LEFT JOIN doctors doc ON doc.doctor_id = r.doctor_id
		LEFT JOIN hospitals hos ON hos.hospital_id = r.hospital_id
		LEFT JOIN record_hospitalizations h ON h.record_id = r.record_id
		LEFT JOIN record_surgeries s ON s.record_id = r.record_id
		LEFT JOIN record_documents d ON d.record_id = r.record_id
		WHERE r.patient_id = $1
	`
	args := []interface{}{patientID}

	if filter.VisibleOnly {
		query += ` AND r.visibility = TRUE`
	}
	if filter.EntryType != "" && filter.EntryType != "All" {
		args = append(args, filter.EntryType)
		query += fmt.Sprintf(` AND r.entry_type = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(
			` AND (r.diagnosis_name ILIKE $%d OR r.doctor_name ILIKE $%d OR r.hospital_name ILIKE $%d)`,
			len(args), len(args), len(args),
		)
	}

	switch filter.SortBy {
	case model.SortDiagnosis:
		query += ` ORDER BY r.diagnosis_name ASC`
	case model.SortTimeAsc:
		query += ` ORDER BY r.created_at ASC`
	default:
		query += ` ORDER BY r.created_at DESC`
	}

	var summaries []*model.RecordSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return summaries, nil
}

func (r *recordRepository) AddHospitalization(ctx context.Context, hosp *model.Hospitalization) error {
	hosp.CreatedAt = time.Now()
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM record_hospitalizations WHERE record_id = $1)`
		if err := tx.GetContext(ctx, &exists, checkQuery, hosp.RecordID); err != nil {
			return fmt.Errorf("failed to check hospitalization: %w", err)
		}
		if exists {
			return errors.Conflict("hospitalization", nil)
		}
		if _, err := tx.NamedExecContext(ctx, insertHospitalizationQuery, hosp); err != nil {
			return mapWriteError(err, "hospitalization")
		}
		return touchRecord(ctx, tx, hosp.RecordID)
	})
}

func (r *recordRepository) AddSurgery(ctx context.Context, surg *model.Surgery) error {
	surg.CreatedAt = time.Now()
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM record_surgeries WHERE record_id = $1)`
		if err := tx.GetContext(ctx, &exists, checkQuery, surg.RecordID); err != nil {
			return fmt.Errorf("failed to check surgery: %w", err)
		}
		if exists {
			return errors.Conflict("surgery", nil)
		}
		if _, err := tx.NamedExecContext(ctx, insertSurgeryQuery, surg); err != nil {
			return mapWriteError(err, "surgery")
		}
		return touchRecord(ctx, tx, surg.RecordID)
	})
}

// touchRecord bumps the parent record's updated_at so sub-document writes
// surface in "last updated" orderings.
func touchRecord(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE patient_medical_records SET updated_at = $1 WHERE record_id = $2`,
		time.Now(), recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch record: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("record", nil)
	}
	return nil
}

func (r *recordRepository) GetHospitalization(ctx context.Context, recordID uuid.UUID) (*model.Hospitalization, error) {
	var hosp model.Hospitalization
	query := `SELECT * FROM record_hospitalizations WHERE record_id = $1`
	if err := r.db.GetContext(ctx, &hosp, query, recordID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("hospitalization", err)
		}
		return nil, fmt.Errorf("failed to get hospitalization: %w", err)
	}
	return &hosp, nil
}

func (r *recordRepository) GetSurgery(ctx context.Context, recordID uuid.UUID) (*model.Surgery, error) {
	var surg model.Surgery
	query := `SELECT * FROM record_surgeries WHERE record_id = $1`
	if err := r.db.GetContext(ctx, &surg, query, recordID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("surgery", err)
		}
		return nil, fmt.Errorf("failed to get surgery: %w", err)
	}
	return &surg, nil
}

func (r *recordRepository) UpsertPrescription(ctx context.Context, recordID uuid.UUID, url string) (*model.Documents, error) {
	return r.setDocumentField(ctx, recordID, "prescriptions", &url)
}

func (r *recordRepository) ClearPrescription(ctx context.Context, recordID uuid.UUID) (*model.Documents, error) {
	return r.setDocumentField(ctx, recordID, "prescriptions", nil)
}

func (r *recordRepository) UpsertLabResults(ctx context.Context, recordID uuid.UUID, url string) (*model.Documents, error) {
	return r.setDocumentField(ctx, recordID, "lab_results", &url)
}

func (r *recordRepository) ClearLabResults(ctx context.Context, recordID uuid.UUID) (*model.Documents, error) {
	return r.setDocumentField(ctx, recordID, "lab_results", nil)
}

// setDocumentField upserts the single documents row for a record, writing one
// URL column. A nil value nulls the column; the row itself is never deleted,
// so repeated removals are idempotent.
func (r *recordRepository) setDocumentField(ctx context.Context, recordID uuid.UUID, column string, value *string) (*model.Documents, error) {
	var docs model.Documents
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM patient_medical_records WHERE record_id = $1)`
		if err := tx.GetContext(ctx, &exists, checkQuery, recordID); err != nil {
			return fmt.Errorf("failed to check record: %w", err)
		}
		if !exists {
			return errors.NotFound("record", nil)
		}

		now := time.Now()
		query := fmt.Sprintf(`
			INSERT INTO record_documents (doc_id, record_id, %s, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (record_id) DO UPDATE SET %s = $3, updated_at = $4
			RETURNING *
		`, column, column)
		if err := tx.GetContext(ctx, &docs, query, uuid.New(), recordID, value, now); err != nil {
			return fmt.Errorf("failed to upsert documents: %w", err)
		}
		return touchRecord(ctx, tx, recordID)
	})
	if err != nil {
		return nil, err
	}
	return &docs, nil
}

func (r *recordRepository) GetDocuments(ctx context.Context, recordID uuid.UUID) (*model.Documents, error) {
	var docs model.Documents
	query := `SELECT * FROM record_documents WHERE record_id = $1`
	if err := r.db.GetContext(ctx, &docs, query, recordID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("documents", err)
		}
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	return &docs, nil
}

func (r *recordRepository) LastRecord(ctx context.Context, patientID uuid.UUID) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	query := `
		SELECT * FROM patient_medical_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &record, query, patientID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("record", err)
		}
		return nil, fmt.Errorf("failed to get last record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) LastHospitalVisit(ctx context.Context, patientID uuid.UUID) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	query := `
		SELECT * FROM patient_medical_records
		WHERE patient_id = $1 AND hospital_name <> ''
		ORDER BY appointment_date DESC NULLS LAST
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &record, query, patientID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("hospital visit", err)
		}
		return nil, fmt.Errorf("failed to get last hospital visit: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) LastHospitalization(ctx context.Context, patientID uuid.UUID) (*model.Hospitalization, *model.MedicalRecord, error) {
	var row struct {
		model.Hospitalization
		Record model.MedicalRecord `db:"record"`
	}
	query := `
		SELECT h.*,
			r.record_id AS "record.record_id",
			r.patient_id AS "record.patient_id",
			r.entry_type AS "record.entry_type",
			r.doctor_name AS "record.doctor_name",
			r.hospital_name AS "record.hospital_name",
			r.diagnosis_name AS "record.diagnosis_name",
			r.treatment_undergone AS "record.treatment_undergone",
			r.history_of_present_illness AS "record.history_of_present_illness",
			r.reg_no AS "record.reg_no",
			r.visibility AS "record.visibility",
			r.created_at AS "record.created_at",
			r.updated_at AS "record.updated_at"
		FROM record_hospitalizations h
		JOIN patient_medical_records r ON r.record_id = h.record_id
		WHERE r.patient_id = $1
		ORDER BY h.created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &row, query, patientID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NotFound("hospitalization", err)
		}
		return nil, nil, fmt.Errorf("failed to get last hospitalization: %w", err)
	}
	return &row.Hospitalization, &row.Record, nil
}

func (r *recordRepository) LastSurgery(ctx context.Context, patientID uuid.UUID) (*model.Surgery, *model.MedicalRecord, error) {
	var row struct {
		model.Surgery
		Record model.MedicalRecord `db:"record"`
	}
	query := `
		SELECT s.*,
			r.record_id AS "record.record_id",
			r.patient_id AS "record.patient_id",
			r.entry_type AS "record.entry_type",
			r.doctor_name AS "record.doctor_name",
			r.hospital_name AS "record.hospital_name",
			r.diagnosis_name AS "record.diagnosis_name",
			r.treatment_undergone AS "record.treatment_undergone",
			r.history_of_present_illness AS "record.history_of_present_illness",
			r.reg_no AS "record.reg_no",
			r.visibility AS "record.visibility",
			r.created_at AS "record.created_at",
			r.updated_at AS "record.updated_at"
		FROM record_surgeries s
		JOIN patient_medical_records r ON r.record_id = s.record_id
		WHERE r.patient_id = $1
		ORDER BY s.created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &row, query, patientID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NotFound("surgery", err)
		}
		return nil, nil, fmt.Errorf("failed to get last surgery: %w", err)
	}
	return &row.Surgery, &row.Record, nil
}

func (r *recordRepository) HospitalVisits(ctx context.Context, patientID uuid.UUID, hospitalName string, from, to *time.Time) ([]*model.MedicalRecord, error) {
	query := `SELECT * FROM patient_medical_records WHERE patient_id = $1`
	args := []interface{}{patientID}

	if hospitalName != "" {
		args = append(args, "%"+hospitalName+"%")
		query += fmt.Sprintf(` AND hospital_name ILIKE $%d`, len(args))
	} else {
		query += ` AND hospital_name <> ''`
	}
	query, args = appendDateRange(query, args, "appointment_date", from, to)
	query += ` ORDER BY appointment_date DESC NULLS LAST`

	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list hospital visits: %w", err)
	}
	return records, nil
}

func (r *recordRepository) DoctorVisits(ctx context.Context, patientID uuid.UUID, doctorName string) ([]*model.MedicalRecord, error) {
	query := `SELECT * FROM patient_medical_records WHERE patient_id = $1`
	args := []interface{}{patientID}

	if doctorName != "" {
		args = append(args, "%"+doctorName+"%")
		query += fmt.Sprintf(` AND doctor_name ILIKE $%d`, len(args))
	} else {
		query += ` AND doctor_name <> ''`
	}
	query += ` ORDER BY created_at DESC`

	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctor visits: %w", err)
	}
	return records, nil
}

func (r *recordRepository) PastDiagnoses(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	var records []*model.MedicalRecord
	query := `
		SELECT * FROM patient_medical_records
		WHERE patient_id = $1 AND diagnosis_name <> ''
		ORDER BY appointment_date DESC NULLS LAST
	`
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list past diagnoses: %w", err)
	}
	return records, nil
}

func (r *recordRepository) LatestPrescription(ctx context.Context, patientID uuid.UUID) (*model.Documents, *model.MedicalRecord, error) {
	var row struct {
		model.Documents
		Record model.MedicalRecord `db:"record"`
	}
	query := `
		SELECT d.*,
			r.record_id AS "record.record_id",
			r.patient_id AS "record.patient_id",
			r.entry_type AS "record.entry_type",
			r.doctor_name AS "record.doctor_name",
			r.hospital_name AS "record.hospital_name",
			r.diagnosis_name AS "record.diagnosis_name",
			r.treatment_undergone AS "record.treatment_undergone",
			r.history_of_present_illness AS "record.history_of_present_illness",
			r.reg_no AS "record.reg_no",
			r.visibility AS "record.visibility",
			r.created_at AS "record.created_at",
			r.updated_at AS "record.updated_at"
		FROM record_documents d
		JOIN patient_medical_records r ON r.record_id = d.record_id
		WHERE r.patient_id = $1 AND d.prescriptions IS NOT NULL
		ORDER BY d.updated_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &row, query, patientID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NotFound("prescription", err)
		}
		return nil, nil, fmt.Errorf("failed to get latest prescription: %w", err)
	}
	return &row.Documents, &row.Record, nil
}

func (r *recordRepository) LabResultsBetween(ctx context.Context, patientID uuid.UUID, from, to *time.Time) ([]*model.Documents, error) {
	query := `
		SELECT d.* FROM record_documents d
		JOIN patient_medical_records r ON r.record_id = d.record_id
		WHERE r.patient_id = $1 AND d.lab_results IS NOT NULL
	`
	args := []interface{}{patientID}
	query, args = appendDateRange(query, args, "d.updated_at", from, to)
	query += ` ORDER BY d.updated_at DESC`

	var docs []*model.Documents
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list lab results: %w", err)
	}
	return docs, nil
}

func appendDateRange(query string, args []interface{}, column string, from, to *time.Time) (string, []interface{}) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND %s >= $%d`, column, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND %s <= $%d`, column, len(args))
	}
	return query, args
}
