package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medportal/medportal/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, name, email, password_hash, created_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_records (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		p.Name, p.Email, p.PasswordHash).Scan(&p.ID, &p.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient_records WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient_records WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_records`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patient_records ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_records`).Scan(&total)
	return total, err
}

type noteRepoPG struct{ pool *pgxpool.Pool }

func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

func (r *noteRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *noteRepoPG) Add(ctx context.Context, n *ConsultationNote) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultation_note (patient_id, body, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		n.PatientID, n.Body, n.CreatedAt).Scan(&n.ID)
}

func (r *noteRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*ConsultationNote, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, body, created_at
		FROM consultation_note
		WHERE patient_id = $1
		ORDER BY created_at, id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []*ConsultationNote
	for rows.Next() {
		var n ConsultationNote
		if err := rows.Scan(&n.ID, &n.PatientID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

func (r *noteRepoPG) ListByPatients(ctx context.Context, patientIDs []int64) (map[int64][]*ConsultationNote, error) {
	byPatient := make(map[int64][]*ConsultationNote)
	if len(patientIDs) == 0 {
		return byPatient, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, body, created_at
		FROM consultation_note
		WHERE patient_id = ANY($1)
		ORDER BY patient_id, created_at, id`, patientIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n ConsultationNote
		if err := rows.Scan(&n.ID, &n.PatientID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		byPatient[n.PatientID] = append(byPatient[n.PatientID], &n)
	}
	return byPatient, rows.Err()
}
