package patient

import (
	"strings"
	"time"
)

// Patient maps to the patient_records table. The password is stored only as
// a bcrypt hash and never serialized.
type Patient struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ConsultationNote maps to the consultation_note table. Notes are
// append-only: one row per consultation, ordered by creation time.
type ConsultationNote struct {
	ID        int64     `db:"id" json:"id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// View is the public representation returned by the read endpoints. The
// problem field carries the patient's full consultation history rendered
// into one text block.
type View struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Problem string `json:"problem"`
}

// RegisterRequest is the body of POST /register_patient.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login_patient.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RecordRequest is the body of POST /patient_record.
type RecordRequest struct {
	PatientID int64  `json:"patient_id"`
	Problem   string `json:"problem"`
}

// RecordResult is returned after a consultation note is saved.
type RecordResult struct {
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Saved       bool   `json:"problem_saved"`
	Problem     string `json:"problem"`
}

const noteTimeFormat = "2006-01-02 15:04:05"

// RenderProblem flattens an ordered note sequence into the single text blob
// the API exposes: the first note verbatim, every later note introduced by a
// timestamped consultation delimiter.
func RenderProblem(notes []*ConsultationNote) string {
	if len(notes) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(notes[0].Body)
	for _, n := range notes[1:] {
		b.WriteString("\n\n--- Consultation on ")
		b.WriteString(n.CreatedAt.Format(noteTimeFormat))
		b.WriteString(" ---\n")
		b.WriteString(n.Body)
	}
	return b.String()
}
