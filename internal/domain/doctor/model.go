package doctor

import "time"

// Doctor maps to the doctor_records table. Doctors carry no profile beyond
// their credentials.
type Doctor struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest is the body of POST /register_doctor.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login_doctor.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
