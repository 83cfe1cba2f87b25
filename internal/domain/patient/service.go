package patient

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/medportal/medportal/internal/platform/db"
)

var (
	ErrEmptyName          = errors.New("name is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmptyPassword      = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("patient not found")
	ErrMissingPatientID   = errors.New("patient id is required")
	ErrEmptyProblem       = errors.New("problem description cannot be empty")
)

type Service struct {
	patients Repository
	notes    NoteRepository
	tx       db.Runner
}

func NewService(patients Repository, notes NoteRepository, tx db.Runner) *Service {
	return &Service{
		patients: patients,
		notes:    notes,
		tx:       tx,
	}
}

// normalizeEmail validates syntax and lower-cases the address. Emails are
// stored and matched case-insensitively.
func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// Register creates a patient account and returns the generated id.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, ErrEmptyName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return 0, err
	}
	if req.Password == "" {
		return 0, ErrEmptyPassword
	}

	if _, err := s.patients.GetByEmail(ctx, email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	p := &Patient{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.patients.Create(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Login checks the shared secret and returns the patient id. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (int64, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return 0, ErrInvalidCredentials
	}

	p, err := s.patients.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return 0, ErrInvalidCredentials
	}
	return p.ID, nil
}

// Get returns a single patient with the rendered consultation history.
func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &View{ID: p.ID, Name: p.Name, Email: p.Email, Problem: RenderProblem(notes)}, nil
}

// List returns one page of patients with rendered consultation histories.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*View, int, error) {
	patients, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(patients))
	for i, p := range patients {
		ids[i] = p.ID
	}
	notesByPatient, err := s.notes.ListByPatients(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*View, len(patients))
	for i, p := range patients {
		views[i] = &View{
			ID:      p.ID,
			Name:    p.Name,
			Email:   p.Email,
			Problem: RenderProblem(notesByPatient[p.ID]),
		}
	}
	return views, total, nil
}

// Count reports the number of registered patients, for the health check.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}

// AddRecord appends a consultation note to the patient's record. The lookup,
// insert and history read share one transaction; any failure rolls the unit
// of work back.
func (s *Service) AddRecord(ctx context.Context, req RecordRequest) (*RecordResult, error) {
	if req.PatientID == 0 {
		return nil, ErrMissingPatientID
	}
	body := strings.TrimSpace(req.Problem)
	if body == "" {
		return nil, ErrEmptyProblem
	}

	var result *RecordResult
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.patients.GetByID(ctx, req.PatientID)
		if err != nil {
			return err
		}

		note := &ConsultationNote{
			PatientID: p.ID,
			Body:      body,
			CreatedAt: time.Now(),
		}
		if err := s.notes.Add(ctx, note); err != nil {
			return fmt.Errorf("save consultation note: %w", err)
		}

		notes, err := s.notes.ListByPatient(ctx, p.ID)
		if err != nil {
			return err
		}

		result = &RecordResult{
			PatientID:   p.ID,
			PatientName: p.Name,
			Saved:       true,
			Problem:     RenderProblem(notes),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
