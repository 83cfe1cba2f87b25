package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEmptyPassword   = errors.New("password is required")
	ErrEmailTaken      = errors.New("email already registered")
	ErrNotFound        = errors.New("doctor not found")
	ErrInvalidPassword = errors.New("invalid password")
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// Register creates a doctor account and returns the generated id. Email
// matching is case-insensitive.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return 0, err
	}
	if req.Password == "" {
		return 0, ErrEmptyPassword
	}

	if _, err := s.doctors.GetByEmail(ctx, email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	d := &Doctor{Email: email, PasswordHash: string(hash)}
	if err := s.doctors.Create(ctx, d); err != nil {
		return 0, err
	}
	return d.ID, nil
}

// Login checks the shared secret and returns the doctor id. Unlike patient
// login, the two failure modes stay distinct: ErrNotFound for an unknown
// email, ErrInvalidPassword for a known one with the wrong secret.
func (s *Service) Login(ctx context.Context, req LoginRequest) (int64, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return 0, ErrNotFound
	}

	d, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(req.Password)) != nil {
		return 0, ErrInvalidPassword
	}
	return d.ID, nil
}
