package doctor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockRepo struct {
	data   map[int64]*Doctor
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{data: make(map[int64]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	m.data[d.ID] = d
	return nil
}
func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Doctor, error) {
	for _, d := range m.data {
		if strings.EqualFold(d.Email, email) {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestRegister(t *testing.T) {
	svc := newTestService()

	id, err := svc.Register(context.Background(), RegisterRequest{Email: "doc@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected a generated id")
	}
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "A@b.com", Password: "x"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register(ctx, RegisterRequest{Email: "a@B.com", Password: "y"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken for different casing, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "nope", Password: "x"}); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterRequest{Email: "doc@example.com"}); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestLogin_EitherCasing(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	id, err := svc.Register(ctx, RegisterRequest{Email: "Doc@Example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for _, email := range []string{"doc@example.com", "DOC@EXAMPLE.COM", "Doc@Example.com"} {
		got, err := svc.Login(ctx, LoginRequest{Email: email, Password: "secret"})
		if err != nil {
			t.Errorf("login with %s failed: %v", email, err)
			continue
		}
		if got != id {
			t.Errorf("login with %s: expected id %d, got %d", email, id, got)
		}
	}
}

func TestLogin_DistinctFailureModes(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "doc@example.com", Password: "secret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, unknown := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "secret"})
	if !errors.Is(unknown, ErrNotFound) {
		t.Errorf("unknown email: expected ErrNotFound, got %v", unknown)
	}

	_, wrongPass := svc.Login(ctx, LoginRequest{Email: "doc@example.com", Password: "nope"})
	if !errors.Is(wrongPass, ErrInvalidPassword) {
		t.Errorf("wrong password: expected ErrInvalidPassword, got %v", wrongPass)
	}
}
