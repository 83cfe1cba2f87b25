package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Register(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/register_doctor", `{"email":"doc@example.com","password":"secret"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "Doctor registered successfully!" {
		t.Errorf("unexpected message %v", body["message"])
	}
}

func TestHandler_Register_DuplicateCasing(t *testing.T) {
	h, e := newTestHandler()
	c, _ := postJSON(e, "/register_doctor", `{"email":"A@b.com","password":"x"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	c, _ = postJSON(e, "/register_doctor", `{"email":"a@B.com","password":"y"}`)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler()
	c, _ := postJSON(e, "/register_doctor", `{"email":"doc@example.com","password":"secret"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	c, rec := postJSON(e, "/login_doctor", `{"email":"DOC@example.com","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["doctor_id"] == nil {
		t.Error("expected doctor_id in response")
	}
}

func TestHandler_Login_DistinctMessages(t *testing.T) {
	h, e := newTestHandler()
	c, _ := postJSON(e, "/register_doctor", `{"email":"doc@example.com","password":"secret"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	c, _ = postJSON(e, "/login_doctor", `{"email":"ghost@example.com","password":"secret"}`)
	errUnknown := h.Login(c)

	c, _ = postJSON(e, "/login_doctor", `{"email":"doc@example.com","password":"wrong"}`)
	errWrongPass := h.Login(c)

	heUnknown, ok := errUnknown.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", errUnknown)
	}
	heWrongPass, ok := errWrongPass.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", errWrongPass)
	}

	if heUnknown.Code != http.StatusUnauthorized || heWrongPass.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for both, got %d and %d", heUnknown.Code, heWrongPass.Code)
	}
	if heUnknown.Message == heWrongPass.Message {
		t.Error("expected distinct messages for unknown email vs wrong password")
	}
	if heUnknown.Message != "Doctor not found with this email" {
		t.Errorf("unexpected unknown-email message %v", heUnknown.Message)
	}
	if heWrongPass.Message != "Invalid password" {
		t.Errorf("unexpected wrong-password message %v", heWrongPass.Message)
	}
}
