package patient

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medportal/medportal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/register_patient", h.Register)
	e.POST("/login_patient", h.Login)
	e.GET("/get_patients", h.List)
	e.GET("/get_patient/:patient_id", h.Get)
	e.POST("/patient_record", h.AddRecord)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.Register(c.Request().Context(), req)
	switch {
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	case errors.Is(err, ErrEmptyName), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrEmptyPassword):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Patient registered successfully!",
		"id":      id,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.Login(c.Request().Context(), req)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Login successful",
		"patient_id": id,
	})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	views, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if views == nil {
		views = []*View{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	view, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) AddRecord(c echo.Context) error {
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.AddRecord(c.Request().Context(), req)
	switch {
	case errors.Is(err, ErrMissingPatientID):
		return echo.NewHTTPError(http.StatusBadRequest, "Patient ID is required")
	case errors.Is(err, ErrEmptyProblem):
		return echo.NewHTTPError(http.StatusBadRequest, "Problem description cannot be empty")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("Patient not found with ID: %d", req.PatientID))
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("Failed to save to database: %s", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Patient record updated successfully!",
		"patient_id":    result.PatientID,
		"patient_name":  result.PatientName,
		"problem_saved": result.Saved,
		"problem":       result.Problem,
	})
}
