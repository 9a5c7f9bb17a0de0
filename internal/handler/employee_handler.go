package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatsDefaults supplies the query parameters /stats falls back to.
type StatsDefaults struct {
	ReferenceYear  int // 0 means the current calendar year
	ThresholdYears int
	LastName       string
	Now            func() time.Time
}

func (d StatsDefaults) referenceYear() int {
	if d.ReferenceYear > 0 {
		return d.ReferenceYear
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return now().Year()
}

type EmployeeHandler struct {
	svc      service.EmployeeService
	defaults StatsDefaults
}

func NewEmployeeHandler(svc service.EmployeeService, defaults StatsDefaults) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, defaults: defaults}
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	employees := h.svc.List(c.Request().Context())
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", employees)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseAppError(c, "Failed to get employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req domain.Employee
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := h.svc.Add(c.Request().Context(), req)
	if err != nil {
		return serviceutils.ResponseAppError(c, "Failed to create employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", emp)
}

type deleteResponse struct {
	ID      int  `json:"id"`
	Removed bool `json:"removed"`
}

// DeleteHandler answers 200 whether or not the employee existed.
func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	removed := h.svc.Remove(c.Request().Context(), id)
	msg := "Employee deleted successfully"
	if !removed {
		msg = "No employee with that ID"
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, msg, deleteResponse{ID: id, Removed: removed})
}

func (h *EmployeeHandler) StatsHandler(c echo.Context) error {
	q, err := h.summaryQuery(c)
	if err != nil {
		return serviceutils.ResponseAppError(c, "Invalid query parameters", err)
	}

	summary := h.svc.Summary(c.Request().Context(), q)
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Statistics computed successfully", summary)
}

func (h *EmployeeHandler) summaryQuery(c echo.Context) (service.SummaryQuery, error) {
	q := service.SummaryQuery{
		ReferenceYear:  h.defaults.referenceYear(),
		ThresholdYears: h.defaults.ThresholdYears,
		LastName:       h.defaults.LastName,
	}

	if v := c.QueryParam("reference_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return q, apperror.Wrap(apperror.CodeValidation, "reference_year must be an integer", err)
		}
		q.ReferenceYear = year
	}
	if v := c.QueryParam("threshold_years"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return q, apperror.Wrap(apperror.CodeValidation, "threshold_years must be an integer", err)
		}
		q.ThresholdYears = years
	}
	if v := strings.TrimSpace(c.QueryParam("last_name")); v != "" {
		q.LastName = v
	}
	return q, nil
}

type loadResponse struct {
	Loaded  int      `json:"loaded"`
	Skipped []string `json:"skipped"`
}

func (h *EmployeeHandler) SaveSnapshotHandler(c echo.Context) error {
	if err := h.svc.Save(c.Request().Context()); err != nil {
		return serviceutils.ResponseAppError(c, "Failed to save snapshot", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Snapshot saved successfully", nil)
}

func (h *EmployeeHandler) LoadSnapshotHandler(c echo.Context) error {
	result, err := h.svc.Load(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseAppError(c, "Failed to load snapshot", err)
	}

	resp := loadResponse{Loaded: result.Loaded, Skipped: make([]string, 0, len(result.Skipped))}
	for _, s := range result.Skipped {
		resp.Skipped = append(resp.Skipped, s.Error())
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Snapshot loaded successfully", resp)
}

func (h *EmployeeHandler) ExportXLSXHandler(c echo.Context) error {
	ctx := c.Request().Context()
	q, err := h.summaryQuery(c)
	if err != nil {
		return serviceutils.ResponseAppError(c, "Invalid query parameters", err)
	}

	var buf bytes.Buffer
	if err := h.svc.ExportWorkbook(ctx, &buf, q); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}
	logger.DebugLog(ctx, "Exported workbook of %d bytes", buf.Len())

	c.Response().Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *EmployeeHandler) HealthcheckHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "OK", map[string]int{
		"employees": len(h.svc.List(c.Request().Context())),
	})
}
