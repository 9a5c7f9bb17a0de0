package serviceutils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.New(apperror.CodeValidation, "bad"), http.StatusBadRequest},
		{"not found", apperror.New(apperror.CodeNotFound, "missing"), http.StatusNotFound},
		{"conflict", apperror.New(apperror.CodeConflict, "dup"), http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFromError(tc.err))
		})
	}
}

func TestResponseAppError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := ResponseAppError(c, "Failed to get employee", apperror.New(apperror.CodeNotFound, "employee not found"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to get employee", body.Message)
	assert.Equal(t, "employee not found", body.Error)
}
