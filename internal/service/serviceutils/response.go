package serviceutils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/apperror"
)

// Response is the JSON envelope returned by every API endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(status, resp)
}

// ResponseAppError picks the status from the error's apperror code.
func ResponseAppError(c echo.Context, message string, err error) error {
	return ResponseError(c, StatusFromError(err), message, err)
}

func StatusFromError(err error) int {
	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		return http.StatusBadRequest
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
