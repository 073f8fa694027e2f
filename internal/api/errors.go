package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jamescw/unicef-assessment-tool/internal/errors"
)

var statusByCode = map[string]int{
	errors.ErrCodeInvalidInput:     http.StatusBadRequest,
	errors.ErrCodeUnauthorized:     http.StatusUnauthorized,
	errors.ErrCodeForbidden:        http.StatusForbidden,
	errors.ErrCodeNotFound:         http.StatusNotFound,
	errors.ErrCodeConflict:         http.StatusConflict,
	errors.ErrCodeDataIntegrity:    http.StatusUnprocessableEntity,
	errors.ErrCodeConfiguration:    http.StatusUnprocessableEntity,
	errors.ErrCodeInsufficientData: http.StatusUnprocessableEntity,
}

// respondError writes err as a JSON error body. Application errors keep their code and
// message; anything else is reported as an internal error without detail.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  errors.ErrCodeInternalError,
		})
		return
	}

	status, ok := statusByCode[appErr.Code]
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  appErr.Code,
		})
		return
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}

// badRequest reports a malformed request body or parameter.
func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message, "code": errors.ErrCodeInvalidInput}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
