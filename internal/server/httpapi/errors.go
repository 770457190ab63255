package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusFor maps service errors to an HTTP status and a short code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorOutOfRange):
		return http.StatusUnprocessableEntity, "out_of_range"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "already_exists"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: err.Error(), Code: "bad_request"}})
}
