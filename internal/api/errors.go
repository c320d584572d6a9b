package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/pngme/internal/stego"
	"github.com/samcharles93/pngme/pkg/png"
)

var ErrTooLarge = errors.New("request body too large")

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// statusFor maps codec and workflow errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large_error"
	case errors.Is(err, png.ErrNotFound):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, png.ErrNonASCII), errors.Is(err, stego.ErrCriticalType):
		return http.StatusUnprocessableEntity, "unprocessable_error"
	case errors.Is(err, png.ErrBadSignature),
		errors.Is(err, png.ErrMalformedRecord),
		errors.Is(err, png.ErrChecksumMismatch),
		errors.Is(err, png.ErrInvalidByte),
		errors.Is(err, png.ErrInvalidLength),
		errors.Is(err, png.ErrReservedBit),
		errors.Is(err, stego.ErrReservedType):
		return http.StatusBadRequest, "invalid_request_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

func (s *Server) writeError(c *echo.Context, err error) error {
	status, typ := statusFor(err)
	log := s.requestLog(c)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "err", err)
	} else {
		log.Debug("request rejected", "status", status, "err", err)
	}
	return writeJSON(c, status, ErrorBody{Error: ErrorDetail{Type: typ, Message: err.Error()}})
}

func (s *Server) writeBadRequest(c *echo.Context, msg string) error {
	return writeJSON(c, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{Type: "invalid_request_error", Message: msg}})
}
