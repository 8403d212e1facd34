package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

type successBody struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func SuccessResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successBody{Status: "success", Data: data})
}

func ErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Status: "error", Message: message})
}

// Error writes err with the status code its errcodes sentinel maps to.
// Server-side failures are logged and answered with the status text only.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
		ErrorResponse(w, status, http.StatusText(status))
		return
	}
	ErrorResponse(w, status, err.Error())
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, errcodes.ErrValidation), errors.Is(err, errcodes.ErrInvalidRepositoryName):
		return http.StatusBadRequest
	case errors.Is(err, errcodes.ErrNoRecordFound):
		return http.StatusNotFound
	case errors.Is(err, errcodes.ErrUniqueViolation):
		return http.StatusConflict
	case errors.Is(err, errcodes.ErrForeignKey):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errcodes.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, errcodes.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
