package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"minbar/internal/logger"
	"minbar/internal/services"
	"minbar/internal/utils/helpers"
	"minbar/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads the request body into dst. Malformed JSON is reported as a
// validation error on "body".
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return validation.NewError("body", "must be valid JSON")
	}
	return nil
}

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func queryID(r *http.Request, name string) int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// writeServiceError maps service errors to status codes. Anything unknown is
// logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		helpers.ValidationError(w, "validation failed", ve.Fields)
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Error(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrEmailTaken):
		helpers.Error(w, http.StatusConflict, services.ErrEmailTaken.Error())
	case errors.Is(err, services.ErrSlugTaken):
		helpers.Error(w, http.StatusConflict, services.ErrSlugTaken.Error())
	case errors.Is(err, services.ErrInvalidResetToken):
		helpers.Error(w, http.StatusBadRequest, services.ErrInvalidResetToken.Error())
	case errors.Is(err, services.ErrBadReference):
		helpers.Error(w, http.StatusBadRequest, services.ErrBadReference.Error())
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
	case errors.Is(err, services.ErrUnsupportedFile):
		helpers.Error(w, http.StatusUnsupportedMediaType, services.ErrUnsupportedFile.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		helpers.Error(w, http.StatusRequestEntityTooLarge, services.ErrFileTooLarge.Error())
	case errors.Is(err, services.ErrResetDelivery):
		logger.WithCtx(r.Context()).Error("Password reset delivery failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, services.ErrResetDelivery.Error())
	default:
		logger.WithCtx(r.Context()).Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
