package web

// errors.go maps conversion errors onto HTTP responses. Technical details
// are logged with the request ID; clients get a short message in JSON or
// plain text depending on what they asked for.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ukaji3/exsplit-go/internal/logging"
	"github.com/ukaji3/exsplit-go/pkg/exsplit"
	"github.com/ukaji3/exsplit-go/pkg/exsplit/archive"
)

var (
	// errInvalidFileType rejects uploads that are not .xlsx files.
	errInvalidFileType = errors.New("invalid file type")
	// errBadForm marks a request whose form could not be read.
	errBadForm = errors.New("invalid form")
)

// ErrorResponse is the JSON body of an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// userError is the client-facing view of an error.
type userError struct {
	status  int
	code    string
	message string
}

// mapError classifies err. Anything unrecognised is an internal error whose
// details stay in the log.
func mapError(err error) userError {
	var (
		perr  *exsplit.ParseError
		iperr *exsplit.InvalidParameterError
		cerr  *exsplit.ColumnNotFoundError
	)

	switch {
	case errors.Is(err, errInvalidFileType):
		return userError{http.StatusBadRequest, "invalid_file_type", "Invalid file type"}
	case errors.As(err, &cerr):
		return userError{http.StatusBadRequest, "column_not_found",
			fmt.Sprintf("Column '%s' not found in file '%s'", cerr.Column, cerr.Source)}
	case errors.As(err, &iperr):
		return userError{http.StatusBadRequest, "invalid_parameter",
			fmt.Sprintf("Invalid %s: %s", iperr.Name, iperr.Reason)}
	case errors.As(err, &perr):
		return userError{http.StatusBadRequest, "invalid_format",
			fmt.Sprintf("Could not read '%s' as an Excel workbook", perr.Source)}
	case errors.Is(err, archive.ErrDuplicateEntry):
		return userError{http.StatusBadRequest, "duplicate_entry", "Output file names collide"}
	case errors.Is(err, errBusy):
		return userError{http.StatusServiceUnavailable, "busy", "Server is busy, please try again later"}
	case errors.As(err, new(*http.MaxBytesError)):
		return userError{http.StatusRequestEntityTooLarge, "too_large", "Upload is too large"}
	case errors.Is(err, errBadForm):
		return userError{http.StatusBadRequest, "invalid_form", err.Error()}
	}
	return userError{http.StatusInternalServerError, "internal", "Internal server error"}
}

// respondError logs err and writes the mapped response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ue := mapError(err)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", ue.status,
		"code", ue.code,
		"error", err.Error(),
	}
	if ue.status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request rejected", args...)
	}

	if ue.status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(ue.status)
		json.NewEncoder(w).Encode(ErrorResponse{Error: ue.message, Code: ue.code})
		return
	}
	http.Error(w, ue.message, ue.status)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
