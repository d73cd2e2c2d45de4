package handler

// RESPONSE HELPERS:
// These functions standardise how we read requests and send responses.
//
// Without helpers, every handler repeats the same boilerplate:
//   w.Header().Set("Content-Type", "application/json")
//   w.WriteHeader(statusCode)
//   json.NewEncoder(w).Encode(data)
//
// With helpers, handlers stay short:
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "not_found", "message": "report not found with id abc123"}
//
// Validation errors also name the offending input:
//   {"error": "validation_error", "message": "title is required", "field": "title"}

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/auth"
)

// maxBodyBytes caps request bodies. The largest legitimate body is a tip
// or report description.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Input that failed validation, if any
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and the status code must be set BEFORE writing the body. Once
// Encode writes, the headers are sent and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// The headers are already sent; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorKinds maps each sentinel to its HTTP status and machine-readable
// name. Order matters only if an error wraps more than one sentinel.
var errorKinds = []struct {
	target error
	status int
	kind   string
}{
	{apperror.ErrValidation, http.StatusBadRequest, "validation_error"},
	// ErrUnauthorized only comes from an external platform refusing the
	// stored token. 401 "unauthorized" is reserved for a missing session.
	{apperror.ErrUnauthorized, http.StatusFailedDependency, "upstream_unauthorized"},
	{apperror.ErrForbidden, http.StatusForbidden, "forbidden"},
	{apperror.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperror.ErrConflict, http.StatusConflict, "conflict"},
	{apperror.ErrInvalidCredentials, http.StatusUnprocessableEntity, "invalid_credentials"},
	{apperror.ErrUpstream, http.StatusBadGateway, "upstream_error"},
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// WHY HERE AND NOT IN THE SERVICE?
// The service layer doesn't know about HTTP. It returns apperror kinds,
// and this is the one place they become status codes.
//
// errors.Is walks the whole chain, so wrapping with fmt.Errorf("...: %w")
// on the way up doesn't hide the kind:
//
//	service returns: fmt.Errorf("creating report: %w", apperror.ValidationFailed(...))
//	errors.Is walks: outer error → AppError → ErrValidation ✓ match!
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		for _, k := range errorKinds {
			if errors.Is(err, k.target) {
				writeJSON(w, k.status, ErrorResponse{
					Error:   k.kind,
					Message: appErr.Message,
					Field:   appErr.Field,
				})
				return
			}
		}
	}

	// Unknown error. NEVER expose internal details to the client: the raw
	// message might contain SQL or file paths.
	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a JSON body into dst. Malformed bodies become a 400
// through writeError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "request body is required")
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperror.ValidationFailed("body", fmt.Sprintf("request body must be %d bytes or less", tooBig.Limit))
		}
		return apperror.ValidationFailed("body", "invalid JSON body: "+err.Error())
	}
	return nil
}

// currentUser returns the caller's ID, writing a 401 if the auth
// middleware didn't set one.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
	}
	return userID, ok
}

// pagination reads ?limit= and ?offset=. Missing values are 0, which the
// service layer turns into its defaults.
func pagination(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a non-negative integer")
	}
	return n, nil
}
