package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrTransport     = errors.New("transport error")
	ErrDecode        = errors.New("decode error")
	ErrDevice        = errors.New("device error")
	ErrPersistence   = errors.New("persistence error")
	ErrIdentity      = errors.New("identity error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps an error onto the status code the gateway responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict), errors.Is(err, ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a short label for the first marker found in err, for logging.
func Kind(err error) string {
	for _, marker := range []error{
		ErrTransport, ErrDecode, ErrDevice, ErrPersistence, ErrIdentity,
		ErrValidation, ErrConfiguration, ErrNotFound, ErrConflict,
		ErrUnauthorized, ErrForbidden,
	} {
		if errors.Is(err, marker) {
			return strings.ReplaceAll(marker.Error(), " ", "_")
		}
	}
	if err == nil {
		return ""
	}
	return "unknown"
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
