package zimbra

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrNotFound: das Objekt existiert auf dem Server nicht (mehr).
	ErrNotFound      = errors.New("zimbra: task object not found")
	ErrUnauthorized  = errors.New("zimbra: not authorized")
	ErrNotConfigured = errors.New("zimbra: adapter not configured")
)

type StatusError struct {
	Code   int
	Method string
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zimbra: %s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound || e.Code == http.StatusGone || e.Code == http.StatusPreconditionFailed
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	}
	return false
}

// IsNotFound erkennt auch Fehler, die die CalDAV-Bibliothek nur als Text
// weiterreicht.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	// Pfad enthält E-Mail und UID, daher zählt bei StatusError nur der Code.
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"404", "410", "412", "not found"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// IsTransient: Netzwerkfehler, Timeouts, 429 und 5xx. Alles andere gilt als
// dauerhaft und wird nicht automatisch wiederholt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"timeout", "connection refused", "connection reset", "eof", "no such host"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
