// Package llm generates free-text financial advice through an external
// model. Failures are classified into distinguishable kinds so callers can
// always pick a deterministic local fallback.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FailureKind enumerates the distinguishable ways an advice request fails.
type FailureKind string

const (
	FailNoKey         FailureKind = "NO_KEY"
	FailInvalidKey    FailureKind = "INVALID_KEY"
	FailRateLimit     FailureKind = "RATE_LIMIT"
	FailEmptyResponse FailureKind = "EMPTY_RESPONSE"
	FailAPIError      FailureKind = "API_ERROR"
	FailNetworkError  FailureKind = "NETWORK_ERROR"
)

// Error wraps a provider failure with its kind.
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err, defaulting to NETWORK_ERROR
// for anything unclassified.
func KindOf(err error) FailureKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return FailNetworkError
}

// classifyAPIError maps a raw provider error to a kind by inspecting the
// HTTP status embedded in its message.
func classifyAPIError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: FailNetworkError, Err: err}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "400") || strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return &Error{Kind: FailInvalidKey, Err: err}
	case strings.Contains(msg, "429"):
		return &Error{Kind: FailRateLimit, Err: err}
	case strings.Contains(msg, "deadline") || strings.Contains(msg, "connection") || strings.Contains(msg, "dial"):
		return &Error{Kind: FailNetworkError, Err: err}
	default:
		return &Error{Kind: FailAPIError, Err: err}
	}
}

// Client is the provider-side contract: one prompt in, free text out.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var fallbackMessages = map[FailureKind]string{
	FailNoKey:         "Configura tu API key en ajustes para recibir consejos personalizados. Mientras tanto, revisa los análisis locales.",
	FailInvalidKey:    "Tu API key parece inválida o expiró. Verifícala en ajustes.",
	FailRateLimit:     "El asesor está saturado por ahora. Intenta de nuevo en unos minutos; tus análisis locales siguen disponibles.",
	FailEmptyResponse: "El asesor no devolvió contenido esta vez. Intenta de nuevo.",
	FailAPIError:      "El servicio de consejos falló. Tus análisis locales siguen disponibles.",
	FailNetworkError:  "Sin conexión con el asesor. Revisa tu red; tus análisis locales siguen disponibles.",
}

// FallbackMessage returns the deterministic user-facing message for a
// failure kind.
func FallbackMessage(kind FailureKind) string {
	if msg, ok := fallbackMessages[kind]; ok {
		return msg
	}
	return fallbackMessages[FailNetworkError]
}
