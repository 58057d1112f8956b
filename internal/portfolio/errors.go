package portfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates missing or malformed input, raised before any external effect.
	ErrValidation = errors.New("validation error")

	// ErrUnknownTemplate indicates a template id outside the registry.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrUnknownFrontendType indicates a frontend type outside the registry.
	ErrUnknownFrontendType = errors.New("unknown frontend type")

	// ErrRender indicates field data that cannot be carried through a placeholder.
	ErrRender = errors.New("render error")

	// ErrPackaging indicates an archive invariant violation.
	ErrPackaging = errors.New("packaging error")

	// ErrConnectivity indicates a collaborator could not be reached.
	ErrConnectivity = errors.New("connectivity error")
)

// Provider names a hosting collaborator.
type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderVercel Provider = "vercel"
)

// ProviderError reports a failed GitHub or Vercel call. RepoURL is set whenever
// a repository exists at the time of failure, so callers can clean up or retry.
type ProviderError struct {
	Provider Provider
	Step     string
	RepoURL  string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Provider, e.Step)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.RepoURL != "" {
		msg += " (repository created: " + e.RepoURL + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Validationf wraps ErrValidation with a message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
