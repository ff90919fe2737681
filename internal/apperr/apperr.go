// Package apperr defines the error taxonomy shared across the pipeline.
// Callers match on the sentinel kinds with errors.Is and unwrap the
// structured variants with errors.As.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing project, artifact, or stage.
	ErrNotFound = errors.New("not found")

	// ErrPrecondition marks a stage whose required artifacts are not approved.
	ErrPrecondition = errors.New("precondition failed")

	// ErrValidation marks malformed plan or content structure.
	ErrValidation = errors.New("validation failed")

	// ErrConcurrency marks an optimistic version conflict. Retryable after reload.
	ErrConcurrency = errors.New("concurrent modification")

	// ErrConfiguration marks an invalid stage registration. Startup-fatal.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPersistence marks a storage backend failure.
	ErrPersistence = errors.New("persistence failure")

	// ErrExternalService marks a collaborator timeout or failure.
	ErrExternalService = errors.New("external service failure")
)

// Error wraps a sentinel kind with a detail message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound builds an ErrNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds an ErrValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Configuration builds an ErrConfiguration error.
func Configuration(format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// Persistence builds an ErrPersistence error wrapping the backend cause.
func Persistence(op string, cause error) error {
	return &Error{Kind: ErrPersistence, Msg: fmt.Sprintf("%s: %v", op, cause)}
}

// Concurrency builds an ErrConcurrency error naming the conflicting record.
func Concurrency(projectID, artifactType string, baseVersion int) error {
	return &Error{
		Kind: ErrConcurrency,
		Msg:  fmt.Sprintf("%s/%s: base version %d is stale", projectID, artifactType, baseVersion),
	}
}

// External builds an ErrExternalService error wrapping the collaborator cause.
func External(op string, cause error) error {
	return &Error{Kind: ErrExternalService, Msg: fmt.Sprintf("%s: %v", op, cause)}
}

// PreconditionError reports unmet stage prerequisites. It carries the
// missing artifact types so the presentation layer can name them.
type PreconditionError struct {
	Stage   string
	Missing []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: stage %s requires approved artifacts: %s",
		e.Stage, strings.Join(e.Missing, ", "))
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// Precondition builds a PreconditionError for the given stage.
func Precondition(stage string, missing []string) error {
	return &PreconditionError{Stage: stage, Missing: missing}
}
