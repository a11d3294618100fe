package analysis

import "fmt"

// Kind is the machine-checkable classification of an analysis failure.
type Kind string

const (
	KindEmptyInput             Kind = "empty_input"
	KindUnknownModel           Kind = "unknown_model"
	KindMissingCredential      Kind = "missing_credential"
	KindGatewayInitFailure     Kind = "gateway_init_failure"
	KindModelInvocationFailure Kind = "model_invocation_failure"
	KindPersistenceFailure     Kind = "persistence_failure"
)

// Error is the uniform failure type returned by the orchestrator. Every
// failure carries a human-readable message and a kind; invocation failures
// keep the underlying provider error reachable via Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
