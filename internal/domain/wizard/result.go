package wizard

// Violation codes mirror the wizard's error taxonomy. Business-rule failures
// are carried inside the Result envelope, never as Go errors.
const (
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeDependencyFailure = "DEPENDENCY_FAILURE"
)

// Violation is a single failed check.
type Violation struct {
	Code   string `json:"code"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// FieldViolation builds a VALIDATION_FAILED violation for one field.
func FieldViolation(field, reason string) Violation {
	return Violation{Code: CodeValidationFailed, Field: field, Reason: reason}
}

// Result is the uniform envelope every transition returns.
type Result struct {
	Success bool        `json:"success"`
	Stage   Stage       `json:"stage"`
	State   string      `json:"currentState"`
	Errors  []Violation `json:"errors,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// OK builds a successful result.
func OK(stage Stage, state string, payload interface{}) Result {
	return Result{Success: true, Stage: stage, State: state, Payload: payload}
}

// Fail builds a failed result carrying the given violations.
func Fail(stage Stage, state string, errs ...Violation) Result {
	return Result{Success: false, Stage: stage, State: state, Errors: errs}
}

// IllegalTransition builds a failed result for an event not legal from the
// current state.
func IllegalTransition(stage Stage, state, reason string) Result {
	return Fail(stage, state, Violation{Code: CodeIllegalTransition, Reason: reason})
}

// DependencyFailure builds a failed result for a collaborator error. The
// session is left exactly as it was before the transition.
func DependencyFailure(stage Stage, state string, err error) Result {
	return Fail(stage, state, Violation{Code: CodeDependencyFailure, Reason: err.Error()})
}
