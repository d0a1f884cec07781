package errors

import "errors"

// Error codes shared across domains. Handlers map these onto HTTP statuses;
// the recommendation service branches on CodeConfigMissing to enter the
// rule-based mode instead of failing the interaction.
const (
	CodeInvalidInput   = "invalid_input"
	CodeConfigMissing  = "config_missing"
	CodeLLMError       = "llm_error"
	CodeNutritionError = "nutrition_error"
	CodeNoMatches      = "no_matches"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handlers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
