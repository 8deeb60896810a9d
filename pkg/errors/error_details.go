package errors

// ErrorDetails represents one error occurrence: a message, the ErrorCode it
// maps to, and, for adapter failures tied to a specific field (a Redis key,
// a Kafka topic), which field that was.
type ErrorDetails struct {
	Message string
	Code    ErrorCode
	Field   string
}

// NewErrorDetails creates an ErrorDetails with the given message, code and
// field.
func NewErrorDetails(message string, code ErrorCode, field string) *ErrorDetails {
	return &ErrorDetails{Message: message, Code: code, Field: field}
}

// Error implements the error interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals reports whether err is an *ErrorDetails with the given
// code.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	d, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}
	return d.Code == code
}
