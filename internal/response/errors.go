package response

// ErrCode identifies an API error.
type ErrCode string

const (
	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrShapeMismatch  ErrCode = "SHAPE_MISMATCH"
	ErrInvalidProblem ErrCode = "INVALID_PROBLEM"

	// Resources
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrProblemNotFound ErrCode = "PROBLEM_NOT_FOUND"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrHintNotFound    ErrCode = "HINT_NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal    ErrCode = "INTERNAL_ERROR"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
	ErrCanceled    ErrCode = "REQUEST_CANCELED"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrShapeMismatch:
		return "The answer does not match the kind of answer this problem expects."
	case ErrInvalidProblem:
		return "The problem definition is invalid."

	case ErrNotFound:
		return "Resource not found."
	case ErrProblemNotFound:
		return "Problem not found."
	case ErrSessionNotFound:
		return "Practice session not found."
	case ErrHintNotFound:
		return "This problem has no hint with that id."
	case ErrConflict:
		return "Resource already exists."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	case ErrUnavailable:
		return "The service is temporarily unavailable."
	case ErrCanceled:
		return "The request was canceled."
	default:
		return "An unexpected error occurred."
	}
}
