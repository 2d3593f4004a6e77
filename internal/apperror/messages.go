package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	CodeNoCompetitorData: "No competitor prices available, price cannot be computed",

	CodeArtifactLoadFailed: "Failed to load scoring artifact",
	CodeArtifactInvalid:    "Scoring artifact is invalid",
	CodeScoringFailed:      "Scoring artifact failed to produce a price",

	CodeProductNotFound:   "Product not found in competitor data",
	CodeInventoryNotFound: "Product not found in inventory data",
	CodeDataSourceError:   "Failed to read pricing data",
	CodeReportWriteFailed: "Failed to write price report",

	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
