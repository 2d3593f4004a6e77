package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Pricing error codes
const (
	// Decision outcomes
	CodeNoCompetitorData Code = "NO_COMPETITOR_DATA"

	// Scoring artifact
	CodeArtifactLoadFailed Code = "ARTIFACT_LOAD_FAILED"
	CodeArtifactInvalid    Code = "ARTIFACT_INVALID"
	CodeScoringFailed      Code = "SCORING_FAILED"

	// Catalog data
	CodeProductNotFound   Code = "PRODUCT_NOT_FOUND"
	CodeInventoryNotFound Code = "INVENTORY_NOT_FOUND"
	CodeDataSourceError   Code = "DATA_SOURCE_ERROR"
	CodeReportWriteFailed Code = "REPORT_WRITE_FAILED"

	// Circuit breaker
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
