package apierror

// Error type URIs following the urn:luna:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:luna:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:luna:error:not_found"

	// TypeConflict indicates a resource conflict (409)
	TypeConflict = "urn:luna:error:conflict"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:luna:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:luna:error:unauthorized"

	// TypeForbidden indicates insufficient permissions (403)
	TypeForbidden = "urn:luna:error:forbidden"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:luna:error:internal"

	// TypeReauthRequired indicates an integration needs to be reconnected (409)
	TypeReauthRequired = "urn:luna:error:reauth_required"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:luna:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation     = "Validation Error"
	TitleNotFound       = "Resource Not Found"
	TitleConflict       = "Resource Conflict"
	TitleRateLimit      = "Rate Limit Exceeded"
	TitleUnauthorized   = "Authentication Required"
	TitleForbidden      = "Permission Denied"
	TitleInternal       = "Internal Server Error"
	TitleReauthRequired = "Integration Reconnection Required"
	TitleBadRequest     = "Bad Request"
)
