package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"   // missing credentials
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"  // token past its expiry
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"  // malformed or badly signed token

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // caller lacks permission
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // no role on the request
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // resource belongs to someone else

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // unique slug or SKU taken
	ResourceConflict      = "RESOURCE_CONFLICT"       // state does not allow the change
	ResourceInUse         = "RESOURCE_IN_USE"         // still referenced, delete refused

	// ==================== Orders (ORDER_) ====================
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderNotEditable       = "ORDER_NOT_EDITABLE"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
