package code

// HTTP status codes.
const (
	// StatusOK - 200.
	StatusOK = 200
	// StatusCreated - 201.
	StatusCreated = 201
	// StatusBadRequest - 400.
	StatusBadRequest = 400
	// StatusUnauthorized - 401.
	StatusUnauthorized = 401
	// StatusForbidden - 403.
	StatusForbidden = 403
	// StatusNotFound - 404.
	StatusNotFound = 404
	// StatusConflict - 409.
	StatusConflict = 409
	// StatusRequestEntityTooLarge - 413.
	StatusRequestEntityTooLarge = 413
	// StatusTooManyRequests - 429.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500.
	StatusInternalServerError = 500
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body could not be bound.
	ErrBind
	// ErrValidation - 400: request failed validation.
	ErrValidation
	// ErrTokenInvalid - 401: token invalid or session expired.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: rate limited.
	ErrTooManyRequests
	// ErrForbidden - 403: role not permitted.
	ErrForbidden
	// ErrUploadTooLarge - 413: upload exceeds limit.
	ErrUploadTooLarge
	// ErrConflict - 409: write conflicts with the current state.
	ErrConflict
)

// User errors (101xxx).
const (
	// ErrUserNotFound - 404.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401.
	ErrUserPasswordIncorrect
	// ErrUserInactive - 403.
	ErrUserInactive
	// ErrUserSelfDelete - 400.
	ErrUserSelfDelete
)

// Resident errors (103xxx).
const (
	// ErrResidentNotFound - 404.
	ErrResidentNotFound int = iota + 103000
	// ErrResidentAlreadyExist - 409.
	ErrResidentAlreadyExist
	// ErrResidentRoleTaken - 409: household already has a family head or wife.
	ErrResidentRoleTaken
)

// Household errors (106xxx).
const (
	// ErrHouseholdNotFound - 404.
	ErrHouseholdNotFound int = iota + 106000
	// ErrHouseholdAlreadyExist - 409.
	ErrHouseholdAlreadyExist
	// ErrHouseholdHasMembers - 409.
	ErrHouseholdHasMembers
)

// Blotter errors (107xxx).
const (
	// ErrBlotterNotFound - 404.
	ErrBlotterNotFound int = iota + 107000
	// ErrBlotterArchiveFailed - 500: status persisted nowhere, archive rolled back.
	ErrBlotterArchiveFailed
	// ErrArchivedBlotterNotFound - 404.
	ErrArchivedBlotterNotFound
)

// Document request errors (108xxx).
const (
	// ErrDocumentRequestNotFound - 404.
	ErrDocumentRequestNotFound int = iota + 108000
)

// Database errors (105xxx).
const (
	// ErrDatabase - 500.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404.
	ErrRecordNotFound
	// ErrStorage - 500: blob storage failure.
	ErrStorage
)
