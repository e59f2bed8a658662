package code

var codeMessageMap = map[int]string{
	ErrSuccess:         "success",
	ErrUnknown:         "unknown error",
	ErrBind:            "invalid request parameters",
	ErrValidation:      "validation failed",
	ErrTokenInvalid:    "invalid or expired session",
	ErrTooManyRequests: "too many requests",
	ErrForbidden:       "insufficient permissions",
	ErrUploadTooLarge:  "uploaded file is too large",
	ErrConflict:        "request conflicts with the current state",

	ErrUserNotFound:          "user not found",
	ErrUserAlreadyExist:      "username already taken",
	ErrUserPasswordIncorrect: "invalid username or password",
	ErrUserInactive:          "account is not active",
	ErrUserSelfDelete:        "you cannot delete your own account",

	ErrResidentNotFound:     "resident not found",
	ErrResidentAlreadyExist: "resident already exists",
	ErrResidentRoleTaken:    "household already has a resident in this role",

	ErrHouseholdNotFound:     "household not found",
	ErrHouseholdAlreadyExist: "household number already in use",
	ErrHouseholdHasMembers:   "household still has members",

	ErrBlotterNotFound:         "blotter not found",
	ErrBlotterArchiveFailed:    "failed to archive blotter",
	ErrArchivedBlotterNotFound: "archived blotter not found",

	ErrDocumentRequestNotFound: "document request not found",

	ErrDatabase:       "database error",
	ErrRecordNotFound: "record not found",
	ErrStorage:        "storage error",
}

var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrForbidden:       StatusForbidden,
	ErrUploadTooLarge:  StatusRequestEntityTooLarge,
	ErrConflict:        StatusConflict,

	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusConflict,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserInactive:          StatusForbidden,
	ErrUserSelfDelete:        StatusBadRequest,

	ErrResidentNotFound:     StatusNotFound,
	ErrResidentAlreadyExist: StatusConflict,
	ErrResidentRoleTaken:    StatusConflict,

	ErrHouseholdNotFound:     StatusNotFound,
	ErrHouseholdAlreadyExist: StatusConflict,
	ErrHouseholdHasMembers:   StatusConflict,

	ErrBlotterNotFound:         StatusNotFound,
	ErrBlotterArchiveFailed:    StatusInternalServerError,
	ErrArchivedBlotterNotFound: StatusNotFound,

	ErrDocumentRequestNotFound: StatusNotFound,

	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
	ErrStorage:        StatusInternalServerError,
}

// GetMessage returns the default message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
