package errors

var (
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrEmailTaken = &DomainError{
		Code:    "EMAIL_TAKEN",
		Message: "email already registered",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
	}
	ErrAPIKeyNotFound = &DomainError{
		Code:    "API_KEY_NOT_FOUND",
		Message: "API key not found",
	}
	ErrAPIKeyRevoked = &DomainError{
		Code:    "API_KEY_REVOKED",
		Message: "API key has been revoked",
	}
)
