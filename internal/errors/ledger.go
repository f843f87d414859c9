package errors

var (
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrDuplicateReference = &DomainError{
		Code:    "DUPLICATE_REFERENCE",
		Message: "transaction reference already exists",
	}
	ErrInvalidTransition = &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: "transaction status cannot move backwards",
	}
	ErrInvalidEvent = &DomainError{
		Code:    "INVALID_EVENT",
		Message: "payment event does not match the recorded transaction",
	}
)
