package errors

var (
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrWalletExists = &DomainError{
		Code:    "WALLET_EXISTS",
		Message: "user already has a wallet",
	}
	ErrSelfTransfer = &DomainError{
		Code:    "SELF_TRANSFER",
		Message: "cannot transfer to own wallet",
	}
	ErrWalletNumbersExhausted = &DomainError{
		Code:    "WALLET_NUMBERS_EXHAUSTED",
		Message: "could not allocate a unique wallet number",
	}
	ErrWalletNumberTaken = &DomainError{
		Code:    "WALLET_NUMBER_TAKEN",
		Message: "wallet number already assigned",
	}
)
