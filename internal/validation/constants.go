package validation

// Amounts are int64 minor units (kobo).
const (
	// Amount limits
	MinTransactionAmount int64 = 100           // 1.00 NGN
	MaxTransactionAmount int64 = 1_000_000_000 // 10,000,000.00 NGN

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit

	// String lengths
	MaxLabelLength     = 100
	MaxReferenceLength = 100
)
