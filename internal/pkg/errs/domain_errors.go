package errs

// Sentinel errors shared by the command and query sides.
// Handlers translate them to HTTP statuses; callers compare with Is.
var (
	ErrNotFound           = New("not found")
	ErrUnauthorized       = New("unauthorized")
	ErrSlotConflict       = New("slot no longer available")
	ErrExpired            = New("reservation expired")
	ErrAlreadyConfirmed   = New("reservation already confirmed")
	ErrValidation         = New("validation error")
	ErrInvalidTransition  = New("invalid status transition")
	ErrPaymentNotVerified = New("payment not verified")

	ErrDatabaseOperationFailed = New("database operation failed")
)
