package errors

const (
	NoTokenError              = "No token provided"
	InvalidTokenError         = "Invalid token"
	DiverNotFound             = "Diver not found"
	DiveCentreNotFound        = "Dive centre not found"
	EmailAlreadyExist         = "Email already exists in database"
	DiverAlreadyRegistered    = "Diver already registered"
	CentreAlreadyRegistered   = "Dive centre already registered"
	InvalidRequestFormatError = "Invalid request format"
	NoPhotoUploaded           = "No photo uploaded"
	DateRangeError            = "startDate and endDate must be provided together"
	InvalidMaxPriceError      = "maxPrice must be a number"
	MissingMessageFields      = "receiverId and content are required"
	BookingReconcileError     = "Booking partially applied, reconciliation required"
	ServiceUnavailableError   = "Service unavailable"
)
