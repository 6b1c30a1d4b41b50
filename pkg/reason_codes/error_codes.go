package reasoncodes

type ReasonCode string

const (
	ErrDuplicateIdentity ReasonCode = "DuplicateIdentityError"
	ErrDuplicateUsername ReasonCode = "DuplicateUsernameError"
	ErrNotFound          ReasonCode = "NotFoundError"
	ErrInvalidRequest    ReasonCode = "InvalidRequestError"
	ErrStorage           ReasonCode = "StorageError"
	ErrUnauthorized      ReasonCode = "UnauthorizedError"
)
