package errs

// 1xxx: request parsing and transport limits
const (
	// ErrInvalidParams indicates request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates an unsupported Content-Type header.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON request body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after a valid JSON body.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates multipart or url-encoded form parsing failed.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates the client exceeded its request rate budget.
	ErrRateLimitExceeded = 1007
)

// 2xxx: message content validation
const (
	// ErrEmptyMessage indicates a submission with no content and no attachment.
	ErrEmptyMessage = 2001

	// ErrMessageContentTooLong indicates message content exceeded the size limit.
	ErrMessageContentTooLong = 2002

	// ErrFileSizeTooLarge indicates an uploaded file exceeded the per-file limit.
	ErrFileSizeTooLarge = 2003

	// ErrNoFilesUploaded indicates an upload request carrying no files.
	ErrNoFilesUploaded = 2004
)

// 3xxx: identity and access
const (
	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = 3001

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3002

	// ErrInvalidUsername indicates a username that fails format validation.
	ErrInvalidUsername = 3003

	// ErrInvalidEmail indicates an email that fails format validation.
	ErrInvalidEmail = 3004

	// ErrInvalidPassword indicates a password outside the accepted length range.
	ErrInvalidPassword = 3005

	// ErrUserAlreadyExists indicates the username or email is already taken.
	ErrUserAlreadyExists = 3006

	// ErrUserNotFound indicates the account does not exist or is inactive.
	ErrUserNotFound = 3007

	// ErrNotMessageOwner indicates an authenticated user attempted to mutate
	// a message they do not own. Deliberately distinct from not-found so
	// clients cannot probe message existence through ownership errors.
	ErrNotMessageOwner = 3008
)

// 4xxx: resource lookup
const (
	// ErrMessageNotFound indicates the requested message id is unknown.
	ErrMessageNotFound = 4001
)

// 5xxx: internal failures
const (
	// ErrUnknown is the catch-all for unclassified server errors.
	ErrUnknown = 5000

	// ErrStoreFailure indicates a persistence-layer failure.
	ErrStoreFailure = 5001

	// ErrFileStorageFailed indicates a content-store save or delete failure.
	ErrFileStorageFailed = 5002
)
