package commonerrors

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		KindValidation,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		KindValidation,
		"JWT_SECRET must be at least 32 bytes",
	)

	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		KindUnauthorized,
		"missing or invalid authorization",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		KindUnauthorized,
		"token is not valid",
	)

	ErrMissingUserFields = NewDomainError(
		"MISSING_USER_FIELDS",
		KindValidation,
		"username, password, first name, last name and phone are required",
	)

	ErrUsernameTooLong = NewDomainError(
		"USERNAME_TOO_LONG",
		KindValidation,
		"username exceeds maximum length",
	)

	ErrUsernameAlreadyExists = NewDomainError(
		"USERNAME_ALREADY_EXISTS",
		KindConflict,
		"username already exists",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		KindNotFound,
		"user not found",
	)

	ErrMissingRecipient = NewDomainError(
		"MISSING_RECIPIENT",
		KindValidation,
		"recipient username is required",
	)

	ErrEmptyMessageBody = NewDomainError(
		"EMPTY_MESSAGE_BODY",
		KindValidation,
		"message body cannot be empty",
	)

	ErrMessageTooLong = NewDomainError(
		"MESSAGE_TOO_LONG",
		KindValidation,
		"message body exceeds maximum length",
	)

	ErrParticipantNotFound = NewDomainError(
		"PARTICIPANT_NOT_FOUND",
		KindNotFound,
		"message participant does not exist",
	)

	ErrMessageNotFound = NewDomainError(
		"MESSAGE_NOT_FOUND",
		KindNotFound,
		"message not found",
	)

	ErrMessageAlreadyRead = NewDomainError(
		"MESSAGE_ALREADY_READ",
		KindState,
		"message is already marked read",
	)

	ErrUnauthorized = NewDomainError(
		"UNAUTHORIZED",
		KindUnauthorized,
		"not allowed to access this resource",
	)

	// ErrBrokenParticipantLink means a message references a user row that no
	// longer resolves. The foreign keys make this impossible in correct
	// operation, so it is surfaced loudly instead of being skipped.
	ErrBrokenParticipantLink = NewDomainError(
		"BROKEN_PARTICIPANT_LINK",
		KindConsistency,
		"message references an unknown user",
	)

	ErrDatabaseError = NewDomainError(
		"DATABASE_ERROR",
		KindInternal,
		"database operation failed",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		KindInternal,
		"internal server error",
	)
)
