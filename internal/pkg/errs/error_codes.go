/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005

	// ErrInvalidSendPayload indicates that a send-message event was missing
	// required fields (content or receiver id). Reported to the sender only.
	ErrInvalidSendPayload = 1101

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 1102
)

// 2xxx: Friendship Business Logic Errors
const (
	// ErrFriendRequestExists indicates a friendship or pending request already links the two users.
	ErrFriendRequestExists = 2101

	// ErrFriendRequestNotFound indicates the friend request id does not exist or is not addressed to the caller.
	ErrFriendRequestNotFound = 2102

	// ErrNotFriends indicates the requested operation requires an accepted friendship.
	ErrNotFriends = 2103

	// ErrSelfFriendRequest indicates a user attempted to send a friend request to themselves.
	ErrSelfFriendRequest = 2104
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing, malformed, expired, or otherwise invalid credential.
	ErrUnauthorized = 3001

	// ErrInvalidCredentials indicates the email/password combination did not match any account.
	ErrInvalidCredentials = 3002

	// ErrUserAlreadyExists indicates the email is already registered.
	ErrUserAlreadyExists = 3003

	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = 3004

	// ErrInvalidEmail indicates the supplied email address failed validation.
	ErrInvalidEmail = 3005

	// ErrInvalidPassword indicates the supplied password failed validation.
	ErrInvalidPassword = 3006

	// ErrInvalidLanguage indicates the supplied preferred-language code failed validation.
	ErrInvalidLanguage = 3007

	// ErrSessionReplaced indicates the connection was closed because the same
	// user identity opened a newer connection.
	ErrSessionReplaced = 3008
)

// 4xxx: Translation Collaborator Errors
const (
	// ErrTranslationFailed indicates the translation collaborator was unreachable,
	// returned a non-2xx status, or produced a malformed body. Never fatal to delivery.
	ErrTranslationFailed = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
