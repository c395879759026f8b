/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrInvalidSendPayload:    {Code: ErrInvalidSendPayload, Message: "Failed to send message."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},

	// 2xxx: Friendship Business Logic Errors
	ErrFriendRequestExists:   {Code: ErrFriendRequestExists, Message: "Friendship request already exists.", Status: http.StatusBadRequest},
	ErrFriendRequestNotFound: {Code: ErrFriendRequestNotFound, Message: "Friend request not found.", Status: http.StatusNotFound},
	ErrNotFriends:            {Code: ErrNotFriends, Message: "You can only do this with a friend.", Status: http.StatusForbidden},
	ErrSelfFriendRequest:     {Code: ErrSelfFriendRequest, Message: "You cannot send a friend request to yourself.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password.", Status: http.StatusUnauthorized},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "This email is already registered.", Status: http.StatusBadRequest},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password.", Status: http.StatusBadRequest},
	ErrInvalidLanguage:    {Code: ErrInvalidLanguage, Message: "Invalid language code.", Status: http.StatusBadRequest},
	ErrSessionReplaced:    {Code: ErrSessionReplaced, Message: "You signed in from another device or tab."},

	// 4xxx: Translation Collaborator Errors
	ErrTranslationFailed: {Code: ErrTranslationFailed, Message: "Translation is temporarily unavailable."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
