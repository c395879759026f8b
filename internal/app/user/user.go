/*
Package user contains core data structures related to user identity.

It defines the basic representation of a chat participant, used for passing
user information both internally and to clients.
*/
package user

// DefaultLanguage is assigned to accounts that register without a preferred language.
const DefaultLanguage = "en"

// User represents the basic identity information of a chat participant.
// Fields use JSON tags for serialization in WebSocket and HTTP payloads.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the account email address, unique per account.
	Email string `json:"email"`

	// PreferredLanguage is the ISO 639-1 code of the language the user wants
	// incoming messages translated into. The relay consults it to decide
	// whether a message needs translation; it is otherwise opaque to the core.
	PreferredLanguage string `json:"preferredLanguage"`
}
