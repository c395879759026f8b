package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for LinguaChat.
// It carries the identity of the connecting user: the subject user id and the
// account email. Both the HTTP API and the WebSocket relay authenticate against
// the same payload shape.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the unique identifier of the account the token was issued to.
	UserID string `json:"userId"`

	// Email is the account email, carried so the relay can log a human-readable
	// identity without a repository lookup.
	Email string `json:"email"`
}
