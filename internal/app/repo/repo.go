/*
Package repo defines the repository capability behind the HTTP API and the relay.

The interface abstracts the storage of accounts and friendships so the core's
contract does not depend on the storage technology: the demo configuration uses
a seeded in-memory store, while a DATABASE_URL selects the PostgreSQL backend.
*/
package repo

import (
	"context"
	"errors"
	"time"

	"linguachat/internal/app/user"
)

// Sentinel errors returned by every Repository implementation.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repo: not found")

	// ErrDuplicate indicates a uniqueness constraint was violated
	// (registered email, existing friendship link).
	ErrDuplicate = errors.New("repo: duplicate")
)

// FriendRequestStatus enumerates the lifecycle of a friendship link.
type FriendRequestStatus string

const (
	StatusPending  FriendRequestStatus = "pending"
	StatusAccepted FriendRequestStatus = "accepted"
	StatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed friendship link between two users.
// An accepted request is the friendship itself; there is no separate table.
type FriendRequest struct {
	ID         string              `json:"id"`
	SenderID   string              `json:"senderId"`
	ReceiverID string              `json:"receiverId"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// Account couples the public user value with the stored password hash.
// Only the login path needs the hash; everything else passes user.User around.
type Account struct {
	User         user.User
	PasswordHash string
}

// Repository is the injected storage capability.
// All methods are safe for concurrent use.
type Repository interface {
	// CreateUser inserts a new account. Returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, u user.User, passwordHash string) (user.User, error)

	// FindUserByEmail returns the account registered under email, or ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (Account, error)

	// FindUserByID returns the user with the given id, or ErrNotFound.
	FindUserByID(ctx context.Context, id string) (user.User, error)

	// SetPreferredLanguage updates the stored translation preference for a user.
	SetPreferredLanguage(ctx context.Context, id, lang string) error

	// PreferredLanguage returns the stored translation preference for a user.
	// The relay treats an ErrNotFound result as "no translation needed".
	PreferredLanguage(ctx context.Context, id string) (string, error)

	// ListFriends returns the users linked to userID by an accepted request.
	ListFriends(ctx context.Context, userID string) ([]user.User, error)

	// IsFriend reports whether an accepted request links a and b (either direction).
	IsFriend(ctx context.Context, a, b string) (bool, error)

	// CreateFriendRequest inserts a pending request from senderID to receiverID.
	// Returns ErrDuplicate when any request already links the two users.
	CreateFriendRequest(ctx context.Context, senderID, receiverID string) (FriendRequest, error)

	// ListFriendRequests returns the pending requests addressed to receiverID.
	ListFriendRequests(ctx context.Context, receiverID string) ([]FriendRequest, error)

	// UpdateFriendRequestStatus resolves a pending request addressed to receiverID.
	// Returns ErrNotFound when the request does not exist, is not pending, or is
	// not addressed to receiverID.
	UpdateFriendRequestStatus(ctx context.Context, requestID, receiverID string, status FriendRequestStatus) (FriendRequest, error)
}
