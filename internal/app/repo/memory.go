package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"linguachat/internal/app/user"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/randx"
)

// MemoryRepository is the in-memory Repository backend used by the demo
// configuration. It stands in for a database with plain maps and slices,
// guarded by a single mutex.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account // keyed by user id
	byEmail  map[string]string  // email -> user id
	requests []FriendRequest
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]Account),
		byEmail:  make(map[string]string),
	}
}

// NewSeededMemoryRepository returns an in-memory repository pre-populated with
// the demo accounts (password "password123" for all three) and two accepted
// friendships linking the demo user to Alice and Bob.
func NewSeededMemoryRepository() *MemoryRepository {
	m := NewMemoryRepository()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		logx.Fatal(err, "Failed to hash demo account password")
	}

	seed := []user.User{
		{Name: "Demo User", Email: "demo@example.com", PreferredLanguage: "en"},
		{Name: "Alice Johnson", Email: "alice@example.com", PreferredLanguage: "es"},
		{Name: "Bob Smith", Email: "bob@example.com", PreferredLanguage: "fr"},
	}

	ctx := context.Background()
	created := make([]user.User, 0, len(seed))
	for _, u := range seed {
		stored, err := m.CreateUser(ctx, u, string(hash))
		if err != nil {
			logx.Fatal(err, "Failed to seed demo account", "email", u.Email)
		}
		created = append(created, stored)
	}

	for _, friend := range created[1:] {
		req, err := m.CreateFriendRequest(ctx, created[0].ID, friend.ID)
		if err != nil {
			logx.Fatal(err, "Failed to seed demo friendship")
		}
		if _, err := m.UpdateFriendRequestStatus(ctx, req.ID, friend.ID, StatusAccepted); err != nil {
			logx.Fatal(err, "Failed to accept seed demo friendship")
		}
	}

	return m
}

// CreateUser inserts a new account, assigning an id when the caller left it empty.
func (m *MemoryRepository) CreateUser(ctx context.Context, u user.User, passwordHash string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[u.Email]; taken {
		return user.User{}, ErrDuplicate
	}

	if u.ID == "" {
		u.ID = randx.UserID()
	}
	if u.PreferredLanguage == "" {
		u.PreferredLanguage = user.DefaultLanguage
	}

	m.accounts[u.ID] = Account{User: u, PasswordHash: passwordHash}
	m.byEmail[u.Email] = u.ID

	return u, nil
}

// FindUserByEmail returns the account registered under email.
func (m *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}

	return m.accounts[id], nil
}

// FindUserByID returns the user with the given id.
func (m *MemoryRepository) FindUserByID(ctx context.Context, id string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return user.User{}, ErrNotFound
	}

	return account.User, nil
}

// SetPreferredLanguage updates the stored translation preference for a user.
func (m *MemoryRepository) SetPreferredLanguage(ctx context.Context, id, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return ErrNotFound
	}

	account.User.PreferredLanguage = lang
	m.accounts[id] = account

	return nil
}

// PreferredLanguage returns the stored translation preference for a user.
func (m *MemoryRepository) PreferredLanguage(ctx context.Context, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return "", ErrNotFound
	}

	return account.User.PreferredLanguage, nil
}

// ListFriends returns the users linked to userID by an accepted request.
func (m *MemoryRepository) ListFriends(ctx context.Context, userID string) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	friends := make([]user.User, 0)
	for _, req := range m.requests {
		if req.Status != StatusAccepted {
			continue
		}

		var friendID string
		switch userID {
		case req.SenderID:
			friendID = req.ReceiverID
		case req.ReceiverID:
			friendID = req.SenderID
		default:
			continue
		}

		if account, ok := m.accounts[friendID]; ok {
			friends = append(friends, account.User)
		}
	}

	return friends, nil
}

// IsFriend reports whether an accepted request links a and b in either direction.
func (m *MemoryRepository) IsFriend(ctx context.Context, a, b string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, req := range m.requests {
		if req.Status != StatusAccepted {
			continue
		}
		if (req.SenderID == a && req.ReceiverID == b) || (req.SenderID == b && req.ReceiverID == a) {
			return true, nil
		}
	}

	return false, nil
}

// CreateFriendRequest inserts a pending request from senderID to receiverID.
func (m *MemoryRepository) CreateFriendRequest(ctx context.Context, senderID, receiverID string) (FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[receiverID]; !ok {
		return FriendRequest{}, ErrNotFound
	}

	for _, req := range m.requests {
		if (req.SenderID == senderID && req.ReceiverID == receiverID) ||
			(req.SenderID == receiverID && req.ReceiverID == senderID) {
			return FriendRequest{}, ErrDuplicate
		}
	}

	request := FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}
	m.requests = append(m.requests, request)

	return request, nil
}

// ListFriendRequests returns the pending requests addressed to receiverID.
func (m *MemoryRepository) ListFriendRequests(ctx context.Context, receiverID string) ([]FriendRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pending := make([]FriendRequest, 0)
	for _, req := range m.requests {
		if req.ReceiverID == receiverID && req.Status == StatusPending {
			pending = append(pending, req)
		}
	}

	return pending, nil
}

// UpdateFriendRequestStatus resolves a pending request addressed to receiverID.
func (m *MemoryRepository) UpdateFriendRequestStatus(ctx context.Context, requestID, receiverID string, status FriendRequestStatus) (FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, req := range m.requests {
		if req.ID != requestID {
			continue
		}

		if req.ReceiverID != receiverID || req.Status != StatusPending {
			return FriendRequest{}, ErrNotFound
		}

		m.requests[i].Status = status
		return m.requests[i], nil
	}

	return FriendRequest{}, ErrNotFound
}
